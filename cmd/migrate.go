package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/planner/infra/logger"
	"github.com/kilianp07/planner/infra/sqlstore"
)

var dryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "only list pending migrations")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logger.New("migrate")
	store, err := sqlstore.Open(cmd.Context(), cfg.Store, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if dryRun {
		pending, err := store.Pending(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range pending {
			log.Infof("pending %s", name)
		}
		log.Infof("%d pending migrations", len(pending))
		return nil
	}
	applied, err := store.Migrate(cmd.Context())
	if err != nil {
		return err
	}
	for _, name := range applied {
		log.Infof("applied %s", name)
	}
	log.Infof("%d migrations applied", len(applied))
	return nil
}
