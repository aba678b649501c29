package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kilianp07/planner/app"
	"github.com/kilianp07/planner/core/planner"
	"github.com/kilianp07/planner/infra/logger"
	"github.com/kilianp07/planner/internal/seed"
)

var seedPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load skills, contributors and periods from a YAML file",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedPath, "file", "f", "", "seed file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedPath == "" {
		return errors.New("--file is required")
	}
	f, err := seed.Load(seedPath)
	if err != nil {
		return err
	}
	store, err := app.OpenStore(cmd.Context(), cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	log := logger.New("seed")
	svc := planner.NewService(store, log, nil, nil)
	sum, err := seed.Apply(cmd.Context(), svc, f, log)
	if err != nil {
		return err
	}
	log.Infow("seed applied", map[string]any{
		"skills":       sum.Skills,
		"contributors": sum.Contributors,
		"periods":      sum.Periods,
		"projects":     sum.Projects,
		"components":   sum.Components,
		"assignments":  sum.Assignments,
	})
	return nil
}
