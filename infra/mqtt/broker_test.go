package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/planner/core/planner"
	"github.com/kilianp07/planner/internal/eventbus"
)

const mosquittoConf = `listener 1883
allow_anonymous true
persistence false
log_dest stdout
`

func startMosquitto(t *testing.T) string {
	t.Helper()
	if os.Getenv("DOCKER_AVAILABLE") != "true" && os.Getenv("DOCKER_AVAILABLE") != "1" {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mosquitto.conf")
	require.NoError(t, os.WriteFile(path, []byte(mosquittoConf), 0o644))

	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "eclipse-mosquitto:2.0",
			ExposedPorts: []string{"1883/tcp"},
			WaitingFor:   wait.ForListeningPort("1883/tcp"),
			Files: []tc.ContainerFile{{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0o644,
			}},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cont.Terminate(ctx) })

	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, "1883")
	require.NoError(t, err)
	return fmt.Sprintf("tcp://%s:%s", host, port.Port())
}

// TestRelayAgainstBroker publishes a change through a real broker.
func TestRelayAgainstBroker(t *testing.T) {
	broker := startMosquitto(t)

	received := make(chan paho.Message, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("planner-test-sub"))
	token := sub.Connect()
	require.True(t, token.WaitTimeout(10*time.Second))
	require.NoError(t, token.Error())
	defer sub.Disconnect(100)
	token = sub.Subscribe("planner/changes/#", 1, func(_ paho.Client, m paho.Message) { received <- m })
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())

	pub, err := NewPublisher(Config{Broker: broker, QoS: 1}, nil)
	require.NoError(t, err)
	defer pub.Disconnect()

	bus := eventbus.NewTyped[planner.Change](4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewRelay(bus, pub, nil).Start(ctx)

	bus.Publish(planner.Change{Kind: planner.ChangePeriodCreated, EntityID: "per-1", PeriodID: "per-1", Time: time.Now().UTC()})

	select {
	case m := <-received:
		assert.Equal(t, "planner/changes/period.created", m.Topic())
		var c planner.Change
		require.NoError(t, json.Unmarshal(m.Payload(), &c))
		assert.Equal(t, "per-1", c.EntityID)
	case <-time.After(10 * time.Second):
		t.Fatal("change not received")
	}
}
