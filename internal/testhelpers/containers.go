// Package testhelpers provides containerized infrastructure for integration testing.
//
// This approach uses testcontainers-go to run a NATS server in Docker, so the
// notifier integration tests need nothing installed locally except Docker.
package testhelpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NATSImage is the NATS server image used by SetupNATSContainer.
const NATSImage = "nats:2.10-alpine"

// NATSContainer provides a containerized NATS server with JetStream enabled.
//
// Example usage:
//
//	func TestWithNATS(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping container-based test in short mode")
//	    }
//	    srv, cleanup := testhelpers.SetupNATSContainer(t)
//	    defer cleanup()
//
//	    conn, err := nats.Connect(srv.URL)
//	    // ... test code ...
//	}
type NATSContainer struct {
	// URL is the client URL reachable from the host, e.g. nats://localhost:32768.
	URL string

	// Container is the running NATS container.
	Container testcontainers.Container
}

// SetupNATSContainer starts a NATS server with JetStream and waits until it
// accepts clients.
//
// Requirements:
//   - Docker daemon running and accessible
//
// The container is automatically removed when the test completes via t.Cleanup().
func SetupNATSContainer(t *testing.T) (*NATSContainer, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        NATSImage,
		ExposedPorts: []string{"4222/tcp"},
		Cmd:          []string{"-js"},
		WaitingFor:   wait.ForLog("Server is ready").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start NATS container: %v", err)
	}

	nc := &NATSContainer{Container: container}

	cleanup := func() {
		if nc.Container == nil {
			return
		}
		t.Log("Terminating NATS container...")
		if err := nc.Container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate NATS container: %v", err)
		}
		nc.Container = nil
	}
	t.Cleanup(cleanup)

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get NATS host: %v", err)
	}
	port, err := container.MappedPort(ctx, "4222")
	if err != nil {
		t.Fatalf("Failed to get NATS port: %v", err)
	}

	nc.URL = fmt.Sprintf("nats://%s:%d", host, port.Int())
	t.Logf("NATS server started: %s", nc.URL)

	return nc, cleanup
}
