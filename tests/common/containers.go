package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const portalPort = "4240/tcp"

var (
	portalBuildOnce  sync.Once
	portalBuildError error
	portalContainer  *PortalContainer
	portalOnce       sync.Once
	portalStartErr   error
)

// PortalContainer wraps a testcontainers environment: a fixture investors API
// (nginx serving JSON files) and the portal.
type PortalContainer struct {
	portal  testcontainers.Container
	api     testcontainers.Container
	network *testcontainers.DockerNetwork
	ctx     context.Context
	cancel  context.CancelFunc
	url     string
}

// URL returns the base URL of the running portal container.
func (p *PortalContainer) URL() string {
	return p.url
}

// CollectLogs saves container stdout/stderr to dir/.
func (p *PortalContainer) CollectLogs(dir string) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	os.MkdirAll(dir, 0755)

	collectContainerLog := func(c testcontainers.Container, name string) {
		if c == nil {
			return
		}
		reader, err := c.Logs(ctx)
		if err != nil {
			return
		}
		defer reader.Close()

		logs, err := io.ReadAll(reader)
		if err != nil {
			return
		}
		os.WriteFile(filepath.Join(dir, name+".log"), logs, 0644)
	}

	collectContainerLog(p.portal, "portal")
	collectContainerLog(p.api, "investors-api")
}

// Cleanup tears down all containers and the network.
// Uses a fresh context for teardown in case the main context expired.
func (p *PortalContainer) Cleanup() {
	if p == nil {
		return
	}

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cleanupCancel()

	if p.portal != nil {
		p.portal.Terminate(cleanupCtx)
	}
	if p.api != nil {
		p.api.Terminate(cleanupCtx)
	}
	if p.network != nil {
		p.network.Remove(cleanupCtx)
	}
	if p.cancel != nil {
		p.cancel()
	}
}

// buildPortalImage builds the investor-portal:test Docker image once per test run.
func buildPortalImage() error {
	portalBuildOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    FindProjectRoot(),
					Dockerfile: "tests/docker/Dockerfile.portal",
					Repo:       "investor-portal",
					Tag:        "test",
					KeepImage:  true,
				},
			},
		}

		_, portalBuildError = testcontainers.GenericContainer(ctx, req)
		if portalBuildError != nil {
			// Image may have built successfully even if container creation failed
			if strings.Contains(portalBuildError.Error(), "investor-portal:test") {
				portalBuildError = nil
			}
		}
	})
	return portalBuildError
}

// withFixtureFiles copies the investors API fixtures into the nginx container.
func withFixtureFiles(root string) testcontainers.CustomizeRequestOption {
	return func(req *testcontainers.GenericContainerRequest) error {
		fixtures := filepath.Join(root, "tests", "docker", "investors-api")
		req.Files = append(req.Files,
			testcontainers.ContainerFile{
				HostFilePath:      filepath.Join(fixtures, "nginx.conf"),
				ContainerFilePath: "/etc/nginx/conf.d/default.conf",
				FileMode:          0o644,
			},
			testcontainers.ContainerFile{
				HostFilePath:      filepath.Join(fixtures, "data"),
				ContainerFilePath: "/usr/share/nginx",
				FileMode:          0o755,
			},
		)
		return nil
	}
}

// startTestEnvironment creates the 2-container environment:
// investors API fixture -> investor-portal, on a shared Docker network.
func startTestEnvironment() (*PortalContainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)

	testNet, err := network.New(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create docker network: %w", err)
	}

	apiContainer, err := testcontainers.Run(ctx, "nginx:1.27-alpine",
		testcontainers.WithExposedPorts("80/tcp"),
		network.WithNetwork([]string{"investors-api"}, testNet),
		withFixtureFiles(FindProjectRoot()),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/investors").WithPort("80/tcp").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("start investors api: %w", err)
	}

	// Container IP bypasses Docker DNS for the static CGO_ENABLED=0 binary.
	apiIP, err := apiContainer.ContainerIP(ctx)
	if err != nil {
		apiContainer.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("get investors api IP: %w", err)
	}

	portalCtr, err := testcontainers.Run(ctx, "investor-portal:test",
		testcontainers.WithExposedPorts(portalPort),
		network.WithNetwork([]string{"investor-portal"}, testNet),
		testcontainers.WithEnv(map[string]string{
			"PORTAL_API_URL":     fmt.Sprintf("http://%s:80", apiIP),
			"PORTAL_ENV":         "dev",
			"PORTAL_SERVER_HOST": "0.0.0.0",
			"PORTAL_LOG_LEVEL":   "debug",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/health").WithPort(portalPort).WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		apiContainer.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("start investor-portal: %w", err)
	}

	mappedPort, err := portalCtr.MappedPort(ctx, portalPort)
	if err != nil {
		portalCtr.Terminate(ctx)
		apiContainer.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("get portal mapped port: %w", err)
	}

	host, err := portalCtr.Host(ctx)
	if err != nil {
		portalCtr.Terminate(ctx)
		apiContainer.Terminate(ctx)
		testNet.Remove(ctx)
		cancel()
		return nil, fmt.Errorf("get portal host: %w", err)
	}

	return &PortalContainer{
		portal:  portalCtr,
		api:     apiContainer,
		network: testNet,
		ctx:     ctx,
		cancel:  cancel,
		url:     fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
	}, nil
}

// StartPortalForTestMain starts the test environment for use in TestMain (no *testing.T).
// Returns (nil, nil) when Settings.PortalURL is set (manual mode).
func StartPortalForTestMain() (*PortalContainer, error) {
	if LoadSettings().PortalURL != "" {
		return nil, nil
	}

	portalOnce.Do(func() {
		if err := buildPortalImage(); err != nil {
			portalStartErr = fmt.Errorf("build portal image: %w", err)
			return
		}
		var err error
		portalContainer, err = startTestEnvironment()
		if err != nil {
			portalStartErr = err
		}
	})

	if portalStartErr != nil {
		return nil, portalStartErr
	}
	return portalContainer, nil
}
