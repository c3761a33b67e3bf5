/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package testutil starts local database servers that stand in for RDS endpoints.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mariadb"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/rds-controller-e2e/internal/dbcheck"
)

// DatabaseContainer is a running database server reachable as a dbcheck.Endpoint.
type DatabaseContainer struct {
	container testcontainers.Container
	endpoint  dbcheck.Endpoint
	mu        sync.Mutex
}

// DatabaseContainerConfig holds configuration for starting a database container
type DatabaseContainerConfig struct {
	Engine   string // RDS engine name: "postgres", "mysql" or "mariadb"
	Image    string // optional, uses default if empty
	User     string
	Password string
	Database string
}

// StartDatabaseContainer starts a database container for an RDS engine name.
func StartDatabaseContainer(ctx context.Context, cfg DatabaseContainerConfig) (*DatabaseContainer, error) {
	var (
		container testcontainers.Container
		port      string
		err       error
	)

	switch cfg.Engine {
	case "postgres":
		container, err = postgres.Run(ctx,
			imageOr(cfg.Image, "postgres:16-alpine"),
			postgres.WithUsername(cfg.User),
			postgres.WithPassword(cfg.Password),
			postgres.WithDatabase(cfg.Database),
		)
		port = "5432/tcp"
	case "mysql":
		container, err = mysql.Run(ctx,
			imageOr(cfg.Image, "mysql:8"),
			mysql.WithUsername(cfg.User),
			mysql.WithPassword(cfg.Password),
			mysql.WithDatabase(cfg.Database),
		)
		port = "3306/tcp"
	case "mariadb":
		container, err = mariadb.Run(ctx,
			imageOr(cfg.Image, "mariadb:11.2"),
			mariadb.WithUsername(cfg.User),
			mariadb.WithPassword(cfg.Password),
			mariadb.WithDatabase(cfg.Database),
		)
		port = "3306/tcp"
	default:
		return nil, fmt.Errorf("unsupported engine: %s", cfg.Engine)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cfg.Engine, err)
	}

	dc := &DatabaseContainer{container: container}
	host, err := container.Host(ctx)
	if err != nil {
		_ = dc.Stop(ctx)
		return nil, fmt.Errorf("failed to get %s host: %w", cfg.Engine, err)
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		_ = dc.Stop(ctx)
		return nil, fmt.Errorf("failed to get %s port: %w", cfg.Engine, err)
	}

	dc.endpoint = dbcheck.Endpoint{
		Engine:   cfg.Engine,
		Host:     host,
		Port:     mapped.Int(),
		Username: cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
	}
	return dc, nil
}

// Endpoint returns the connection details of the container.
func (dc *DatabaseContainer) Endpoint() dbcheck.Endpoint {
	return dc.endpoint
}

// Stop terminates the container
func (dc *DatabaseContainer) Stop(ctx context.Context) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.container == nil {
		return nil
	}
	err := dc.container.Terminate(ctx)
	dc.container = nil
	return err
}

func imageOr(image, fallback string) string {
	if image == "" {
		return fallback
	}
	return image
}
