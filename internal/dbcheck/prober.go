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

package dbcheck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/rds-controller-e2e/internal/poll"
)

// pgConn is the subset of *pgx.Conn used by the prober.
type pgConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close(ctx context.Context) error
}

// Probe is the result of a successful connection.
type Probe struct {
	Family  Family
	Version string
	Latency time.Duration
}

// Prober opens a connection to an Endpoint and reads the server version.
type Prober struct {
	connectPostgres func(ctx context.Context, cfg *pgx.ConnConfig) (pgConn, error)
	openMySQL       func(dsn string) (*sql.DB, error)
}

// NewProber returns a Prober that dials real servers.
func NewProber() *Prober {
	return &Prober{
		connectPostgres: func(ctx context.Context, cfg *pgx.ConnConfig) (pgConn, error) {
			conn, err := pgx.ConnectConfig(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
		openMySQL: func(dsn string) (*sql.DB, error) {
			return sql.Open("mysql", dsn)
		},
	}
}

// Probe connects once. Authentication failures are terminal: retrying with the same
// credentials cannot succeed.
func (p *Prober) Probe(ctx context.Context, ep Endpoint) (*Probe, error) {
	if err := ep.Validate(); err != nil {
		return nil, poll.MarkTerminal(err)
	}
	family, _ := ep.Family()

	start := time.Now()
	var (
		version string
		err     error
	)
	switch family {
	case FamilyPostgres:
		version, err = p.probePostgres(ctx, ep)
	case FamilyMySQL:
		version, err = p.probeMySQL(ctx, ep)
	}
	if err != nil {
		if IsAuthError(err) {
			return nil, poll.MarkTerminal(err)
		}
		return nil, err
	}
	return &Probe{Family: family, Version: version, Latency: time.Since(start)}, nil
}

func (p *Prober) probePostgres(ctx context.Context, ep Endpoint) (string, error) {
	cfg, err := pgx.ParseConfig(postgresURL(ep))
	if err != nil {
		return "", fmt.Errorf("failed to parse connection string: %w", err)
	}
	cfg.ConnectTimeout = ep.connectTimeout()

	conn, err := p.connectPostgres(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to connect to %s: %w", ep.Host, err)
	}
	defer func() { _ = conn.Close(ctx) }()

	var version string
	if err := conn.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

func (p *Prober) probeMySQL(ctx context.Context, ep Endpoint) (string, error) {
	db, err := p.openMySQL(mysqlDSN(ep))
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("failed to ping %s: %w", ep.Host, err)
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// WaitReachable probes ep until a connection succeeds, an authentication error occurs
// or cfg.Timeout elapses.
func (p *Prober) WaitReachable(ctx context.Context, ep Endpoint, cfg poll.Config) (*Probe, error) {
	var last *Probe
	poller := &poll.Poller[Probe]{
		Kind: "db_endpoint",
		Name: net.JoinHostPort(ep.Host, strconv.Itoa(ep.Port)),
		Fetch: func(ctx context.Context) (*Probe, error) {
			probe, err := p.Probe(ctx, ep)
			if err != nil {
				return nil, err
			}
			last = probe
			return probe, nil
		},
		Match: func(probe *Probe) bool { return probe != nil },
		Describe: func(probe *Probe) string {
			if probe == nil {
				return "unreachable"
			}
			return "reachable"
		},
		Config: cfg,
	}
	if err := poller.Wait(ctx); err != nil {
		return nil, err
	}
	logf.FromContext(ctx).Info("Database accepted a connection",
		"endpoint", poller.Name, "family", last.Family, "version", last.Version)
	return last, nil
}

// IsAuthError reports whether err is a rejected login.
func IsAuthError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// invalid_password, invalid_authorization_specification
		return pgErr.Code == "28P01" || pgErr.Code == "28000"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// ER_ACCESS_DENIED_ERROR
		return myErr.Number == 1045
	}
	return false
}

func postgresURL(ep Endpoint) string {
	database := ep.Database
	if database == "" {
		database = "postgres"
	}
	sslmode := "disable"
	if ep.TLS {
		sslmode = "require"
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(ep.Username, ep.Password),
		Host:     net.JoinHostPort(ep.Host, strconv.Itoa(ep.Port)),
		Path:     "/" + database,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

func mysqlDSN(ep Endpoint) string {
	cfg := mysql.NewConfig()
	cfg.User = ep.Username
	cfg.Passwd = ep.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(ep.Host, strconv.Itoa(ep.Port))
	cfg.DBName = ep.Database
	cfg.Timeout = ep.connectTimeout()
	cfg.ReadTimeout = ep.connectTimeout()
	if ep.TLS {
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN()
}
