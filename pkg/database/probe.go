// Copyright 2024 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ErrUnsupportedScheme is returned for URIs naming a server the probe cannot talk to.
var ErrUnsupportedScheme = errors.New("unsupported database scheme")

// DefaultConnectTimeout bounds the single connection attempt.
const DefaultConnectTimeout = 5 * time.Second

// Result is the outcome of one probe.
type Result struct {
	// Version is the raw server version string, empty when unknown.
	Version string
	// Err is set when the server could not be reached or queried.
	Err error
}

// Connected reports whether the probe reached the server.
func (r Result) Connected() bool { return r.Err == nil }

// Probe connects once to a database server and reads its version.
type Probe interface {
	Probe(ctx context.Context, u ConnectionURL) Result
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context, u ConnectionURL) Result

// Probe implements Probe.
func (f ProbeFunc) Probe(ctx context.Context, u ConnectionURL) Result { return f(ctx, u) }

// MySQLProbe probes MySQL-compatible servers (MySQL, MariaDB, TiDB).
type MySQLProbe struct {
	timeout time.Duration
	logger  *slog.Logger
}

// MySQLProbeOption configures a MySQLProbe.
type MySQLProbeOption func(*MySQLProbe)

// WithTimeout overrides DefaultConnectTimeout.
func WithTimeout(d time.Duration) MySQLProbeOption {
	return func(p *MySQLProbe) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) MySQLProbeOption {
	return func(p *MySQLProbe) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewMySQLProbe creates a MySQLProbe.
func NewMySQLProbe(opts ...MySQLProbeOption) *MySQLProbe {
	p := &MySQLProbe{
		timeout: DefaultConnectTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var mysqlSchemes = map[string]bool{
	"mysql":     true,
	"mysql2":    true,
	"mysqli":    true,
	"pdo-mysql": true,
	"pdo_mysql": true,
	"mariadb":   true,
}

// Probe opens one connection, pings it and runs SELECT VERSION(). No retry.
func (p *MySQLProbe) Probe(ctx context.Context, u ConnectionURL) Result {
	if !mysqlSchemes[strings.ToLower(u.Scheme)] {
		return Result{Err: fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	connector, err := mysql.NewConnector(p.config(u))
	if err != nil {
		return Result{Err: fmt.Errorf("failed to configure connection: %w", err)}
	}
	db := sql.OpenDB(connector)
	defer db.Close()
	db.SetMaxOpenConns(1)

	p.logger.Debug("probing database", "addr", u.Addr(), "database", u.Database)
	if err := db.PingContext(ctx); err != nil {
		return Result{Err: fmt.Errorf("failed to connect to %s: %w", u.Addr(), err)}
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		return Result{Err: fmt.Errorf("failed to read server version: %w", err)}
	}
	return Result{Version: version}
}

func (p *MySQLProbe) config(u ConnectionURL) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = u.User
	cfg.Passwd = u.Password
	cfg.Net = "tcp"
	cfg.Addr = u.Addr()
	cfg.DBName = u.Database
	cfg.Timeout = p.timeout
	cfg.ReadTimeout = p.timeout
	cfg.WriteTimeout = p.timeout
	return cfg
}
