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

// Package dbcheck verifies that a provisioned RDS instance or cluster accepts SQL
// connections with the credentials the controller was given.
package dbcheck

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
)

// Family groups RDS engines by wire protocol.
type Family string

const (
	FamilyPostgres Family = "postgres"
	FamilyMySQL    Family = "mysql"
)

// DefaultConnectTimeout bounds a single connection attempt.
const DefaultConnectTimeout = 10 * time.Second

// FamilyForEngine maps an RDS engine name such as "aurora-postgresql" to its Family.
func FamilyForEngine(engine string) (Family, error) {
	switch strings.ToLower(engine) {
	case "postgres", "aurora-postgresql":
		return FamilyPostgres, nil
	case "mysql", "mariadb", "aurora-mysql", "aurora":
		return FamilyMySQL, nil
	default:
		return "", fmt.Errorf("unsupported engine %q", engine)
	}
}

// Endpoint holds what is needed to open a SQL connection.
type Endpoint struct {
	Engine   string
	Host     string
	Port     int
	Username string
	Password string
	Database string
	// TLS requires an encrypted connection
	TLS            bool
	ConnectTimeout time.Duration
}

// Family returns the protocol family of the endpoint engine.
func (e Endpoint) Family() (Family, error) {
	return FamilyForEngine(e.Engine)
}

// Validate checks the fields required to connect.
func (e Endpoint) Validate() error {
	if _, err := e.Family(); err != nil {
		return err
	}
	if e.Host == "" {
		return fmt.Errorf("endpoint host is required")
	}
	if e.Port <= 0 {
		return fmt.Errorf("endpoint port must be positive, got %d", e.Port)
	}
	if e.Username == "" {
		return fmt.Errorf("endpoint username is required")
	}
	return nil
}

func (e Endpoint) connectTimeout() time.Duration {
	if e.ConnectTimeout > 0 {
		return e.ConnectTimeout
	}
	return DefaultConnectTimeout
}

// InstanceEndpoint builds an Endpoint from a described instance. It fails while RDS
// has not yet assigned an address.
func InstanceEndpoint(i *rdstypes.DBInstance, password string) (Endpoint, error) {
	if i == nil {
		return Endpoint{}, fmt.Errorf("instance is required")
	}
	if i.Endpoint == nil || aws.ToString(i.Endpoint.Address) == "" {
		return Endpoint{}, fmt.Errorf("instance %s has no endpoint yet", aws.ToString(i.DBInstanceIdentifier))
	}
	return Endpoint{
		Engine:   aws.ToString(i.Engine),
		Host:     aws.ToString(i.Endpoint.Address),
		Port:     int(aws.ToInt32(i.Endpoint.Port)),
		Username: aws.ToString(i.MasterUsername),
		Password: password,
		Database: aws.ToString(i.DBName),
	}, nil
}

// ClusterEndpoint builds an Endpoint for the writer of a described cluster.
func ClusterEndpoint(c *rdstypes.DBCluster, password string) (Endpoint, error) {
	if c == nil {
		return Endpoint{}, fmt.Errorf("cluster is required")
	}
	if aws.ToString(c.Endpoint) == "" {
		return Endpoint{}, fmt.Errorf("cluster %s has no endpoint yet", aws.ToString(c.DBClusterIdentifier))
	}
	return Endpoint{
		Engine:   aws.ToString(c.Engine),
		Host:     aws.ToString(c.Endpoint),
		Port:     int(aws.ToInt32(c.Port)),
		Username: aws.ToString(c.MasterUsername),
		Password: password,
		Database: aws.ToString(c.DatabaseName),
	}, nil
}
