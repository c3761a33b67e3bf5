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

package rds

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	rdsapi "github.com/aws/aws-sdk-go-v2/service/rds"
)

// API is the subset of the RDS client used by the observer and the sweeper.
type API interface {
	DescribeDBInstances(ctx context.Context, params *rdsapi.DescribeDBInstancesInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DescribeDBInstancesOutput, error)
	DescribeDBClusters(ctx context.Context, params *rdsapi.DescribeDBClustersInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DescribeDBClustersOutput, error)
	DescribeDBParameterGroups(ctx context.Context, params *rdsapi.DescribeDBParameterGroupsInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DescribeDBParameterGroupsOutput, error)
	DescribeDBClusterParameterGroups(ctx context.Context, params *rdsapi.DescribeDBClusterParameterGroupsInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DescribeDBClusterParameterGroupsOutput, error)
	DescribeDBParameters(ctx context.Context, params *rdsapi.DescribeDBParametersInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DescribeDBParametersOutput, error)
	DescribeDBClusterParameters(ctx context.Context, params *rdsapi.DescribeDBClusterParametersInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DescribeDBClusterParametersOutput, error)
	DescribeDBSnapshots(ctx context.Context, params *rdsapi.DescribeDBSnapshotsInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DescribeDBSnapshotsOutput, error)
	DescribeDBClusterSnapshots(ctx context.Context, params *rdsapi.DescribeDBClusterSnapshotsInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DescribeDBClusterSnapshotsOutput, error)
	DescribeGlobalClusters(ctx context.Context, params *rdsapi.DescribeGlobalClustersInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DescribeGlobalClustersOutput, error)
	ListTagsForResource(ctx context.Context, params *rdsapi.ListTagsForResourceInput, optFns ...func(*rdsapi.Options)) (*rdsapi.ListTagsForResourceOutput, error)

	DeleteDBInstance(ctx context.Context, params *rdsapi.DeleteDBInstanceInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DeleteDBInstanceOutput, error)
	DeleteDBCluster(ctx context.Context, params *rdsapi.DeleteDBClusterInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DeleteDBClusterOutput, error)
	DeleteDBParameterGroup(ctx context.Context, params *rdsapi.DeleteDBParameterGroupInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DeleteDBParameterGroupOutput, error)
	DeleteDBClusterParameterGroup(ctx context.Context, params *rdsapi.DeleteDBClusterParameterGroupInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DeleteDBClusterParameterGroupOutput, error)
	DeleteDBSnapshot(ctx context.Context, params *rdsapi.DeleteDBSnapshotInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DeleteDBSnapshotOutput, error)
	DeleteDBClusterSnapshot(ctx context.Context, params *rdsapi.DeleteDBClusterSnapshotInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DeleteDBClusterSnapshotOutput, error)
	DeleteGlobalCluster(ctx context.Context, params *rdsapi.DeleteGlobalClusterInput, optFns ...func(*rdsapi.Options)) (*rdsapi.DeleteGlobalClusterOutput, error)
}

var _ API = (*rdsapi.Client)(nil)

// ClientConfig holds the connection settings for AWS clients.
// Empty fields fall back to the default credential chain and endpoint resolution.
type ClientConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// LoadAWSConfig builds an aws.Config from the default chain plus any explicit settings.
func LoadAWSConfig(ctx context.Context, cc ClientConfig) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{}
	if cc.Region != "" {
		opts = append(opts, config.WithRegion(cc.Region))
	}
	if cc.AccessKeyID != "" && cc.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cc.AccessKeyID, cc.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return aws.Config{}, fmt.Errorf("AWS region is required")
	}
	return cfg, nil
}

// NewClient creates an RDS client with an optional endpoint override.
func NewClient(ctx context.Context, cc ClientConfig) (*rdsapi.Client, error) {
	cfg, err := LoadAWSConfig(ctx, cc)
	if err != nil {
		return nil, err
	}

	rdsOpts := []func(*rdsapi.Options){}
	if cc.Endpoint != "" {
		rdsOpts = append(rdsOpts, func(o *rdsapi.Options) {
			o.BaseEndpoint = aws.String(cc.Endpoint)
		})
	}

	return rdsapi.NewFromConfig(cfg, rdsOpts...), nil
}
