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
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/rds-controller-e2e/internal/poll"
)

// InstanceFetcher returns a poll fetch function for a DB instance.
func (o *Observer) InstanceFetcher(id string) poll.FetchFunc[rdstypes.DBInstance] {
	return func(ctx context.Context) (*rdstypes.DBInstance, error) {
		return o.GetDBInstance(ctx, id)
	}
}

// ClusterFetcher returns a poll fetch function for a DB cluster.
func (o *Observer) ClusterFetcher(id string) poll.FetchFunc[rdstypes.DBCluster] {
	return func(ctx context.Context) (*rdstypes.DBCluster, error) {
		return o.GetDBCluster(ctx, id)
	}
}

// WaitForDBInstance blocks until the instance satisfies match.
func (o *Observer) WaitForDBInstance(ctx context.Context, id string, match poll.Predicate[rdstypes.DBInstance], cfg poll.Config) error {
	p := &poll.Poller[rdstypes.DBInstance]{
		Kind:     string(KindDBInstance),
		Name:     id,
		Fetch:    o.InstanceFetcher(id),
		Match:    match,
		Describe: DescribeInstance,
		Config:   cfg,
	}
	return p.Wait(ctx)
}

// WaitForDBCluster blocks until the cluster satisfies match.
func (o *Observer) WaitForDBCluster(ctx context.Context, id string, match poll.Predicate[rdstypes.DBCluster], cfg poll.Config) error {
	p := &poll.Poller[rdstypes.DBCluster]{
		Kind:     string(KindDBCluster),
		Name:     id,
		Fetch:    o.ClusterFetcher(id),
		Match:    match,
		Describe: DescribeCluster,
		Config:   cfg,
	}
	return p.Wait(ctx)
}

// WaitForDBInstanceDeleted blocks until the instance is gone. While it still exists its
// status must be "deleting"; any other status fails the wait immediately.
func (o *Observer) WaitForDBInstanceDeleted(ctx context.Context, id string, cfg poll.Config) error {
	p := &poll.Poller[rdstypes.DBInstance]{
		Kind: string(KindDBInstance),
		Name: id,
		Fetch: func(ctx context.Context) (*rdstypes.DBInstance, error) {
			instance, err := o.GetDBInstance(ctx, id)
			if err != nil || instance == nil {
				return instance, err
			}
			if status := aws.ToString(instance.DBInstanceStatus); status != StatusDeleting {
				return instance, poll.Terminal(fmt.Sprintf("status is %q while waiting for deletion", status), instance)
			}
			return instance, nil
		},
		Match:    absent[rdstypes.DBInstance],
		Describe: DescribeInstance,
		Config:   cfg,
	}
	return p.Wait(ctx)
}

// WaitForDBClusterDeleted blocks until the cluster is gone, with the same "deleting"
// requirement as WaitForDBInstanceDeleted.
func (o *Observer) WaitForDBClusterDeleted(ctx context.Context, id string, cfg poll.Config) error {
	p := &poll.Poller[rdstypes.DBCluster]{
		Kind: string(KindDBCluster),
		Name: id,
		Fetch: func(ctx context.Context) (*rdstypes.DBCluster, error) {
			cluster, err := o.GetDBCluster(ctx, id)
			if err != nil || cluster == nil {
				return cluster, err
			}
			if status := aws.ToString(cluster.Status); status != StatusDeleting {
				return cluster, poll.Terminal(fmt.Sprintf("status is %q while waiting for deletion", status), cluster)
			}
			return cluster, nil
		},
		Match:    absent[rdstypes.DBCluster],
		Describe: DescribeCluster,
		Config:   cfg,
	}
	return p.Wait(ctx)
}

// WaitForDBParameterGroupDeleted blocks until the parameter group is gone.
func (o *Observer) WaitForDBParameterGroupDeleted(ctx context.Context, name string, cfg poll.Config) error {
	p := &poll.Poller[rdstypes.DBParameterGroup]{
		Kind: string(KindDBParameterGroup),
		Name: name,
		Fetch: func(ctx context.Context) (*rdstypes.DBParameterGroup, error) {
			return o.GetDBParameterGroup(ctx, name)
		},
		Match:  absent[rdstypes.DBParameterGroup],
		Config: cfg,
	}
	return p.Wait(ctx)
}

// WaitForDBClusterParameterGroupDeleted blocks until the cluster parameter group is gone.
func (o *Observer) WaitForDBClusterParameterGroupDeleted(ctx context.Context, name string, cfg poll.Config) error {
	p := &poll.Poller[rdstypes.DBClusterParameterGroup]{
		Kind: string(KindDBClusterParameterGroup),
		Name: name,
		Fetch: func(ctx context.Context) (*rdstypes.DBClusterParameterGroup, error) {
			return o.GetDBClusterParameterGroup(ctx, name)
		},
		Match:  absent[rdstypes.DBClusterParameterGroup],
		Config: cfg,
	}
	return p.Wait(ctx)
}
