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
	rdsapi "github.com/aws/aws-sdk-go-v2/service/rds"
)

// List returns every resource of the given kind in the region.
func (o *Observer) List(ctx context.Context, kind Kind) ([]Resource, error) {
	switch kind {
	case KindDBInstance:
		return paginate(ctx, o, "DescribeDBInstances", func(ctx context.Context, marker *string) ([]Resource, *string, error) {
			out, err := o.api.DescribeDBInstances(ctx, &rdsapi.DescribeDBInstancesInput{Marker: marker})
			if err != nil {
				return nil, nil, err
			}
			resources := make([]Resource, 0, len(out.DBInstances))
			for _, i := range out.DBInstances {
				resources = append(resources, Resource{
					Kind:      kind,
					ID:        aws.ToString(i.DBInstanceIdentifier),
					Status:    aws.ToString(i.DBInstanceStatus),
					CreatedAt: i.InstanceCreateTime,
				})
			}
			return resources, out.Marker, nil
		})

	case KindDBCluster:
		return paginate(ctx, o, "DescribeDBClusters", func(ctx context.Context, marker *string) ([]Resource, *string, error) {
			out, err := o.api.DescribeDBClusters(ctx, &rdsapi.DescribeDBClustersInput{Marker: marker})
			if err != nil {
				return nil, nil, err
			}
			resources := make([]Resource, 0, len(out.DBClusters))
			for _, c := range out.DBClusters {
				resources = append(resources, Resource{
					Kind:      kind,
					ID:        aws.ToString(c.DBClusterIdentifier),
					Status:    aws.ToString(c.Status),
					CreatedAt: c.ClusterCreateTime,
				})
			}
			return resources, out.Marker, nil
		})

	case KindDBParameterGroup:
		return paginate(ctx, o, "DescribeDBParameterGroups", func(ctx context.Context, marker *string) ([]Resource, *string, error) {
			out, err := o.api.DescribeDBParameterGroups(ctx, &rdsapi.DescribeDBParameterGroupsInput{Marker: marker})
			if err != nil {
				return nil, nil, err
			}
			resources := make([]Resource, 0, len(out.DBParameterGroups))
			for _, pg := range out.DBParameterGroups {
				resources = append(resources, Resource{Kind: kind, ID: aws.ToString(pg.DBParameterGroupName)})
			}
			return resources, out.Marker, nil
		})

	case KindDBClusterParameterGroup:
		return paginate(ctx, o, "DescribeDBClusterParameterGroups", func(ctx context.Context, marker *string) ([]Resource, *string, error) {
			out, err := o.api.DescribeDBClusterParameterGroups(ctx, &rdsapi.DescribeDBClusterParameterGroupsInput{Marker: marker})
			if err != nil {
				return nil, nil, err
			}
			resources := make([]Resource, 0, len(out.DBClusterParameterGroups))
			for _, pg := range out.DBClusterParameterGroups {
				resources = append(resources, Resource{Kind: kind, ID: aws.ToString(pg.DBClusterParameterGroupName)})
			}
			return resources, out.Marker, nil
		})

	case KindDBSnapshot:
		return paginate(ctx, o, "DescribeDBSnapshots", func(ctx context.Context, marker *string) ([]Resource, *string, error) {
			out, err := o.api.DescribeDBSnapshots(ctx, &rdsapi.DescribeDBSnapshotsInput{Marker: marker})
			if err != nil {
				return nil, nil, err
			}
			resources := make([]Resource, 0, len(out.DBSnapshots))
			for _, s := range out.DBSnapshots {
				resources = append(resources, Resource{
					Kind:      kind,
					ID:        aws.ToString(s.DBSnapshotIdentifier),
					Status:    aws.ToString(s.Status),
					CreatedAt: s.SnapshotCreateTime,
				})
			}
			return resources, out.Marker, nil
		})

	case KindDBClusterSnapshot:
		return paginate(ctx, o, "DescribeDBClusterSnapshots", func(ctx context.Context, marker *string) ([]Resource, *string, error) {
			out, err := o.api.DescribeDBClusterSnapshots(ctx, &rdsapi.DescribeDBClusterSnapshotsInput{Marker: marker})
			if err != nil {
				return nil, nil, err
			}
			resources := make([]Resource, 0, len(out.DBClusterSnapshots))
			for _, s := range out.DBClusterSnapshots {
				resources = append(resources, Resource{
					Kind:      kind,
					ID:        aws.ToString(s.DBClusterSnapshotIdentifier),
					Status:    aws.ToString(s.Status),
					CreatedAt: s.SnapshotCreateTime,
				})
			}
			return resources, out.Marker, nil
		})

	case KindGlobalCluster:
		return paginate(ctx, o, "DescribeGlobalClusters", func(ctx context.Context, marker *string) ([]Resource, *string, error) {
			out, err := o.api.DescribeGlobalClusters(ctx, &rdsapi.DescribeGlobalClustersInput{Marker: marker})
			if err != nil {
				return nil, nil, err
			}
			resources := make([]Resource, 0, len(out.GlobalClusters))
			for _, g := range out.GlobalClusters {
				resources = append(resources, Resource{
					Kind:   kind,
					ID:     aws.ToString(g.GlobalClusterIdentifier),
					Status: aws.ToString(g.Status),
				})
			}
			return resources, out.Marker, nil
		})
	}

	return nil, fmt.Errorf("unknown resource kind %q", kind)
}

// Delete submits the deletion of a resource. Instances and clusters are deleted without a
// final snapshot. Deleting a resource that no longer exists is not an error.
func (o *Observer) Delete(ctx context.Context, kind Kind, id string) error {
	var err error
	switch kind {
	case KindDBInstance:
		_, err = callWith(ctx, o, o.deleteRetry, "DeleteDBInstance", func(ctx context.Context) (*rdsapi.DeleteDBInstanceOutput, error) {
			return o.api.DeleteDBInstance(ctx, &rdsapi.DeleteDBInstanceInput{
				DBInstanceIdentifier:   aws.String(id),
				SkipFinalSnapshot:      aws.Bool(true),
				DeleteAutomatedBackups: aws.Bool(true),
			})
		})
	case KindDBCluster:
		_, err = callWith(ctx, o, o.deleteRetry, "DeleteDBCluster", func(ctx context.Context) (*rdsapi.DeleteDBClusterOutput, error) {
			return o.api.DeleteDBCluster(ctx, &rdsapi.DeleteDBClusterInput{
				DBClusterIdentifier: aws.String(id),
				SkipFinalSnapshot:   aws.Bool(true),
			})
		})
	case KindDBParameterGroup:
		_, err = callWith(ctx, o, o.deleteRetry, "DeleteDBParameterGroup", func(ctx context.Context) (*rdsapi.DeleteDBParameterGroupOutput, error) {
			return o.api.DeleteDBParameterGroup(ctx, &rdsapi.DeleteDBParameterGroupInput{DBParameterGroupName: aws.String(id)})
		})
	case KindDBClusterParameterGroup:
		_, err = callWith(ctx, o, o.deleteRetry, "DeleteDBClusterParameterGroup", func(ctx context.Context) (*rdsapi.DeleteDBClusterParameterGroupOutput, error) {
			return o.api.DeleteDBClusterParameterGroup(ctx, &rdsapi.DeleteDBClusterParameterGroupInput{DBClusterParameterGroupName: aws.String(id)})
		})
	case KindDBSnapshot:
		_, err = callWith(ctx, o, o.deleteRetry, "DeleteDBSnapshot", func(ctx context.Context) (*rdsapi.DeleteDBSnapshotOutput, error) {
			return o.api.DeleteDBSnapshot(ctx, &rdsapi.DeleteDBSnapshotInput{DBSnapshotIdentifier: aws.String(id)})
		})
	case KindDBClusterSnapshot:
		_, err = callWith(ctx, o, o.deleteRetry, "DeleteDBClusterSnapshot", func(ctx context.Context) (*rdsapi.DeleteDBClusterSnapshotOutput, error) {
			return o.api.DeleteDBClusterSnapshot(ctx, &rdsapi.DeleteDBClusterSnapshotInput{DBClusterSnapshotIdentifier: aws.String(id)})
		})
	case KindGlobalCluster:
		_, err = callWith(ctx, o, o.deleteRetry, "DeleteGlobalCluster", func(ctx context.Context) (*rdsapi.DeleteGlobalClusterOutput, error) {
			return o.api.DeleteGlobalCluster(ctx, &rdsapi.DeleteGlobalClusterInput{GlobalClusterIdentifier: aws.String(id)})
		})
	default:
		return fmt.Errorf("unknown resource kind %q", kind)
	}

	if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

