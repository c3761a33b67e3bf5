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
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdsapi "github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/go-logr/logr"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/rds-controller-e2e/internal/util"
)

// SystemTagPrefix marks tags the ACK runtime adds to every resource it manages.
const SystemTagPrefix = "services.k8s.aws/"

// Observer reads RDS resources. Lookups of a missing resource return nil without an error.
type Observer struct {
	api         API
	retry       util.RetryConfig
	deleteRetry util.RetryConfig
	timeouts    util.TimeoutConfig
	log         logr.Logger
}

// Option configures an Observer.
type Option func(*Observer)

// WithRetryConfig overrides the retry policy for all API calls, deletions included.
func WithRetryConfig(cfg util.RetryConfig) Option {
	return func(o *Observer) {
		o.retry = cfg
		o.deleteRetry = cfg
	}
}

// WithDeleteRetryConfig overrides the retry policy for delete calls only.
func WithDeleteRetryConfig(cfg util.RetryConfig) Option {
	return func(o *Observer) { o.deleteRetry = cfg }
}

// WithTimeouts overrides the per-call timeouts.
func WithTimeouts(cfg util.TimeoutConfig) Option {
	return func(o *Observer) { o.timeouts = cfg }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(o *Observer) { o.log = log }
}

// NewObserver wraps api with retries and per-call timeouts.
func NewObserver(api API, opts ...Option) *Observer {
	o := &Observer{
		api:         api,
		retry:       util.APIRetryConfig(),
		deleteRetry: util.DeleteRetryConfig(),
		timeouts:    util.DefaultTimeoutConfig(),
		log:         logf.Log.WithName("rds"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// call runs fn under the API timeout and retries it on transient errors.
func call[T any](ctx context.Context, o *Observer, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	return callWith(ctx, o, o.retry, op, fn)
}

func callWith[T any](ctx context.Context, o *Observer, retry util.RetryConfig, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	value, result := util.RetryValue(ctx, retry, func() (T, error) {
		callCtx, cancel := o.timeouts.WithAPITimeout(ctx)
		defer cancel()
		return fn(callCtx)
	})
	if result.LastError != nil {
		if result.Attempts > 1 {
			o.log.Info("API call failed after retries", "operation", op, "attempts", result.Attempts, "error", result.LastError.Error())
		}
		return value, fmt.Errorf("%s: %w", op, result.LastError)
	}
	return value, nil
}

// single returns the only item of a describe call filtered by identifier.
func single[T any](items []T, what, id string) (*T, error) {
	switch len(items) {
	case 0:
		return nil, nil
	case 1:
		return &items[0], nil
	default:
		return nil, fmt.Errorf("expected one %s %q, got %d", what, id, len(items))
	}
}

// GetDBInstance returns the DB instance record, or nil if it does not exist.
func (o *Observer) GetDBInstance(ctx context.Context, id string) (*rdstypes.DBInstance, error) {
	out, err := call(ctx, o, "DescribeDBInstances", func(ctx context.Context) (*rdsapi.DescribeDBInstancesOutput, error) {
		return o.api.DescribeDBInstances(ctx, &rdsapi.DescribeDBInstancesInput{DBInstanceIdentifier: aws.String(id)})
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return single(out.DBInstances, "DB instance", id)
}

// GetDBCluster returns the DB cluster record, or nil if it does not exist.
func (o *Observer) GetDBCluster(ctx context.Context, id string) (*rdstypes.DBCluster, error) {
	out, err := call(ctx, o, "DescribeDBClusters", func(ctx context.Context) (*rdsapi.DescribeDBClustersOutput, error) {
		return o.api.DescribeDBClusters(ctx, &rdsapi.DescribeDBClustersInput{DBClusterIdentifier: aws.String(id)})
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return single(out.DBClusters, "DB cluster", id)
}

// GetDBParameterGroup returns the DB parameter group record, or nil if it does not exist.
func (o *Observer) GetDBParameterGroup(ctx context.Context, name string) (*rdstypes.DBParameterGroup, error) {
	out, err := call(ctx, o, "DescribeDBParameterGroups", func(ctx context.Context) (*rdsapi.DescribeDBParameterGroupsOutput, error) {
		return o.api.DescribeDBParameterGroups(ctx, &rdsapi.DescribeDBParameterGroupsInput{DBParameterGroupName: aws.String(name)})
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return single(out.DBParameterGroups, "DB parameter group", name)
}

// GetDBClusterParameterGroup returns the DB cluster parameter group record, or nil if it does not exist.
func (o *Observer) GetDBClusterParameterGroup(ctx context.Context, name string) (*rdstypes.DBClusterParameterGroup, error) {
	out, err := call(ctx, o, "DescribeDBClusterParameterGroups", func(ctx context.Context) (*rdsapi.DescribeDBClusterParameterGroupsOutput, error) {
		return o.api.DescribeDBClusterParameterGroups(ctx, &rdsapi.DescribeDBClusterParameterGroupsInput{DBClusterParameterGroupName: aws.String(name)})
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return single(out.DBClusterParameterGroups, "DB cluster parameter group", name)
}

// GetTags returns the tags of the resource with the given ARN, or nil if it does not exist.
func (o *Observer) GetTags(ctx context.Context, arn string) ([]rdstypes.Tag, error) {
	out, err := call(ctx, o, "ListTagsForResource", func(ctx context.Context) (*rdsapi.ListTagsForResourceOutput, error) {
		return o.api.ListTagsForResource(ctx, &rdsapi.ListTagsForResourceInput{ResourceName: aws.String(arn)})
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out.TagList, nil
}

// GetDBParameters returns every parameter of a DB parameter group.
// A non-empty source restricts the result, e.g. to "user" for explicitly set values.
func (o *Observer) GetDBParameters(ctx context.Context, name, source string) ([]rdstypes.Parameter, error) {
	input := &rdsapi.DescribeDBParametersInput{DBParameterGroupName: aws.String(name)}
	if source != "" {
		input.Source = aws.String(source)
	}
	return paginate(ctx, o, "DescribeDBParameters", func(ctx context.Context, marker *string) ([]rdstypes.Parameter, *string, error) {
		input.Marker = marker
		out, err := o.api.DescribeDBParameters(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return out.Parameters, out.Marker, nil
	})
}

// GetDBClusterParameters returns every parameter of a DB cluster parameter group.
func (o *Observer) GetDBClusterParameters(ctx context.Context, name, source string) ([]rdstypes.Parameter, error) {
	input := &rdsapi.DescribeDBClusterParametersInput{DBClusterParameterGroupName: aws.String(name)}
	if source != "" {
		input.Source = aws.String(source)
	}
	return paginate(ctx, o, "DescribeDBClusterParameters", func(ctx context.Context, marker *string) ([]rdstypes.Parameter, *string, error) {
		input.Marker = marker
		out, err := o.api.DescribeDBClusterParameters(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return out.Parameters, out.Marker, nil
	})
}

// paginate follows Marker until the service stops returning one. Each page is retried on its own.
func paginate[T any](ctx context.Context, o *Observer, op string, page func(ctx context.Context, marker *string) ([]T, *string, error)) ([]T, error) {
	listCtx, cancel := o.timeouts.WithListTimeout(ctx)
	defer cancel()

	type result struct {
		items []T
		next  *string
	}

	var (
		all    []T
		marker *string
	)
	for {
		r, err := call(listCtx, o, op, func(ctx context.Context) (result, error) {
			items, next, err := page(ctx, marker)
			return result{items: items, next: next}, err
		})
		if err != nil {
			return nil, err
		}
		all = append(all, r.items...)
		if aws.ToString(r.next) == "" {
			return all, nil
		}
		marker = r.next
	}
}

// CleanTags drops the tags the ACK runtime adds so that tests can compare user tags only.
func CleanTags(tags []rdstypes.Tag) []rdstypes.Tag {
	cleaned := make([]rdstypes.Tag, 0, len(tags))
	for _, tag := range tags {
		if strings.HasPrefix(aws.ToString(tag.Key), SystemTagPrefix) {
			continue
		}
		cleaned = append(cleaned, tag)
	}
	return cleaned
}

// TagMap converts tags to a key/value map.
func TagMap(tags []rdstypes.Tag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}
