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

package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/rds-controller-e2e/internal/logging"
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses a five-field cron expression or a descriptor such as "@every 1h".
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := scheduleParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// ResultHandler receives the result of each scheduled sweep.
type ResultHandler func(ctx context.Context, result *Result)

// RunScheduled sweeps on every tick of spec until ctx is done. A tick that fires while
// the previous sweep is still running is skipped. Each sweep gets its own run ID.
func (s *Sweeper) RunScheduled(ctx context.Context, spec string, opts Options, onResult ResultHandler) error {
	schedule, err := ParseSchedule(spec)
	if err != nil {
		return err
	}

	log := logf.FromContext(ctx).WithName("scheduler")
	c := cron.New(
		cron.WithParser(scheduleParser),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)
	c.Schedule(schedule, cron.FuncJob(func() {
		runCtx := logging.WithRunID(ctx, log)
		result, err := s.Sweep(runCtx, opts)
		if err != nil {
			logf.FromContext(runCtx).Error(err, "Scheduled sweep failed")
			return
		}
		if onResult != nil {
			onResult(runCtx, result)
		}
	}))

	c.Start()
	log.Info("Scheduled sweeps started", "schedule", spec, "next", schedule.Next(time.Now()))

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("Scheduled sweeps stopped")
	return nil
}
