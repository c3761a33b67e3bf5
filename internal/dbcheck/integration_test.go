//go:build integration

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

package dbcheck_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rds-controller-e2e/internal/dbcheck"
	"github.com/rds-controller-e2e/internal/dbcheck/testutil"
	"github.com/rds-controller-e2e/internal/poll"
)

var _ = Describe("Prober against real servers", Label("integration"), func() {
	DescribeTable("should reach the server and reject a wrong password",
		func(engine string) {
			ctx := context.Background()
			dc, err := testutil.StartDatabaseContainer(ctx, testutil.DatabaseContainerConfig{
				Engine:   engine,
				User:     "rdse2e",
				Password: "rdse2e-password",
				Database: "app",
			})
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(dc.Stop)

			cfg := poll.FastConfig().WithTimeout(2 * time.Minute)
			prober := dbcheck.NewProber()

			probe, err := prober.WaitReachable(ctx, dc.Endpoint(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(probe.Version).NotTo(BeEmpty())

			wrong := dc.Endpoint()
			wrong.Password = "not-the-password"
			_, err = prober.Probe(ctx, wrong)
			Expect(dbcheck.IsAuthError(err)).To(BeTrue())
			Expect(poll.IsTerminal(err)).To(BeTrue())
		},
		Entry("postgres", "postgres"),
		Entry("mysql", "mysql"),
		Entry("mariadb", "mariadb"),
	)
})
