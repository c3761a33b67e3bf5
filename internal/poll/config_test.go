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

package poll

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	Describe("Backoff", func() {
		It("should double from the base and stop at the ceiling", func() {
			cfg := Config{Timeout: time.Minute, BaseBackoff: 2 * time.Second, MaxBackoff: 8 * time.Second}

			var got []time.Duration
			for attempt := 0; attempt < 6; attempt++ {
				got = append(got, cfg.Backoff(attempt))
			}

			Expect(got).To(Equal([]time.Duration{
				2 * time.Second,
				4 * time.Second,
				8 * time.Second,
				8 * time.Second,
				8 * time.Second,
				8 * time.Second,
			}))
		})

		It("should be non-decreasing and bounded for any base and ceiling", func() {
			bases := []time.Duration{time.Millisecond, 3 * time.Millisecond, time.Second, 7 * time.Second}
			ceilings := []time.Duration{time.Second, 10 * time.Second, time.Minute, time.Hour}

			for _, base := range bases {
				for _, ceiling := range ceilings {
					if base > ceiling {
						continue
					}
					cfg := Config{Timeout: time.Hour, BaseBackoff: base, MaxBackoff: ceiling}
					previous := time.Duration(0)
					for attempt := 0; attempt < 80; attempt++ {
						current := cfg.Backoff(attempt)
						Expect(current).To(BeNumerically(">=", previous), "base=%s max=%s attempt=%d", base, ceiling, attempt)
						Expect(current).To(BeNumerically("<=", ceiling), "base=%s max=%s attempt=%d", base, ceiling, attempt)
						previous = current
					}
				}
			}
		})

		It("should treat a negative attempt as the first one", func() {
			cfg := Config{Timeout: time.Minute, BaseBackoff: time.Second, MaxBackoff: time.Minute}
			Expect(cfg.Backoff(-3)).To(Equal(time.Second))
		})
	})

	Describe("jitter", func() {
		It("should add at most JitterFraction of the backoff and never exceed the ceiling", func() {
			cfg := Config{Timeout: time.Minute, BaseBackoff: time.Second, MaxBackoff: 3 * time.Second, JitterFraction: 0.5}
			almostOne := func() float64 { return 0.999 }

			Expect(cfg.sleepFor(0, almostOne)).To(BeNumerically(">", time.Second))
			Expect(cfg.sleepFor(0, almostOne)).To(BeNumerically("<", 1500*time.Millisecond))
			Expect(cfg.sleepFor(1, almostOne)).To(BeNumerically(">", 2*time.Second))
			Expect(cfg.sleepFor(1, almostOne)).To(BeNumerically("<=", 3*time.Second))
			Expect(cfg.sleepFor(2, almostOne)).To(Equal(3 * time.Second))
			Expect(cfg.sleepFor(5, almostOne)).To(Equal(3 * time.Second))
		})

		It("should not add jitter when the fraction is zero", func() {
			cfg := Config{Timeout: time.Minute, BaseBackoff: time.Second, MaxBackoff: 3 * time.Second}
			Expect(cfg.sleepFor(0, func() float64 { return 0.9 })).To(Equal(time.Second))
		})
	})

	Describe("Validate", func() {
		DescribeTable("should reject invalid configs",
			func(cfg Config, field string) {
				err := cfg.Validate()
				Expect(err).To(HaveOccurred())

				var cfgErr *ConfigError
				Expect(errors.As(err, &cfgErr)).To(BeTrue())
				Expect(cfgErr.Field).To(Equal(field))
			},
			Entry("zero timeout", Config{BaseBackoff: time.Second, MaxBackoff: time.Second}, "Timeout"),
			Entry("negative timeout", Config{Timeout: -time.Second}, "Timeout"),
			Entry("base above ceiling", Config{Timeout: time.Minute, BaseBackoff: 2 * time.Second, MaxBackoff: time.Second}, "BaseBackoff"),
			Entry("negative base", Config{Timeout: time.Minute, BaseBackoff: -time.Second, MaxBackoff: time.Second}, "BaseBackoff"),
			Entry("zero base", Config{Timeout: time.Minute, MaxBackoff: time.Second}, "BaseBackoff"),
			Entry("zero base and ceiling", Config{Timeout: time.Minute}, "BaseBackoff"),
			Entry("jitter above one", Config{Timeout: time.Minute, BaseBackoff: time.Millisecond, MaxBackoff: time.Second, JitterFraction: 1.5}, "JitterFraction"),
			Entry("negative budget", Config{Timeout: time.Minute, BaseBackoff: time.Millisecond, MaxBackoff: time.Second, MaxAttemptsBeforeTerminal: -1}, "MaxAttemptsBeforeTerminal"),
		)

		It("should accept the presets", func() {
			Expect(DefaultConfig().Validate()).To(Succeed())
			Expect(DeletionConfig().Validate()).To(Succeed())
			Expect(FastConfig().Validate()).To(Succeed())
		})

		It("should only change the timeout with WithTimeout", func() {
			cfg := DefaultConfig().WithTimeout(time.Minute)
			Expect(cfg.Timeout).To(Equal(time.Minute))
			Expect(cfg.BaseBackoff).To(Equal(DefaultConfig().BaseBackoff))
			Expect(cfg.MaxBackoff).To(Equal(DefaultConfig().MaxBackoff))
		})
	})
})
