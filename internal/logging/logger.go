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

// Package logging builds the process logger and tags log lines with a run correlation ID.
package logging

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// New returns a zap backed logger writing to w. Verbose enables debug levels and
// development formatting.
func New(w io.Writer, verbose bool) logr.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zap.New(
		zap.UseDevMode(verbose),
		zap.WriteTo(w),
		zap.ConsoleEncoder(),
	)
}

// Setup creates a logger with New and installs it as the controller-runtime root logger.
func Setup(verbose bool) logr.Logger {
	log := New(os.Stderr, verbose)
	logf.SetLogger(log)
	return log
}
