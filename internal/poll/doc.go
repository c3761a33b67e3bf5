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

// Package poll waits for an externally observed resource to reach a condition.
//
// A Poller repeatedly fetches a snapshot, evaluates a predicate over it and sleeps with
// capped exponential backoff in between. Fetch errors are retried unless they carry a
// TerminalError; the wait ends with a TimeoutError once the deadline passes.
//
// Usage:
//
//	err := poll.Until(ctx, "db-instance/my-db", poll.DefaultConfig(),
//	    observer.InstanceFetcher("my-db"),
//	    rds.InstanceStatusMatches("available"),
//	    rds.DescribeInstance,
//	)
package poll
