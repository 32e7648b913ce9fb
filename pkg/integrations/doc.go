// Package integrations provides HTTP clients for remote artifact repositories.
//
// # Overview
//
// relcat only talks to Maven-layout repositories; the [maven] subpackage
// builds manifest URLs and downloads POM files. This package holds the
// shared plumbing:
//
//   - [Client]: GET with per-attempt timeout, retry of transient failures
//     and observability hooks
//   - [ErrNotFound] / [ErrNetwork]: sentinel errors for callers
//
// # Errors
//
// A 404 maps to [ErrNotFound] and is never retried. Connection failures and
// 5xx responses map to [ErrNetwork] and are retried with exponential backoff
// (see [httputil.Retry]). Any other status is a non-retryable [ErrNetwork].
//
// [maven]: github.com/matzehuels/relcat/pkg/integrations/maven
// [httputil.Retry]: github.com/matzehuels/relcat/pkg/httputil.Retry
package integrations
