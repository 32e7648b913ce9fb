// Package httputil provides retry helpers shared by the repository clients
// and the MongoDB publisher.
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a [RetryableError]:
//
//   - Network errors (connection refused, timeouts)
//   - 5xx server errors
//
// Other errors, such as a 404 for a manifest that was never published, are
// returned immediately. The delay doubles after each failed attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx, url)
//	})
//
// [RetryNotify] does the same and reports every failed attempt, which the
// repository client uses for debug logging.
package httputil
