// Package query provides a keyed, de-duplicated cache for idempotent reads.
//
// One Cache is created at startup and shared by every view. Each key holds a
// single State that moves idle -> loading -> success|error. Concurrent readers
// of a key share one in-flight request; successes are served from memory until
// the key is invalidated; failures stay failed until refetched explicitly.
package query
