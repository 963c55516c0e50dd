// Package resource implements budget enforcement for the cache subsystem.
//
// The Controller manages three budgets:
//
//   - Memory: track and cap memory consumed by warm sessions and decode
//     caches (non-blocking, fail-fast)
//   - Workers: bound concurrent background generators
//   - Rate: token-bucket pacing of entry generation so warming never starves
//     a running search
//
// All Controller methods are safe for concurrent use and handle a nil
// receiver gracefully, so budget enforcement is optional without nil checks
// everywhere.
package resource
