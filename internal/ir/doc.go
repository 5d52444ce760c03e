// Package ir defines the fold log records and their content-addressed
// identity.
//
// ir imports nothing internal; store, harness and cli depend on it.
//
// Key constraints:
//   - no float types; constants travel in operand notation strings
//   - all JSON tags use snake_case
//   - logical sequence numbers only, never wall-clock timestamps
package ir
