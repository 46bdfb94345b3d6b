// Package pipeline pairs adjacent records, aligns each pair on a persistent
// worker pool, and hands results to an emit callback in input order.
//
// The only contract an executor implements is Executor (Dispatch). Pool is
// the parallel one; Inline runs on the caller's goroutine.
package pipeline
