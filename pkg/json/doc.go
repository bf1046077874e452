// Package json implements the ECMA-262 JSON.stringify and JSON.parse
// algorithms over hostval value graphs.
//
// Stringify reproduces the full observable surface of the specification
// algorithm: toJSON dispatch, replacer functions and allow-lists, space/gap
// resolution, wrapper unboxing, canonical number formatting, string escaping,
// and cycle detection over an ancestor stack. Parse wraps the scanner
// collaborator and, when a reviver is supplied, performs the specification's
// bottom-up Walk over the freshly parsed tree.
//
// Both directions are safe against adversarial callbacks: key lists are
// snapshotted before iteration, ancestor-stack entries are released on every
// exit path, and recursion depth is bounded so pathological nesting fails
// with a range error instead of exhausting the goroutine stack.
package json
