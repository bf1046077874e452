// Package pkg provides the core libraries for ecmason JSON processing.
//
// # Overview
//
// ecmason reimplements the serialization and revival semantics of
// ECMAScript's JSON object: toJSON lookups, replacer functions and key
// allow-lists, gap-based pretty printing, cycle detection, and the
// post-order reviver walk. The pkg directory is organized into:
//
//  1. [hostval] - The host value model (objects, arrays, callables, boxed primitives)
//  2. [scanner] - RFC 8259 text scanning into host values
//  3. [json] - The stringify and parse engines
//  4. [cache] - Content-addressed result caching (filesystem or Redis)
//  5. [errors] - Structured error codes
//  6. [observability] - Pluggable engine and cache hooks
//
// # Architecture
//
// The typical data flow through ecmason:
//
//	JSON text
//	     ↓
//	[scanner] package (grammar → host values)
//	     ↓
//	[json] package (reviver walk / replacer + gap serialization)
//	     ↓
//	JSON text out
//
// # Quick Start
//
//	v, err := json.Parse(`{"a":1}`, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _, err := json.Stringify(v, nil, hostval.String("  "))
package pkg
