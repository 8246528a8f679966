// Package parser builds statement trees from SQL token streams.
//
// Expressions use precedence climbing. A single recursive function takes a
// minimum binding power; operators that bind no tighter than that minimum
// end the current sub-expression and are handled by the enclosing call:
//
//	2 * 4 - (3 + 5 / 4)   =>   ((2 * 4) - (3 + (5 / 4)))
//
// Errors are returned as data in Result.Err; malformed input never panics.
package parser
