// Package harness runs conformance scenarios against the constant folder.
//
// A scenario is a YAML file naming a target and a list of steps. Each step
// is an operation in the notation shared with the CLI:
//
//	name: int_overflow
//	description: signed int arithmetic wraps with a warning
//	target: x86_64-gcc
//	steps:
//	  - op: "+"
//	    operands: ["int:2147483647", "int:1"]
//	    expect:
//	      value: "int:-2147483648"
//	      diagnostic: SIGNED_OVERFLOW
//
// Run evaluates the steps in order in a fresh in-memory fold log, with a
// fixed run id and sequence numbers starting at 1, and checks every expect
// clause. RunWithGolden additionally compares the recorded fold log with a
// golden file under testdata/golden.
//
// Evaluate is the single entry point from operation notation to the fold
// layer; the CLI uses it for eval and replay.
package harness
