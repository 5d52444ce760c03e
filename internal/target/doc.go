// Package target emulates a cross-compilation target's integer and
// floating-point arithmetic in software.
//
// Int is an integer of a configurable precision and signedness with
// two's-complement wraparound for unsigned values and overflow detection for
// signed ones. Float is a binary floating-point value of a configurable
// significand and exponent width with round-to-nearest-even, subnormals,
// infinities and NaN. Neither depends on the host's native arithmetic.
//
// # Errors
//
// Fallible operations return a *ArithError carrying an ErrorCode:
//
//   - SIGNED_OVERFLOW: signed arithmetic or conversion out of range
//   - SHIFT_OVERFLOW: bad shift distance or unrepresentable signed shift
//   - DIVISION_BY_ZERO: integer / or % by zero
//   - FLOAT_TO_INT_OVERFLOW: float truncated into an integer that can't hold it
//
// Use errors.Is with the Err* sentinels, or IsOverflow and
// IsDivisionByZero. Float arithmetic never fails: overflow saturates to
// Inf and invalid operations yield NaN.
//
// Mixing configurations (an Int of precision 31 with one of precision 63, a
// float of (24, 8) with one of (53, 11)) is a programming error and panics.
//
// # Float encoding
//
// The biased exponent uses 1, not 0, for zero and subnormal values, so the
// value of a finite float is always f * 2^(E - bias - (fWidth-1)). The
// encoding is only visible through Exponent.
package target
