// Package fold evaluates C constant expressions on target values.
//
// A Folder applies the C conversion rules of one arch.Target (integer
// promotions, usual arithmetic conversions, casts) around the exact
// arithmetic of package target, and turns arithmetic failures into the
// diagnostics a compiler would emit:
//
//   - signed overflow and overflowing shifts are warnings; the result is the
//     two's-complement wrapped value GCC would fold to
//   - integer division or remainder by zero and shifts by a negative
//     distance are fatal and return a *FoldError
//   - a float to integer conversion out of range is a warning and the
//     result has no value
//
// Constants are exchanged in operand notation ("int:-1", "double:0x1p-3",
// "float:nan"); see ParseOperand and FormatValue.
package fold
