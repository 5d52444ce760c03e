package arch

import (
	"sort"
)

var builtins = map[string]Target{
	"x86_64-gcc": {
		Name:       "x86_64-gcc",
		CharSigned: true,
		IntWidths: IntWidths{
			Bool: 8, Char: 8, Short: 16, Int: 32, Long: 64, LLong: 64, Int128: 128,
		},
		Floats: Floats{
			Float:   Format{FWidth: 24, EWidth: 8},
			Double:  Format{FWidth: 53, EWidth: 11},
			LDouble: Format{FWidth: 113, EWidth: 15},
		},
		PointerWidth: 64,
	},
	"i386-gcc": {
		Name:       "i386-gcc",
		CharSigned: true,
		IntWidths: IntWidths{
			Bool: 8, Char: 8, Short: 16, Int: 32, Long: 32, LLong: 64, Int128: 128,
		},
		Floats: Floats{
			Float:   Format{FWidth: 24, EWidth: 8},
			Double:  Format{FWidth: 53, EWidth: 11},
			LDouble: Format{FWidth: 64, EWidth: 15},
		},
		PointerWidth: 32,
	},
}

// Default is the target used when none is named.
const Default = "x86_64-gcc"

// Lookup returns a copy of a built-in target.
func Lookup(name string) (*Target, bool) {
	t, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return &t, true
}

// Names returns the built-in target names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
