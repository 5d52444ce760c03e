package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ccfold/internal/arch"
)

// Scenario is a conformance test: a list of folds evaluated against one
// target, each optionally checked against an expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Target is a built-in target name or the path of a CUE target
	// description. Relative paths are resolved against the scenario file's
	// directory. Empty means the default target.
	Target string `yaml:"target,omitempty"`

	// RunID is an optional fixed run id. If empty, defaults to
	// "test-run-default" so fold ids are stable across runs.
	RunID string `yaml:"run_id,omitempty"`

	// Steps are evaluated in order.
	Steps []Step `yaml:"steps"`
}

// Step is one operation of a scenario.
type Step struct {
	// Op is a C operator, "cast:<kind>", "decimal:<digits>" or "enum".
	Op string `yaml:"op"`

	// Operands in operand notation, e.g. "int:-1" or "double:0x1p-3".
	Operands []string `yaml:"operands"`

	// Expect specifies the expected outcome. If nil, the step is only
	// recorded.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is the expected outcome of a step. Every set field is checked.
// A step expecting no error fails when one occurs.
type Expect struct {
	// Value is the expected result string.
	Value string `yaml:"value,omitempty"`

	// Decimal is the expected rendering of a floating result with Digits
	// significant digits (max_digits10 of its format when Digits is 0).
	Decimal string `yaml:"decimal,omitempty"`
	Digits  uint   `yaml:"digits,omitempty"`

	// Diagnostic is a diagnostic code that must be reported. When empty,
	// no diagnostic may be reported.
	Diagnostic string `yaml:"diagnostic,omitempty"`

	// Error is the expected fatal error code.
	Error string `yaml:"error,omitempty"`

	// NoValue expects the fold to succeed without a constant value.
	NoValue bool `yaml:"no_value,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. A relative target
// path is resolved against the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative target path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if isTargetFile(scenario.Target) && !filepath.IsAbs(scenario.Target) && basePath != "" {
		scenario.Target = filepath.Join(basePath, scenario.Target)
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func isTargetFile(target string) bool {
	if _, builtin := arch.Lookup(target); builtin {
		return false
	}
	return strings.HasSuffix(target, ".cue")
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Target != "" && !isTargetFile(s.Target) {
		if _, ok := arch.Lookup(s.Target); !ok {
			return fmt.Errorf("target %q is neither a built-in (%v) nor a .cue file", s.Target, arch.Names())
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("step %d: op is required", i+1)
		}
		if len(step.Operands) == 0 {
			return fmt.Errorf("step %d: operands list is required and must be non-empty", i+1)
		}
		if e := step.Expect; e != nil {
			if e.Error != "" && (e.Value != "" || e.Decimal != "" || e.NoValue) {
				return fmt.Errorf("step %d: expect.error excludes value, decimal and no_value", i+1)
			}
			if e.NoValue && (e.Value != "" || e.Decimal != "") {
				return fmt.Errorf("step %d: expect.no_value excludes value and decimal", i+1)
			}
			if e.Digits != 0 && e.Decimal == "" {
				return fmt.Errorf("step %d: expect.digits requires expect.decimal", i+1)
			}
		}
	}
	return nil
}
