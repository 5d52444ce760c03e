package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ccfold/internal/ir"
)

// Snapshot renders a scenario's fold log for golden comparison: a header
// line followed by one canonical JSON object per fold. Ids, run ids and
// hashes are left out; they follow from the rest.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	var buf bytes.Buffer

	header, err := ir.MarshalCanonical(ir.IRObject{
		"scenario": ir.IRString(scenarioName),
		"target":   ir.IRString(result.Target),
	})
	if err != nil {
		return nil, err
	}
	buf.Write(header)
	buf.WriteByte('\n')

	for _, rec := range result.Folds {
		line, err := ir.MarshalCanonical(foldObject(rec))
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func foldObject(rec ir.FoldRecord) ir.IRObject {
	obj := ir.IRObject{
		"seq":      ir.IRInt(rec.Seq),
		"op":       ir.IRString(rec.Op),
		"operands": ir.Strings(rec.Operands),
	}
	if rec.Result != "" {
		obj["result"] = ir.IRString(rec.Result)
	}
	if rec.Error != "" {
		obj["error"] = ir.IRString(rec.Error)
	}
	if len(rec.Diagnostics) > 0 {
		diags := make(ir.IRArray, len(rec.Diagnostics))
		for i, d := range rec.Diagnostics {
			diags[i] = ir.IRObject{
				"severity": ir.IRString(d.Severity),
				"code":     ir.IRString(d.Code),
				"message":  ir.IRString(d.Message),
			}
		}
		obj["diagnostics"] = diags
	}
	return obj
}

// RunWithGolden executes a scenario and compares its fold log against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the fold log doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the golden file named
// after scenarioName, without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)
	return nil
}
