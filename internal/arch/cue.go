package arch

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// Error codes for LoadError.
const (
	ErrCodeNotFound      = "TARGET_NOT_FOUND"
	ErrCodeLoadFailed    = "CUE_LOAD_FAILED"
	ErrCodeBuildFailed   = "CUE_BUILD_FAILED"
	ErrCodeInvalidTarget = "INVALID_TARGET"
)

// LoadError is returned when a target description cannot be loaded or is
// invalid.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError reports whether err is a *LoadError with the given code.
func IsLoadError(err error, code string) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == code
}

// Resolve returns the built-in target called nameOrPath, or loads the single
// target defined in the CUE file at that path.
func Resolve(nameOrPath string) (*Target, error) {
	if nameOrPath == "" {
		nameOrPath = Default
	}
	if t, ok := Lookup(nameOrPath); ok {
		return t, nil
	}
	if _, err := os.Stat(nameOrPath); err != nil {
		return nil, &LoadError{
			Code:    ErrCodeNotFound,
			Message: fmt.Sprintf("%q is neither a built-in target (%v) nor a readable file", nameOrPath, Names()),
		}
	}
	targets, err := LoadFile(nameOrPath)
	if err != nil {
		return nil, err
	}
	if len(targets) != 1 {
		return nil, &LoadError{
			Code:    ErrCodeInvalidTarget,
			Message: fmt.Sprintf("%s defines %d targets, want exactly one", nameOrPath, len(targets)),
		}
	}
	return targets[0], nil
}

// LoadFile reads the targets defined in one CUE file.
func LoadFile(path string) ([]*Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}
	return decodeTargets(ctx, v)
}

// LoadDir loads the CUE package in dir and returns every target it defines,
// sorted by name.
func LoadDir(dir string) ([]*Target, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("target directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}
	return decodeTargets(ctx, v)
}

// decodeTargets unifies v with the schema and decodes every entry under
// "target".
func decodeTargets(ctx *cue.Context, v cue.Value) ([]*Target, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}
	v = schema.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(ErrCodeInvalidTarget, err)
	}

	targetsVal := v.LookupPath(cue.ParsePath("target"))
	if !targetsVal.Exists() {
		return nil, &LoadError{Code: ErrCodeInvalidTarget, Message: "no targets defined"}
	}
	iter, err := targetsVal.Fields()
	if err != nil {
		return nil, formatCUEError(ErrCodeInvalidTarget, err)
	}

	var targets []*Target
	for iter.Next() {
		t := &Target{}
		if err := iter.Value().Decode(t); err != nil {
			return nil, formatCUEError(ErrCodeInvalidTarget, err)
		}
		t.Name = iter.Label()
		if err := t.Validate(); err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				le.Pos = iter.Value().Pos()
			}
			return nil, err
		}
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return nil, &LoadError{Code: ErrCodeInvalidTarget, Message: "no targets defined"}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })
	return targets, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(code string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
