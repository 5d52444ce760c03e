package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ccfold/internal/arch"
	"github.com/roach88/ccfold/internal/target"
)

// ArchResult is the output of the arch command.
type ArchResult struct {
	Builtins []string       `json:"builtins,omitempty"`
	Targets  []*arch.Target `json:"targets,omitempty"`
}

func (r ArchResult) String() string {
	if r.Targets == nil {
		return strings.Join(r.Builtins, "\n")
	}
	parts := make([]string, len(r.Targets))
	for i, t := range r.Targets {
		parts[i] = describeTargetText(t)
	}
	return strings.Join(parts, "\n\n")
}

// NewArchCommand creates the arch command.
func NewArchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arch [name|file.cue|dir]",
		Short: "Show target descriptions",
		Long: `Show the integer widths and floating formats of a target.

With no argument, list the built-in targets. A CUE file or directory is
validated against the target schema and every target it defines is shown.

Examples:
  ccfold arch
  ccfold arch i386-gcc
  ccfold arch ./targets/avr.cue
  ccfold arch ./targets --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArch(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runArch(opts *RootOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts)
	if len(args) == 0 {
		return f.Success(ArchResult{Builtins: arch.Names()})
	}

	var (
		targets []*arch.Target
		err     error
	)
	if info, statErr := os.Stat(args[0]); statErr == nil && info.IsDir() {
		targets, err = arch.LoadDir(args[0])
	} else {
		var t *arch.Target
		t, err = arch.Resolve(args[0])
		targets = []*arch.Target{t}
	}
	if err != nil {
		if opts.Format == "json" {
			_ = f.Error(ErrCodeTarget, err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "failed to load target", err)
	}
	return f.Success(ArchResult{Targets: targets})
}

// describeTargetText renders one target as an aligned table.
func describeTargetText(t *arch.Target) string {
	var sb strings.Builder
	char := "unsigned"
	if t.CharSigned {
		char = "signed"
	}
	fmt.Fprintf(&sb, "%s (char %s, pointer %d bits)\n", t.Name, char, t.PointerWidth)

	for _, k := range arch.IntKinds {
		prec, signed := t.IntPrec(k)
		sign := "unsigned"
		if signed {
			sign = "signed"
		}
		width := t.IntWidth(k)
		fmt.Fprintf(&sb, "  %-8s %3d bits  prec %3d  %-8s %s\n", k, width, prec, sign, arch.IntMode(width))
	}
	for i, k := range arch.FloatKinds {
		format := t.FloatFormat(k)
		fmt.Fprintf(&sb, "  %-8s f_width %3d  e_width %2d  digits %d", k, format.FWidth, format.EWidth, target.MaxDigits10(format.FWidth))
		if i < len(arch.FloatKinds)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
