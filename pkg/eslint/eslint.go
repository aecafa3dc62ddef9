// Package eslint runs ESLint's no-unused-vars rule over a project and
// converts its JSON report into findings.
package eslint

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/toolrun"
)

// DefaultCommand launches ESLint through npx.
const DefaultCommand = "npx"

// DefaultArgs runs ESLint with only the unused-variable rule enabled and
// JSON output. --no-install keeps npx from downloading a missing linter.
var DefaultArgs = []string{
	"--no-install", "eslint", ".",
	"--ext", ".ts,.tsx,.js,.jsx",
	"--rule", "no-unused-vars: error",
	"--format", "json",
}

// DefaultRules are the rule IDs whose messages become findings.
var DefaultRules = []string{"no-unused-vars", "@typescript-eslint/no-unused-vars"}

// Options configures the adapter.
type Options struct {
	Command string
	Args    []string
	Rules   []string
	Timeout time.Duration
	// MaxFindings caps materialized findings. Zero means unlimited.
	MaxFindings int
}

// DefaultOptions returns the stock ESLint invocation.
func DefaultOptions() Options {
	return Options{
		Command: DefaultCommand,
		Args:    slices.Clone(DefaultArgs),
		Rules:   slices.Clone(DefaultRules),
		Timeout: toolrun.DefaultTimeout,
	}
}

// Adapter is the linter strategy.
type Adapter struct {
	runner toolrun.Runner
	root   string
	opts   Options
	logger *slog.Logger
}

// New creates an adapter that runs ESLint in root.
func New(runner toolrun.Runner, root string, opts Options, logger *slog.Logger) *Adapter {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}

	if len(opts.Args) == 0 {
		opts.Args = slices.Clone(DefaultArgs)
	}

	if len(opts.Rules) == 0 {
		opts.Rules = slices.Clone(DefaultRules)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{runner: runner, root: root, opts: opts, logger: logger}
}

// Name returns the strategy tag.
func (a *Adapter) Name() finding.Tag {
	return finding.TagESLint
}

// Run invokes ESLint and classifies the outcome. A non-zero exit is normal
// when findings exist, so the output is parsed regardless of exit status.
func (a *Adapter) Run(ctx context.Context) finding.Result {
	cmd := toolrun.Command{Name: a.opts.Command, Args: a.opts.Args, Dir: a.root, Timeout: a.opts.Timeout}

	out, err := a.runner.Run(ctx, cmd)

	var exitErr *toolrun.ExitError

	switch {
	case err == nil, errors.As(err, &exitErr):
	case errors.Is(err, toolrun.ErrToolNotFound):
		return finding.NotAvailable(finding.TagESLint, err.Error())
	case errors.Is(err, toolrun.ErrTimeout):
		a.logger.WarnContext(ctx, "eslint timed out", "timeout", a.opts.Timeout)

		return finding.Inconclusive(finding.TagESLint, err.Error())
	default:
		return finding.Inconclusive(finding.TagESLint, err.Error())
	}

	findings, parseErr := Parse(out.Stdout, a.root, a.opts.Rules)
	if parseErr != nil {
		if toolrun.LooksMissing(out.Combined()) {
			return finding.NotAvailable(finding.TagESLint, "eslint is not installed")
		}

		a.logger.WarnContext(ctx, "eslint output not understood", "exit_code", out.ExitCode, "error", parseErr)

		return finding.Inconclusive(finding.TagESLint, parseErr.Error())
	}

	finding.Sort(findings)

	total := len(findings)
	if a.opts.MaxFindings > 0 && total > a.opts.MaxFindings {
		findings = findings[:a.opts.MaxFindings]
	}

	return finding.Found(finding.TagESLint, findings, total)
}
