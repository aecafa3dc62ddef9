// Package tsprune runs ts-prune to list exports no other module imports.
package tsprune

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/toolrun"
)

// ErrUnparseableOutput is returned when no output line has the
// "path:line - name" shape.
var ErrUnparseableOutput = errors.New("unparseable ts-prune output")

// DefaultCommand launches ts-prune through npx.
const DefaultCommand = "npx"

// DefaultArgs makes ts-prune exit non-zero when unused exports exist.
var DefaultArgs = []string{"--no-install", "ts-prune", "--error"}

// usedInModule marks exports that are only used in the declaring file.
const usedInModule = "used in module"

// ruleUnusedExport is the rule attached to ts-prune findings.
const ruleUnusedExport = "unused-export"

var linePattern = regexp.MustCompile(`^(.+?):(\d+) - (\S+)`)

// Options configures the adapter.
type Options struct {
	Command     string
	Args        []string
	Timeout     time.Duration
	MaxFindings int
}

// DefaultOptions returns the stock ts-prune invocation.
func DefaultOptions() Options {
	return Options{Command: DefaultCommand, Args: slices.Clone(DefaultArgs), Timeout: toolrun.DefaultTimeout}
}

// Parsed is the result of reading ts-prune output.
type Parsed struct {
	Findings []finding.Finding
	// Noise counts candidate lines that did not match the expected shape.
	Noise int
}

// Parse reads ts-prune output. Empty output is a clean result; output with
// candidate lines of which none parse is an error.
func Parse(output string, root string) (Parsed, error) {
	parsed := Parsed{Findings: []finding.Finding{}}

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	candidates := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.Contains(line, usedInModule) {
			continue
		}

		candidates++

		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			parsed.Noise++

			continue
		}

		lineNo, err := strconv.Atoi(m[2])
		if err != nil {
			parsed.Noise++

			continue
		}

		parsed.Findings = append(parsed.Findings, finding.Finding{
			File:       finding.RelPath(root, m[1]),
			Line:       lineNo,
			Identifier: m[3],
			Message:    fmt.Sprintf("export '%s' is not used by any other module", m[3]),
			Rule:       ruleUnusedExport,
			Strategy:   finding.TagTSPrune,
		})
	}

	if err := scanner.Err(); err != nil {
		return Parsed{}, fmt.Errorf("%w: %w", ErrUnparseableOutput, err)
	}

	if candidates > 0 && len(parsed.Findings) == 0 {
		return Parsed{}, fmt.Errorf("%w: %d line(s) without path:line - name", ErrUnparseableOutput, candidates)
	}

	return parsed, nil
}

// Adapter is the export-usage strategy.
type Adapter struct {
	runner toolrun.Runner
	root   string
	opts   Options
	logger *slog.Logger
}

// New creates an adapter that runs ts-prune in root.
func New(runner toolrun.Runner, root string, opts Options, logger *slog.Logger) *Adapter {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}

	if len(opts.Args) == 0 {
		opts.Args = slices.Clone(DefaultArgs)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{runner: runner, root: root, opts: opts, logger: logger}
}

// Name returns the strategy tag.
func (a *Adapter) Name() finding.Tag {
	return finding.TagTSPrune
}

// Run invokes ts-prune and classifies the outcome.
func (a *Adapter) Run(ctx context.Context) finding.Result {
	cmd := toolrun.Command{Name: a.opts.Command, Args: a.opts.Args, Dir: a.root, Timeout: a.opts.Timeout}

	out, err := a.runner.Run(ctx, cmd)

	var exitErr *toolrun.ExitError

	switch {
	case err == nil, errors.As(err, &exitErr):
	case errors.Is(err, toolrun.ErrToolNotFound):
		return finding.NotAvailable(finding.TagTSPrune, err.Error())
	default:
		if errors.Is(err, toolrun.ErrTimeout) {
			a.logger.WarnContext(ctx, "ts-prune timed out", "timeout", a.opts.Timeout)
		}

		return finding.Inconclusive(finding.TagTSPrune, err.Error())
	}

	if exitErr != nil && strings.TrimSpace(string(out.Stdout)) == "" {
		if toolrun.LooksMissing(out.Combined()) {
			return notInstalled()
		}

		a.logger.WarnContext(ctx, "ts-prune failed without output", "exit_code", out.ExitCode)

		return finding.Inconclusive(finding.TagTSPrune, fmt.Sprintf("ts-prune exited %d without output", out.ExitCode))
	}

	parsed, parseErr := Parse(string(out.Stdout), a.root)
	if parseErr != nil {
		if toolrun.LooksMissing(out.Combined()) {
			return notInstalled()
		}

		a.logger.WarnContext(ctx, "ts-prune output not understood", "exit_code", out.ExitCode, "error", parseErr)

		return finding.Inconclusive(finding.TagTSPrune, parseErr.Error())
	}

	if parsed.Noise > 0 {
		a.logger.DebugContext(ctx, "ts-prune emitted unrecognized lines", "count", parsed.Noise)
	}

	findings := parsed.Findings
	finding.Sort(findings)

	total := len(findings)
	if a.opts.MaxFindings > 0 && total > a.opts.MaxFindings {
		findings = findings[:a.opts.MaxFindings]
	}

	return finding.Found(finding.TagTSPrune, findings, total)
}

func notInstalled() finding.Result {
	return finding.NotAvailable(finding.TagTSPrune, "ts-prune is not installed")
}
