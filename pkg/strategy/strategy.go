// Package strategy chains the detection strategies and decides when the
// lexical fallback runs.
package strategy

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
)

// ReasonDisabled is the skip reason for strategies turned off by configuration.
const ReasonDisabled = "disabled"

// Strategy detects unused symbols. Run never returns an error: failures are
// expressed as NotAvailable or Inconclusive results.
type Strategy interface {
	Name() finding.Tag
	Run(ctx context.Context) finding.Result
}

// Orchestrator runs the linter and export strategies concurrently, then the
// lexical strategy only when the linter reported nothing.
type Orchestrator struct {
	Linter  Strategy
	Exports Strategy
	Lexical Strategy

	// AlwaysLexical runs the lexical strategy regardless of the linter.
	AlwaysLexical bool

	Logger *slog.Logger
	// Observe is called after every strategy that ran, possibly from
	// several goroutines at once.
	Observe func(ctx context.Context, result finding.Result, elapsed time.Duration)
}

// Outcome holds every strategy result from one run.
type Outcome struct {
	Linter  finding.Result
	Exports finding.Result
	Lexical finding.Result

	// LexicalSkipped is set when the gate kept the lexical strategy from running.
	LexicalSkipped bool
	SkipReason     string

	// Disabled lists the strategies that were not configured, in priority order.
	Disabled []finding.Tag
}

// Results returns the results of strategies that ran, in priority order.
func (o Outcome) Results() []finding.Result {
	var results []finding.Result

	for _, result := range []finding.Result{o.Linter, o.Exports, o.Lexical} {
		if slices.Contains(o.Disabled, result.Strategy) {
			continue
		}

		if result.Strategy == finding.TagLexical && o.LexicalSkipped {
			continue
		}

		results = append(results, result)
	}

	return results
}

// Run executes the strategies. Cancellation of ctx surfaces as
// Inconclusive results from the strategies still running.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	out := Outcome{Disabled: o.disabled()}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out.Linter = o.run(gctx, o.Linter, finding.TagESLint)

		return nil
	})

	g.Go(func() error {
		out.Exports = o.run(gctx, o.Exports, finding.TagTSPrune)

		return nil
	})

	_ = g.Wait()

	if out.Linter.HasFindings() && !o.AlwaysLexical {
		out.LexicalSkipped = true
		out.SkipReason = "linter reported findings"
		out.Lexical = finding.NotAvailable(finding.TagLexical, out.SkipReason)
		o.logger().InfoContext(ctx, "skipping lexical fallback", "reason", out.SkipReason)

		return out
	}

	out.Lexical = o.run(ctx, o.Lexical, finding.TagLexical)

	return out
}

func (o *Orchestrator) run(ctx context.Context, s Strategy, tag finding.Tag) finding.Result {
	if s == nil {
		return finding.NotAvailable(tag, ReasonDisabled)
	}

	start := time.Now()
	result := s.Run(ctx)
	elapsed := time.Since(start)

	o.logger().InfoContext(ctx, "strategy finished",
		"strategy", string(result.Strategy),
		"outcome", string(result.Outcome),
		"findings", result.Total,
		"elapsed", elapsed.Round(time.Millisecond),
		"reason", result.Reason,
	)

	if o.Observe != nil {
		o.Observe(ctx, result, elapsed)
	}

	return result
}

func (o *Orchestrator) disabled() []finding.Tag {
	var tags []finding.Tag

	if o.Linter == nil {
		tags = append(tags, finding.TagESLint)
	}

	if o.Exports == nil {
		tags = append(tags, finding.TagTSPrune)
	}

	if o.Lexical == nil {
		tags = append(tags, finding.TagLexical)
	}

	return tags
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.Default()
}

// Func adapts a function to the Strategy interface.
type Func struct {
	Tag finding.Tag
	Fn  func(ctx context.Context) finding.Result
}

// Name returns the tag.
func (f Func) Name() finding.Tag {
	return f.Tag
}

// Run calls Fn.
func (f Func) Run(ctx context.Context) finding.Result {
	return f.Fn(ctx)
}
