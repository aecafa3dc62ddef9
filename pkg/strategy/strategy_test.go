package strategy_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/lexscan"
	"github.com/Sumatoshi-tech/importsweep/pkg/strategy"
)

type countingStrategy struct {
	tag    finding.Tag
	result finding.Result
	calls  atomic.Int32
}

func (c *countingStrategy) Name() finding.Tag { return c.tag }

func (c *countingStrategy) Run(context.Context) finding.Result {
	c.calls.Add(1)

	return c.result
}

func lexicalStub() *countingStrategy {
	return &countingStrategy{
		tag:    finding.TagLexical,
		result: finding.Found(finding.TagLexical, []finding.Finding{{File: "a.ts", Line: 1, Identifier: "x"}}, 1),
	}
}

func TestOrchestrator_LexicalGate(t *testing.T) {
	t.Parallel()

	withFindings := finding.Found(finding.TagESLint, []finding.Finding{{File: "a.ts", Line: 1, Identifier: "x"}}, 1)

	tests := []struct {
		name        string
		linter      finding.Result
		wantLexical bool
	}{
		{name: "linter has findings", linter: withFindings, wantLexical: false},
		{name: "linter clean", linter: finding.Found(finding.TagESLint, nil, 0), wantLexical: true},
		{name: "linter inconclusive", linter: finding.Inconclusive(finding.TagESLint, "bad json"), wantLexical: true},
		{name: "linter unavailable", linter: finding.NotAvailable(finding.TagESLint, "missing"), wantLexical: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			linter := &countingStrategy{tag: finding.TagESLint, result: tt.linter}
			exports := &countingStrategy{tag: finding.TagTSPrune, result: finding.NotAvailable(finding.TagTSPrune, "missing")}
			lexical := lexicalStub()

			orch := &strategy.Orchestrator{Linter: linter, Exports: exports, Lexical: lexical}
			out := orch.Run(context.Background())

			assert.Equal(t, int32(1), linter.calls.Load())
			assert.Equal(t, int32(1), exports.calls.Load())

			if tt.wantLexical {
				assert.Equal(t, int32(1), lexical.calls.Load())
				assert.False(t, out.LexicalSkipped)
				assert.Len(t, out.Results(), 3)
				assert.True(t, out.Lexical.HasFindings())
			} else {
				assert.Zero(t, lexical.calls.Load())
				assert.True(t, out.LexicalSkipped)
				assert.NotEmpty(t, out.SkipReason)
				assert.Len(t, out.Results(), 2)
			}
		})
	}
}

func TestOrchestrator_AlwaysLexical(t *testing.T) {
	t.Parallel()

	linter := &countingStrategy{
		tag:    finding.TagESLint,
		result: finding.Found(finding.TagESLint, []finding.Finding{{Identifier: "x"}}, 1),
	}
	lexical := lexicalStub()

	out := (&strategy.Orchestrator{Linter: linter, Lexical: lexical, AlwaysLexical: true}).Run(context.Background())

	assert.Equal(t, int32(1), lexical.calls.Load())
	assert.False(t, out.LexicalSkipped)
}

func TestOrchestrator_NilStrategiesAreNotAvailable(t *testing.T) {
	t.Parallel()

	out := (&strategy.Orchestrator{}).Run(context.Background())

	assert.Equal(t, finding.OutcomeNotAvailable, out.Linter.Outcome)
	assert.Equal(t, finding.OutcomeNotAvailable, out.Exports.Outcome)
	assert.Equal(t, finding.OutcomeNotAvailable, out.Lexical.Outcome)
	assert.Equal(t, finding.TagLexical, out.Lexical.Strategy)
	assert.False(t, out.LexicalSkipped)
	assert.Equal(t, []finding.Tag{finding.TagESLint, finding.TagTSPrune, finding.TagLexical}, out.Disabled)
	assert.Empty(t, out.Results())
}

func TestOrchestrator_DisabledStrategiesAreNotResults(t *testing.T) {
	t.Parallel()

	linter := &countingStrategy{tag: finding.TagESLint, result: finding.Found(finding.TagESLint, nil, 0)}
	lexical := lexicalStub()

	out := (&strategy.Orchestrator{Linter: linter, Lexical: lexical}).Run(context.Background())

	assert.Equal(t, []finding.Tag{finding.TagTSPrune}, out.Disabled)

	results := out.Results()
	require.Len(t, results, 2)
	assert.Equal(t, finding.TagESLint, results[0].Strategy)
	assert.Equal(t, finding.TagLexical, results[1].Strategy)
}

func TestOrchestrator_RunsAdaptersConcurrently(t *testing.T) {
	t.Parallel()

	var ready sync.WaitGroup

	ready.Add(2)

	barrier := func(tag finding.Tag) strategy.Func {
		return strategy.Func{Tag: tag, Fn: func(ctx context.Context) finding.Result {
			ready.Done()
			ready.Wait()

			return finding.Found(tag, nil, 0)
		}}
	}

	done := make(chan strategy.Outcome, 1)

	go func() {
		done <- (&strategy.Orchestrator{Linter: barrier(finding.TagESLint), Exports: barrier(finding.TagTSPrune)}).Run(context.Background())
	}()

	select {
	case out := <-done:
		assert.Equal(t, finding.OutcomeFindings, out.Linter.Outcome)
		assert.Equal(t, finding.OutcomeFindings, out.Exports.Outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("linter and exports did not run concurrently")
	}
}

func TestOrchestrator_Observe(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []finding.Tag
	)

	orch := &strategy.Orchestrator{
		Linter:  &countingStrategy{tag: finding.TagESLint, result: finding.Found(finding.TagESLint, nil, 0)},
		Exports: &countingStrategy{tag: finding.TagTSPrune, result: finding.Found(finding.TagTSPrune, nil, 0)},
		Lexical: lexicalStub(),
		Observe: func(_ context.Context, r finding.Result, _ time.Duration) {
			mu.Lock()
			defer mu.Unlock()

			seen = append(seen, r.Strategy)
		},
	}

	orch.Run(context.Background())

	assert.ElementsMatch(t, []finding.Tag{finding.TagESLint, finding.TagTSPrune, finding.TagLexical}, seen)
}

func TestLexical_Run(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("import { used, unused } from 'x';\nused();\n"), 0o600))

	lex := &strategy.Lexical{Scanner: &lexscan.Scanner{Root: root}, Paths: []string{path}}

	result := lex.Run(context.Background())

	assert.Equal(t, finding.TagLexical, lex.Name())
	assert.Equal(t, 2, lex.Lines())
	assert.Equal(t, finding.OutcomeFindings, result.Outcome)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "unused", result.Findings[0].Identifier)
}

func TestLexical_Canceled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("import a from 'a';\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := (&strategy.Lexical{Scanner: &lexscan.Scanner{Root: root}, Paths: []string{path}}).Run(ctx)
	assert.Equal(t, finding.OutcomeInconclusive, result.Outcome)
}
