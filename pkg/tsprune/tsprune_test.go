package tsprune_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/toolrun"
	"github.com/Sumatoshi-tech/importsweep/pkg/tsprune"
)

const sampleOutput = `src/utils.ts:12 - helperFn
src/types.ts:3 - Props (used in module)
src/index.ts:1 - default
warning: something odd
`

func stub(out toolrun.Output, err error) toolrun.Runner {
	return toolrun.RunnerFunc(func(context.Context, toolrun.Command) (toolrun.Output, error) {
		return out, err
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	parsed, err := tsprune.Parse(sampleOutput, "/repo")
	require.NoError(t, err)

	require.Len(t, parsed.Findings, 2)
	assert.Equal(t, 1, parsed.Noise)

	f := parsed.Findings[0]
	assert.Equal(t, "src/utils.ts", f.File)
	assert.Equal(t, 12, f.Line)
	assert.Equal(t, "helperFn", f.Identifier)
	assert.Equal(t, finding.TagTSPrune, f.Strategy)
	assert.Equal(t, "default", parsed.Findings[1].Identifier)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	parsed, err := tsprune.Parse("\n\n", "/repo")
	require.NoError(t, err)
	assert.NotNil(t, parsed.Findings)
	assert.Empty(t, parsed.Findings)
}

func TestParse_OnlyUsedInModule(t *testing.T) {
	t.Parallel()

	parsed, err := tsprune.Parse("src/a.ts:1 - A (used in module)\n", "/repo")
	require.NoError(t, err)
	assert.Empty(t, parsed.Findings)
}

func TestParse_NothingParses(t *testing.T) {
	t.Parallel()

	_, err := tsprune.Parse("TypeError: cannot read properties of undefined\n    at main\n", "/repo")
	require.ErrorIs(t, err, tsprune.ErrUnparseableOutput)
}

func TestAdapter_Outcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		out     toolrun.Output
		err     error
		outcome finding.Outcome
		total   int
	}{
		{
			name:    "findings with --error exit",
			out:     toolrun.Output{Stdout: []byte(sampleOutput), ExitCode: 1},
			err:     &toolrun.ExitError{Output: toolrun.Output{ExitCode: 1}},
			outcome: finding.OutcomeFindings,
			total:   2,
		},
		{
			name:    "clean exit",
			out:     toolrun.Output{},
			outcome: finding.OutcomeFindings,
		},
		{
			name:    "npx missing",
			err:     toolrun.ErrToolNotFound,
			outcome: finding.OutcomeNotAvailable,
		},
		{
			name:    "ts-prune not installed",
			out:     toolrun.Output{Stderr: []byte("sh: 1: ts-prune: not found"), ExitCode: 127},
			err:     &toolrun.ExitError{Output: toolrun.Output{ExitCode: 127}},
			outcome: finding.OutcomeNotAvailable,
		},
		{
			name:    "missing module",
			out:     toolrun.Output{Stderr: []byte("Error: Cannot find module 'typescript'"), ExitCode: 1},
			err:     &toolrun.ExitError{Output: toolrun.Output{ExitCode: 1}},
			outcome: finding.OutcomeNotAvailable,
		},
		{
			name: "findings despite missing-module noise",
			out: toolrun.Output{
				Stdout:   []byte(sampleOutput),
				Stderr:   []byte("warning: Cannot find module 'x' from src/legacy.ts"),
				ExitCode: 1,
			},
			err:     &toolrun.ExitError{Output: toolrun.Output{ExitCode: 1}},
			outcome: finding.OutcomeFindings,
			total:   2,
		},
		{
			name:    "npx cannot resolve ts-prune",
			out:     toolrun.Output{Stdout: []byte("npm ERR! could not determine executable to run\n")},
			outcome: finding.OutcomeNotAvailable,
		},
		{
			name:    "failure without output",
			out:     toolrun.Output{Stderr: []byte("tsconfig.json is invalid"), ExitCode: 1},
			err:     &toolrun.ExitError{Output: toolrun.Output{ExitCode: 1}},
			outcome: finding.OutcomeInconclusive,
		},
		{
			name:    "garbage output",
			out:     toolrun.Output{Stdout: []byte("panic!\n")},
			outcome: finding.OutcomeInconclusive,
		},
		{
			name:    "timeout",
			err:     toolrun.ErrTimeout,
			outcome: finding.OutcomeInconclusive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := tsprune.New(stub(tt.out, tt.err), "/repo", tsprune.Options{}, nil).Run(context.Background())

			assert.Equal(t, finding.TagTSPrune, result.Strategy)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.total, result.Total)
		})
	}
}

func TestAdapter_MaxFindings(t *testing.T) {
	t.Parallel()

	opts := tsprune.DefaultOptions()
	opts.MaxFindings = 1

	result := tsprune.New(stub(toolrun.Output{Stdout: []byte(sampleOutput)}, nil), "/repo", opts, nil).Run(context.Background())

	require.Len(t, result.Findings, 1)
	assert.Equal(t, "src/index.ts", result.Findings[0].File)
	assert.Equal(t, 2, result.Total)
}
