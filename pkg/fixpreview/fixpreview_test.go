package fixpreview_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/fixpreview"
	"github.com/Sumatoshi-tech/importsweep/pkg/sourceset"
)

func rewrite(src string) string {
	file := sourceset.FromContent("a.ts", []byte(src))

	return string(fixpreview.Apply(file.Content, fixpreview.Edits(file)))
}

func TestEdits_Rewrites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "drops one named binding",
			src:  "import { used, unused } from 'x';\nused();\n",
			want: "import { used } from 'x';\nused();\n",
		},
		{
			name: "removes whole declaration",
			src:  "import gone from 'g';\nimport kept from 'k';\nkept();\n",
			want: "import kept from 'k';\nkept();\n",
		},
		{
			name: "keeps default drops namespace",
			src:  "import D, * as ns from \"m\";\nD();\n",
			want: "import D from \"m\";\nD();\n",
		},
		{
			name: "keeps rename and inline type",
			src:  "import { a as b, type T, c } from 'm';\nb(); let x: T;\n",
			want: "import { a as b, type T } from 'm';\nb(); let x: T;\n",
		},
		{
			name: "type only declaration",
			src:  "import type { A, B } from './t';\nlet a: A;\n",
			want: "import type { A } from './t';\nlet a: A;\n",
		},
		{
			name: "string export name",
			src:  "import { \"kebab-name\" as kebab, other } from 'm';\nkebab();\n",
			want: "import { \"kebab-name\" as kebab } from 'm';\nkebab();\n",
		},
		{
			name: "keeps attributes",
			src:  "import data, { extra } from './d.json' with { type: 'json' };\nuse(data);\n",
			want: "import data from './d.json' with { type: 'json' };\nuse(data);\n",
		},
		{
			name: "equals import removed",
			src:  "import fs = require('fs');\nconsole.log(1);\n",
			want: "console.log(1);\n",
		},
		{
			name: "shared line keeps other code",
			src:  "import a from 'a'; run();\n",
			want: "run();\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, rewrite(tt.src))
		})
	}
}

func TestEdits_SkipsMultilineAndClean(t *testing.T) {
	t.Parallel()

	multiline := "import {\n  a,\n  b,\n} from 'm';\na();\n"
	assert.Empty(t, fixpreview.Edits(sourceset.FromContent("a.ts", []byte(multiline))))

	clean := "import a from 'a';\na();\n"
	assert.Empty(t, fixpreview.Edits(sourceset.FromContent("a.ts", []byte(clean))))
}

func TestEdits_RecordsRemovedNames(t *testing.T) {
	t.Parallel()

	edits := fixpreview.Edits(sourceset.FromContent("a.ts", []byte("import a, { b, c } from 'm';\nb();\n")))
	require.Len(t, edits, 1)

	assert.Equal(t, 1, edits[0].Line)
	assert.Equal(t, []string{"a", "c"}, edits[0].Removed)
}

func TestLineDiff(t *testing.T) {
	t.Parallel()

	before := []byte("x\nimport { a, b } from 'm';\ny\nimport c from 'c';\nz\n")
	after := []byte("x\nimport { a } from 'm';\ny\nz\n")

	want := "--- a/f.ts\n+++ b/f.ts\n" +
		"@@ -2 +2 @@\n-import { a, b } from 'm';\n+import { a } from 'm';\n" +
		"@@ -4 +4 @@\n-import c from 'c';\n"

	assert.Equal(t, want, fixpreview.LineDiff("f.ts", before, after))
	assert.Empty(t, fixpreview.LineDiff("f.ts", before, before))
}

func TestForFindings(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.ts"), []byte("import { x, y } from 'm';\nx();\n"), 0o600))

	findings := []finding.Finding{
		{File: "src/a.ts", Line: 1, Identifier: "y", Strategy: finding.TagLexical},
		{File: "src/a.ts", Line: 1, Identifier: "y", Strategy: finding.TagLexical},
		{File: "src/b.ts", Line: 3, Identifier: "q", Strategy: finding.TagESLint},
		{File: "src/missing.ts", Line: 1, Identifier: "z", Strategy: finding.TagLexical},
	}

	previews, err := fixpreview.ForFindings(context.Background(), root, findings, 0)
	require.NoError(t, err)
	require.Len(t, previews, 1)

	assert.Equal(t, "src/a.ts", previews[0].File)
	assert.Contains(t, previews[0].Diff, "+import { x } from 'm';")

	var buf bytes.Buffer
	require.NoError(t, fixpreview.Render(&buf, previews, true))

	assert.Contains(t, buf.String(), "Suggested import cleanup")
	assert.Contains(t, buf.String(), "-import { x, y } from 'm';")
}

func TestRender_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, fixpreview.Render(&buf, nil, true))
	assert.Empty(t, buf.String())
}
