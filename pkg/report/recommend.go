package report

import (
	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
)

// Recommendation is one remediation hint.
type Recommendation struct {
	Text    string `json:"text"              yaml:"text"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

// Recommendations suggests next steps based on what the scan found and
// which tools were missing.
func Recommendations(r *Report) []Recommendation {
	var recs []Recommendation

	if r.TotalFindings > 0 {
		recs = append(recs, Recommendation{
			Text:    "Run ESLint with --fix to remove unused imports automatically:",
			Command: "npx eslint . --ext .ts,.tsx,.js,.jsx --fix",
		})
	}

	if s, ok := r.Summary(finding.TagTSPrune); ok && s.Outcome == finding.OutcomeNotAvailable {
		recs = append(recs, Recommendation{
			Text:    "Install ts-prune for unused export detection:",
			Command: "npm install --save-dev ts-prune",
		})
	}

	if s, ok := r.Summary(finding.TagESLint); ok && s.Outcome == finding.OutcomeNotAvailable {
		recs = append(recs, Recommendation{
			Text:    "Install ESLint for scope-aware unused variable detection:",
			Command: "npm install --save-dev eslint",
		})
	}

	if r.TotalFindings > 0 {
		recs = append(recs,
			Recommendation{
				Text:    "Configure your editor to highlight unused imports, or serve diagnostics with:",
				Command: "importsweep lsp",
			},
			Recommendation{
				Text:    "Keep imports tidy with an organizer such as organize-imports-cli:",
				Command: "npx organize-imports-cli tsconfig.json",
			},
		)
	}

	return recs
}
