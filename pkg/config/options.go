package config

import (
	"slices"

	"github.com/Sumatoshi-tech/importsweep/pkg/eslint"
	"github.com/Sumatoshi-tech/importsweep/pkg/report"
	"github.com/Sumatoshi-tech/importsweep/pkg/sourceset"
	"github.com/Sumatoshi-tech/importsweep/pkg/tsprune"
)

// SourceOptions returns the enumerator settings.
func (c *Config) SourceOptions() sourceset.Options {
	return sourceset.Options{
		Extensions:   slices.Clone(c.Scan.Extensions),
		IgnoreDirs:   slices.Clone(c.Scan.IgnoreDirs),
		SkipVendored: c.Scan.SkipVendored,
	}
}

// ESLintOptions returns the linter adapter settings.
func (c *Config) ESLintOptions() eslint.Options {
	return eslint.Options{
		Command:     c.Linter.Command,
		Args:        slices.Clone(c.Linter.Args),
		Rules:       slices.Clone(c.Linter.Rules),
		Timeout:     c.Linter.Timeout,
		MaxFindings: c.Linter.MaxFindings,
	}
}

// TSPruneOptions returns the export checker settings.
func (c *Config) TSPruneOptions() tsprune.Options {
	return tsprune.Options{
		Command:     c.Exports.Command,
		Args:        slices.Clone(c.Exports.Args),
		Timeout:     c.Exports.Timeout,
		MaxFindings: c.Exports.MaxFindings,
	}
}

// TextOptions returns the console renderer settings.
func (c *Config) TextOptions() report.TextOptions {
	return report.TextOptions{
		NoColor:             c.Report.NoColor,
		ListingLimit:        c.Report.ListingLimit,
		LexicalDisplayLimit: c.Report.LexicalDisplayLimit,
	}
}
