// Package config loads importsweep settings from a YAML file, environment
// variables and defaults.
package config

import (
	"github.com/Sumatoshi-tech/importsweep/pkg/eslint"
	"github.com/Sumatoshi-tech/importsweep/pkg/report"
	"github.com/Sumatoshi-tech/importsweep/pkg/sourceset"
	"github.com/Sumatoshi-tech/importsweep/pkg/toolrun"
	"github.com/Sumatoshi-tech/importsweep/pkg/tsprune"
)

// Scan defaults.
const (
	DefaultScanWorkers      = 0
	DefaultScanMaxFileSize  = "1MB"
	DefaultScanSkipVendored = false
)

// External tool defaults.
const (
	DefaultToolEnabled     = true
	DefaultToolCommand     = eslint.DefaultCommand
	DefaultToolTimeout     = toolrun.DefaultTimeout
	DefaultToolMaxFindings = 0
)

// Lexical defaults.
const (
	DefaultLexicalEnabled = true
	DefaultLexicalAlways  = false
)

// Report defaults.
const (
	DefaultReportFormat              = string(report.FormatText)
	DefaultReportLexicalDisplayLimit = report.DefaultLexicalDisplayLimit
	DefaultReportListingLimit        = report.DefaultListingLimit
	DefaultReportNoColor             = false
	DefaultReportShowFix             = false
)

// Logging defaults.
const (
	DefaultLoggingLevel = "info"
	DefaultLoggingJSON  = false
)

func defaultExtensions() []string { return sourceset.DefaultExtensions }

func defaultIgnoreDirs() []string { return sourceset.DefaultIgnoreDirs }

func defaultLinterArgs() []string { return eslint.DefaultArgs }

func defaultLinterRules() []string { return eslint.DefaultRules }

func defaultExportsArgs() []string { return tsprune.DefaultArgs }
