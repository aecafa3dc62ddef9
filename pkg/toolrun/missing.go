package toolrun

import "strings"

// missingMarkers are fragments shells, node and npx print when the requested
// tool is not installed.
var missingMarkers = []string{
	"command not found",
	": not found",
	"Cannot find module",
	"could not determine executable",
	"canceled due to missing packages",
	"is not recognized as an internal or external command",
}

// LooksMissing reports whether tool output says the tool is not installed.
func LooksMissing(output string) bool {
	for _, marker := range missingMarkers {
		if strings.Contains(output, marker) {
			return true
		}
	}

	return false
}
