// Package report renders a scan result into the pass/block decision
// and a human-readable listing of surviving findings.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/scan"
)

// Report is the aggregated decision. Blocked is a hard stop; no
// override path exists at this layer.
type Report struct {
	Blocked bool
	Text    string
}

// Build groups findings by file in first-occurrence order and sorts
// each group by ascending line number, whole-file findings first.
func Build(res scan.Result) Report {
	if len(res.Findings) == 0 {
		return Report{
			Text: fmt.Sprintf("No hardcoded secrets found. %d file(s) scanned.", res.FilesScanned),
		}
	}

	var order []string
	groups := make(map[string][]scan.Finding)
	for _, f := range res.Findings {
		if _, seen := groups[f.File]; !seen {
			order = append(order, f.File)
		}
		groups[f.File] = append(groups[f.File], f)
	}

	var b strings.Builder
	for _, file := range order {
		findings := groups[file]
		sort.SliceStable(findings, func(i, j int) bool { return findings[i].Line < findings[j].Line })

		fmt.Fprintf(&b, "%s:\n", file)
		for _, f := range findings {
			switch f.Kind {
			case scan.ProhibitedFile:
				fmt.Fprintf(&b, "  → file should not be committed (matched %q)\n", f.PatternSource)
			case scan.SecretPattern:
				fmt.Fprintf(&b, "  → line %d: %q (pattern %s)\n", f.Line, f.MatchedText, f.PatternSource)
			}
		}
	}
	fmt.Fprintf(&b, "\nCommit blocked: %d finding(s) in %d file(s).", len(res.Findings), len(order))

	return Report{Blocked: true, Text: b.String()}
}
