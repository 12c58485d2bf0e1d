package pipeline

import (
	"regexp"
	"sort"
	"strings"
)

// GraphValidator is pass 4: it checks that every dataset reference in
// the XML points at a dataset actually defined somewhere in the same
// document. It never modifies the XML, only reports on it.
type GraphValidator struct{}

func (p *GraphValidator) Name() string { return "graph-validator" }

var datasetDefPattern = regexp.MustCompile(`(?i)<x?(?:link)?dataset\b[^>]*\bid="([^"]+)"`)
var datasetRefPattern = regexp.MustCompile(`link_data="([^"]+)"`)

func (p *GraphValidator) Run(ctx *GenerationContext) PassResult {
	defined := map[string]bool{}
	for _, m := range datasetDefPattern.FindAllStringSubmatch(ctx.XML, -1) {
		defined[m[1]] = true
	}

	if len(defined) == 0 {
		return Warning("no dataset definitions found in XML; skipping reference validation")
	}

	var dangling []string
	for _, m := range datasetRefPattern.FindAllStringSubmatch(ctx.XML, -1) {
		dsID := m[1]
		if idx := strings.Index(dsID, ":"); idx >= 0 {
			dsID = dsID[:idx]
		}
		if !defined[dsID] {
			dangling = append(dangling, dsID)
		}
	}

	if len(dangling) == 0 {
		return Ok()
	}
	sort.Strings(dangling)
	dangling = dedupeSorted(dangling)

	msg := "dataset reference(s) with no matching definition: " + strings.Join(dangling, ", ")
	if ctx.Mode == Strict {
		return Error("%s", msg)
	}
	return Warning("%s", msg)
}

func dedupeSorted(s []string) []string {
	out := s[:0]
	var prev string
	for i, v := range s {
		if i == 0 || v != prev {
			out = append(out, v)
		}
		prev = v
	}
	return out
}
