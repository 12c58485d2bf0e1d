package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// MinimalismPass is pass 5: it removes JS functions that are never
// reachable from the XML, never part of the screen lifecycle, and
// never called more than once from elsewhere in the JS, under the
// theory that a model asked for "a button handler" will often also
// emit three unused helper functions around it. Skipped entirely in
// Dev mode.
type MinimalismPass struct{}

func (p *MinimalismPass) Name() string { return "minimalism" }

// lifecycleNames are always kept regardless of reachability, since the
// runtime calls them directly rather than through an XML reference.
var lifecycleNames = map[string]bool{
	"on_load": true, "fn_init": true, "on_unload": true, "on_resize": true,
	"fn_search": true, "fn_save": true, "fn_delete": true, "fn_create": true,
	"fn_edit": true, "fn_add": true, "fn_remove": true, "fn_refresh": true,
	"fn_close": true, "fn_onEditorClose": true, "fn_onPopupClose": true,
}

var methodFuncOpenPattern = regexp.MustCompile(`this\.(\w+)\s*=\s*function\s*\([^)]*\)\s*\{`)
var namedFuncOpenPattern = regexp.MustCompile(`function\s+(\w+)\s*\([^)]*\)\s*\{`)

type funcSpan struct {
	name  string
	start int
	end   int
}

func (p *MinimalismPass) Run(ctx *GenerationContext) PassResult {
	spans := findFunctionSpans(ctx.JS)
	if len(spans) == 0 {
		return Ok()
	}

	referenced := extractMatches(ctx.XML, handlerRefPatterns)
	callCounts := countCalls(ctx.JS, spans)

	var toRemove []funcSpan
	for _, s := range spans {
		if referenced[s.name] || lifecycleNames[s.name] || callCounts[s.name] >= 2 {
			continue
		}
		toRemove = append(toRemove, s)
	}

	if len(toRemove) == 0 {
		return Ok()
	}

	js := ctx.JS
	names := make([]string, 0, len(toRemove))
	for i := len(toRemove) - 1; i >= 0; i-- {
		s := toRemove[i]
		js = js[:s.start] + js[s.end:]
		names = append([]string{s.name}, names...)
	}
	ctx.JS = collapseBlankLines(js)

	msg := fmt.Sprintf("removed %d unreachable function(s): %s", len(toRemove), strings.Join(names, ", "))
	if len(toRemove) > 5 {
		return Warning("%s (significant over-engineering detected)", msg)
	}
	return Warning("%s", msg)
}

// findFunctionSpans locates every top-level function definition in js
// and its full brace-balanced extent, in source order.
func findFunctionSpans(js string) []funcSpan {
	var spans []funcSpan
	spans = append(spans, matchSpans(js, methodFuncOpenPattern)...)
	spans = append(spans, matchSpans(js, namedFuncOpenPattern)...)

	sortSpansByStart(spans)
	return spans
}

func matchSpans(js string, open *regexp.Regexp) []funcSpan {
	var spans []funcSpan
	for _, m := range open.FindAllStringSubmatchIndex(js, -1) {
		braceOpen := m[1] - 1
		end := matchingBrace(js, braceOpen)
		if end < 0 {
			continue
		}
		stop := end + 1
		if stop < len(js) && js[stop] == ';' {
			stop++
		}
		spans = append(spans, funcSpan{
			name:  js[m[2]:m[3]],
			start: m[0],
			end:   stop,
		})
	}
	return spans
}

func matchingBrace(s string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func sortSpansByStart(spans []funcSpan) {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j-1].start > spans[j].start; j-- {
			spans[j-1], spans[j] = spans[j], spans[j-1]
		}
	}
}

func countCalls(js string, spans []funcSpan) map[string]int {
	counts := map[string]int{}
	for _, s := range spans {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(s.name) + `\s*\(`)
		matches := re.FindAllStringIndex(js, -1)
		n := len(matches)
		for _, m := range matches {
			// Don't count the function's own `function name(` declaration
			// site as a call to itself.
			if m[0] == s.start+len("function ") {
				n--
			}
		}
		counts[s.name] = n
	}
	return counts
}

var blankLinesPattern = regexp.MustCompile(`\n{3,}`)

func collapseBlankLines(js string) string {
	return blankLinesPattern.ReplaceAllString(js, "\n\n")
}
