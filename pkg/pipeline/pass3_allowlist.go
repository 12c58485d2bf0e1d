package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// APIAllowlistFilter is pass 3: it checks every call site in the JS
// against the framework's actual API surface, so the generated code
// can't invoke a method the model hallucinated.
type APIAllowlistFilter struct{}

func (p *APIAllowlistFilter) Name() string { return "api-allowlist-filter" }

// frameworkMethods are dataset/grid/popup/transaction helper methods
// the runtime actually exposes, addressable as <receiver>.<method>(.
var frameworkMethods = map[string]bool{
	"search": true, "save": true, "delete": true, "addRow": true, "removeRow": true,
	"getRowCount": true, "getColumn": true, "setColumn": true, "clearData": true,
	"find": true, "sort": true, "filter": true, "requery": true,
	"openPopup": true, "closePopup": true, "open": true, "close": true,
	"beginTransaction": true, "commit": true, "rollback": true,
	"getValue": true, "setValue": true, "setFocus": true, "setEnable": true,
	"setVisible": true, "alert": true, "confirm": true, "getGridRowValue": true,
}

// jsBuiltinPrefixes are standard JS global objects/functions the model
// is always allowed to call, regardless of the framework allowlist.
var jsBuiltinPrefixes = []string{
	"console.", "Math.", "JSON.", "Array.", "Object.", "String.", "Number.",
	"parseInt", "parseFloat", "isNaN", "encodeURIComponent", "decodeURIComponent",
}

// controlFlowKeywords are excluded from call-site extraction even
// though they're followed by `(`.
var controlFlowKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"function": true, "return": true,
}

var qualifiedCallPattern = regexp.MustCompile(`(\w+)\.(\w+)\s*\(`)
var bareCallPattern = regexp.MustCompile(`(?:^|[^.\w])(\w+)\s*\(`)
var todoRewritePattern = regexp.MustCompile(`((?:\w+\.)?\w+\s*\()`)

func (p *APIAllowlistFilter) Run(ctx *GenerationContext) PassResult {
	userDefined := extractMatches(ctx.JS, jsDefPatterns)

	violations := map[string]bool{}
	for _, m := range qualifiedCallPattern.FindAllStringSubmatch(ctx.JS, -1) {
		full, receiver, method := m[0], m[1], m[2]
		if receiver == "this" && userDefined[method] {
			continue
		}
		if frameworkMethods[method] || isJSBuiltinCall(full) {
			continue
		}
		violations[fmt.Sprintf("%s.%s(...)", receiver, method)] = true
	}
	for _, m := range bareCallPattern.FindAllStringSubmatch(ctx.JS, -1) {
		name := m[1]
		if controlFlowKeywords[name] || userDefined[name] || frameworkMethods[name] || isJSBuiltinCall(name) {
			continue
		}
		violations[fmt.Sprintf("%s(...)", name)] = true
	}

	if len(violations) == 0 {
		return Ok()
	}

	names := make([]string, 0, len(violations))
	for v := range violations {
		names = append(names, v)
	}
	sort.Strings(names)

	if ctx.Mode == Strict {
		return Error("call(s) to non-allowlisted API(s): %s", strings.Join(names, ", "))
	}

	ctx.JS = rewriteViolationsAsTODO(ctx.JS, violations)
	return Warning("rewrote %d non-allowlisted call(s) as TODO: %s", len(names), strings.Join(names, ", "))
}

func isJSBuiltinCall(call string) bool {
	for _, prefix := range jsBuiltinPrefixes {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

func rewriteViolationsAsTODO(js string, violations map[string]bool) string {
	return todoRewritePattern.ReplaceAllStringFunc(js, func(m string) string {
		name := strings.TrimRight(m, "(")
		name = strings.TrimSpace(name)
		key := name + "(...)"
		if !violations[key] {
			return m
		}
		return fmt.Sprintf("/* TODO: verify API '%s' */ %s", name, m)
	})
}
