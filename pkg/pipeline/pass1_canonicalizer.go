package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// Canonicalizer is pass 1: it rewrites common near-miss spellings and
// deprecated forms the model tends to emit into the framework's
// canonical forms. Every rewrite it makes is logged as a warning.
type Canonicalizer struct{}

func (p *Canonicalizer) Name() string { return "canonicalizer" }

// eventAttrRenames maps the HTML-family event attribute spellings the
// model frequently emits to the framework's own `on_*` form.
var eventAttrRenames = map[string]string{
	"onclick":        "on_click",
	"onClick":        "on_click",
	"ondblclick":     "on_dblclick",
	"onchange":       "on_change",
	"onChange":       "on_change",
	"onfocus":        "on_focus",
	"onblur":         "on_blur",
	"onload":         "on_load",
	"onLoad":         "on_load",
	"onitemclick":    "on_itemclick",
	"onitemdblclick": "on_itemdblclick",
	"onrowclick":     "on_rowclick",
	"onrowdblclick":  "on_rowdblclick",
}

// fontNameFixes maps misspelled font-family names to the ones the
// design system ships.
var fontNameFixes = map[string]string{
	"Malgun Gothic":  "맑은 고딕",
	"Malgeun Gothic": "맑은 고딕",
	"Gulim":          "굴림",
	"Dotum":          "돋움",
}

var eventfuncAttrPattern = regexp.MustCompile(`(on_\w+\s*=\s*")(eventfunc:)?(fn_\w+)(\([^)]*\))?(")`)
var xDatasetPattern = regexp.MustCompile(`<(/?)xdataset\b`)
var gridTagPattern = regexp.MustCompile(`<grid\b[^>]*/?>`)

func (p *Canonicalizer) Run(ctx *GenerationContext) PassResult {
	xml := ctx.XML
	var rewrites []string

	for from, to := range eventAttrRenames {
		n := strings.Count(xml, from)
		if n > 0 {
			xml = strings.ReplaceAll(xml, from, to)
			rewrites = append(rewrites, fmt.Sprintf("renamed event attribute %q -> %q (%d occurrence(s))", from, to, n))
		}
	}

	for from, to := range fontNameFixes {
		n := strings.Count(xml, from)
		if n > 0 {
			xml = strings.ReplaceAll(xml, from, to)
			rewrites = append(rewrites, fmt.Sprintf("fixed font name %q -> %q (%d occurrence(s))", from, to, n))
		}
	}

	if rewritten, count := ensureEventfuncPrefix(xml); count > 0 {
		xml = rewritten
		rewrites = append(rewrites, fmt.Sprintf("enforced eventfunc: prefix and call parens on %d handler reference(s)", count))
	}

	if n := xDatasetPattern.FindAllStringIndex(xml, -1); len(n) > 0 {
		xml = xDatasetPattern.ReplaceAllString(xml, `<${1}xlinkdataset`)
		rewrites = append(rewrites, fmt.Sprintf("renamed xdataset -> xlinkdataset (%d occurrence(s))", len(n)))
	}

	if injected, count := injectGridVersions(xml); count > 0 {
		xml = injected
		rewrites = append(rewrites, fmt.Sprintf("injected version attribute into %d grid definition(s)", count))
	}

	if fixed := fixUnbalancedParens(xml); fixed != xml {
		xml = fixed
		rewrites = append(rewrites, "closed unterminated parenthesis in attribute value(s)")
	}
	ctx.XML = xml

	js, jsRewrites := canonicalizeJS(ctx.JS)
	ctx.JS = js
	rewrites = append(rewrites, jsRewrites...)

	if len(rewrites) == 0 {
		return Ok()
	}
	return Warning("%s", strings.Join(rewrites, "; "))
}

// ensureEventfuncPrefix rewrites every on_<event>="fn_name(...)" attribute
// value so it begins with "eventfunc:" and carries a call's parentheses,
// appending "()" when the model left the argument list off entirely.
func ensureEventfuncPrefix(xml string) (string, int) {
	count := 0
	out := eventfuncAttrPattern.ReplaceAllStringFunc(xml, func(m string) string {
		parts := eventfuncAttrPattern.FindStringSubmatch(m)
		attrOpen, hasPrefix, fnName, parens, quote := parts[1], parts[2], parts[3], parts[4], parts[5]
		if hasPrefix != "" && parens != "" {
			return m
		}
		count++
		if parens == "" {
			parens = "()"
		}
		return attrOpen + "eventfunc:" + fnName + parens + quote
	})
	return out, count
}

// injectGridVersions adds version="1.1" to every <grid ...> or <grid .../>
// tag that doesn't already carry its own version attribute. The check is
// scoped per tag: one versioned grid in the document never suppresses
// injection into another, unversioned one.
func injectGridVersions(xml string) (string, int) {
	count := 0
	out := gridTagPattern.ReplaceAllStringFunc(xml, func(tag string) string {
		if strings.Contains(tag, `version="`) {
			return tag
		}
		count++
		if strings.HasSuffix(tag, "/>") {
			return tag[:len(tag)-2] + ` version="1.1"/>`
		}
		return tag[:len(tag)-1] + ` version="1.1">`
	})
	return out, count
}

// fixUnbalancedParens appends a closing paren to any self-closing tag
// attribute expression the model left unterminated, e.g.
// `link_data="ds_member:(name"` -> `link_data="ds_member:(name)"`.
var missingParenPattern = regexp.MustCompile(`\(([^()"]*?)"`)

func fixUnbalancedParens(xml string) string {
	return missingParenPattern.ReplaceAllString(xml, `($1)"`)
}

var functionDeclPattern = regexp.MustCompile(`(?m)^\s*function\s+(fn_\w+|on_\w+)\s*\(`)

// canonicalizeJS normalizes loose `function name(...)` declarations
// into the `this.name = function(...)` form the rest of the pipeline
// and the runtime both expect, and ensures an on_load lifecycle hook
// exists so the screen initializes its datasets on open.
func canonicalizeJS(js string) (string, []string) {
	var rewrites []string

	if n := functionDeclPattern.FindAllStringSubmatchIndex(js, -1); len(n) > 0 {
		js = functionDeclPattern.ReplaceAllString(js, `this.$1 = function(`)
		rewrites = append(rewrites, fmt.Sprintf("normalized %d loose function declaration(s) to this.<name> = function(...) form", len(n)))
	}

	if !strings.Contains(js, "this.on_load") && !strings.Contains(js, "function on_load") {
		js = strings.TrimRight(js, "\n") + "\n\nthis.on_load = function() {\n};\n"
		rewrites = append(rewrites, "injected missing on_load lifecycle handler")
	}

	return js, rewrites
}
