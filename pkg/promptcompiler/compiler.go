// Package promptcompiler projects an Intent, a template, and optional
// company rules into a system/user prompt pair for the LLM backend.
package promptcompiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/screenforge/screenforge/pkg/intent"
)

// Template is the minimal record the compiler needs from a
// TemplateStore: the system prompt, the user-prompt template body, and
// the active version it was loaded from.
type Template struct {
	SystemPrompt       string
	UserPromptTemplate string
	Version            int
}

// CompanyRules is the minimal record the compiler needs from a
// CompanyRulesStore.
type CompanyRules struct {
	AdditionalRules string
}

// CompiledPrompt is the compiler's output: a system/user prompt pair.
type CompiledPrompt struct {
	System string
	User   string
}

// Full combines the system and user prompt into one string, e.g. for
// backends that don't support separate system messages.
func (p CompiledPrompt) Full() string {
	return p.System + "\n\n" + p.User
}

// Compile renders a template against an Intent and optional company
// rules, per spec.md §4.2. The Intent's concrete type selects which
// placeholder set is populated; placeholders outside that set resolve
// to empty strings.
func Compile(tmpl Template, in intent.Intent, rules *CompanyRules) CompiledPrompt {
	system := buildSystemPrompt(tmpl.SystemPrompt, rules)
	vars := placeholdersFor(in, rules)
	user := render(tmpl.UserPromptTemplate, vars)
	return CompiledPrompt{System: system, User: user}
}

func buildSystemPrompt(base string, rules *CompanyRules) string {
	if rules != nil && rules.AdditionalRules != "" {
		return fmt.Sprintf("%s\n\nCOMPANY-SPECIFIC RULES:\n%s", base, rules.AdditionalRules)
	}
	return base
}

// DefaultSystemPrompt returns the built-in template chosen by screen
// type, used when an Intent's template cannot be found in the store.
func DefaultSystemPrompt(st intent.ScreenType) string {
	switch st {
	case intent.ScreenDetail, intent.ScreenPopup:
		return defaultDetailSystemPrompt
	default:
		return defaultListSystemPrompt
	}
}

const defaultListSystemPrompt = `You are an expert xFrame5 developer. Generate a list screen consisting of
an XML Dataset/Grid definition and a companion JavaScript event-handler
file. Follow xFrame5 conventions exactly: event handlers are attached
via the "eventfunc:" prefix, and JS functions are named fn_<action>,
on_<event>, or grid_<event>.`

const defaultDetailSystemPrompt = `You are an expert xFrame5 developer. Generate a detail/popup screen
consisting of an XML form definition and a companion JavaScript
event-handler file. Follow xFrame5 conventions exactly: event handlers
are attached via the "eventfunc:" prefix, and JS functions are named
fn_<action>, on_<event>, or grid_<event>.`

// placeholdersFor builds the variable set render() substitutes,
// dispatching on the Intent's concrete type per spec.md §4.2's
// placeholder table.
func placeholdersFor(in intent.Intent, rules *CompanyRules) map[string]string {
	vars := map[string]string{}
	if rules != nil {
		vars["company_rules"] = rules.AdditionalRules
	}

	switch v := in.(type) {
	case intent.ScreenIntent:
		vars["screen_name"] = v.ScreenName
		vars["screen_type"] = string(v.ScreenType)
		vars["datasets"] = describeDatasets(v.Datasets)
		gridCols := describeGrids(v.Grids)
		vars["grid_columns"] = gridCols
		vars["form_fields"] = gridCols
		vars["actions"] = describeActions(v.Actions)
		vars["notes"] = v.Notes
		vars["context"] = v.Notes
		vars["dsl_description"] = describeScreenIntent(v)
	case intent.SpringIntent:
		vars["entity_name"] = v.EntityName
		vars["table_name"] = v.TableName
		vars["package_base"] = v.PackageBase
		vars["columns"] = describeSpringColumns(v.Columns)
		vars["crud_operations"] = describeCrudOperations(v.CrudOperations)
		vars["dsl_description"] = describeSpringIntent(v)
	}
	return vars
}

var placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
var ifOpenPattern = regexp.MustCompile(`\{\{#if\s+([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

const ifClose = "{{/if}}"

// render performs the handlebars-subset substitution spec.md §4.2
// requires: plain `{{identifier}}` interpolation plus genuine
// `{{#if identifier}}...{{/if}}` conditional blocks (truthy = non-empty),
// evaluated before interpolation so a block's condition variable need
// not itself appear inside the block. Blocks do not nest.
func render(template string, vars map[string]string) string {
	resolved := evaluateConditionals(template, vars)
	return placeholderPattern.ReplaceAllStringFunc(resolved, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		return vars[name]
	})
}

func evaluateConditionals(template string, vars map[string]string) string {
	for {
		loc := ifOpenPattern.FindStringSubmatchIndex(template)
		if loc == nil {
			return template
		}
		openStart, openEnd := loc[0], loc[1]
		condVar := template[loc[2]:loc[3]]

		closeIdx := strings.Index(template[openEnd:], ifClose)
		if closeIdx < 0 {
			// Unterminated block: drop the opening tag and keep scanning
			// for later blocks, mirroring a trusted-template assumption (no escaping, no
			// recovery) rather than guessing an implicit close.
			template = template[:openStart] + template[openEnd:]
			continue
		}
		bodyStart := openEnd
		bodyEnd := openEnd + closeIdx
		closeEnd := bodyEnd + len(ifClose)

		body := template[bodyStart:bodyEnd]
		var replacement string
		if vars[condVar] != "" {
			replacement = body
		}
		template = template[:openStart] + replacement + template[closeEnd:]
	}
}

func describeDatasets(datasets []intent.DatasetIntent) string {
	parts := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		names := make([]string, 0, len(ds.Columns))
		for _, c := range ds.Columns {
			names = append(names, c.Name)
		}
		parts = append(parts, fmt.Sprintf("%s [%s]", ds.ID, strings.Join(names, ", ")))
	}
	return strings.Join(parts, "; ")
}

func describeGrids(grids []intent.GridIntent) string {
	parts := make([]string, 0, len(grids))
	for _, g := range grids {
		headers := make([]string, 0, len(g.Columns))
		for _, c := range g.Columns {
			headers = append(headers, c.Header)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", g.ID, strings.Join(headers, ", ")))
	}
	return strings.Join(parts, "; ")
}

func describeActions(actions []intent.ActionIntent) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, fmt.Sprintf("%s (%s)", a.Label, a.HandlerName()))
	}
	return strings.Join(parts, ", ")
}

func describeSpringColumns(columns []intent.ColumnIntent) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		javaType := intent.JavaTypeFromDBType(string(c.DataType))
		parts = append(parts, fmt.Sprintf("%s %s (%s)", javaType, intent.ToCamelCase(c.Name), c.Label))
	}
	return strings.Join(parts, ", ")
}

func describeCrudOperations(ops []intent.CrudOperation) string {
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		parts = append(parts, string(op))
	}
	return strings.Join(parts, ", ")
}

func describeScreenIntent(in intent.ScreenIntent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s screen named '%s'.\n", in.ScreenType, in.ScreenName)

	if len(in.Datasets) > 0 {
		b.WriteString("\nDatasets:\n")
		for _, ds := range in.Datasets {
			table := ds.Table
			if table == "" {
				table = "unknown"
			}
			fmt.Fprintf(&b, "- %s (table: %s)\n", ds.ID, table)
			if len(ds.Columns) > 0 {
				b.WriteString("  Columns:\n")
				for _, c := range ds.Columns {
					required := ""
					if c.Required {
						required = ", required"
					}
					fmt.Fprintf(&b, "    - %s (%s, %s, %s%s)\n", c.Name, c.Label, c.UIType, c.DataType, required)
				}
			}
		}
	}

	if len(in.Grids) > 0 {
		b.WriteString("\nGrids:\n")
		for _, g := range in.Grids {
			fmt.Fprintf(&b, "- %s (bound to %s)\n", g.ID, g.DatasetID)
			if len(g.Columns) > 0 {
				headers := make([]string, 0, len(g.Columns))
				for _, c := range g.Columns {
					headers = append(headers, c.Header)
				}
				b.WriteString("  Columns: ")
				b.WriteString(strings.Join(headers, ", "))
				b.WriteByte('\n')
			}
		}
	}

	if len(in.Actions) > 0 {
		b.WriteString("\nActions:\n")
		for _, a := range in.Actions {
			fmt.Fprintf(&b, "- %s (%s): %s\n", a.ID, a.Label, a.HandlerName())
		}
	}

	return b.String()
}

func describeSpringIntent(in intent.SpringIntent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a backend CRUD scaffold for entity '%s' (table: %s, package: %s).\n",
		in.EntityName, in.TableName, in.PackageBase)

	if len(in.Columns) > 0 {
		b.WriteString("\nColumns:\n")
		for _, c := range in.Columns {
			javaType := intent.JavaTypeFromDBType(string(c.DataType))
			pk := ""
			if c.IsPK {
				pk = ", primary key"
			}
			fmt.Fprintf(&b, "- %s %s (%s%s)\n", javaType, intent.ToCamelCase(c.Name), c.Label, pk)
		}
	}

	if len(in.CrudOperations) > 0 {
		fmt.Fprintf(&b, "\nOperations: %s\n", describeCrudOperations(in.CrudOperations))
	}

	return b.String()
}
