// Package pipeline implements the deterministic six-pass post-processing
// pipeline that turns raw, untrusted LLM output into framework-valid XML
// and JavaScript.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/screenforge/screenforge/pkg/intent"
)

// ExecutionMode controls how a pass Error is handled.
type ExecutionMode int

const (
	// Relaxed downgrades pass errors to warnings and is the default.
	Relaxed ExecutionMode = iota
	// Strict aborts the pipeline on the first pass error.
	Strict
	// Dev behaves like Relaxed but additionally skips the minimalism pass.
	Dev
)

// ModeFromStrict maps a boolean "strict" flag (as an HTTP request body
// might carry it) to an ExecutionMode, defaulting to Relaxed.
func ModeFromStrict(strict bool) ExecutionMode {
	if strict {
		return Strict
	}
	return Relaxed
}

func (m ExecutionMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Dev:
		return "dev"
	default:
		return "relaxed"
	}
}

// PassResult is the three-variant outcome of a single pass.
type PassResult struct {
	kind    passResultKind
	message string
}

type passResultKind int

const (
	resultOk passResultKind = iota
	resultWarning
	resultError
)

// Ok reports a pass ran with nothing to flag.
func Ok() PassResult { return PassResult{kind: resultOk} }

// Warning reports a pass found something worth flagging but not fatal.
func Warning(format string, args ...any) PassResult {
	return PassResult{kind: resultWarning, message: fmt.Sprintf(format, args...)}
}

// Error reports a pass found a mode-sensitive failure.
func Error(format string, args ...any) PassResult {
	return PassResult{kind: resultError, message: fmt.Sprintf(format, args...)}
}

// IsError reports whether this result is the Error variant.
func (r PassResult) IsError() bool { return r.kind == resultError }

// IsWarning reports whether this result is the Warning variant.
func (r PassResult) IsWarning() bool { return r.kind == resultWarning }

// Message returns the result's message, or "" for Ok.
func (r PassResult) Message() string { return r.message }

// GenerationContext is the mutable state threaded through the six
// passes: the current XML/JS text and an append-only warning log. It is
// created on pipeline entry and discarded on exit.
type GenerationContext struct {
	Raw      string
	XML      string
	JS       string
	Mode     ExecutionMode
	Intent   intent.ScreenIntent
	Warnings []string
}

// NewGenerationContext creates a fresh context for one pipeline run.
func NewGenerationContext(raw string, mode ExecutionMode, in intent.ScreenIntent) *GenerationContext {
	return &GenerationContext{Raw: raw, Mode: mode, Intent: in}
}

func (c *GenerationContext) addWarning(msg string) {
	c.Warnings = append(c.Warnings, msg)
}

// Pass is one of the six fixed pipeline stages.
type Pass interface {
	Name() string
	Run(ctx *GenerationContext) PassResult
}

// GenerationResult is produced only on a successful pipeline exit.
type GenerationResult struct {
	XML      string
	JS       string
	Warnings []string
}

// FromContext builds the final result from a context after a
// successful run, per spec.md §3.5/§4.3: both XML and JS must be
// non-empty or the pipeline has structurally failed.
func FromContext(ctx *GenerationContext) (GenerationResult, error) {
	if strings.TrimSpace(ctx.XML) == "" || strings.TrimSpace(ctx.JS) == "" {
		return GenerationResult{}, &StructuralFailureError{Warnings: ctx.Warnings}
	}
	return GenerationResult{XML: ctx.XML, JS: ctx.JS, Warnings: ctx.Warnings}, nil
}

// StructuralFailureError reports that the pipeline produced an empty
// XML or JS output, regardless of execution mode.
type StructuralFailureError struct {
	Warnings []string
}

func (e *StructuralFailureError) Error() string {
	return "pipeline produced empty XML or JS output"
}

// Passes returns the six passes in the fixed order spec.md §4.3
// mandates: Parser, Canonicalizer, SymbolLinker, ApiAllowlistFilter,
// GraphValidator, MinimalismPass. Reordering breaks invariants the
// individual passes depend on.
func Passes() []Pass {
	return []Pass{
		&OutputParser{},
		&Canonicalizer{},
		&SymbolLinker{},
		&APIAllowlistFilter{},
		&GraphValidator{},
		&MinimalismPass{},
	}
}

// Engine runs the fixed pass sequence over one GenerationContext.
type Engine struct {
	passes []Pass
}

// NewEngine builds an Engine over the standard six-pass sequence.
func NewEngine() *Engine {
	return &Engine{passes: Passes()}
}

// Run executes every pass in order, honoring the context's execution
// mode for error routing, and returns the final result or the error
// that aborted a Strict run.
func (e *Engine) Run(ctx *GenerationContext) (GenerationResult, error) {
	for _, p := range e.passes {
		if ctx.Mode == Dev {
			if _, isMinimalism := p.(*MinimalismPass); isMinimalism {
				continue
			}
		}

		result := p.Run(ctx)
		switch {
		case result.IsError():
			if ctx.Mode == Strict {
				return GenerationResult{}, fmt.Errorf("[%s] %s", p.Name(), result.Message())
			}
			ctx.addWarning(fmt.Sprintf("[%s] Error (non-strict): %s", p.Name(), result.Message()))
		case result.IsWarning():
			ctx.addWarning(result.Message())
		}
	}
	return FromContext(ctx)
}

// Retry policy (caller-side, per spec.md §4.3): when a first invocation
// yields a *StructuralFailureError, the caller may reissue the LLM call
// with an augmented prompt, then run the pipeline once more in Relaxed
// mode, appending this note. No more than one retry is attempted.
const RetryNote = "Note: Generation required retry"
