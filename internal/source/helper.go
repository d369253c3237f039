// Package source answers syntactic questions about the original Kotlin text
// that the IR no longer records, such as whether a type was written
// explicitly or how a call was spelled.
package source

import "ktbridge/internal/ir"

// Helper is queried by IR span. Implementations must answer for any span,
// including zero-width and out-of-range ones.
type Helper interface {
	// Text returns the source covered by s, or "" when unknown.
	Text(s ir.Span) string
	// HasExplicitType reports whether the declaration at s spells its type
	// (or return type) out.
	HasExplicitType(s ir.Span) bool
	// Label returns the `name@` prefix of the statement at s.
	Label(s ir.Span) string
	// ReturnTarget returns l for `return@l`.
	ReturnTarget(s ir.Span) string
	// HasReturnKeyword reports whether the return at s is written.
	HasReturnKeyword(s ir.Span) bool
	// NamedArgument returns the parameter name the argument at s was
	// passed by, or "" for positional arguments.
	NamedArgument(s ir.Span) string
	HasExplicitTypeArguments(s ir.Span) bool
	IsInfixCall(s ir.Span) bool
	// IsImplicitThis reports whether the receiver at s is not written.
	IsImplicitThis(s ir.Span) bool
	// NumberBase is 16, 2 or 10 for the numeric literal at s.
	NumberBase(s ir.Span) int
	IsScientific(s ir.Span) bool
	IsMultilineString(s ir.Span) bool
}

// None is the Helper used when no source text is available. It assumes
// everything is written out.
type None struct{}

var _ Helper = None{}

func (None) Text(ir.Span) string                   { return "" }
func (None) HasExplicitType(ir.Span) bool          { return true }
func (None) Label(ir.Span) string                  { return "" }
func (None) ReturnTarget(ir.Span) string           { return "" }
func (None) HasReturnKeyword(ir.Span) bool         { return true }
func (None) NamedArgument(ir.Span) string          { return "" }
func (None) HasExplicitTypeArguments(ir.Span) bool { return true }
func (None) IsInfixCall(ir.Span) bool              { return false }
func (None) IsImplicitThis(s ir.Span) bool         { return s.Len() <= 0 }
func (None) NumberBase(ir.Span) int                { return 10 }
func (None) IsScientific(ir.Span) bool             { return false }
func (None) IsMultilineString(ir.Span) bool        { return false }
