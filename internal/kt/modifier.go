package kt

import "sort"

// Modifier is a Kotlin modifier keyword. The declaration order of the
// constants is the canonical print order.
type Modifier uint8

const (
	// Visibility
	Private Modifier = iota
	Protected
	Internal
	Public

	// Modality
	Final
	Open
	Sealed
	Abstract

	// Class
	Inner
	Companion
	Data
	Annotation
	Inline // function and class

	// Member
	Override

	// Function
	Suspend
	Infix
	Tailrec
	Operator

	// Variable / property
	Const
	Lateinit
	Var
	Val

	// Value parameter
	Noinline
	Crossinline
	Vararg

	// Type projection
	ProjectionIn
	ProjectionOut
	StarProjection

	// Type parameter
	Reified
)

var modifierTokens = [...]string{
	Private:        "private",
	Protected:      "protected",
	Internal:       "internal",
	Public:         "public",
	Final:          "final",
	Open:           "open",
	Sealed:         "sealed",
	Abstract:       "abstract",
	Inner:          "inner",
	Companion:      "companion",
	Data:           "data",
	Annotation:     "annotation",
	Inline:         "inline",
	Override:       "override",
	Suspend:        "suspend",
	Infix:          "infix",
	Tailrec:        "tailrec",
	Operator:       "operator",
	Const:          "const",
	Lateinit:       "lateinit",
	Var:            "var",
	Val:            "val",
	Noinline:       "noinline",
	Crossinline:    "crossinline",
	Vararg:         "vararg",
	ProjectionIn:   "in",
	ProjectionOut:  "out",
	StarProjection: "*",
	Reified:        "reified",
}

// Token returns the keyword as written in source.
func (m Modifier) Token() string {
	if int(m) < len(modifierTokens) {
		return modifierTokens[m]
	}
	return ""
}

func (m Modifier) String() string { return m.Token() }

// ModifierFromToken is the inverse of Token.
func ModifierFromToken(token string) (Modifier, bool) {
	for i, t := range modifierTokens {
		if t == token {
			return Modifier(i), true
		}
	}
	return 0, false
}

// SortModifiers sorts in canonical order and removes duplicates.
func SortModifiers(mods []Modifier) []Modifier {
	if len(mods) == 0 {
		return nil
	}
	out := make([]Modifier, len(mods))
	copy(out, mods)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// ContainsModifier reports whether mods holds m.
func ContainsModifier(mods []Modifier, m Modifier) bool {
	for _, x := range mods {
		if x == m {
			return true
		}
	}
	return false
}
