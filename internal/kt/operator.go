package kt

// BinaryOperatorKind is the source-level identity of a Kotlin binary
// operator. It is finer than the generic model's kind: it keeps apart
// referential and structural equality, membership tests, type checks and
// elvis.
type BinaryOperatorKind uint8

const (
	OpPlus BinaryOperatorKind = iota + 1
	OpMinus
	OpMul
	OpDiv
	OpMod
	OpRangeTo
	OpIn
	OpNotIn
	OpIs
	OpIsNot
	OpEq
	OpNe
	OpID
	OpNID
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
	OpElvis
)

var binaryTokens = map[BinaryOperatorKind]string{
	OpPlus:    "+",
	OpMinus:   "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpRangeTo: "..",
	OpIn:      "in",
	OpNotIn:   "!in",
	OpIs:      "is",
	OpIsNot:   "!is",
	OpEq:      "==",
	OpNe:      "!=",
	OpID:      "===",
	OpNID:     "!==",
	OpLt:      "<",
	OpGt:      ">",
	OpLe:      "<=",
	OpGe:      ">=",
	OpAnd:     "&&",
	OpOr:      "||",
	OpElvis:   "?:",
}

var binaryNames = map[BinaryOperatorKind]string{
	OpPlus: "PLUS", OpMinus: "MINUS", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD",
	OpRangeTo: "RANGE_TO", OpIn: "IN", OpNotIn: "NOT_IN", OpIs: "IS", OpIsNot: "IS_NOT",
	OpEq: "EQ", OpNe: "NE", OpID: "ID", OpNID: "NID", OpLt: "LT", OpGt: "GT",
	OpLe: "LE", OpGe: "GE", OpAnd: "AND", OpOr: "OR", OpElvis: "ELVIS",
}

// Token returns the operator as written in Kotlin source.
func (k BinaryOperatorKind) Token() string { return binaryTokens[k] }

func (k BinaryOperatorKind) String() string {
	if s, ok := binaryNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// BinaryOperatorKindFromName parses the String form.
func BinaryOperatorKindFromName(name string) (BinaryOperatorKind, bool) {
	for k, s := range binaryNames {
		if s == name {
			return k, true
		}
	}
	return 0, false
}

// IsComparison reports whether k orders its operands (<, >, <=, >=).
func (k BinaryOperatorKind) IsComparison() bool {
	return k == OpLt || k == OpGt || k == OpLe || k == OpGe
}
