package ir

// Origin tags how an expression was lowered from source syntax.
type Origin string

const (
	OriginNone Origin = ""

	OriginEq      Origin = "EQ"
	OriginPlusEq  Origin = "PLUSEQ"
	OriginMinusEq Origin = "MINUSEQ"
	OriginMultEq  Origin = "MULTEQ"
	OriginDivEq   Origin = "DIVEQ"
	OriginPercEq  Origin = "PERCEQ"

	OriginPrefixIncr  Origin = "PREFIX_INCR"
	OriginPrefixDecr  Origin = "PREFIX_DECR"
	OriginPostfixIncr Origin = "POSTFIX_INCR"
	OriginPostfixDecr Origin = "POSTFIX_DECR"

	OriginUPlus    Origin = "UPLUS"
	OriginUMinus   Origin = "UMINUS"
	OriginExcl     Origin = "EXCL"
	OriginExclExcl Origin = "EXCLEXCL"

	OriginPlus  Origin = "PLUS"
	OriginMinus Origin = "MINUS"
	OriginMul   Origin = "MUL"
	OriginDiv   Origin = "DIV"
	OriginPerc  Origin = "PERC"
	OriginRange Origin = "RANGE"

	OriginEqEq     Origin = "EQEQ"
	OriginExclEq   Origin = "EXCLEQ"
	OriginEqEqEq   Origin = "EQEQEQ"
	OriginExclEqEq Origin = "EXCLEQEQ"
	OriginLt       Origin = "LT"
	OriginGt       Origin = "GT"
	OriginLtEq     Origin = "LTEQ"
	OriginGtEq     Origin = "GTEQ"
	OriginIn       Origin = "IN"
	OriginNotIn    Origin = "NOT_IN"
	OriginAndAnd   Origin = "ANDAND"
	OriginOrOr     Origin = "OROR"
	OriginElvis    Origin = "ELVIS"
	OriginSafeCall Origin = "SAFE_CALL"

	OriginForLoop             Origin = "FOR_LOOP"
	OriginForLoopIterator     Origin = "FOR_LOOP_ITERATOR"
	OriginForLoopVariable     Origin = "FOR_LOOP_VARIABLE"
	OriginForLoopInnerWhile   Origin = "FOR_LOOP_INNER_WHILE"
	OriginGetProperty         Origin = "GET_PROPERTY"
	OriginGetArrayElement     Origin = "GET_ARRAY_ELEMENT"
	OriginArgumentsReordering Origin = "ARGUMENTS_REORDERING_FOR_CALL"
	OriginInvoke              Origin = "INVOKE"
	OriginAnonymousFunction   Origin = "ANONYMOUS_FUNCTION"
	OriginLambda              Origin = "LAMBDA"
	OriginInitializeProperty  Origin = "INITIALIZE_PROPERTY_FROM_PARAMETER"
	OriginDestructuring       Origin = "DESTRUCTURING_DECLARATION"
	OriginIf                  Origin = "IF"
	OriginWhen                Origin = "WHEN"
	OriginStringTemplate      Origin = "STRING_TEMPLATE"
)

// IsAugmentedAssignment reports the compound-assignment origins.
func (o Origin) IsAugmentedAssignment() bool {
	switch o {
	case OriginPlusEq, OriginMinusEq, OriginMultEq, OriginDivEq, OriginPercEq:
		return true
	}
	return false
}

// IsIncrementOrDecrement reports the ++/-- origins.
func (o Origin) IsIncrementOrDecrement() bool {
	switch o {
	case OriginPrefixIncr, OriginPrefixDecr, OriginPostfixIncr, OriginPostfixDecr:
		return true
	}
	return false
}

// IsUnary reports the prefix operator origins that are not increments.
func (o Origin) IsUnary() bool {
	switch o {
	case OriginUPlus, OriginUMinus, OriginExcl:
		return true
	}
	return false
}

// IsBinary reports origins lowered to a binary operator.
func (o Origin) IsBinary() bool {
	switch o {
	case OriginPlus, OriginMinus, OriginMul, OriginDiv, OriginPerc, OriginRange,
		OriginEqEq, OriginExclEq, OriginEqEqEq, OriginExclEqEq,
		OriginLt, OriginGt, OriginLtEq, OriginGtEq, OriginIn, OriginNotIn,
		OriginAndAnd, OriginOrOr, OriginElvis:
		return true
	}
	return false
}

// DeclarationOrigin tags how a declaration came to exist.
type DeclarationOrigin string

const (
	DeclDefined                 DeclarationOrigin = ""
	DeclFakeOverride            DeclarationOrigin = "FAKE_OVERRIDE"
	DeclDefaultPropertyAccessor DeclarationOrigin = "DEFAULT_PROPERTY_ACCESSOR"
	DeclDelegate                DeclarationOrigin = "DELEGATE"
	DeclForLoopVariable         DeclarationOrigin = "FOR_LOOP_VARIABLE"
	DeclForLoopIterator         DeclarationOrigin = "FOR_LOOP_ITERATOR"
	DeclTemporary               DeclarationOrigin = "IR_TEMPORARY_VARIABLE"
	DeclCatchParameter          DeclarationOrigin = "CATCH_PARAMETER"
	DeclLocalFunction           DeclarationOrigin = "LOCAL_FUNCTION_FOR_LAMBDA"
	DeclDestructuringComponent  DeclarationOrigin = "DESTRUCTURING_COMPONENT"
	DeclDataClassMember         DeclarationOrigin = "GENERATED_DATA_CLASS_MEMBER"
	DeclEnumSpecialMember       DeclarationOrigin = "ENUM_CLASS_SPECIAL_MEMBER"
)

// IsSynthesized reports declarations the compiler adds that have no source
// text of their own.
func (o DeclarationOrigin) IsSynthesized() bool {
	switch o {
	case DeclFakeOverride, DeclDataClassMember, DeclEnumSpecialMember:
		return true
	}
	return false
}
