package bridge

import (
	"ktbridge/internal/ir"
	"ktbridge/internal/kt"
)

// The translators below are pure. Each returns a canonically sorted tag set,
// nil when the declaration carries no modifier.

func visibilityModifier(v ir.Visibility) (kt.Modifier, bool) {
	switch v {
	case ir.VisibilityPublic:
		return kt.Public, true
	case ir.VisibilityPrivate:
		return kt.Private, true
	case ir.VisibilityProtected:
		return kt.Protected, true
	case ir.VisibilityInternal:
		return kt.Internal, true
	}
	return 0, false
}

func modalityModifier(m ir.Modality) (kt.Modifier, bool) {
	switch m {
	case ir.ModalityFinal:
		return kt.Final, true
	case ir.ModalityOpen:
		return kt.Open, true
	case ir.ModalitySealed:
		return kt.Sealed, true
	case ir.ModalityAbstract:
		return kt.Abstract, true
	}
	return 0, false
}

type modifierSet []kt.Modifier

func (s *modifierSet) add(m kt.Modifier, ok bool) {
	if ok {
		*s = append(*s, m)
	}
}

func (s *modifierSet) flag(b bool, m kt.Modifier) { s.add(m, b) }

func (s modifierSet) sorted() []kt.Modifier { return kt.SortModifiers(s) }

func ClassModifiers(c *ir.Class) []kt.Modifier {
	var s modifierSet
	s.add(visibilityModifier(c.Visibility))
	if c.Kind != ir.ClassKindInterface && c.Kind != ir.ClassKindAnnotation {
		s.add(modalityModifier(c.Modality))
	}
	s.flag(c.IsData, kt.Data)
	s.flag(c.IsInner, kt.Inner)
	s.flag(c.IsCompanion, kt.Companion)
	s.flag(c.IsInline, kt.Inline)
	s.flag(c.Kind == ir.ClassKindAnnotation, kt.Annotation)
	return s.sorted()
}

func FunctionModifiers(f *ir.Function) []kt.Modifier {
	var s modifierSet
	s.add(visibilityModifier(f.Visibility))
	s.add(modalityModifier(f.Modality))
	s.flag(f.IsOverride, kt.Override)
	s.flag(f.IsInline, kt.Inline)
	s.flag(f.IsSuspend, kt.Suspend)
	s.flag(f.IsInfix, kt.Infix)
	s.flag(f.IsTailrec, kt.Tailrec)
	s.flag(f.IsOperator, kt.Operator)
	return s.sorted()
}

func PropertyModifiers(p *ir.Property) []kt.Modifier {
	var s modifierSet
	s.add(visibilityModifier(p.Visibility))
	s.add(modalityModifier(p.Modality))
	s.flag(p.IsOverride, kt.Override)
	s.flag(p.IsConst, kt.Const)
	s.flag(p.IsLateinit, kt.Lateinit)
	s.add(mutability(p.IsVar), true)
	return s.sorted()
}

func VariableModifiers(v *ir.Variable) []kt.Modifier {
	var s modifierSet
	s.add(mutability(v.IsVar), true)
	s.flag(v.IsConst, kt.Const)
	s.flag(v.IsLateinit, kt.Lateinit)
	return s.sorted()
}

// ParameterModifiers covers value parameters. Primary-constructor
// properties also get val/var from the keyword they were declared with.
func ParameterModifiers(p *ir.ValueParameter) []kt.Modifier {
	var s modifierSet
	s.flag(p.VarargElementType != nil, kt.Vararg)
	s.flag(p.IsNoinline, kt.Noinline)
	s.flag(p.IsCrossinline, kt.Crossinline)
	switch p.Keyword {
	case "val":
		s.add(kt.Val, true)
	case "var":
		s.add(kt.Var, true)
	}
	return s.sorted()
}

func TypeParameterModifiers(p *ir.TypeParameter) []kt.Modifier {
	var s modifierSet
	s.flag(p.IsReified, kt.Reified)
	switch p.Variance {
	case ir.VarianceIn:
		s.add(kt.ProjectionIn, true)
	case ir.VarianceOut:
		s.add(kt.ProjectionOut, true)
	}
	return s.sorted()
}

func ConstructorModifiers(c *ir.Constructor) []kt.Modifier {
	var s modifierSet
	s.add(visibilityModifier(c.Visibility))
	return s.sorted()
}

func mutability(isVar bool) kt.Modifier {
	if isVar {
		return kt.Var
	}
	return kt.Val
}
