package bridge

import (
	"strings"

	"ktbridge/internal/ct"
	"ktbridge/internal/ir"
	"ktbridge/internal/kt"
)

func putModifiers(e ct.Element, mods []kt.Modifier) {
	if len(mods) > 0 {
		ct.Put(e, ct.KeyModifiers, mods)
	}
}

func (c *converter) visitFile(f *ir.File) (*ct.CompilationUnit, error) {
	unit := ct.NewCompilationUnit(f.Name)
	unit.SetLineSeparators(f.LineStartOffsets)
	pkg := ct.NewPackage(f.Package)
	unit.SetPackage(pkg)

	// The container is held here rather than looked up by name, so a user
	// type that happens to share TopLevelName is never mistaken for it.
	var top *ct.TypeDecl
	container := func() *ct.TypeDecl {
		if top == nil {
			top = ct.NewTypeDecl(ct.TypeClass, TopLevelName)
			top.SetImplicit(true)
			pkg.AddType(top)
		}
		return top
	}

	for _, d := range f.Declarations {
		if d.DeclOrigin().IsSynthesized() {
			continue
		}
		r, err := c.visit(d, scope{})
		if err != nil {
			return nil, err
		}
		for _, e := range r.Elements() {
			switch m := e.(type) {
			case *ct.TypeDecl:
				pkg.AddType(m)
			case *ct.Method:
				container().AddMethod(m)
			case *ct.Field:
				container().AddField(m)
			default:
				return nil, shapeErr(d, "file", "%s at top level", e.Kind())
			}
		}
	}
	return unit, nil
}

func typeKind(k ir.ClassKind) ct.TypeKind {
	switch k {
	case ir.ClassKindInterface:
		return ct.TypeInterface
	case ir.ClassKindEnum:
		return ct.TypeEnum
	case ir.ClassKindObject:
		return ct.TypeObject
	case ir.ClassKindAnnotation:
		return ct.TypeAnnotation
	}
	return ct.TypeClass
}

func (c *converter) visitClass(cl *ir.Class, s scope) (Result, error) {
	t := ct.NewTypeDecl(typeKind(cl.Kind), cl.Name)
	putModifiers(t, ClassModifiers(cl))
	for _, tp := range cl.TypeParameters {
		t.AddTypeParameter(c.typeParameter(tp))
	}
	for _, st := range cl.SuperTypes {
		switch {
		case st.Interface:
			t.AddSuperInterface(c.refs.TypeRef(st, cl.Span))
		case t.Superclass() == nil && st.Kind == ir.TypeClass && !st.IsAny():
			t.SetSuperclass(c.refs.TypeRef(st, cl.Span))
		}
	}

	inner := s.inClass(cl)
	for _, d := range cl.Declarations {
		if d.DeclOrigin().IsSynthesized() {
			continue
		}
		if _, ok := d.(*ir.Constructor); ok && cl.Kind == ir.ClassKindObject {
			continue
		}
		r, err := c.visit(d, inner)
		if err != nil {
			return Result{}, err
		}
		for _, e := range r.Elements() {
			if err := addMember(t, e, cl.Kind == ir.ClassKindInterface); err != nil {
				return Result{}, shapeErr(d, "class", "%v", err)
			}
		}
	}
	return definite(t), nil
}

type memberKindError struct{ kind ct.Kind }

func (e memberKindError) Error() string { return e.kind.String() + " is not a class member" }

func addMember(t *ct.TypeDecl, e ct.Element, inInterface bool) error {
	switch m := e.(type) {
	case *ct.Field:
		t.AddField(m)
	case *ct.EnumValue:
		t.AddEnumValue(m)
	case *ct.Method:
		if inInterface && m.Body() != nil {
			m.SetDefaultMethod(true)
		}
		t.AddMethod(m)
	case *ct.Constructor:
		t.AddConstructor(m)
	case *ct.TypeDecl:
		t.AddNestedType(m)
	case *ct.AnonymousExecutable:
		t.AddAnonymousExecutable(m)
	default:
		return memberKindError{e.Kind()}
	}
	return nil
}

func (c *converter) visitProperty(p *ir.Property, s scope) (Result, error) {
	f := ct.NewField(p.Name)
	putModifiers(f, PropertyModifiers(p))
	typ := c.refs.TypeRef(p.Type, p.Span)
	typ.SetImplicit(c.implicitType(p.Span))
	f.SetType(typ)

	if bf := p.BackingField; bf != nil && bf.Initializer != nil {
		init, err := c.expr(bf.Initializer.Expression, s)
		if err != nil {
			return Result{}, err
		}
		if p.IsDelegated || bf.Origin == ir.DeclDelegate {
			ct.Put(f, ct.KeyPropertyDelegate, init)
		} else {
			f.SetDefaultExpression(init)
		}
		if bf.Initializer.Expression.ExprOrigin() == ir.OriginInitializeProperty {
			// Declared by a primary-constructor parameter.
			f.SetImplicit(true)
		}
	}

	getter, setter := p.Getter, p.Setter
	if getter != nil && getter.ExtensionReceiver != nil {
		ct.Put(f, ct.KeyExtensionReceiver, c.refs.TypeRef(getter.ExtensionReceiver, p.Span))
	}
	if getter != nil && !getter.IsDefaultAccessor() {
		m, err := c.accessor(getter, s)
		if err != nil {
			return Result{}, err
		}
		ct.Put(f, ct.KeyPropertyGetter, m)
	}
	if setter != nil && !setter.IsDefaultAccessor() {
		m, err := c.accessor(setter, s)
		if err != nil {
			return Result{}, err
		}
		ct.Put(f, ct.KeyPropertySetter, m)
	}
	return definite(f), nil
}

// accessor builds a custom getter or setter as an unnamed method.
func (c *converter) accessor(fn *ir.Function, s scope) (*ct.Method, error) {
	m := ct.NewMethod("")
	putModifiers(m, FunctionModifiers(fn))
	m.SetType(c.refs.TypeRef(fn.ReturnType, fn.Span))
	for _, p := range fn.ValueParameters {
		param, err := c.parameter(p, s)
		if err != nil {
			return nil, err
		}
		m.AddParameter(param)
	}
	body, err := c.methodBody(fn.Body, s)
	if err != nil {
		return nil, err
	}
	if body != nil {
		m.SetBody(body)
	}
	return m, nil
}

func (c *converter) visitField(f *ir.Field, s scope) (Result, error) {
	field := ct.NewField(f.Name)
	field.SetImplicit(true)
	field.SetType(c.refs.TypeRef(f.Type, f.Span))
	if f.Initializer != nil {
		init, err := c.expr(f.Initializer.Expression, s)
		if err != nil {
			return Result{}, err
		}
		field.SetDefaultExpression(init)
	}
	return definite(field), nil
}

func (c *converter) visitFunction(fn *ir.Function, s scope) (Result, error) {
	m := ct.NewMethod(fn.Name)
	putModifiers(m, FunctionModifiers(fn))
	for _, tp := range fn.TypeParameters {
		m.AddTypeParameter(c.typeParameter(tp))
	}
	ret := c.refs.TypeRef(fn.ReturnType, fn.Span)
	ret.SetImplicit(c.implicitType(fn.Span))
	m.SetType(ret)
	if fn.ExtensionReceiver != nil {
		ct.Put(m, ct.KeyExtensionReceiver, c.refs.TypeRef(fn.ExtensionReceiver, fn.Span))
	}
	for _, p := range fn.ValueParameters {
		param, err := c.parameter(p, s)
		if err != nil {
			return Result{}, err
		}
		m.AddParameter(param)
	}
	body, err := c.methodBody(fn.Body, s)
	if err != nil {
		return Result{}, err
	}
	if body != nil {
		m.SetBody(body)
	}
	return definite(m), nil
}

// methodBody converts a function body. Bodies written as `= expr` get an
// implicit block.
func (c *converter) methodBody(body ir.Body, s scope) (*ct.Block, error) {
	if body == nil {
		return nil, nil
	}
	_, isExpr := body.(*ir.ExpressionBody)
	convert := c.block
	if isExpr {
		convert = c.tailBlock
	}
	b, err := convert(body, s)
	if err != nil {
		return nil, err
	}
	if len(b.Statements()) == 1 {
		span := body.Pos()
		text := strings.TrimSpace(c.src.Text(span))
		if isExpr || span.Len() <= 1 || (text != "" && !strings.HasPrefix(text, "{")) {
			b.SetImplicit(true)
		}
	}
	return b, nil
}

func (c *converter) visitConstructor(cn *ir.Constructor, s scope) (Result, error) {
	ctor := ct.NewConstructor()
	putModifiers(ctor, ConstructorModifiers(cn))
	ctor.SetType(c.refs.ClassRef(cn.Class))
	for _, p := range cn.ValueParameters {
		param, err := c.parameter(p, s)
		if err != nil {
			return Result{}, err
		}
		ctor.AddParameter(param)
	}
	if cn.Body != nil {
		body, err := c.block(cn.Body, s)
		if err != nil {
			return Result{}, err
		}
		body.SetImplicit(cn.IsPrimary)
		ctor.SetBody(body)
	}
	if cn.IsPrimary {
		ct.Put(ctor, ct.KeyPrimaryConstructor, true)
		if len(cn.ValueParameters) == 0 && !cn.HasPrimarySyntax && cn.Visibility == ir.VisibilityPublic {
			ctor.SetImplicit(true)
		}
	}
	return definite(ctor), nil
}

func (c *converter) visitValueParameter(p *ir.ValueParameter, s scope) (Result, error) {
	param, err := c.parameter(p, s)
	if err != nil {
		return Result{}, err
	}
	return definite(param), nil
}

func (c *converter) parameter(p *ir.ValueParameter, s scope) (*ct.Parameter, error) {
	param := ct.NewParameter(p.Name)
	putModifiers(param, ParameterModifiers(p))
	typ := p.Type
	if p.VarargElementType != nil {
		typ = p.VarargElementType
		param.SetVarArgs(true)
	}
	ref := c.refs.TypeRef(typ, p.Span)
	if c.implicitType(p.Span) {
		ref.SetImplicit(true)
		param.SetInferred(true)
	}
	param.SetType(ref)
	if p.DefaultValue != nil {
		def, err := c.expr(p.DefaultValue.Expression, s)
		if err != nil {
			return nil, err
		}
		param.SetDefaultExpression(def)
	}
	return param, nil
}

func (c *converter) typeParameter(tp *ir.TypeParameter) *ct.TypeParameter {
	p := ct.NewTypeParameter(tp.Name)
	putModifiers(p, TypeParameterModifiers(tp))
	if bound := c.refs.BoundsRef(tp.SuperTypes, tp.Span); bound != nil {
		p.SetSuperclass(bound)
	}
	return p
}

func (c *converter) visitVariable(v *ir.Variable, s scope) (Result, error) {
	lv, err := c.localVariable(v, s)
	if err != nil {
		return Result{}, err
	}
	return definite(lv), nil
}

func (c *converter) localVariable(v *ir.Variable, s scope) (*ct.LocalVariable, error) {
	lv := ct.NewLocalVariable(v.Name)
	putModifiers(lv, VariableModifiers(v))
	typ := c.refs.TypeRef(v.Type, v.Span)
	if c.implicitType(v.Span) {
		typ.SetImplicit(true)
		lv.SetInferred(true)
	}
	lv.SetType(typ)
	if v.Initializer != nil && !s.destruct {
		init, err := c.expr(v.Initializer, s)
		if err != nil {
			return nil, err
		}
		lv.SetDefaultExpression(init)
	}
	return lv, nil
}

func (c *converter) visitAnonymousInitializer(a *ir.AnonymousInitializer, s scope) (Result, error) {
	exec := ct.NewAnonymousExecutable()
	body, err := c.block(a.Body, s)
	if err != nil {
		return Result{}, err
	}
	exec.SetBody(body)
	return definite(exec), nil
}

func (c *converter) visitEnumEntry(e *ir.EnumEntry, s scope) (Result, error) {
	v := ct.NewEnumValue(e.Name)
	if s.owner != nil {
		v.SetType(c.refs.ClassRef(s.owner.ID))
	}
	if e.Initializer != nil && hasArguments(e.Initializer.Expression) {
		init, err := c.expr(e.Initializer.Expression, s)
		if err != nil {
			return Result{}, err
		}
		v.SetDefaultExpression(init)
	}
	if e.Class != nil {
		c.msgs.Warn(e.Span, "body of enum entry %s is not converted", e.Name)
	}
	return definite(v), nil
}

func hasArguments(e ir.Expression) bool {
	var args []ir.Expression
	switch call := e.(type) {
	case *ir.ConstructorCall:
		args = call.Arguments
	case *ir.DelegatingConstructorCall:
		args = call.Arguments
	}
	for _, a := range args {
		if a != nil {
			return true
		}
	}
	return false
}

func (c *converter) visitBlockBody(b *ir.BlockBody, s scope) (Result, error) {
	block := ct.NewBlock()
	if err := c.statements(b.Statements, s, block.AddStatement); err != nil {
		return Result{}, err
	}
	return definite(block), nil
}
