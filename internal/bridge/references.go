package bridge

import (
	"strings"

	"ktbridge/internal/ct"
	"ktbridge/internal/ir"
	"ktbridge/internal/kt"
)

// ReferenceBuilder turns IR symbols and types into model references. It is
// stateless apart from the collector that receives unresolved-type warnings.
type ReferenceBuilder struct {
	msgs *MessageCollector
}

func NewReferenceBuilder(msgs *MessageCollector) *ReferenceBuilder {
	return &ReferenceBuilder{msgs: msgs}
}

// PackageRef returns the reference for the package fqName. The empty name is
// the root package.
func (r *ReferenceBuilder) PackageRef(fqName string) *ct.PackageReference {
	return ct.NewPackageReference(fqName)
}

// ClassRef places the class id under its package, or under its enclosing
// class for nested classes.
func (r *ReferenceBuilder) ClassRef(id ir.ClassID) *ct.TypeReference {
	ref := ct.NewTypeReference(ct.RefClass, id.ShortName())
	if outer, ok := id.Outer(); ok {
		ref.SetDeclaringType(r.ClassRef(outer))
	} else {
		ref.SetPackage(r.PackageRef(id.Package))
	}
	return ref
}

// TypeRef converts a resolved type. Unresolvable types produce the ErrorType
// sentinel and a warning.
func (r *ReferenceBuilder) TypeRef(t *ir.Type, at ir.Span) *ct.TypeReference {
	switch {
	case t == nil:
		return r.errorType(at, "missing type")
	case t.Kind == ir.TypeTypeParameter && t.Name != "":
		ref := ct.NewTypeReference(ct.RefTypeParameter, t.Name)
		ref.SetNullable(t.Nullable)
		return ref
	case t.Kind == ir.TypeClass && t.Class != nil && !t.Class.IsZero():
		ref := r.ClassRef(*t.Class)
		ref.SetNullable(t.Nullable)
		for _, a := range t.Arguments {
			ref.AddTypeArgument(r.typeArgument(a, at))
		}
		return ref
	}
	return r.errorType(at, "cannot resolve type "+t.String())
}

func (r *ReferenceBuilder) typeArgument(a *ir.TypeArgument, at ir.Span) *ct.TypeReference {
	if a == nil || a.Star {
		return ct.NewTypeReference(ct.RefStar, "*")
	}
	ref := r.TypeRef(a.Type, at)
	switch a.Variance {
	case ir.VarianceIn:
		ct.Put(ref, ct.KeyModifiers, []kt.Modifier{kt.ProjectionIn})
	case ir.VarianceOut:
		ct.Put(ref, ct.KeyModifiers, []kt.Modifier{kt.ProjectionOut})
	}
	return ref
}

func (r *ReferenceBuilder) errorType(at ir.Span, reason string) *ct.TypeReference {
	r.msgs.Warn(at, "%s, using %s", reason, ct.ErrorTypeName)
	return ct.NewTypeReference(ct.RefClass, ct.ErrorTypeName)
}

// NullType is the type of the null literal.
func (r *ReferenceBuilder) NullType() *ct.TypeReference {
	return ct.NewTypeReference(ct.RefNull, "null")
}

// BoundsRef folds upper bounds into a single reference: nil when there are
// none, the bound itself for one, an intersection for several. The implicit
// `Any?` bound is not written in source and is dropped.
func (r *ReferenceBuilder) BoundsRef(bounds []*ir.Type, at ir.Span) *ct.TypeReference {
	var refs []*ct.TypeReference
	for _, b := range bounds {
		if b.IsNullableAny() {
			continue
		}
		refs = append(refs, r.TypeRef(b, at))
	}
	switch len(refs) {
	case 0:
		return nil
	case 1:
		return refs[0]
	}
	inter := ct.NewTypeReference(ct.RefIntersection, "")
	for _, b := range refs {
		inter.AddBound(b)
	}
	return inter
}

func (r *ReferenceBuilder) containerRef(c ir.Container) *ct.TypeReference {
	if c.Class == nil {
		return nil
	}
	return r.ClassRef(*c.Class)
}

// ExecutableRef points at the called function. Constructors use
// ct.ConstructorName and are declared by the class they build.
func (r *ReferenceBuilder) ExecutableRef(sym *ir.FunctionSymbol, resultType *ir.Type, at ir.Span) *ct.ExecutableReference {
	if sym == nil {
		ref := ct.NewExecutableReference(ct.ErrorTypeName)
		ref.SetType(r.errorType(at, "call without callee"))
		return ref
	}
	name := sym.Name
	if sym.Kind == ir.FunctionConstructor {
		name = ct.ConstructorName
	}
	ref := ct.NewExecutableReference(name)
	if decl := r.containerRef(sym.Container); decl != nil {
		ref.SetDeclaringType(decl)
	}
	typ := sym.ReturnType
	if typ == nil {
		typ = resultType
	}
	ref.SetType(r.TypeRef(typ, at))
	for _, p := range sym.ParameterTypes {
		ref.AddParameter(r.TypeRef(p, at))
	}
	return ref
}

// PropertyRef is the field reference behind a property symbol.
func (r *ReferenceBuilder) PropertyRef(sym *ir.PropertySymbol, at ir.Span) *ct.VariableReference {
	ref := ct.NewVariableReference(ct.VarField, sym.Name)
	if decl := r.containerRef(sym.Container); decl != nil {
		ref.SetDeclaringType(decl)
	}
	if sym.Type != nil {
		ref.SetType(r.TypeRef(sym.Type, at))
	}
	return ref
}

// AccessorProperty returns the property an accessor symbol belongs to,
// recovering it from the `<get-x>`/`<set-x>` name when the dump omits it.
func AccessorProperty(sym *ir.FunctionSymbol) *ir.PropertySymbol {
	if sym.Property != nil {
		return sym.Property
	}
	name := sym.Name
	for _, p := range []string{"<get-", "<set-"} {
		if strings.HasPrefix(name, p) && strings.HasSuffix(name, ">") {
			name = name[len(p) : len(name)-1]
			break
		}
	}
	p := &ir.PropertySymbol{Name: name, Container: sym.Container}
	if sym.IsGetter() {
		p.Type = sym.ReturnType
	} else if len(sym.ParameterTypes) > 0 {
		p.Type = sym.ParameterTypes[len(sym.ParameterTypes)-1]
	}
	return p
}

// ValueRef is the variable reference behind a value symbol. Receivers are
// not variables and yield a ReferenceKindError.
func (r *ReferenceBuilder) ValueRef(sym *ir.ValueSymbol, at ir.Span) (*ct.VariableReference, error) {
	var kind ct.VarRefKind
	switch sym.Kind {
	case ir.ValueLocal, ir.ValueTemporary:
		kind = ct.VarLocal
	case ir.ValueKindParameter:
		kind = ct.VarParameter
	case ir.ValueCatch:
		kind = ct.VarCatch
	default:
		return nil, &ReferenceKindError{Name: sym.Name, Kind: string(sym.Kind), Span: at}
	}
	ref := ct.NewVariableReference(kind, sym.Name)
	if sym.Type != nil {
		ref.SetType(r.TypeRef(sym.Type, at))
	}
	return ref, nil
}
