// Package printer renders a ct tree back to Kotlin-like source text.
//
// Implicit nodes are omitted: the file-level container prints its members
// at top level, implicit blocks print without braces where Kotlin allows it,
// implicit returns print as their expression and implicit `this` receivers
// disappear.
package printer

import (
	"fmt"
	"strings"

	"ktbridge/internal/ct"
	"ktbridge/internal/kt"
)

const indentUnit = "    "

type printer struct {
	sb     strings.Builder
	indent int
}

// Print renders e and its subtree.
func Print(e ct.Element) string {
	p := &printer{}
	p.element(e)
	return p.sb.String()
}

func (p *printer) write(s string)                 { p.sb.WriteString(s) }
func (p *printer) writef(format string, a ...any) { fmt.Fprintf(&p.sb, format, a...) }

func (p *printer) newline() {
	p.sb.WriteByte('\n')
	p.sb.WriteString(strings.Repeat(indentUnit, p.indent))
}

func (p *printer) element(e ct.Element) {
	switch x := e.(type) {
	case *ct.CompilationUnit:
		p.unit(x)
	case *ct.TypeDecl:
		p.typeDecl(x)
	case *ct.Field:
		p.field(x)
	case *ct.EnumValue:
		p.enumValue(x)
	case *ct.Method:
		p.method(x)
	case *ct.Constructor:
		p.constructor(x)
	case *ct.AnonymousExecutable:
		p.write("init ")
		p.braced(x.Body())
	case *ct.Parameter:
		p.parameter(x)
	case *ct.TypeParameter:
		p.typeParameter(x)
	case *ct.TypeReference:
		p.write(typeName(x))
	case ct.Statement:
		p.statement(x)
	case ct.Expression:
		p.expression(x)
	default:
		p.writef("/* %s */", e.Kind())
	}
}

func (p *printer) unit(u *ct.CompilationUnit) {
	first := true
	if pkg := u.Package(); pkg != nil && !pkg.IsRoot() {
		p.write("package " + pkg.QualifiedName())
		first = false
	}
	for _, t := range u.DeclaredTypes() {
		for _, m := range topLevel(t) {
			if !first {
				p.write("\n\n")
			}
			first = false
			p.element(m)
		}
	}
	if !first {
		p.write("\n")
	}
}

// topLevel unwraps the implicit file-level container.
func topLevel(t *ct.TypeDecl) []ct.Element {
	if t.Implicit() {
		return t.Members()
	}
	return []ct.Element{t}
}

func modifiers(e ct.Element) string {
	mods, _ := ct.Get(e, ct.KeyModifiers)
	if len(mods) == 0 {
		return ""
	}
	toks := make([]string, len(mods))
	for i, m := range mods {
		toks[i] = m.Token()
	}
	return strings.Join(toks, " ") + " "
}

// withoutModifiers drops the listed tags, e.g. the implied modality of
// interface members.
func withoutModifiers(e ct.Element, drop ...kt.Modifier) string {
	mods, _ := ct.Get(e, ct.KeyModifiers)
	var toks []string
	for _, m := range mods {
		if !kt.ContainsModifier(drop, m) {
			toks = append(toks, m.Token())
		}
	}
	if len(toks) == 0 {
		return ""
	}
	return strings.Join(toks, " ") + " "
}

var typeKeywords = map[ct.TypeKind]string{
	ct.TypeClass:      "class",
	ct.TypeInterface:  "interface",
	ct.TypeEnum:       "enum class",
	ct.TypeObject:     "object",
	ct.TypeAnnotation: "class",
}

func (p *printer) typeDecl(t *ct.TypeDecl) {
	if t.Implicit() {
		for i, m := range t.Members() {
			if i > 0 {
				p.newline()
			}
			p.element(m)
		}
		return
	}
	mods := withoutModifiers(t, kt.Public, kt.Final)
	p.write(mods)
	if t.TypeKind() == ct.TypeObject && strings.Contains(mods, "companion") && t.SimpleName() == "Companion" {
		p.write("object")
	} else {
		p.write(typeKeywords[t.TypeKind()] + " " + t.SimpleName())
	}
	p.typeParameters(t.TypeParameters())

	primary := primaryConstructor(t)
	if primary != nil && !primary.Implicit() {
		if cm := withoutModifiers(primary, kt.Public); cm != "" {
			p.write(" " + cm + "constructor")
		}
		p.parameters(primary.Parameters())
	}

	var supers []string
	if sc := t.Superclass(); sc != nil {
		supers = append(supers, typeName(sc)+superArguments(primary))
	}
	for _, i := range t.SuperInterfaces() {
		supers = append(supers, typeName(i))
	}
	if len(supers) > 0 {
		p.write(" : " + strings.Join(supers, ", "))
	}

	var members []ct.Element
	for _, m := range t.Members() {
		if m == ct.Element(primary) || m.Implicit() {
			continue
		}
		if _, ok := m.(*ct.EnumValue); ok {
			continue
		}
		members = append(members, m)
	}
	values := t.EnumValues()
	if len(members) == 0 && len(values) == 0 {
		return
	}
	p.write(" {")
	p.indent++
	if len(values) > 0 {
		p.newline()
		for i, v := range values {
			if i > 0 {
				p.write(", ")
			}
			p.enumValue(v)
		}
		if len(members) > 0 {
			p.write(";")
		}
	}
	for _, m := range members {
		p.newline()
		p.element(m)
	}
	p.indent--
	p.newline()
	p.write("}")
}

func primaryConstructor(t *ct.TypeDecl) *ct.Constructor {
	for _, c := range t.Constructors() {
		if ct.Flag(c, ct.KeyPrimaryConstructor) {
			return c
		}
	}
	return nil
}

// superArguments renders the superclass constructor arguments passed by the
// primary constructor.
func superArguments(primary *ct.Constructor) string {
	if primary == nil || primary.Body() == nil {
		return "()"
	}
	for _, s := range primary.Body().Statements() {
		if call, ok := s.(*ct.ConstructorCall); ok && !call.Implicit() {
			return "(" + arguments(call.Arguments()) + ")"
		}
	}
	return "()"
}

func (p *printer) typeParameters(tps []*ct.TypeParameter) {
	if len(tps) == 0 {
		return
	}
	p.write("<")
	for i, tp := range tps {
		if i > 0 {
			p.write(", ")
		}
		p.typeParameter(tp)
	}
	p.write(">")
}

func (p *printer) typeParameter(tp *ct.TypeParameter) {
	p.write(modifiers(tp) + tp.SimpleName())
	if b := tp.Superclass(); b != nil {
		p.write(" : " + typeName(b))
	}
}

func (p *printer) field(f *ct.Field) {
	p.write(modifiers(f))
	if recv, ok := ct.Get(f, ct.KeyExtensionReceiver); ok {
		p.write(typeName(recv) + ".")
	}
	p.write(f.SimpleName())
	if t := f.Type(); t != nil && !t.Implicit() {
		p.write(": " + typeName(t))
	}
	if d := f.DefaultExpression(); d != nil {
		p.write(" = ")
		p.expression(d)
	} else if d, ok := ct.Get(f, ct.KeyPropertyDelegate); ok {
		p.write(" by ")
		p.expression(d)
	}
	p.indent++
	if g, ok := ct.Get(f, ct.KeyPropertyGetter); ok {
		p.newline()
		p.accessor("get", g)
	}
	if s, ok := ct.Get(f, ct.KeyPropertySetter); ok {
		p.newline()
		p.accessor("set", s)
	}
	p.indent--
}

func (p *printer) accessor(kw string, m *ct.Method) {
	p.write(withoutModifiers(m, kt.Public, kt.Final) + kw)
	names := make([]string, len(m.Parameters()))
	for i, param := range m.Parameters() {
		names[i] = param.SimpleName()
	}
	p.write("(" + strings.Join(names, ", ") + ")")
	p.body(m.Body())
}

func (p *printer) enumValue(v *ct.EnumValue) {
	p.write(v.SimpleName())
	if inv, ok := v.DefaultExpression().(*ct.Invocation); ok {
		p.write("(" + arguments(inv.Arguments()) + ")")
	}
}

func (p *printer) method(m *ct.Method) {
	var mods string
	if parent, ok := m.Parent().(*ct.TypeDecl); ok && parent.TypeKind() == ct.TypeInterface {
		mods = withoutModifiers(m, kt.Public, kt.Abstract, kt.Open)
	} else {
		mods = withoutModifiers(m, kt.Public, kt.Final)
	}
	p.write(mods + "fun ")
	if len(m.TypeParameters()) > 0 {
		p.typeParameters(m.TypeParameters())
		p.write(" ")
	}
	if recv, ok := ct.Get(m, ct.KeyExtensionReceiver); ok {
		p.write(typeName(recv) + ".")
	}
	p.write(m.SimpleName())
	p.parameters(m.Parameters())
	if t := m.Type(); t != nil && !t.Implicit() {
		p.write(": " + typeName(t))
	}
	p.body(m.Body())
}

// body prints ` = expr` for expression bodies and a braced block otherwise.
func (p *printer) body(b *ct.Block) {
	if b == nil {
		return
	}
	if stmts := b.Statements(); b.Implicit() && len(stmts) == 1 {
		p.write(" = ")
		if r, ok := stmts[0].(*ct.Return); ok && r.Implicit() && r.ReturnedExpression() != nil {
			p.expression(r.ReturnedExpression())
		} else {
			p.statement(stmts[0])
		}
		return
	}
	p.write(" ")
	p.braced(b)
}

func (p *printer) constructor(c *ct.Constructor) {
	p.write(withoutModifiers(c, kt.Public) + "constructor")
	p.parameters(c.Parameters())
	body := c.Body()
	if body == nil {
		return
	}
	var rest []ct.Statement
	for _, s := range body.Statements() {
		if call, ok := s.(*ct.ConstructorCall); ok && len(rest) == 0 {
			if !call.Implicit() {
				p.write(" : ")
				p.constructorCall(call)
			}
			continue
		}
		rest = append(rest, s)
	}
	if len(rest) > 0 {
		p.write(" ")
		p.blockOf(rest)
	}
}

func (p *printer) parameters(params []*ct.Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.parameter(param)
	}
	p.write(")")
}

func (p *printer) parameter(param *ct.Parameter) {
	p.write(modifiers(param) + param.SimpleName())
	if t := param.Type(); t != nil && !t.Implicit() {
		p.write(": " + typeName(t))
	}
	if d := param.DefaultExpression(); d != nil {
		p.write(" = ")
		p.expression(d)
	}
}

// typeName renders a reference, dropping the `kotlin.` prefix of the
// built-in types.
func typeName(t *ct.TypeReference) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	if mods, ok := ct.Get(t, ct.KeyModifiers); ok && len(mods) > 0 {
		b.WriteString(mods[0].Token() + " ")
	}
	switch t.RefKind() {
	case ct.RefStar:
		return "*"
	case ct.RefNull:
		return "Nothing?"
	case ct.RefIntersection:
		names := make([]string, len(t.Bounds()))
		for i, bound := range t.Bounds() {
			names[i] = typeName(bound)
		}
		return strings.Join(names, " & ")
	case ct.RefTypeParameter:
		b.WriteString(t.SimpleName())
	default:
		if pkg := t.Package(); pkg != nil && pkg.Name() == "kotlin" {
			b.WriteString(t.SimpleName())
		} else {
			b.WriteString(t.QualifiedName())
		}
	}
	if args := t.TypeArguments(); len(args) > 0 {
		names := make([]string, len(args))
		for i, a := range args {
			names[i] = typeName(a)
		}
		b.WriteString("<" + strings.Join(names, ", ") + ">")
	}
	if t.Nullable() {
		b.WriteByte('?')
	}
	return b.String()
}
