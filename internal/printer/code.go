package printer

import (
	"strconv"
	"strings"

	"ktbridge/internal/ct"
	"ktbridge/internal/kt"
)

func (p *printer) braced(b *ct.Block) {
	if b == nil {
		p.write("{}")
		return
	}
	p.blockOf(b.Statements())
}

func (p *printer) blockOf(stmts []ct.Statement) {
	if len(stmts) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for _, s := range stmts {
		p.newline()
		p.statement(s)
	}
	p.indent--
	p.newline()
	p.write("}")
}

// labelOf returns the label a statement is prefixed with. Returns keep
// their target in metadata, so only the slot counts for them.
func labelOf(s ct.Statement) string {
	if l := s.Label(); l != "" {
		return l
	}
	if ct.SupportsLabel(s.Kind()) {
		return ""
	}
	l, _ := ct.Get(s, ct.KeyLabel)
	return l
}

func (p *printer) statement(s ct.Statement) {
	if l := labelOf(s); l != "" {
		p.write(l + "@ ")
	}
	switch x := s.(type) {
	case *ct.Block:
		p.braced(x)
	case *ct.If:
		p.ifStatement(x)
	case *ct.While:
		p.write("while (")
		p.expression(x.Condition())
		p.write(") ")
		p.loopBody(x.Body())
	case *ct.Do:
		p.write("do ")
		p.loopBody(x.Body())
		p.write(" while (")
		p.expression(x.Condition())
		p.write(")")
	case *ct.ForEach:
		p.write("for (" + loopVariable(x.Variable()) + " in ")
		p.expression(x.Expression())
		p.write(") ")
		p.loopBody(x.Body())
	case *ct.Return:
		p.returnStatement(x)
	case *ct.Throw:
		p.write("throw ")
		p.expression(x.ThrownExpression())
	case *ct.Try:
		p.tryStatement(x)
	case *ct.Break:
		p.write("break" + jumpLabel(x.TargetLabel()))
	case *ct.Continue:
		p.write("continue" + jumpLabel(x.TargetLabel()))
	case *ct.LocalVariable:
		p.localVariable(x)
	case *ct.TypeDecl:
		p.typeDecl(x)
	case ct.Expression:
		p.expression(x)
	default:
		p.writef("/* %s */", s.Kind())
	}
}

func jumpLabel(l string) string {
	if l == "" {
		return ""
	}
	return "@" + l
}

func (p *printer) loopBody(s ct.Statement) {
	if b, ok := s.(*ct.Block); ok {
		p.braced(b)
		return
	}
	if s == nil {
		p.write("{}")
		return
	}
	p.statement(s)
}

func (p *printer) ifStatement(i *ct.If) {
	p.write("if (")
	p.expression(i.Condition())
	p.write(") ")
	p.loopBody(i.Then())
	if e := i.Else(); e != nil {
		p.write(" else ")
		p.loopBody(e)
	}
}

func (p *printer) returnStatement(r *ct.Return) {
	e := r.ReturnedExpression()
	if r.Implicit() {
		if e != nil {
			p.expression(e)
		}
		return
	}
	p.write("return")
	if target, ok := ct.Get(r, ct.KeyLabel); ok && target != "" {
		p.write("@" + target)
	}
	if e != nil {
		p.write(" ")
		p.expression(e)
	}
}

func (p *printer) tryStatement(t *ct.Try) {
	p.write("try ")
	p.braced(t.Body())
	for _, c := range t.Catchers() {
		p.write(" catch (")
		if v := c.Parameter(); v != nil {
			p.write(v.SimpleName() + ": " + typeName(v.Type()))
		}
		p.write(") ")
		p.braced(c.Body())
	}
	if f := t.Finalizer(); f != nil {
		p.write(" finally ")
		p.braced(f)
	}
}

func destructuredNames(v *ct.LocalVariable) string {
	comps, _ := ct.Get(v, ct.KeyComponents)
	names := make([]string, len(comps))
	for i, c := range comps {
		names[i] = c.SimpleName()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func loopVariable(v *ct.LocalVariable) string {
	if v == nil {
		return "_"
	}
	if ct.Flag(v, ct.KeyDestructured) {
		return destructuredNames(v)
	}
	if t := v.Type(); t != nil && !t.Implicit() {
		return v.SimpleName() + ": " + typeName(t)
	}
	return v.SimpleName()
}

func (p *printer) localVariable(v *ct.LocalVariable) {
	p.write(modifiers(v))
	if ct.Flag(v, ct.KeyDestructured) {
		p.write(destructuredNames(v))
	} else {
		p.write(v.SimpleName())
		if t := v.Type(); t != nil && !t.Implicit() {
			p.write(": " + typeName(t))
		}
	}
	if d := v.DefaultExpression(); d != nil {
		p.write(" = ")
		p.expression(d)
	}
}

// expression prints e followed by its not-null assertion and casts.
func (p *printer) expression(e ct.Expression) {
	if e == nil {
		return
	}
	casts := e.TypeCasts()
	if len(casts) > 0 {
		p.write("(")
	}
	p.bare(e)
	if ct.Flag(e, ct.KeyCheckedNotNull) {
		p.write("!!")
	}
	for _, c := range casts {
		if ct.Flag(c, ct.KeySafeCast) {
			p.write(" as? ")
		} else {
			p.write(" as ")
		}
		p.write(typeName(c))
	}
	if len(casts) > 0 {
		p.write(")")
	}
}

func (p *printer) bare(e ct.Expression) {
	if ct.Flag(e, ct.KeyStringTemplate) {
		p.template(e)
		return
	}
	p.plain(e)
}

func (p *printer) plain(e ct.Expression) {
	switch x := e.(type) {
	case *ct.Literal:
		p.write(literal(x))
	case *ct.VariableRead:
		p.write(x.Variable().SimpleName())
	case *ct.VariableWrite:
		p.write(x.Variable().SimpleName())
	case *ct.FieldRead:
		p.write(p.receiver(x) + x.Variable().SimpleName())
	case *ct.FieldWrite:
		p.write(p.receiver(x) + x.Variable().SimpleName())
	case *ct.ArrayRead:
		p.indexed(x.Target(), x.Indices())
	case *ct.ArrayWrite:
		p.indexed(x.Target(), x.Indices())
	case *ct.Invocation:
		p.invocation(x)
	case *ct.ConstructorCall:
		p.constructorCall(x)
	case *ct.BinaryOperator:
		p.binaryOperator(x)
	case *ct.UnaryOperator:
		p.unaryOperator(x)
	case *ct.Assignment:
		p.expression(x.Assigned())
		p.write(" = ")
		p.expression(x.Assignment())
	case *ct.OperatorAssignment:
		p.expression(x.Assigned())
		p.write(" " + binaryKind(x).Token() + "= ")
		p.expression(x.Assignment())
	case *ct.TypeAccess:
		p.write(typeName(x.AccessedType()))
	case *ct.ThisAccess:
		p.write("this")
	case *ct.SuperAccess:
		p.write("super")
	case *ct.Lambda:
		p.lambda(x)
	case *ct.StatementExpression:
		p.statement(x.Statement())
	default:
		p.writef("/* %s */", e.Kind())
	}
}

// receiver renders the target of an access followed by the member
// operator, or nothing when the target is implicit.
func (p *printer) receiver(t ct.Targeted) string {
	target := t.Target()
	if target == nil || target.Implicit() {
		return ""
	}
	op := "."
	if ct.Flag(t, ct.KeySafeAccess) {
		op = "?."
	}
	return p.sub(target) + op
}

// sub prints e into a scratch printer at the current depth.
func (p *printer) sub(e ct.Expression) string {
	q := &printer{indent: p.indent}
	q.expression(e)
	return q.sb.String()
}

func (p *printer) indexed(target ct.Expression, indices []ct.Expression) {
	p.expression(target)
	p.write("[")
	for i, idx := range indices {
		if i > 0 {
			p.write(", ")
		}
		p.expression(idx)
	}
	p.write("]")
}

func (p *printer) invocation(inv *ct.Invocation) {
	exec := inv.Executable()
	switch {
	case exec.IsConstructor():
		if t := inv.Target(); t != nil && !t.Implicit() {
			p.write(p.sub(t) + ".")
		}
		name := ""
		if dt := exec.DeclaringType(); dt != nil {
			name = dt.SimpleName()
		}
		p.write(name)
	case ct.Flag(inv, ct.KeyInfix) && len(inv.Arguments()) == 1 && inv.Target() != nil:
		p.expression(inv.Target())
		p.write(" " + exec.SimpleName() + " ")
		p.expression(inv.Arguments()[0])
		return
	case ct.Flag(inv, ct.KeyInvokeOperator) && inv.Target() != nil:
		p.expression(inv.Target())
	default:
		p.write(p.receiver(inv) + exec.SimpleName())
	}
	p.typeArguments(inv.TypeArguments())
	p.write("(")
	p.arguments(inv.Arguments())
	p.write(")")
}

func (p *printer) typeArguments(args []*ct.TypeReference) {
	var names []string
	for _, a := range args {
		if a.Implicit() {
			return
		}
		names = append(names, typeName(a))
	}
	if len(names) > 0 {
		p.write("<" + strings.Join(names, ", ") + ">")
	}
}

// constructorCall prints a delegation to another constructor of the same
// class as `this(...)` and to the superclass as `super(...)`.
func (p *printer) constructorCall(c *ct.ConstructorCall) {
	kw := "super"
	if owner, ok := ct.ParentOf[*ct.TypeDecl](c); ok {
		if dt := c.Executable().DeclaringType(); dt != nil && dt.SimpleName() == owner.SimpleName() {
			kw = "this"
		}
	}
	p.write(kw + "(")
	p.arguments(c.Arguments())
	p.write(")")
}

func (p *printer) arguments(args []ct.Expression) {
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		if name, ok := ct.Get(a, ct.KeyNamedArgument); ok && name != "" {
			p.write(name + " = ")
		}
		if ct.Flag(a, ct.KeySpread) {
			p.write("*")
		}
		p.expression(a)
	}
}

func arguments(args []ct.Expression) string {
	p := &printer{}
	p.arguments(args)
	return p.sb.String()
}

var genericKinds = map[ct.BinaryOperatorKind]kt.BinaryOperatorKind{
	ct.BinaryOr:         kt.OpOr,
	ct.BinaryAnd:        kt.OpAnd,
	ct.BinaryEq:         kt.OpEq,
	ct.BinaryNe:         kt.OpNe,
	ct.BinaryLt:         kt.OpLt,
	ct.BinaryGt:         kt.OpGt,
	ct.BinaryLe:         kt.OpLe,
	ct.BinaryGe:         kt.OpGe,
	ct.BinaryPlus:       kt.OpPlus,
	ct.BinaryMinus:      kt.OpMinus,
	ct.BinaryMul:        kt.OpMul,
	ct.BinaryDiv:        kt.OpDiv,
	ct.BinaryMod:        kt.OpMod,
	ct.BinaryInstanceOf: kt.OpIs,
}

type operatorNode interface {
	ct.Element
	OperatorKind() ct.BinaryOperatorKind
}

// binaryKind prefers the exact Kotlin operator and falls back to the
// generic kind.
func binaryKind(e operatorNode) kt.BinaryOperatorKind {
	if k, ok := ct.Get(e, ct.KeyBinaryOperatorKind); ok {
		return k
	}
	return genericKinds[e.OperatorKind()]
}

func precedence(k kt.BinaryOperatorKind) int {
	switch k {
	case kt.OpMul, kt.OpDiv, kt.OpMod:
		return 12
	case kt.OpPlus, kt.OpMinus:
		return 11
	case kt.OpRangeTo:
		return 10
	case kt.OpElvis:
		return 8
	case kt.OpIn, kt.OpNotIn, kt.OpIs, kt.OpIsNot:
		return 7
	case kt.OpLt, kt.OpGt, kt.OpLe, kt.OpGe:
		return 6
	case kt.OpEq, kt.OpNe, kt.OpID, kt.OpNID:
		return 5
	case kt.OpAnd:
		return 4
	case kt.OpOr:
		return 3
	}
	return 0
}

func exprPrecedence(e ct.Expression) int {
	switch x := e.(type) {
	case *ct.BinaryOperator:
		if ct.Flag(x, ct.KeyStringTemplate) || len(x.TypeCasts()) > 0 {
			return 100
		}
		return precedence(binaryKind(x))
	case *ct.Invocation:
		if ct.Flag(x, ct.KeyInfix) {
			return 9
		}
	case *ct.Assignment, *ct.OperatorAssignment, *ct.Lambda, *ct.StatementExpression:
		return 1
	}
	return 100
}

func (p *printer) operand(e ct.Expression, min int) {
	if exprPrecedence(e) < min {
		p.write("(")
		p.expression(e)
		p.write(")")
		return
	}
	p.expression(e)
}

func (p *printer) binaryOperator(b *ct.BinaryOperator) {
	k := binaryKind(b)
	prec := precedence(k)
	p.operand(b.Left(), prec)
	p.write(" " + k.Token() + " ")
	p.operand(b.Right(), prec+1)
}

func (p *printer) unaryOperator(u *ct.UnaryOperator) {
	switch u.OperatorKind() {
	case ct.UnaryPostInc:
		p.operand(u.Operand(), 100)
		p.write("++")
		return
	case ct.UnaryPostDec:
		p.operand(u.Operand(), 100)
		p.write("--")
		return
	case ct.UnaryPos:
		p.write("+")
	case ct.UnaryNeg:
		p.write("-")
	case ct.UnaryNot:
		p.write("!")
	case ct.UnaryPreInc:
		p.write("++")
	case ct.UnaryPreDec:
		p.write("--")
	}
	p.operand(u.Operand(), 100)
}

// template flattens a `+` chain flagged as a string template back into a
// single quoted string.
func (p *printer) template(e ct.Expression) {
	var parts []ct.Expression
	var flatten func(x ct.Expression, top bool)
	flatten = func(x ct.Expression, top bool) {
		if b, ok := x.(*ct.BinaryOperator); ok && binaryKind(b) == kt.OpPlus && (top || !ct.Flag(b, ct.KeyStringTemplate)) {
			flatten(b.Left(), false)
			parts = append(parts, b.Right())
			return
		}
		parts = append(parts, x)
	}
	flatten(e, true)

	p.write(`"`)
	for _, part := range parts {
		if lit, ok := part.(*ct.Literal); ok && len(lit.TypeCasts()) == 0 {
			if s, ok := lit.Value().(string); ok {
				p.write(escape(s))
				continue
			}
		}
		if v, ok := part.(*ct.VariableRead); ok && !ct.Flag(v, ct.KeyCheckedNotNull) && len(v.TypeCasts()) == 0 {
			p.write("$" + v.Variable().SimpleName())
			continue
		}
		p.write("${")
		if part == e {
			p.plain(part)
		} else {
			p.expression(part)
		}
		p.write("}")
	}
	p.write(`"`)
}

func (p *printer) lambda(l *ct.Lambda) {
	if ct.Flag(l, ct.KeyAnonymousFunction) {
		p.write("fun")
		p.parameters(l.Parameters())
		if t := l.Type(); t != nil && len(t.TypeArguments()) > 0 {
			if ret := t.TypeArguments()[len(t.TypeArguments())-1]; !ret.Implicit() {
				p.write(": " + typeName(ret))
			}
		}
		p.body(l.Body())
		return
	}
	var names []string
	for _, param := range l.Parameters() {
		if param.Implicit() {
			continue
		}
		names = append(names, param.SimpleName())
	}
	head := "{"
	if len(names) > 0 {
		head += " " + strings.Join(names, ", ") + " ->"
	}
	var stmts []ct.Statement
	if b := l.Body(); b != nil {
		stmts = b.Statements()
	}
	switch len(stmts) {
	case 0:
		p.write(head + " }")
	case 1:
		p.write(head + " ")
		p.statement(stmts[0])
		p.write(" }")
	default:
		p.write(head)
		p.indent++
		for _, s := range stmts {
			p.newline()
			p.statement(s)
		}
		p.indent--
		p.newline()
		p.write("}")
	}
}

func literal(l *ct.Literal) string {
	switch v := l.Value().(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case rune:
		return "'" + escapeChar(v) + "'"
	case int64:
		return integer(l, v)
	case float64:
		return float(l, v)
	case string:
		if ct.Flag(l, ct.KeyMultilineString) {
			return `"""` + v + `"""`
		}
		return `"` + escape(v) + `"`
	}
	return "/* literal */"
}

func literalType(l *ct.Literal) string {
	if t := l.Type(); t != nil {
		return t.SimpleName()
	}
	return ""
}

func integer(l *ct.Literal, v int64) string {
	var s string
	switch l.Base() {
	case ct.BaseHexadecimal:
		s = "0x" + strings.ToUpper(strconv.FormatInt(v, 16))
	case ct.BaseBinary:
		s = "0b" + strconv.FormatInt(v, 2)
	default:
		s = strconv.FormatInt(v, 10)
	}
	if literalType(l) == "Long" {
		s += "L"
	}
	return s
}

func float(l *ct.Literal, v float64) string {
	var s string
	if ct.Flag(l, ct.KeyScientificLiteral) {
		s = strconv.FormatFloat(v, 'e', -1, 64)
	} else {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if literalType(l) == "Float" {
		return s + "f"
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

var stringEscapes = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func escape(s string) string { return stringEscapes.Replace(s) }

func escapeChar(r rune) string {
	switch r {
	case '\'':
		return `\'`
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	}
	return string(r)
}
