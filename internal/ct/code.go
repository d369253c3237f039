package ct

// Block is an ordered list of statements.
type Block struct {
	stmtNode
	statements []Statement
}

func NewBlock() *Block {
	b := &Block{}
	b.self = b
	return b
}

func (b *Block) Kind() Kind              { return KindBlock }
func (b *Block) Statements() []Statement { return b.statements }
func (b *Block) Children() []Element     { return appendAll(nil, b.statements) }

func (b *Block) AddStatement(s Statement) {
	b.statements = append(b.statements, s)
	b.adopt(s)
}

// SetStatement replaces the statement at index i.
func (b *Block) SetStatement(i int, s Statement) {
	b.statements[i] = s
	b.adopt(s)
}

type If struct {
	stmtNode
	cond     Expression
	thenStmt Statement
	elseStmt Statement
}

func NewIf() *If {
	i := &If{}
	i.self = i
	return i
}

func (i *If) Kind() Kind            { return KindIf }
func (i *If) Condition() Expression { return i.cond }
func (i *If) Then() Statement       { return i.thenStmt }
func (i *If) Else() Statement       { return i.elseStmt }
func (i *If) Children() []Element   { return elems(i.cond, i.thenStmt, i.elseStmt) }

func (i *If) SetCondition(e Expression) {
	i.cond = e
	i.adopt(e)
}

func (i *If) SetThen(s Statement) {
	i.thenStmt = s
	i.adopt(s)
}

func (i *If) SetElse(s Statement) {
	i.elseStmt = s
	i.adopt(s)
}

type loop struct {
	cond Expression
	body Statement
}

type While struct {
	stmtNode
	loop
}

func NewWhile() *While {
	w := &While{}
	w.self = w
	return w
}

func (w *While) Kind() Kind            { return KindWhile }
func (w *While) Condition() Expression { return w.cond }
func (w *While) Body() Statement       { return w.body }
func (w *While) Children() []Element   { return elems(w.cond, w.body) }

func (w *While) SetCondition(e Expression) {
	w.cond = e
	w.adopt(e)
}

func (w *While) SetBody(s Statement) {
	w.body = s
	w.adopt(s)
}

type Do struct {
	stmtNode
	loop
}

func NewDo() *Do {
	d := &Do{}
	d.self = d
	return d
}

func (d *Do) Kind() Kind            { return KindDo }
func (d *Do) Condition() Expression { return d.cond }
func (d *Do) Body() Statement       { return d.body }
func (d *Do) Children() []Element   { return elems(d.body, d.cond) }

func (d *Do) SetCondition(e Expression) {
	d.cond = e
	d.adopt(e)
}

func (d *Do) SetBody(s Statement) {
	d.body = s
	d.adopt(s)
}

// ForEach iterates Expression, binding each element to Variable. A
// destructuring loop binds a placeholder variable flagged as destructured.
type ForEach struct {
	stmtNode
	variable *LocalVariable
	expr     Expression
	body     Statement
}

func NewForEach() *ForEach {
	f := &ForEach{}
	f.self = f
	return f
}

func (f *ForEach) Kind() Kind               { return KindForEach }
func (f *ForEach) Variable() *LocalVariable { return f.variable }
func (f *ForEach) Expression() Expression   { return f.expr }
func (f *ForEach) Body() Statement          { return f.body }
func (f *ForEach) Children() []Element      { return elems(f.variable, f.expr, f.body) }

func (f *ForEach) SetVariable(v *LocalVariable) {
	f.variable = v
	f.adopt(v)
}

func (f *ForEach) SetExpression(e Expression) {
	f.expr = e
	f.adopt(e)
}

func (f *ForEach) SetBody(s Statement) {
	f.body = s
	f.adopt(s)
}

type Return struct {
	stmtNode
	expr Expression
}

func NewReturn() *Return {
	r := &Return{}
	r.self = r
	return r
}

func (r *Return) Kind() Kind                     { return KindReturn }
func (r *Return) ReturnedExpression() Expression { return r.expr }
func (r *Return) Children() []Element            { return elems(r.expr) }

func (r *Return) SetReturnedExpression(e Expression) {
	r.expr = e
	r.adopt(e)
}

type Throw struct {
	stmtNode
	expr Expression
}

func NewThrow() *Throw {
	t := &Throw{}
	t.self = t
	return t
}

func (t *Throw) Kind() Kind                   { return KindThrow }
func (t *Throw) ThrownExpression() Expression { return t.expr }
func (t *Throw) Children() []Element          { return elems(t.expr) }

func (t *Throw) SetThrownExpression(e Expression) {
	t.expr = e
	t.adopt(e)
}

type Try struct {
	stmtNode
	body      *Block
	catchers  []*Catch
	finalizer *Block
}

func NewTry() *Try {
	t := &Try{}
	t.self = t
	return t
}

func (t *Try) Kind() Kind         { return KindTry }
func (t *Try) Body() *Block       { return t.body }
func (t *Try) Catchers() []*Catch { return t.catchers }
func (t *Try) Finalizer() *Block  { return t.finalizer }

func (t *Try) SetBody(b *Block) {
	t.body = b
	t.adopt(b)
}

func (t *Try) AddCatcher(c *Catch) {
	t.catchers = append(t.catchers, c)
	t.adopt(c)
}

func (t *Try) SetFinalizer(b *Block) {
	t.finalizer = b
	t.adopt(b)
}

func (t *Try) Children() []Element {
	out := appendAll(elems(t.body), t.catchers)
	return append(out, elems(t.finalizer)...)
}

type Catch struct {
	node
	param *CatchVariable
	body  *Block
}

func NewCatch() *Catch {
	c := &Catch{}
	c.self = c
	return c
}

func (c *Catch) Kind() Kind                { return KindCatch }
func (c *Catch) Parameter() *CatchVariable { return c.param }
func (c *Catch) Body() *Block              { return c.body }
func (c *Catch) Children() []Element       { return elems(c.param, c.body) }

func (c *Catch) SetParameter(v *CatchVariable) {
	c.param = v
	c.adopt(v)
}

func (c *Catch) SetBody(b *Block) {
	c.body = b
	c.adopt(b)
}

// Break leaves the innermost or the labelled loop.
type Break struct {
	stmtNode
	target string
}

func NewBreak(target string) *Break {
	b := &Break{target: target}
	b.self = b
	return b
}

func (b *Break) Kind() Kind          { return KindBreak }
func (b *Break) TargetLabel() string { return b.target }
func (b *Break) Children() []Element { return nil }

type Continue struct {
	stmtNode
	target string
}

func NewContinue(target string) *Continue {
	c := &Continue{target: target}
	c.self = c
	return c
}

func (c *Continue) Kind() Kind          { return KindContinue }
func (c *Continue) TargetLabel() string { return c.target }
func (c *Continue) Children() []Element { return nil }

// LiteralBase is the radix a numeric literal was written in.
type LiteralBase uint8

const (
	BaseDecimal LiteralBase = iota
	BaseHexadecimal
	BaseBinary
)

// Literal holds a constant value: nil, bool, rune, int64, float64 or string.
type Literal struct {
	exprNode
	value any
	base  LiteralBase
}

func NewLiteral(value any) *Literal {
	l := &Literal{value: value}
	l.self = l
	return l
}

func (l *Literal) Kind() Kind            { return KindLiteral }
func (l *Literal) Value() any            { return l.value }
func (l *Literal) Base() LiteralBase     { return l.base }
func (l *Literal) SetBase(b LiteralBase) { l.base = b }
func (l *Literal) Children() []Element   { return l.typeChildren() }

type varAccess struct {
	variable *VariableReference
}

// VariableRead reads a local, parameter or catch variable.
type VariableRead struct {
	exprNode
	varAccess
}

func NewVariableRead(ref *VariableReference) *VariableRead {
	v := &VariableRead{}
	v.self = v
	v.variable = ref
	v.adopt(ref)
	return v
}

func (v *VariableRead) Kind() Kind                   { return KindVariableRead }
func (v *VariableRead) Variable() *VariableReference { return v.variable }
func (v *VariableRead) Children() []Element {
	return append(elems(v.variable), v.typeChildren()...)
}

type VariableWrite struct {
	exprNode
	varAccess
}

func NewVariableWrite(ref *VariableReference) *VariableWrite {
	v := &VariableWrite{}
	v.self = v
	v.variable = ref
	v.adopt(ref)
	return v
}

func (v *VariableWrite) Kind() Kind                   { return KindVariableWrite }
func (v *VariableWrite) Variable() *VariableReference { return v.variable }
func (v *VariableWrite) Children() []Element {
	return append(elems(v.variable), v.typeChildren()...)
}

type fieldAccess struct {
	target   Expression
	variable *VariableReference
}

// FieldRead reads a property through an optional receiver.
type FieldRead struct {
	exprNode
	fieldAccess
}

func NewFieldRead(ref *VariableReference) *FieldRead {
	f := &FieldRead{}
	f.self = f
	f.variable = ref
	f.adopt(ref)
	return f
}

func (f *FieldRead) Kind() Kind                   { return KindFieldRead }
func (f *FieldRead) Variable() *VariableReference { return f.variable }
func (f *FieldRead) Target() Expression           { return f.target }
func (f *FieldRead) SetTarget(e Expression) {
	f.target = e
	f.adopt(e)
}
func (f *FieldRead) Children() []Element {
	return append(elems(f.target, f.variable), f.typeChildren()...)
}

type FieldWrite struct {
	exprNode
	fieldAccess
}

func NewFieldWrite(ref *VariableReference) *FieldWrite {
	f := &FieldWrite{}
	f.self = f
	f.variable = ref
	f.adopt(ref)
	return f
}

func (f *FieldWrite) Kind() Kind                   { return KindFieldWrite }
func (f *FieldWrite) Variable() *VariableReference { return f.variable }
func (f *FieldWrite) Target() Expression           { return f.target }
func (f *FieldWrite) SetTarget(e Expression) {
	f.target = e
	f.adopt(e)
}
func (f *FieldWrite) Children() []Element {
	return append(elems(f.target, f.variable), f.typeChildren()...)
}

type arrayAccess struct {
	target  Expression
	indices []Expression
}

// ArrayRead is an indexed read; multi-dimensional accesses keep every index
// in order.
type ArrayRead struct {
	exprNode
	arrayAccess
}

func NewArrayRead() *ArrayRead {
	a := &ArrayRead{}
	a.self = a
	return a
}

func (a *ArrayRead) Kind() Kind            { return KindArrayRead }
func (a *ArrayRead) Target() Expression    { return a.target }
func (a *ArrayRead) Indices() []Expression { return a.indices }
func (a *ArrayRead) SetTarget(e Expression) {
	a.target = e
	a.adopt(e)
}
func (a *ArrayRead) AddIndex(e Expression) {
	a.indices = append(a.indices, e)
	a.adopt(e)
}
func (a *ArrayRead) Children() []Element {
	out := appendAll(elems(a.target), a.indices)
	return append(out, a.typeChildren()...)
}

type ArrayWrite struct {
	exprNode
	arrayAccess
}

func NewArrayWrite() *ArrayWrite {
	a := &ArrayWrite{}
	a.self = a
	return a
}

func (a *ArrayWrite) Kind() Kind            { return KindArrayWrite }
func (a *ArrayWrite) Target() Expression    { return a.target }
func (a *ArrayWrite) Indices() []Expression { return a.indices }
func (a *ArrayWrite) SetTarget(e Expression) {
	a.target = e
	a.adopt(e)
}
func (a *ArrayWrite) AddIndex(e Expression) {
	a.indices = append(a.indices, e)
	a.adopt(e)
}
func (a *ArrayWrite) Children() []Element {
	out := appendAll(elems(a.target), a.indices)
	return append(out, a.typeChildren()...)
}

type call struct {
	executable *ExecutableReference
	args       []Expression
	typeArgs   []*TypeReference
}

// Invocation calls a method through an optional target.
type Invocation struct {
	stmtExprNode
	call
	target Expression
}

func NewInvocation(exec *ExecutableReference) *Invocation {
	i := &Invocation{}
	i.self = i
	i.executable = exec
	i.adopt(exec)
	return i
}

func (i *Invocation) Kind() Kind                       { return KindInvocation }
func (i *Invocation) Executable() *ExecutableReference { return i.executable }
func (i *Invocation) Arguments() []Expression          { return i.args }
func (i *Invocation) TypeArguments() []*TypeReference  { return i.typeArgs }
func (i *Invocation) Target() Expression               { return i.target }

func (i *Invocation) SetTarget(e Expression) {
	i.target = e
	i.adopt(e)
}

func (i *Invocation) AddArgument(e Expression) {
	i.args = append(i.args, e)
	i.adopt(e)
}

// SetArguments replaces the argument list.
func (i *Invocation) SetArguments(args []Expression) {
	i.args = nil
	for _, a := range args {
		i.AddArgument(a)
	}
}

func (i *Invocation) AddTypeArgument(t *TypeReference) {
	i.typeArgs = append(i.typeArgs, t)
	i.adopt(t)
}

func (i *Invocation) Children() []Element {
	out := elems(i.target, i.executable)
	out = appendAll(out, i.typeArgs)
	out = appendAll(out, i.args)
	return append(out, i.typeChildren()...)
}

type ConstructorCall struct {
	stmtExprNode
	call
}

func NewConstructorCall(exec *ExecutableReference) *ConstructorCall {
	c := &ConstructorCall{}
	c.self = c
	c.executable = exec
	c.adopt(exec)
	return c
}

func (c *ConstructorCall) Kind() Kind                       { return KindConstructorCall }
func (c *ConstructorCall) Executable() *ExecutableReference { return c.executable }
func (c *ConstructorCall) Arguments() []Expression          { return c.args }
func (c *ConstructorCall) TypeArguments() []*TypeReference  { return c.typeArgs }

func (c *ConstructorCall) AddArgument(e Expression) {
	c.args = append(c.args, e)
	c.adopt(e)
}

func (c *ConstructorCall) SetArguments(args []Expression) {
	c.args = nil
	for _, a := range args {
		c.AddArgument(a)
	}
}

func (c *ConstructorCall) AddTypeArgument(t *TypeReference) {
	c.typeArgs = append(c.typeArgs, t)
	c.adopt(t)
}

func (c *ConstructorCall) Children() []Element {
	out := elems(c.executable)
	out = appendAll(out, c.typeArgs)
	out = appendAll(out, c.args)
	return append(out, c.typeChildren()...)
}

// BinaryOperatorKind is the generic operator vocabulary. Kotlin-only
// operators map to BinaryOther and keep their exact kind in metadata.
type BinaryOperatorKind uint8

const (
	BinaryOther BinaryOperatorKind = iota
	BinaryOr
	BinaryAnd
	BinaryEq
	BinaryNe
	BinaryLt
	BinaryGt
	BinaryLe
	BinaryGe
	BinaryPlus
	BinaryMinus
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryInstanceOf
)

type BinaryOperator struct {
	exprNode
	opKind BinaryOperatorKind
	left   Expression
	right  Expression
}

func NewBinaryOperator(kind BinaryOperatorKind) *BinaryOperator {
	b := &BinaryOperator{opKind: kind}
	b.self = b
	return b
}

func (b *BinaryOperator) Kind() Kind                       { return KindBinaryOperator }
func (b *BinaryOperator) OperatorKind() BinaryOperatorKind { return b.opKind }
func (b *BinaryOperator) Left() Expression                 { return b.left }
func (b *BinaryOperator) Right() Expression                { return b.right }

func (b *BinaryOperator) SetLeft(e Expression) {
	b.left = e
	b.adopt(e)
}

func (b *BinaryOperator) SetRight(e Expression) {
	b.right = e
	b.adopt(e)
}

func (b *BinaryOperator) Children() []Element {
	return append(elems(b.left, b.right), b.typeChildren()...)
}

type UnaryOperatorKind uint8

const (
	UnaryPos UnaryOperatorKind = iota + 1
	UnaryNeg
	UnaryNot
	UnaryPreInc
	UnaryPreDec
	UnaryPostInc
	UnaryPostDec
)

func (k UnaryOperatorKind) String() string {
	switch k {
	case UnaryPos:
		return "POS"
	case UnaryNeg:
		return "NEG"
	case UnaryNot:
		return "NOT"
	case UnaryPreInc:
		return "PREINC"
	case UnaryPreDec:
		return "PREDEC"
	case UnaryPostInc:
		return "POSTINC"
	case UnaryPostDec:
		return "POSTDEC"
	}
	return "UNKNOWN"
}

type UnaryOperator struct {
	stmtExprNode
	opKind  UnaryOperatorKind
	operand Expression
}

func NewUnaryOperator(kind UnaryOperatorKind) *UnaryOperator {
	u := &UnaryOperator{opKind: kind}
	u.self = u
	return u
}

func (u *UnaryOperator) Kind() Kind                      { return KindUnaryOperator }
func (u *UnaryOperator) OperatorKind() UnaryOperatorKind { return u.opKind }
func (u *UnaryOperator) Operand() Expression             { return u.operand }

func (u *UnaryOperator) SetOperand(e Expression) {
	u.operand = e
	u.adopt(e)
}

func (u *UnaryOperator) Children() []Element {
	return append(elems(u.operand), u.typeChildren()...)
}

type assign struct {
	assigned   Expression
	assignment Expression
}

// Assignment writes Assignment into Assigned.
type Assignment struct {
	stmtExprNode
	assign
}

func NewAssignment() *Assignment {
	a := &Assignment{}
	a.self = a
	return a
}

func (a *Assignment) Kind() Kind             { return KindAssignment }
func (a *Assignment) Assigned() Expression   { return a.assigned }
func (a *Assignment) Assignment() Expression { return a.assignment }

func (a *Assignment) SetAssigned(e Expression) {
	a.assigned = e
	a.adopt(e)
}

func (a *Assignment) SetAssignment(e Expression) {
	a.assignment = e
	a.adopt(e)
}

func (a *Assignment) Children() []Element {
	return append(elems(a.assigned, a.assignment), a.typeChildren()...)
}

// OperatorAssignment is a compound assignment such as `x += 1`.
type OperatorAssignment struct {
	stmtExprNode
	assign
	opKind BinaryOperatorKind
}

func NewOperatorAssignment(kind BinaryOperatorKind) *OperatorAssignment {
	a := &OperatorAssignment{opKind: kind}
	a.self = a
	return a
}

func (a *OperatorAssignment) Kind() Kind                       { return KindOperatorAssignment }
func (a *OperatorAssignment) OperatorKind() BinaryOperatorKind { return a.opKind }
func (a *OperatorAssignment) Assigned() Expression             { return a.assigned }
func (a *OperatorAssignment) Assignment() Expression           { return a.assignment }

func (a *OperatorAssignment) SetAssigned(e Expression) {
	a.assigned = e
	a.adopt(e)
}

func (a *OperatorAssignment) SetAssignment(e Expression) {
	a.assignment = e
	a.adopt(e)
}

func (a *OperatorAssignment) Children() []Element {
	return append(elems(a.assigned, a.assignment), a.typeChildren()...)
}

// TypeAccess refers to a type in expression position.
type TypeAccess struct {
	exprNode
	accessed *TypeReference
}

func NewTypeAccess(ref *TypeReference) *TypeAccess {
	t := &TypeAccess{accessed: ref}
	t.self = t
	t.adopt(ref)
	return t
}

func (t *TypeAccess) Kind() Kind                   { return KindTypeAccess }
func (t *TypeAccess) AccessedType() *TypeReference { return t.accessed }
func (t *TypeAccess) Children() []Element {
	return append(elems(t.accessed), t.typeChildren()...)
}

type ThisAccess struct {
	exprNode
}

func NewThisAccess() *ThisAccess {
	t := &ThisAccess{}
	t.self = t
	return t
}

func (t *ThisAccess) Kind() Kind          { return KindThisAccess }
func (t *ThisAccess) Children() []Element { return t.typeChildren() }

type SuperAccess struct {
	exprNode
}

func NewSuperAccess() *SuperAccess {
	s := &SuperAccess{}
	s.self = s
	return s
}

func (s *SuperAccess) Kind() Kind          { return KindSuperAccess }
func (s *SuperAccess) Children() []Element { return s.typeChildren() }

// Lambda is a function literal.
type Lambda struct {
	exprNode
	params []*Parameter
	body   *Block
}

func NewLambda() *Lambda {
	l := &Lambda{}
	l.self = l
	return l
}

func (l *Lambda) Kind() Kind               { return KindLambda }
func (l *Lambda) Parameters() []*Parameter { return l.params }
func (l *Lambda) Body() *Block             { return l.body }

func (l *Lambda) AddParameter(p *Parameter) {
	l.params = append(l.params, p)
	l.adopt(p)
}

func (l *Lambda) SetBody(b *Block) {
	l.body = b
	l.adopt(b)
}

func (l *Lambda) Children() []Element {
	out := appendAll(nil, l.params)
	out = append(out, elems(l.body)...)
	return append(out, l.typeChildren()...)
}

// StatementExpression lets a statement (if, block, try) stand where an
// expression is required.
type StatementExpression struct {
	exprNode
	stmt Statement
}

func NewStatementExpression(s Statement) *StatementExpression {
	e := &StatementExpression{stmt: s}
	e.self = e
	e.adopt(s)
	return e
}

func (e *StatementExpression) Kind() Kind           { return KindStatementExpression }
func (e *StatementExpression) Statement() Statement { return e.stmt }
func (e *StatementExpression) Children() []Element {
	return append(elems(e.stmt), e.typeChildren()...)
}
