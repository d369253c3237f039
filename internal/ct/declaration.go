package ct

// CompilationUnit is the root produced for one source file.
type CompilationUnit struct {
	node
	fileName  string
	lineStart []int
	pkg       *Package
}

func NewCompilationUnit(fileName string) *CompilationUnit {
	u := &CompilationUnit{fileName: fileName}
	u.self = u
	return u
}

func (u *CompilationUnit) Kind() Kind            { return KindCompilationUnit }
func (u *CompilationUnit) FileName() string      { return u.fileName }
func (u *CompilationUnit) Package() *Package     { return u.pkg }
func (u *CompilationUnit) LineSeparators() []int { return u.lineStart }
func (u *CompilationUnit) Children() []Element   { return elems(u.pkg) }

func (u *CompilationUnit) SetLineSeparators(offsets []int) {
	u.lineStart = append([]int(nil), offsets...)
}

func (u *CompilationUnit) SetPackage(p *Package) {
	u.pkg = p
	u.adopt(p)
}

// DeclaredTypes lists the top-level types of the unit.
func (u *CompilationUnit) DeclaredTypes() []*TypeDecl {
	if u.pkg == nil {
		return nil
	}
	return u.pkg.Types()
}

// Package owns the top-level types declared in it.
type Package struct {
	node
	qualifiedName string
	types         []*TypeDecl
}

func NewPackage(qualifiedName string) *Package {
	p := &Package{qualifiedName: qualifiedName}
	p.self = p
	return p
}

func (p *Package) Kind() Kind            { return KindPackage }
func (p *Package) QualifiedName() string { return p.qualifiedName }
func (p *Package) IsRoot() bool          { return p.qualifiedName == "" }
func (p *Package) Types() []*TypeDecl    { return p.types }
func (p *Package) Children() []Element   { return appendAll(nil, p.types) }

func (p *Package) AddType(t *TypeDecl) {
	p.types = append(p.types, t)
	p.adopt(t)
}

// Type looks up a top-level type by simple name.
func (p *Package) Type(name string) *TypeDecl {
	for _, t := range p.types {
		if t.SimpleName() == name {
			return t
		}
	}
	return nil
}

// TypeKind is the flavour of a type declaration.
type TypeKind uint8

const (
	TypeClass TypeKind = iota + 1
	TypeInterface
	TypeEnum
	TypeObject
	TypeAnnotation
)

func (k TypeKind) String() string {
	switch k {
	case TypeClass:
		return "class"
	case TypeInterface:
		return "interface"
	case TypeEnum:
		return "enum"
	case TypeObject:
		return "object"
	case TypeAnnotation:
		return "annotation"
	}
	return "unknown"
}

// TypeDecl is a class-like declaration. Members are kept in declaration order.
type TypeDecl struct {
	stmtNode
	typeKind   TypeKind
	simpleName string
	superclass *TypeReference
	interfaces []*TypeReference
	typeParams []*TypeParameter
	members    []Element
}

func NewTypeDecl(kind TypeKind, simpleName string) *TypeDecl {
	t := &TypeDecl{typeKind: kind, simpleName: simpleName}
	t.self = t
	return t
}

func (t *TypeDecl) Kind() Kind                        { return KindType }
func (t *TypeDecl) TypeKind() TypeKind                { return t.typeKind }
func (t *TypeDecl) SimpleName() string                { return t.simpleName }
func (t *TypeDecl) Superclass() *TypeReference        { return t.superclass }
func (t *TypeDecl) SuperInterfaces() []*TypeReference { return t.interfaces }
func (t *TypeDecl) TypeParameters() []*TypeParameter  { return t.typeParams }
func (t *TypeDecl) Members() []Element                { return t.members }

func (t *TypeDecl) SetSuperclass(r *TypeReference) {
	t.superclass = r
	t.adopt(r)
}

func (t *TypeDecl) AddSuperInterface(r *TypeReference) {
	t.interfaces = append(t.interfaces, r)
	t.adopt(r)
}

func (t *TypeDecl) AddTypeParameter(p *TypeParameter) {
	t.typeParams = append(t.typeParams, p)
	t.adopt(p)
}

func (t *TypeDecl) addMember(m Element) {
	t.members = append(t.members, m)
	t.adopt(m)
}

func (t *TypeDecl) AddField(f *Field)                             { t.addMember(f) }
func (t *TypeDecl) AddEnumValue(v *EnumValue)                     { t.addMember(v) }
func (t *TypeDecl) AddMethod(m *Method)                           { t.addMember(m) }
func (t *TypeDecl) AddConstructor(c *Constructor)                 { t.addMember(c) }
func (t *TypeDecl) AddNestedType(n *TypeDecl)                     { t.addMember(n) }
func (t *TypeDecl) AddAnonymousExecutable(a *AnonymousExecutable) { t.addMember(a) }

func (t *TypeDecl) Fields() []*Field             { return membersOf[*Field](t) }
func (t *TypeDecl) EnumValues() []*EnumValue     { return membersOf[*EnumValue](t) }
func (t *TypeDecl) Methods() []*Method           { return membersOf[*Method](t) }
func (t *TypeDecl) Constructors() []*Constructor { return membersOf[*Constructor](t) }
func (t *TypeDecl) NestedTypes() []*TypeDecl     { return membersOf[*TypeDecl](t) }

func membersOf[M Element](t *TypeDecl) []M {
	var out []M
	for _, m := range t.members {
		if x, ok := m.(M); ok {
			out = append(out, x)
		}
	}
	return out
}

func (t *TypeDecl) Children() []Element {
	out := elems(t.superclass)
	out = appendAll(out, t.interfaces)
	out = appendAll(out, t.typeParams)
	return append(out, t.members...)
}

// Field is a property of a type.
type Field struct {
	node
	name        string
	typ         *TypeReference
	defaultExpr Expression
}

func NewField(name string) *Field {
	f := &Field{name: name}
	f.self = f
	return f
}

func (f *Field) Kind() Kind                    { return KindField }
func (f *Field) SimpleName() string            { return f.name }
func (f *Field) Type() *TypeReference          { return f.typ }
func (f *Field) DefaultExpression() Expression { return f.defaultExpr }
func (f *Field) Children() []Element           { return elems(f.typ, f.defaultExpr) }

func (f *Field) SetType(t *TypeReference) {
	f.typ = t
	f.adopt(t)
}

func (f *Field) SetDefaultExpression(e Expression) {
	f.defaultExpr = e
	f.adopt(e)
}

// EnumValue is an entry of an enum type.
type EnumValue struct {
	node
	name        string
	typ         *TypeReference
	defaultExpr Expression
}

func NewEnumValue(name string) *EnumValue {
	v := &EnumValue{name: name}
	v.self = v
	return v
}

func (v *EnumValue) Kind() Kind                    { return KindEnumValue }
func (v *EnumValue) SimpleName() string            { return v.name }
func (v *EnumValue) Type() *TypeReference          { return v.typ }
func (v *EnumValue) DefaultExpression() Expression { return v.defaultExpr }
func (v *EnumValue) Children() []Element           { return elems(v.typ, v.defaultExpr) }

func (v *EnumValue) SetType(t *TypeReference) {
	v.typ = t
	v.adopt(t)
}

func (v *EnumValue) SetDefaultExpression(e Expression) {
	v.defaultExpr = e
	v.adopt(e)
}

type executable struct {
	params []*Parameter
	body   *Block
}

// Method is a named function. Property accessors are stored as unnamed
// methods in metadata.
type Method struct {
	node
	executable
	name          string
	typ           *TypeReference
	typeParams    []*TypeParameter
	defaultMethod bool
}

func NewMethod(name string) *Method {
	m := &Method{name: name}
	m.self = m
	return m
}

func (m *Method) Kind() Kind                       { return KindMethod }
func (m *Method) SimpleName() string               { return m.name }
func (m *Method) Type() *TypeReference             { return m.typ }
func (m *Method) Parameters() []*Parameter         { return m.params }
func (m *Method) Body() *Block                     { return m.body }
func (m *Method) TypeParameters() []*TypeParameter { return m.typeParams }
func (m *Method) IsDefaultMethod() bool            { return m.defaultMethod }
func (m *Method) SetDefaultMethod(b bool)          { m.defaultMethod = b }

func (m *Method) SetType(t *TypeReference) {
	m.typ = t
	m.adopt(t)
}

func (m *Method) AddParameter(p *Parameter) {
	m.params = append(m.params, p)
	m.adopt(p)
}

func (m *Method) SetBody(b *Block) {
	m.body = b
	m.adopt(b)
}

func (m *Method) AddTypeParameter(p *TypeParameter) {
	m.typeParams = append(m.typeParams, p)
	m.adopt(p)
}

func (m *Method) Children() []Element {
	out := appendAll(nil, m.typeParams)
	out = append(out, elems(m.typ)...)
	out = appendAll(out, m.params)
	return append(out, elems(m.body)...)
}

// Constructor of a type; its simple name is always ConstructorName.
type Constructor struct {
	node
	executable
	typ *TypeReference
}

func NewConstructor() *Constructor {
	c := &Constructor{}
	c.self = c
	return c
}

func (c *Constructor) Kind() Kind               { return KindConstructor }
func (c *Constructor) SimpleName() string       { return ConstructorName }
func (c *Constructor) Type() *TypeReference     { return c.typ }
func (c *Constructor) Parameters() []*Parameter { return c.params }
func (c *Constructor) Body() *Block             { return c.body }

func (c *Constructor) SetType(t *TypeReference) {
	c.typ = t
	c.adopt(t)
}

func (c *Constructor) AddParameter(p *Parameter) {
	c.params = append(c.params, p)
	c.adopt(p)
}

func (c *Constructor) SetBody(b *Block) {
	c.body = b
	c.adopt(b)
}

func (c *Constructor) Children() []Element {
	out := appendAll(elems(c.typ), c.params)
	return append(out, elems(c.body)...)
}

// AnonymousExecutable is an initializer block of a type.
type AnonymousExecutable struct {
	node
	body *Block
}

func NewAnonymousExecutable() *AnonymousExecutable {
	a := &AnonymousExecutable{}
	a.self = a
	return a
}

func (a *AnonymousExecutable) Kind() Kind          { return KindAnonymousExecutable }
func (a *AnonymousExecutable) Body() *Block        { return a.body }
func (a *AnonymousExecutable) Children() []Element { return elems(a.body) }

func (a *AnonymousExecutable) SetBody(b *Block) {
	a.body = b
	a.adopt(b)
}

// Parameter of a method, constructor or lambda.
type Parameter struct {
	node
	name        string
	typ         *TypeReference
	defaultExpr Expression
	varArgs     bool
	inferred    bool
}

func NewParameter(name string) *Parameter {
	p := &Parameter{name: name}
	p.self = p
	return p
}

func (p *Parameter) Kind() Kind                    { return KindParameter }
func (p *Parameter) SimpleName() string            { return p.name }
func (p *Parameter) Type() *TypeReference          { return p.typ }
func (p *Parameter) DefaultExpression() Expression { return p.defaultExpr }
func (p *Parameter) IsVarArgs() bool               { return p.varArgs }
func (p *Parameter) SetVarArgs(b bool)             { p.varArgs = b }
func (p *Parameter) IsInferred() bool              { return p.inferred }
func (p *Parameter) SetInferred(b bool)            { p.inferred = b }
func (p *Parameter) Children() []Element           { return elems(p.typ, p.defaultExpr) }

func (p *Parameter) SetType(t *TypeReference) {
	p.typ = t
	p.adopt(t)
}

func (p *Parameter) SetDefaultExpression(e Expression) {
	p.defaultExpr = e
	p.adopt(e)
}

// TypeParameter is a generic parameter of a type or method.
type TypeParameter struct {
	node
	name       string
	superclass *TypeReference
}

func NewTypeParameter(name string) *TypeParameter {
	p := &TypeParameter{name: name}
	p.self = p
	return p
}

func (p *TypeParameter) Kind() Kind                 { return KindTypeParameter }
func (p *TypeParameter) SimpleName() string         { return p.name }
func (p *TypeParameter) Superclass() *TypeReference { return p.superclass }
func (p *TypeParameter) Children() []Element        { return elems(p.superclass) }

func (p *TypeParameter) SetSuperclass(t *TypeReference) {
	p.superclass = t
	p.adopt(t)
}

// LocalVariable is a local declaration statement.
type LocalVariable struct {
	stmtNode
	name        string
	typ         *TypeReference
	defaultExpr Expression
	inferred    bool
}

func NewLocalVariable(name string) *LocalVariable {
	v := &LocalVariable{name: name}
	v.self = v
	return v
}

func (v *LocalVariable) Kind() Kind                    { return KindLocalVariable }
func (v *LocalVariable) SimpleName() string            { return v.name }
func (v *LocalVariable) Type() *TypeReference          { return v.typ }
func (v *LocalVariable) DefaultExpression() Expression { return v.defaultExpr }
func (v *LocalVariable) IsInferred() bool              { return v.inferred }
func (v *LocalVariable) SetInferred(b bool)            { v.inferred = b }
func (v *LocalVariable) Children() []Element           { return elems(v.typ, v.defaultExpr) }

func (v *LocalVariable) SetType(t *TypeReference) {
	v.typ = t
	v.adopt(t)
}

func (v *LocalVariable) SetDefaultExpression(e Expression) {
	v.defaultExpr = e
	v.adopt(e)
}

// CatchVariable is the parameter of a catch clause.
type CatchVariable struct {
	node
	name string
	typ  *TypeReference
}

func NewCatchVariable(name string) *CatchVariable {
	v := &CatchVariable{name: name}
	v.self = v
	return v
}

func (v *CatchVariable) Kind() Kind           { return KindCatchVariable }
func (v *CatchVariable) SimpleName() string   { return v.name }
func (v *CatchVariable) Type() *TypeReference { return v.typ }
func (v *CatchVariable) Children() []Element  { return elems(v.typ) }

func (v *CatchVariable) SetType(t *TypeReference) {
	v.typ = t
	v.adopt(t)
}
