package ir

// Inspect traverses the tree rooted at n depth-first, calling f for every
// node. If f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Children returns the direct child nodes of n in source order. Missing
// optional children are left out.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *File:
		for _, d := range n.Declarations {
			add(d)
		}
	case *Class:
		for _, tp := range n.TypeParameters {
			if tp != nil {
				add(tp)
			}
		}
		for _, d := range n.Declarations {
			add(d)
		}
	case *Property:
		if n.BackingField != nil {
			add(n.BackingField)
		}
		if n.Getter != nil {
			add(n.Getter)
		}
		if n.Setter != nil {
			add(n.Setter)
		}
	case *Field:
		if n.Initializer != nil {
			add(n.Initializer)
		}
	case *Function:
		for _, p := range n.ValueParameters {
			if p != nil {
				add(p)
			}
		}
		add(n.Body)
	case *Constructor:
		for _, p := range n.ValueParameters {
			if p != nil {
				add(p)
			}
		}
		add(n.Body)
	case *ValueParameter:
		if n.DefaultValue != nil {
			add(n.DefaultValue)
		}
	case *Variable:
		add(n.Initializer)
	case *AnonymousInitializer:
		if n.Body != nil {
			add(n.Body)
		}
	case *EnumEntry:
		if n.Initializer != nil {
			add(n.Initializer)
		}
		if n.Class != nil {
			add(n.Class)
		}
	case *BlockBody:
		for _, s := range n.Statements {
			add(s)
		}
	case *ExpressionBody:
		add(n.Expression)
	case *Call:
		add(n.DispatchReceiver)
		add(n.ExtensionReceiver)
		for _, a := range n.Arguments {
			add(a)
		}
	case *ConstructorCall:
		for _, a := range n.Arguments {
			add(a)
		}
	case *DelegatingConstructorCall:
		for _, a := range n.Arguments {
			add(a)
		}
	case *SetValue:
		add(n.Value)
	case *GetField:
		add(n.Receiver)
	case *SetField:
		add(n.Receiver)
		add(n.Value)
	case *Branch:
		add(n.Condition)
		add(n.Result)
	case *When:
		for _, b := range n.Branches {
			if b != nil {
				add(b)
			}
		}
	case *WhileLoop:
		add(n.Condition)
		add(n.Body)
	case *DoWhileLoop:
		add(n.Body)
		add(n.Condition)
	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *Composite:
		for _, s := range n.Statements {
			add(s)
		}
	case *Return:
		add(n.Value)
	case *Throw:
		add(n.Value)
	case *Catch:
		if n.Parameter != nil {
			add(n.Parameter)
		}
		add(n.Result)
	case *Try:
		add(n.Result)
		for _, c := range n.Catches {
			if c != nil {
				add(c)
			}
		}
		add(n.Finally)
	case *TypeOperatorCall:
		add(n.Argument)
	case *SpreadElement:
		add(n.Expression)
	case *Vararg:
		for _, e := range n.Elements {
			add(e)
		}
	case *FunctionExpression:
		if n.Function != nil {
			add(n.Function)
		}
	case *StringConcatenation:
		for _, a := range n.Arguments {
			add(a)
		}
	}
	return out
}

// CountReads returns how many GetValue nodes under stmts read the value
// named name.
func CountReads(stmts []Statement, name string) int {
	count := 0
	for _, st := range stmts {
		Inspect(st, func(n Node) bool {
			if g, ok := n.(*GetValue); ok && g.Symbol != nil && g.Symbol.Name == name {
				count++
			}
			return true
		})
	}
	return count
}
