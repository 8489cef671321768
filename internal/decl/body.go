package decl

import "github.com/groovy/groovy-eclipse-sub042/internal/source"

// Stmt is a statement of a reduced method body.
type Stmt interface {
	stmtNode()
	Pos() source.Span
}

// Expr is an expression of a reduced method body. Expressions the walker
// does not model are dropped, together with the statement holding them.
type Expr interface {
	exprNode()
	Pos() source.Span
}

// Block is a braced statement list; it opens a block scope.
type Block struct {
	Stmts []Stmt
	Span  source.Span
}

// LocalDecl declares one local variable. Var locals carry a nil Type and
// take the type of their initializer.
type LocalDecl struct {
	Name  string
	Type  *TypeRef
	Init  Expr
	Final bool
	Span  source.Span
}

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	X    Expr
	Span source.Span
}

// CtorCall is an explicit this(...) or super(...) constructor invocation.
type CtorCall struct {
	Super bool
	Args  []Expr
	Span  source.Span
}

// Return returns an optional value.
type Return struct {
	X    Expr
	Span source.Span
}

func (*Block) stmtNode()     {}
func (*LocalDecl) stmtNode() {}
func (*ExprStmt) stmtNode()  {}
func (*CtorCall) stmtNode()  {}
func (*Return) stmtNode()    {}

func (s *Block) Pos() source.Span     { return s.Span }
func (s *LocalDecl) Pos() source.Span { return s.Span }
func (s *ExprStmt) Pos() source.Span  { return s.Span }
func (s *CtorCall) Pos() source.Span  { return s.Span }
func (s *Return) Pos() source.Span    { return s.Span }

// LiteralKind classifies literals.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota + 1
	LitLong
	LitFloat
	LitDouble
	LitChar
	LitString
	LitBool
	LitNull
)

// Literal is a literal value; Text is the source spelling.
type Literal struct {
	Kind LiteralKind
	Text string
	Span source.Span
}

// Name is a simple or dotted name as written. The resolver decides which
// prefix is a variable, a type or a package.
type Name struct {
	Name string
	Span source.Span
}

// Call is a method invocation. A nil Receiver is an unqualified call.
type Call struct {
	Receiver Expr
	Name     string
	TypeArgs []*TypeRef
	Args     []Expr
	Span     source.Span
}

// New is a class instance creation; Diamond marks "new C<>(...)".
type New struct {
	Type    *TypeRef
	Diamond bool
	Args    []Expr
	Span    source.Span
}

// This is "this" or "Outer.this".
type This struct {
	Qualifier string
	Span      source.Span
}

// Select is a field access on a computed receiver.
type Select struct {
	X    Expr
	Name string
	Span source.Span
}

// Cond is "c ? a : b"; its type is the lub of the branches when both are
// references.
type Cond struct {
	Cond, Then, Else Expr
	Span             source.Span
}

// Cast is "(T) x".
type Cast struct {
	Type *TypeRef
	X    Expr
	Span source.Span
}

// Assign is "x = y".
type Assign struct {
	Target, Value Expr
	Span          source.Span
}

// NewArray is "new T[n]" or "new T[]{...}".
type NewArray struct {
	Type  *TypeRef
	Elems []Expr
	Span  source.Span
}

func (*Literal) exprNode()  {}
func (*Name) exprNode()     {}
func (*Call) exprNode()     {}
func (*New) exprNode()      {}
func (*This) exprNode()     {}
func (*Select) exprNode()   {}
func (*Cond) exprNode()     {}
func (*Cast) exprNode()     {}
func (*Assign) exprNode()   {}
func (*NewArray) exprNode() {}

func (e *Literal) Pos() source.Span  { return e.Span }
func (e *Name) Pos() source.Span     { return e.Span }
func (e *Call) Pos() source.Span     { return e.Span }
func (e *New) Pos() source.Span      { return e.Span }
func (e *This) Pos() source.Span     { return e.Span }
func (e *Select) Pos() source.Span   { return e.Span }
func (e *Cond) Pos() source.Span     { return e.Span }
func (e *Cast) Pos() source.Span     { return e.Span }
func (e *Assign) Pos() source.Span   { return e.Span }
func (e *NewArray) Pos() source.Span { return e.Span }

// Walk calls fn for every declaration in the unit, outer types first.
func (u *Unit) Walk(fn func(td *TypeDecl, enclosing *TypeDecl)) {
	var visit func(td, enc *TypeDecl)
	visit = func(td, enc *TypeDecl) {
		fn(td, enc)
		for _, m := range td.Members {
			visit(m, td)
		}
	}
	for _, td := range u.Types {
		visit(td, nil)
	}
}
