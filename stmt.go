package gcl

import (
	"fmt"
	"sort"
	"strings"
)

// Stmt represents a statement in a structured, branch-only program.
type Stmt interface {
	stmt()
	String() string
}

func (*AssignStmt) stmt() {}
func (*AssertStmt) stmt() {}
func (*IteStmt) stmt()    {}

// Prog represents a sequence of statements. The empty program is the identity.
type Prog []Stmt

// AssignStmt binds a variable to a value. In a passified program every
// variable is assigned at most once along any path.
type AssignStmt struct {
	Var   *Var
	Value Binding
}

// NewAssignStmt returns a new assignment of value to v.
func NewAssignStmt(v *Var, value Binding) *AssignStmt {
	switch value := value.(type) {
	case *Array:
		assert(v.IsMemory() && v.Size == value.Size, "assign: %s cannot hold %s", v, value)
	case Expr:
		assert(!v.IsMemory() && v.Width == ExprWidth(value), "assign: %s cannot hold %s", v, value)
	}
	return &AssignStmt{Var: v, Value: value}
}

// String returns the string representation of the statement.
func (s *AssignStmt) String() string {
	return fmt.Sprintf("%s := %s", s.Var, s.Value)
}

// AssertStmt restricts execution to states where Cond holds.
type AssertStmt struct {
	Cond Expr
}

// NewAssertStmt returns a new assertion of cond.
func NewAssertStmt(cond Expr) *AssertStmt {
	assert(ExprWidth(cond) == WidthBool, "assert: non-boolean condition: %s", cond)
	return &AssertStmt{Cond: cond}
}

// String returns the string representation of the statement.
func (s *AssertStmt) String() string {
	return fmt.Sprintf("assert %s", s.Cond)
}

// IteStmt executes Then when Cond holds and Else otherwise.
type IteStmt struct {
	Cond Expr
	Then Prog
	Else Prog
}

// NewIteStmt returns a new conditional statement.
func NewIteStmt(cond Expr, then, els Prog) *IteStmt {
	assert(ExprWidth(cond) == WidthBool, "ite: non-boolean condition: %s", cond)
	return &IteStmt{Cond: cond, Then: then, Else: els}
}

// String returns a single-line representation of the statement.
func (s *IteStmt) String() string {
	return fmt.Sprintf("if %s { %s } else { %s }", s.Cond, joinStmts(s.Then), joinStmts(s.Else))
}

func joinStmts(p Prog) string {
	a := make([]string, len(p))
	for i, s := range p {
		a[i] = s.String()
	}
	return strings.Join(a, "; ")
}

// String returns the program formatted with the default printer.
func (p Prog) String() string {
	return FormatProg(p)
}

// FormatProg returns an indented, multi-line rendering of p.
func FormatProg(p Prog) string {
	var pr Printer
	return pr.Format(p)
}

// Printer renders programs as indented text.
type Printer struct {
	// Indentation per nesting level. Defaults to a tab.
	Indent string

	// Optional decoration applied to keywords, e.g. for terminal colors.
	Keyword func(string) string
}

// Format returns the rendering of p.
func (pr *Printer) Format(p Prog) string {
	var buf strings.Builder
	pr.format(&buf, p, 0)
	return buf.String()
}

func (pr *Printer) format(buf *strings.Builder, p Prog, depth int) {
	indent := pr.Indent
	if indent == "" {
		indent = "\t"
	}
	prefix := strings.Repeat(indent, depth)

	for _, s := range p {
		switch s := s.(type) {
		case *AssignStmt:
			fmt.Fprintf(buf, "%s%s := %s\n", prefix, s.Var, s.Value)
		case *AssertStmt:
			fmt.Fprintf(buf, "%s%s %s\n", prefix, pr.keyword("assert"), s.Cond)
		case *IteStmt:
			fmt.Fprintf(buf, "%s%s %s {\n", prefix, pr.keyword("if"), s.Cond)
			pr.format(buf, s.Then, depth+1)
			if len(s.Else) > 0 {
				fmt.Fprintf(buf, "%s} %s {\n", prefix, pr.keyword("else"))
				pr.format(buf, s.Else, depth+1)
			}
			fmt.Fprintf(buf, "%s}\n", prefix)
		default:
			panic(fmt.Sprintf("unexpected stmt: %T", s))
		}
	}
}

func (pr *Printer) keyword(s string) string {
	if pr.Keyword == nil {
		return s
	}
	return pr.Keyword(s)
}

// AssignedVars returns every variable assigned anywhere in p, ordered by ID.
func AssignedVars(p Prog) []*Var {
	m := make(map[uint64]*Var)
	var visit func(Prog)
	visit = func(p Prog) {
		for _, s := range p {
			switch s := s.(type) {
			case *AssignStmt:
				m[s.Var.ID] = s.Var
			case *IteStmt:
				visit(s.Then)
				visit(s.Else)
			}
		}
	}
	visit(p)

	a := make([]*Var, 0, len(m))
	for _, v := range m {
		a = append(a, v)
	}
	sort.Slice(a, func(i, j int) bool { return a[i].ID < a[j].ID })
	return a
}
