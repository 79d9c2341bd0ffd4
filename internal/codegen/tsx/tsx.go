// Package tsx models the small subset of TypeScript and JSX the exporter
// emits and prints it with stable formatting. User supplied values only ever
// reach the output through Literal, which serialises them as JSON and is
// therefore always a valid, inert TypeScript expression.
package tsx

// File is a single TypeScript module.
type File struct {
	Header  Comment
	Imports []Import
	Body    []Stmt
}

// Import renders one import declaration.
type Import struct {
	From     string
	Default  string
	Names    []string
	TypeOnly bool
}

// Stmt is a top level declaration or a statement inside a function body.
type Stmt interface {
	print(p *printer)
}

// Comment emits one // line per entry.
type Comment []string

// Blank emits an empty line.
type Blank struct{}

// Line is a trusted, pre-formatted statement.
type Line string

// Raw is a trusted block of source emitted verbatim at the current depth.
type Raw string

// Const declares `const Name: Type = Value`.
type Const struct {
	Name   string
	Type   string
	Value  Expr
	Export bool
}

// Enum declares a frozen object whose member values equal their names, plus
// a union type of the same name. Plain string literals type-check against it,
// which a TypeScript enum would reject.
type Enum struct {
	Name    string
	Members []string
}

// Union declares a string literal union type.
type Union struct {
	Name   string
	Values []string
}

// Interface declares an object type.
type Interface struct {
	Name   string
	Fields []Field
}

// Field is an interface member.
type Field struct {
	Name     string
	Type     string
	Optional bool
}

// Func declares a named function.
type Func struct {
	Name    string
	Params  string
	Returns string
	Body    []Stmt
	Export  bool
	Default bool
}

// Return returns a JSX tree wrapped in parentheses.
type Return struct {
	Value Node
}

// Expr is a single line TypeScript expression, except for pretty literals
// which may span lines.
type Expr interface {
	source(depth int) string
}

// Literal serialises Value as JSON. Pretty literals are indented to the
// surrounding depth.
type Literal struct {
	Value  any
	Pretty bool
}

// Code is a trusted expression.
type Code string

// Object is an object literal with ordered properties.
type Object []Prop

// ObjectBlock is an object literal printed one property per line.
type ObjectBlock []Prop

// Prop is one object literal property. A Spread prop renders as ...Value.
type Prop struct {
	Key    string
	Value  Expr
	Spread bool
}

// Array is an array literal.
type Array []Expr

// Arrow is a single expression arrow function.
type Arrow struct {
	Params string
	Body   Expr
}

// Concat joins operands with +.
type Concat []Expr

// Node is a JSX child.
type Node interface {
	node()
}

// Element is a JSX element. An empty Tag renders a fragment.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

// Attr is a JSX attribute. A nil Value renders a bare boolean attribute.
type Attr struct {
	Name   string
	Value  Expr
	Spread bool
}

// Text is a JSX text child.
type Text string

// Expression is a {expr} JSX child.
type Expression struct {
	Expr Expr
}

// Cond renders {Test && (Then)}.
type Cond struct {
	Test Expr
	Then Node
}

// Ternary renders {Test ? (Then) : (Else)}.
type Ternary struct {
	Test Expr
	Then Node
	Else Node
}

// Map renders {Source.map((Param) => (Body))}.
type Map struct {
	Source Expr
	Param  string
	Body   Node
}

func (*Element) node()   {}
func (Text) node()       {}
func (Expression) node() {}
func (*Cond) node()      {}
func (*Ternary) node()   {}
func (*Map) node()       {}

// El builds an element.
func El(tag string, attrs []Attr, children ...Node) *Element {
	return &Element{Tag: tag, Attrs: attrs, Children: children}
}

// Attrs is a convenience for building attribute lists.
func Attrs(attrs ...Attr) []Attr { return attrs }

// A builds a string attribute.
func A(name, value string) Attr {
	return Attr{Name: name, Value: Literal{Value: value}}
}

// AX builds an expression attribute.
func AX(name string, value Expr) Attr {
	return Attr{Name: name, Value: value}
}

// Str is shorthand for a string literal.
func Str(value string) Expr {
	return Literal{Value: value}
}

// X wraps a trusted expression as a JSX child.
func X(code string) Node {
	return Expression{Expr: Code(code)}
}
