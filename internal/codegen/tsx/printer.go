package tsx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const (
	indentUnit = "  "
	// maxInline is the widest opening tag kept on one line.
	maxInline = 100
)

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Print renders the file. Output always ends with a single newline.
func Print(file File) string {
	p := &printer{}
	if len(file.Header) > 0 {
		file.Header.print(p)
		p.blank()
	}
	p.imports(file.Imports)
	if len(file.Imports) > 0 && len(file.Body) > 0 {
		p.blank()
	}
	for _, stmt := range file.Body {
		stmt.print(p)
	}
	return strings.TrimRight(p.buf.String(), "\n") + "\n"
}

// PrintNode renders a single JSX tree at depth zero.
func PrintNode(n Node) string {
	p := &printer{}
	p.node(n)
	return p.buf.String()
}

// Source renders a single expression.
func Source(e Expr) string {
	return e.source(0)
}

type printer struct {
	buf   strings.Builder
	depth int
}

func (p *printer) pad() string {
	return strings.Repeat(indentUnit, p.depth)
}

func (p *printer) line(text string) {
	p.buf.WriteString(p.pad())
	p.buf.WriteString(text)
	p.buf.WriteByte('\n')
}

func (p *printer) blank() {
	p.buf.WriteByte('\n')
}

func (p *printer) imports(imports []Import) {
	for _, imp := range imports {
		var clause []string
		if imp.Default != "" {
			clause = append(clause, imp.Default)
		}
		if len(imp.Names) > 0 {
			clause = append(clause, "{ "+strings.Join(imp.Names, ", ")+" }")
		}
		keyword := "import "
		if imp.TypeOnly {
			keyword = "import type "
		}
		p.line(keyword + strings.Join(clause, ", ") + " from " + quote(imp.From))
	}
}

func (c Comment) print(p *printer) {
	for _, text := range c {
		p.line("// " + text)
	}
}

func (Blank) print(p *printer) { p.blank() }

func (l Line) print(p *printer) { p.line(string(l)) }

func (r Raw) print(p *printer) {
	text := strings.Trim(string(r), "\n")
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			p.blank()
			continue
		}
		p.line(line)
	}
}

func (c Const) print(p *printer) {
	decl := "const " + c.Name
	if c.Export {
		decl = "export " + decl
	}
	if c.Type != "" {
		decl += ": " + c.Type
	}
	p.line(decl + " = " + c.Value.source(p.depth))
}

func (e Enum) print(p *printer) {
	p.line("const " + e.Name + " = {")
	p.depth++
	for _, member := range e.Members {
		p.line(propertyKey(member) + ": " + quote(member) + ",")
	}
	p.depth--
	p.line("} as const")
	p.line("type " + e.Name + " = (typeof " + e.Name + ")[keyof typeof " + e.Name + "]")
}

func (u Union) print(p *printer) {
	values := make([]string, len(u.Values))
	for i, value := range u.Values {
		values[i] = quote(value)
	}
	single := "type " + u.Name + " = " + strings.Join(values, " | ")
	if len(single)+len(p.pad()) <= maxInline {
		p.line(single)
		return
	}
	p.line("type " + u.Name + " =")
	p.depth++
	for _, value := range values {
		p.line("| " + value)
	}
	p.depth--
}

func (i Interface) print(p *printer) {
	p.line("interface " + i.Name + " {")
	p.depth++
	for _, field := range i.Fields {
		name := propertyKey(field.Name)
		if field.Optional {
			name += "?"
		}
		p.line(name + ": " + field.Type)
	}
	p.depth--
	p.line("}")
}

func (f Func) print(p *printer) {
	head := "function " + f.Name + "(" + f.Params + ")"
	if f.Returns != "" {
		head += ": " + f.Returns
	}
	switch {
	case f.Export && f.Default:
		head = "export default " + head
	case f.Export:
		head = "export " + head
	}
	p.line(head + " {")
	p.depth++
	for _, stmt := range f.Body {
		stmt.print(p)
	}
	p.depth--
	p.line("}")
}

func (r Return) print(p *printer) {
	if r.Value == nil {
		p.line("return null")
		return
	}
	p.line("return (")
	p.depth++
	p.node(r.Value)
	p.depth--
	p.line(")")
}

func (l Literal) source(depth int) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if l.Pretty {
		enc.SetIndent(strings.Repeat(indentUnit, depth), indentUnit)
	}
	if err := enc.Encode(l.Value); err != nil {
		// Only channels, funcs and cyclic values fail; none reach the printer.
		return "undefined"
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (c Code) source(int) string { return string(c) }

func (o Object) source(depth int) string {
	if len(o) == 0 {
		return "{}"
	}
	parts := make([]string, len(o))
	for i, prop := range o {
		if prop.Spread {
			parts[i] = "..." + prop.Value.source(depth)
			continue
		}
		parts[i] = propertyKey(prop.Key) + ": " + prop.Value.source(depth)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (o ObjectBlock) source(depth int) string {
	if len(o) == 0 {
		return "{}"
	}
	inner := strings.Repeat(indentUnit, depth+1)
	var b strings.Builder
	b.WriteString("{\n")
	for _, prop := range o {
		b.WriteString(inner)
		if prop.Spread {
			b.WriteString("..." + prop.Value.source(depth+1))
		} else {
			b.WriteString(propertyKey(prop.Key) + ": " + prop.Value.source(depth+1))
		}
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat(indentUnit, depth) + "}")
	return b.String()
}

func (a Array) source(depth int) string {
	parts := make([]string, len(a))
	for i, item := range a {
		parts[i] = item.source(depth)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a Arrow) source(depth int) string {
	return "(" + a.Params + ") => " + a.Body.source(depth)
}

func (c Concat) source(depth int) string {
	parts := make([]string, len(c))
	for i, part := range c {
		parts[i] = part.source(depth)
	}
	return strings.Join(parts, " + ")
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *Element:
		p.element(n)
	case Text:
		p.line(textSource(string(n)))
	case Expression:
		p.line("{" + n.Expr.source(p.depth) + "}")
	case *Cond:
		p.line("{" + n.Test.source(p.depth) + " && (")
		p.nested(n.Then)
		p.line(")}")
	case *Ternary:
		p.line("{" + n.Test.source(p.depth) + " ? (")
		p.nested(n.Then)
		p.line(") : (")
		p.nested(n.Else)
		p.line(")}")
	case *Map:
		p.line("{" + n.Source.source(p.depth) + ".map((" + n.Param + ") => (")
		p.nested(n.Body)
		p.line("))}")
	default:
		panic(fmt.Sprintf("tsx: unsupported node %T", n))
	}
}

func (p *printer) nested(n Node) {
	p.depth++
	p.node(n)
	p.depth--
}

func (p *printer) element(e *Element) {
	attrs := make([]string, len(e.Attrs))
	for i, attr := range e.Attrs {
		attrs[i] = attrSource(attr, p.depth+1)
	}
	inline := "<" + e.Tag
	if len(attrs) > 0 {
		inline += " " + strings.Join(attrs, " ")
	}
	open := func(suffix string) {
		if len(p.pad())+len(inline)+len(suffix) <= maxInline || len(attrs) == 0 {
			p.line(inline + suffix)
			return
		}
		p.line("<" + e.Tag)
		p.depth++
		for _, attr := range attrs {
			p.line(attr)
		}
		p.depth--
		p.line(strings.TrimSpace(suffix))
	}

	if len(e.Children) == 0 {
		open(" />")
		return
	}
	closing := "</" + e.Tag + ">"
	if len(e.Children) == 1 {
		if child, ok := inlineChild(e.Children[0]); ok {
			whole := inline + ">" + child + closing
			if len(p.pad())+len(whole) <= maxInline {
				p.line(whole)
				return
			}
		}
	}
	open(">")
	p.depth++
	for _, child := range e.Children {
		p.node(child)
	}
	p.depth--
	p.line(closing)
}

func inlineChild(n Node) (string, bool) {
	switch n := n.(type) {
	case Text:
		return textSource(string(n)), true
	case Expression:
		source := n.Expr.source(0)
		if strings.Contains(source, "\n") {
			return "", false
		}
		return "{" + source + "}", true
	}
	return "", false
}

func attrSource(attr Attr, depth int) string {
	if attr.Spread {
		return "{..." + attr.Value.source(depth) + "}"
	}
	if attr.Value == nil {
		return attr.Name
	}
	if lit, ok := attr.Value.(Literal); ok {
		if s, ok := lit.Value.(string); ok && plainAttr(s) {
			return attr.Name + `="` + s + `"`
		}
	}
	return attr.Name + "={" + attr.Value.source(depth) + "}"
}

// plainAttr reports whether s can sit between double quotes in a JSX
// attribute without being reinterpreted. JSX decodes entities there.
func plainAttr(s string) bool {
	return !strings.ContainsAny(s, "\"&\\\n\r")
}

// textSource keeps JSX text literal. Anything the JSX parser would treat as
// markup, an expression or collapsible whitespace goes through a string
// expression instead.
func textSource(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "{}<>&\"'\n\r\t\\") || strings.TrimSpace(s) != s {
		return "{" + quote(s) + "}"
	}
	return s
}

func propertyKey(name string) string {
	if identPattern.MatchString(name) {
		return name
	}
	return quote(name)
}

func quote(s string) string {
	return Literal{Value: s}.source(0)
}
