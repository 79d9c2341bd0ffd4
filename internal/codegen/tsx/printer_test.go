package tsx

import (
	"strings"
	"testing"
)

func TestPrintFile(t *testing.T) {
	file := File{
		Imports: []Import{
			{From: "react", Names: []string{"useState", "useEffect"}},
			{From: "lucide-react", Names: []string{"LucideIcon"}, TypeOnly: true},
		},
		Body: []Stmt{
			Comment{"Types"},
			Enum{Name: "Kind", Members: []string{"A", "B"}},
			Blank{},
			Interface{Name: "Item", Fields: []Field{
				{Name: "id", Type: "string"},
				{Name: "--glare-x", Type: "string", Optional: true},
			}},
			Blank{},
			Const{Name: "size", Type: "number", Value: Literal{Value: 3}},
		},
	}
	file.Header = Comment{"Generated file."}

	want := strings.Join([]string{
		`// Generated file.`,
		``,
		`import { useState, useEffect } from "react"`,
		`import type { LucideIcon } from "lucide-react"`,
		``,
		`// Types`,
		`const Kind = {`,
		`  A: "A",`,
		`  B: "B",`,
		`} as const`,
		`type Kind = (typeof Kind)[keyof typeof Kind]`,
		``,
		`interface Item {`,
		`  id: string`,
		`  "--glare-x"?: string`,
		`}`,
		``,
		`const size: number = 3`,
		``,
	}, "\n")

	if got := Print(file); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestLiteralEscapesHostileStrings(t *testing.T) {
	hostile := "a\"b`c${d}</script> "
	got := Source(Literal{Value: hostile})
	want := `"a\"b` + "`" + `c${d}</script> "`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestPrettyLiteralIndentsToDepth(t *testing.T) {
	p := &printer{depth: 1}
	Const{Name: "profile", Value: Literal{Value: map[string]any{"name": "Jane"}, Pretty: true}}.print(p)
	want := "  const profile = {\n    \"name\": \"Jane\"\n  }\n"
	if got := p.buf.String(); got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestUnionWrapsWhenLong(t *testing.T) {
	short := Print(File{Body: []Stmt{Union{Name: "Mode", Values: []string{"a", "b"}}}})
	if short != "type Mode = \"a\" | \"b\"\n" {
		t.Fatalf("unexpected short union %q", short)
	}

	values := make([]string, 20)
	for i := range values {
		values[i] = strings.Repeat("x", i+1)
	}
	long := Print(File{Body: []Stmt{Union{Name: "Mode", Values: values}}})
	if !strings.HasPrefix(long, "type Mode =\n  | \"x\"\n") {
		t.Fatalf("expected wrapped union, got %q", long)
	}
}

func TestElementRendering(t *testing.T) {
	tree := El("div", Attrs(A("className", "card"), AX("style", Object{{Key: "color", Value: Str("red")}})),
		El("h1", nil, X("profile.name")),
		Text("Made with {love}"),
		&Cond{Test: Code("ok"), Then: El("span", nil, Text("yes"))},
		&Map{Source: Code("items"), Param: "item", Body: El("li", Attrs(AX("key", Code("item.id"))))},
		El("img", Attrs(A("alt", `say "hi"`), Attr{Name: "hidden"})),
	)

	want := strings.Join([]string{
		`<div className="card" style={{ color: "red" }}>`,
		`  <h1>{profile.name}</h1>`,
		`  {"Made with {love}"}`,
		`  {ok && (`,
		`    <span>yes</span>`,
		`  )}`,
		`  {items.map((item) => (`,
		`    <li key={item.id} />`,
		`  ))}`,
		`  <img alt={"say \"hi\""} hidden />`,
		`</div>`,
		``,
	}, "\n")

	if got := PrintNode(tree); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestLongOpeningTagWrapsAttributes(t *testing.T) {
	tree := El("a", Attrs(
		A("href", "https://example.com/"+strings.Repeat("p", 40)),
		A("target", "_blank"),
		A("rel", "noopener noreferrer"),
		A("className", "w-10 h-10 bg-white rounded-full"),
	))

	got := PrintNode(tree)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[0] != "<a" || lines[len(lines)-1] != "/>" {
		t.Fatalf("expected wrapped attributes, got:\n%s", got)
	}
	if lines[2] != `  target="_blank"` {
		t.Fatalf("expected indented attribute, got %q", lines[2])
	}
}

func TestFragmentAndTernary(t *testing.T) {
	tree := El("", nil, &Ternary{Test: Code("loading"), Then: El("p", nil, Text("wait")), Else: El("p", nil, Text("done"))})
	want := "<>\n  {loading ? (\n    <p>wait</p>\n  ) : (\n    <p>done</p>\n  )}\n</>\n"
	if got := PrintNode(tree); got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestFuncAndReturn(t *testing.T) {
	fn := Func{Name: "App", Export: true, Default: true, Body: []Stmt{
		Line("useAnalytics()"),
		Return{Value: El("main", nil)},
	}}
	want := "export default function App() {\n  useAnalytics()\n  return (\n    <main />\n  )\n}\n"
	if got := Print(File{Body: []Stmt{fn}}); got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestRawKeepsRelativeIndentation(t *testing.T) {
	p := &printer{depth: 1}
	Raw("\nif (x) {\n  y()\n}\n\nz()\n").print(p)
	want := "  if (x) {\n    y()\n  }\n\n  z()\n"
	if got := p.buf.String(); got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestExpressions(t *testing.T) {
	cases := []struct {
		expr Expr
		want string
	}{
		{Arrow{Params: "h: string", Body: Concat{Str("https://x.com/"), Code("h")}}, `(h: string) => "https://x.com/" + h`},
		{Array{Str("a"), Literal{Value: 2}}, `["a", 2]`},
		{Object{{Key: "x", Value: Code("1")}, {Spread: true, Value: Code("rest")}, {Key: "data-id", Value: Str("b")}}, `{ x: 1, ...rest, "data-id": "b" }`},
		{Object{}, `{}`},
	}
	for _, tc := range cases {
		if got := Source(tc.expr); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}
