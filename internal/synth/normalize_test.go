package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses spaces outside strings",
			in:   "const  a =\t'x  y';",
			want: "const a = 'x  y';",
		},
		{
			name: "drops blank runs and edges",
			in:   "\n\na();\n\n\n\nb();\n\n",
			want: "a();\n\nb();",
		},
		{
			name: "drops blanks inside block edges",
			in:   "class A {\n\n  x = 1;\n\n}",
			want: "class A {\n  x = 1;\n}",
		},
		{
			name: "reindents nested blocks",
			in:   "if (a) {\nfoo({\nb: 1,\n});\n} else {\nbar();\n}",
			want: "if (a) {\n  foo({\n    b: 1,\n  });\n} else {\n  bar();\n}",
		},
		{
			name: "ignores brackets in strings and comments",
			in:   "a('{');\n// }\n/* { */\nb();",
			want: "a('{');\n// }\n/* { */\nb();",
		},
		{
			name: "one level per line",
			in:   "describe('x', () => {\nit();\n});",
			want: "describe('x', () => {\n  it();\n});",
		},
		{
			name: "multi-line block comment",
			in:   "class A {\n/**\n* doc\n*/\nx = 1;\n}",
			want: "class A {\n  /**\n   * doc\n   */\n  x = 1;\n}",
		},
		{
			name: "keeps template literal lines",
			in:   "const s = `a\n    b\n\n  c`;\nreturn s;",
			want: "const s = `a\n    b\n\n  c`;\nreturn s;",
		},
		{
			name: "template literal inside block",
			in:   "function f() {\nconst s = `x\n   y`;\n}",
			want: "function f() {\n  const s = `x\n   y`;\n}",
		},
		{
			name: "brackets in template literal",
			in:   "foo(`\n${a} {\n`);\nbar();",
			want: "foo(`\n${a} {\n`);\nbar();",
		},
		{
			name: "empty",
			in:   "  \n\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := "class A {\nbar() {\nif (x) {\ny();\n}\n}\n}"
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
}

func TestNormalize_IdempotentTemplate(t *testing.T) {
	in := "class A {\nrender() {\nreturn `\n  <div>\n    ${x}\n  </div>\n`;\n}\n}"
	once := Normalize(in)
	assert.Equal(t, "class A {\n  render() {\n    return `\n  <div>\n    ${x}\n  </div>\n`;\n  }\n}", once)
	assert.Equal(t, once, Normalize(once))
}

func TestIndent(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		prefix string
		want   string
	}{
		{name: "skips blank lines", code: "a\n\nb", prefix: "  ", want: "  a\n\n  b"},
		{name: "no prefix", code: "a", prefix: "", want: "a"},
		{name: "template literal", code: "a = `x\n  y`;\nb;", prefix: "  ", want: "  a = `x\n  y`;\n  b;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Indent(tt.code, tt.prefix))
		})
	}
}
