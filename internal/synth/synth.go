// Package synth renders desired-content models as TypeScript source text.
//
// Every construct kind maps to exactly one rule. Rendered text is
// whitespace-normalized and indented from column zero; callers that insert
// it into nested positions indent it further with Indent.
package synth

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
	"github.com/simonhull/firebird-suite/splice/internal/structure"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Kind identifies a construct the synthesizer can render.
type Kind string

const (
	KindImport          Kind = "import"
	KindExport          Kind = "export"
	KindType            Kind = "type"
	KindInterface       Kind = "interface"
	KindClass           Kind = "class"
	KindFunction        Kind = "function"
	KindProperty        Kind = "property"
	KindMethod          Kind = "method"
	KindConstructorCall Kind = "constructor-call"
	KindTestSuite       Kind = "test-suite"
	KindTestCase        Kind = "test-case"
)

// Kinds returns every Kind.
func Kinds() []Kind {
	return []Kind{
		KindImport, KindExport, KindType, KindInterface, KindClass, KindFunction,
		KindProperty, KindMethod, KindConstructorCall, KindTestSuite, KindTestCase,
	}
}

// Context is the container a member is rendered into.
type Context string

const (
	ContextClass         Context = "class"
	ContextAbstractClass Context = "abstract_class"
	ContextType          Context = "type"
	ContextInterface     Context = "interface"
)

// Property is the model for KindProperty.
type Property struct {
	Context Context
	Prop    desired.PropModel
}

// Method is the model for KindMethod.
type Method struct {
	Context Context
	Method  desired.MethodModel
}

// DI styles understood by the component templates.
const (
	DIInversify = "inversify"
	DISingleton = "singleton"
	DINone      = "none"
)

// Synthesizer renders models to text.
type Synthesizer struct {
	renderer  *Renderer
	di        string
	formatter Formatter
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithDependencyInjection sets the DI style used by component templates.
func WithDependencyInjection(style string) Option {
	return func(s *Synthesizer) {
		s.di = style
	}
}

// WithFormatter sets the formatter applied to whole files.
func WithFormatter(f Formatter) Option {
	return func(s *Synthesizer) {
		s.formatter = f
	}
}

// New creates a Synthesizer. The default DI style is none and the default
// formatter is PlainFormatter.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		di:        DINone,
		formatter: PlainFormatter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.renderer = NewRenderer(s.funcs())
	return s
}

// DependencyInjection returns the configured DI style.
func (s *Synthesizer) DependencyInjection() string {
	return s.di
}

// Synthesize renders model as kind. The model type must match the kind:
// desired.ImportModel for KindImport, Property for KindProperty, and so on.
func (s *Synthesizer) Synthesize(kind Kind, model any) (string, error) {
	r, ok := rules[kind]
	if !ok {
		return "", fmt.Errorf("no synthesis rule for kind %q", kind)
	}
	out, err := r(s, model)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize %s: %w", kind, err)
	}
	return Normalize(out), nil
}

func (s *Synthesizer) Import(m desired.ImportModel) (string, error) {
	return s.Synthesize(KindImport, m)
}

func (s *Synthesizer) Export(m desired.ExportModel) (string, error) {
	return s.Synthesize(KindExport, m)
}

func (s *Synthesizer) Type(m desired.TypeModel) (string, error) {
	return s.Synthesize(KindType, m)
}

func (s *Synthesizer) Interface(m desired.InterfaceModel) (string, error) {
	return s.Synthesize(KindInterface, m)
}

func (s *Synthesizer) Class(m desired.ClassModel) (string, error) {
	return s.Synthesize(KindClass, m)
}

func (s *Synthesizer) Function(m desired.FunctionModel) (string, error) {
	return s.Synthesize(KindFunction, m)
}

func (s *Synthesizer) Property(ctx Context, m desired.PropModel) (string, error) {
	return s.Synthesize(KindProperty, Property{Context: ctx, Prop: m})
}

func (s *Synthesizer) Method(ctx Context, m desired.MethodModel) (string, error) {
	return s.Synthesize(KindMethod, Method{Context: ctx, Method: m})
}

func (s *Synthesizer) SuperCall(m desired.SuperModel) (string, error) {
	return s.Synthesize(KindConstructorCall, m)
}

func (s *Synthesizer) TestSuite(m desired.TestSuiteModel) (string, error) {
	return s.Synthesize(KindTestSuite, m)
}

func (s *Synthesizer) TestCase(m desired.TestCaseModel) (string, error) {
	return s.Synthesize(KindTestCase, m)
}

// Constructor renders a constructor declaration for insertion into an
// existing class.
func (s *Synthesizer) Constructor(m desired.ConstructorModel) (string, error) {
	out, err := s.template("constructor", &m)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize constructor: %w", err)
	}
	return Normalize(out), nil
}

// Body renders the statements of a body, normalized. A nil body renders
// nothing.
func (s *Synthesizer) Body(b *desired.BodyModel) (string, error) {
	out, err := s.body(b)
	if err != nil {
		return "", err
	}
	return Normalize(out), nil
}

func (s *Synthesizer) template(name string, data any) (string, error) {
	return s.renderer.RenderFS(templates, "templates/"+name+".tmpl", data)
}

// funcs are the helpers the construct templates call back into.
func (s *Synthesizer) funcs() template.FuncMap {
	return template.FuncMap{
		"modulePath":   structure.NormalizePath,
		"importClause": importClause,
		"params":       params,
		"body":         s.body,
		"superCall":    s.superCall,
		"testCase":     s.testCase,
		"constructor": func(m *desired.ConstructorModel) (string, error) {
			return s.template("constructor", m)
		},
		"property": func(ctx string, m desired.PropModel) (string, error) {
			return s.property(Property{Context: Context(ctx), Prop: m})
		},
		"method": func(ctx string, m desired.MethodModel) (string, error) {
			return s.method(Method{Context: Context(ctx), Method: m})
		},
	}
}

func importClause(m desired.ImportModel) string {
	if m.Alias != "" {
		return "* as " + m.Alias
	}
	var parts []string
	if m.Default != "" {
		parts = append(parts, m.Default)
	}
	if len(m.List) > 0 {
		parts = append(parts, "{ "+strings.Join(m.List, ", ")+" }")
	}
	return strings.Join(parts, ", ")
}

// Param renders a single formal parameter.
func Param(p desired.ParamModel) string {
	var b strings.Builder
	if p.Access != "" {
		b.WriteString(p.Access + " ")
	}
	b.WriteString(p.Name)
	if p.Optional {
		b.WriteString("?")
	}
	if p.Type != "" {
		b.WriteString(": " + p.Type)
	}
	if p.Value != "" {
		b.WriteString(" = " + p.Value)
	}
	return b.String()
}

func params(ps []desired.ParamModel) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = Param(p)
	}
	return strings.Join(out, ", ")
}
