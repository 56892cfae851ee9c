package synth

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
)

type rule func(s *Synthesizer, model any) (string, error)

var rules = map[Kind]rule{
	KindImport:          templateRule[desired.ImportModel]("import"),
	KindExport:          templateRule[desired.ExportModel]("export"),
	KindType:            templateRule[desired.TypeModel]("type"),
	KindInterface:       templateRule[desired.InterfaceModel]("interface"),
	KindClass:           typed((*Synthesizer).class),
	KindFunction:        templateRule[desired.FunctionModel]("function"),
	KindProperty:        typed((*Synthesizer).property),
	KindMethod:          typed((*Synthesizer).method),
	KindConstructorCall: typed((*Synthesizer).superCallValue),
	KindTestSuite:       typed((*Synthesizer).testSuite),
	KindTestCase:        typed((*Synthesizer).testCase),
}

// typed adapts fn to accept either T or *T.
func typed[T any](fn func(*Synthesizer, T) (string, error)) rule {
	return func(s *Synthesizer, model any) (string, error) {
		switch m := model.(type) {
		case T:
			return fn(s, m)
		case *T:
			if m == nil {
				return "", fmt.Errorf("nil %T", m)
			}
			return fn(s, *m)
		default:
			var zero T
			return "", fmt.Errorf("expected %T, got %T", zero, model)
		}
	}
}

func templateRule[T any](name string) rule {
	return typed(func(s *Synthesizer, m T) (string, error) {
		return s.template(name, m)
	})
}

// class renders m with any method named constructor rendered as the
// constructor.
func (s *Synthesizer) class(m desired.ClassModel) (string, error) {
	return s.template("class", m.FoldConstructor())
}

var propertyContexts = map[Context]bool{
	ContextClass:     true,
	ContextType:      true,
	ContextInterface: true,
}

var methodContexts = map[Context]bool{
	ContextClass:         true,
	ContextAbstractClass: true,
	ContextInterface:     true,
}

func (s *Synthesizer) property(p Property) (string, error) {
	if !propertyContexts[p.Context] {
		return "", fmt.Errorf("properties cannot be rendered in %q context", p.Context)
	}
	return s.template("property", struct {
		Context string
		Prop    desired.PropModel
	}{string(p.Context), p.Prop})
}

func (s *Synthesizer) method(m Method) (string, error) {
	if !methodContexts[m.Context] {
		return "", fmt.Errorf("methods cannot be rendered in %q context", m.Context)
	}
	return s.template("method", struct {
		Context string
		Method  desired.MethodModel
	}{string(m.Context), m.Method})
}

func (s *Synthesizer) body(b *desired.BodyModel) (string, error) {
	switch {
	case b == nil:
		return "", nil
	case b.Template != "":
		return s.component(b.Template, b)
	case b.Content != "":
		return b.Content, nil
	case b.Instruction != "":
		return "/* " + b.Instruction + " */", nil
	}
	return "", nil
}

func (s *Synthesizer) superCall(m *desired.SuperModel) (string, error) {
	if m == nil {
		return "", nil
	}
	return s.superCallValue(*m)
}

func (s *Synthesizer) superCallValue(m desired.SuperModel) (string, error) {
	if m.Template != "" {
		return s.component(m.Template, m)
	}
	return "super(" + strings.Join(args(m.Args, false), ", ") + ");", nil
}

func (s *Synthesizer) testSuite(m desired.TestSuiteModel) (string, error) {
	if m.Template != "" {
		return s.component(m.Template, m)
	}
	return s.template("test_suite", m)
}

func (s *Synthesizer) testCase(m desired.TestCaseModel) (string, error) {
	if m.Template != "" {
		return s.component(m.Template, m)
	}
	return s.template("test_case", m)
}

// args renders super call arguments. With io set, arguments naming an IO
// class become `{ io: new <IO>() }`.
func args(list []desired.ArgModel, io bool) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		switch {
		case io && a.IO != "":
			out = append(out, "{ io: new "+a.IO+"() }")
		case a.Value != "":
			out = append(out, a.Value)
		case a.Name != "":
			out = append(out, a.Name)
		}
	}
	return out
}
