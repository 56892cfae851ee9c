package merge

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
	"github.com/simonhull/firebird-suite/splice/internal/structure"
	"github.com/simonhull/firebird-suite/splice/internal/synth"
)

// UpdateClassMethod extends an existing method. Parameters missing by name
// are appended to the parameter list, and the desired body is injected
// before the closing brace unless the body already contains it. Existing
// statements are never touched.
func (m *Modifier) UpdateClassMethod(className string, dm desired.MethodModel) error {
	method := m.classMethod(className, dm.Name)
	if method == nil {
		return fmt.Errorf("method %s.%s not found", className, dm.Name)
	}

	var missing []string
	for _, p := range dm.Params {
		if !hasParam(method.Params, p.Name) {
			missing = append(missing, synth.Param(p))
		}
	}
	if len(missing) > 0 {
		m.log.Debug("adding parameters",
			logger.F("method", className+"."+dm.Name), logger.F("params", strings.Join(missing, ", ")))
		if err := m.reload(spliceParams(m.file.Code, method, missing)); err != nil {
			return err
		}
		method = m.classMethod(className, dm.Name)
		if method == nil {
			return fmt.Errorf("method %s.%s lost after adding parameters", className, dm.Name)
		}
	}

	if dm.Body.Empty() || method.Body == nil {
		return nil
	}
	body, err := m.synth.Body(dm.Body)
	if err != nil {
		return err
	}
	if body == "" || strings.Contains(squash(textOf(m.file.Code, *method.Body)), squash(body)) {
		return nil
	}

	m.log.Debug("injecting body", logger.F("method", className+"."+dm.Name))
	return m.reload(injectBody(m.file.Code, *method.Body, body))
}

func (m *Modifier) classMethod(className, name string) *structure.MethodInfo {
	c := m.file.Class(className)
	if c == nil {
		return nil
	}
	if name == desired.ConstructorName {
		return c.Ctor
	}
	return c.Method(name)
}

// MergeConstructor adds ctor to a class without one. An existing
// constructor gains the parameters and body statements it lacks.
func (m *Modifier) MergeConstructor(className string, ctor desired.ConstructorModel) error {
	c := m.file.Class(className)
	if c == nil {
		return fmt.Errorf("class %s not found", className)
	}
	if c.Ctor == nil {
		return m.AddConstructor(className, ctor)
	}
	return m.UpdateClassMethod(className, desired.MethodModel{
		Name:   desired.ConstructorName,
		Params: ctor.Params,
		Body:   ctor.Body,
	})
}

func hasParam(params []structure.ParamInfo, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// spliceParams appends params to the parameter list of method. Lists that
// span lines get one parameter per line.
func spliceParams(code string, method *structure.MethodInfo, params []string) string {
	if len(method.Params) == 0 {
		at := method.ParamList.Start
		at.Column++
		return spliceAt(code, at, strings.Join(params, ", "))
	}

	last := method.Params[len(method.Params)-1]
	if last.End.Line == method.ParamList.Start.Line {
		return spliceAt(code, last.End, ", "+strings.Join(params, ", "))
	}

	indent := indentOf(line(code, last.End.Line))
	var b strings.Builder
	for _, p := range params {
		b.WriteString(",\n" + indent + p)
	}
	return spliceAt(code, last.End, b.String())
}

// injectBody places text at the end of body, one level deeper than the
// closing brace.
func injectBody(code string, body structure.Range, text string) string {
	closeIndent := indentOf(line(code, body.End.Line))
	text = synth.Indent(text, closeIndent+synth.IndentUnit)

	if body.Start.Line == body.End.Line {
		return spliceBeforeBrace(code, body, text)
	}
	return insertLines(code, body.End.Line-1, text)
}
