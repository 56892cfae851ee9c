package merge

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
	"github.com/simonhull/firebird-suite/splice/internal/structure"
	"github.com/simonhull/firebird-suite/splice/internal/synth"
)

// memberAnchor is where a member goes inside its container.
type memberAnchor struct {
	line int
	// indentFrom is a member line whose indentation the new member copies,
	// or -1 to indent one level past the container.
	indentFrom int
	blank      bool
	via        string
}

func atStart(body structure.Range) memberAnchor {
	return memberAnchor{line: body.Start.Line, indentFrom: -1, via: "start of container"}
}

func after(via string, start, end int, blank bool) memberAnchor {
	return memberAnchor{line: end, indentFrom: start, blank: blank, via: via}
}

func before(via string, start int) memberAnchor {
	return memberAnchor{line: start - 1, indentFrom: start, via: via}
}

// insertMember indents code and inserts it inside body at a. Anchors before
// the opening brace are clamped to it. When the container closes on the
// anchor line the code is spliced in just before the closing brace.
func (m *Modifier) insertMember(body structure.Range, a memberAnchor, code string) error {
	src := m.file.Code

	indent := indentOf(line(src, body.Start.Line)) + synth.IndentUnit
	if a.indentFrom >= 0 && a.indentFrom > body.Start.Line {
		indent = indentOf(line(src, a.indentFrom))
	}
	text := synth.Indent(code, indent)

	at := a.line
	if at < body.Start.Line {
		at = body.Start.Line
	}

	if at >= body.End.Line {
		return m.reload(spliceBeforeBrace(src, body, text))
	}
	if a.blank {
		text = "\n" + text
	}
	return m.reload(insertLines(src, at, text))
}

// spliceBeforeBrace puts text on its own lines in front of the closing brace
// of body.
func spliceBeforeBrace(src string, body structure.Range, text string) string {
	brace := structure.Point{Line: body.End.Line, Column: body.End.Column - 1}
	off := offset(src, brace)
	closeIndent := indentOf(line(src, body.End.Line))
	return strings.TrimRight(src[:off], " \t") + "\n" + text + "\n" + closeIndent + src[off:]
}

// AddTypeProperty adds a property to an object type alias unless present.
func (m *Modifier) AddTypeProperty(typeName string, p desired.PropModel) error {
	t := m.file.Type(typeName)
	if t == nil {
		return fmt.Errorf("type %s not found", typeName)
	}
	if t.Prop(p.Name) != nil {
		return nil
	}
	if t.Body == nil {
		m.log.Warn("type alias is not an object type, skipping property",
			logger.F("type", typeName), logger.F("property", p.Name))
		return nil
	}

	code, err := m.synth.Property(synth.ContextType, p)
	if err != nil {
		return err
	}

	a := atStart(*t.Body)
	if n := len(t.Props); n > 0 {
		last := t.Props[n-1]
		a = after("last property", last.StartLine, last.EndLine, false)
	}
	m.logInsert(synth.KindProperty, typeName+"."+p.Name, a.via, a.line)
	return m.insertMember(*t.Body, a, code)
}

// AddInterfaceMethod adds a method signature unless present.
func (m *Modifier) AddInterfaceMethod(ifaceName string, method desired.MethodModel) error {
	i := m.file.Interface(ifaceName)
	if i == nil {
		return fmt.Errorf("interface %s not found", ifaceName)
	}
	if i.Method(method.Name) != nil {
		return nil
	}

	code, err := m.synth.Method(synth.ContextInterface, method)
	if err != nil {
		return err
	}

	a := atStart(i.Body)
	switch {
	case len(i.Methods) > 0:
		last := i.Methods[len(i.Methods)-1]
		a = after("last method", last.StartLine, last.EndLine, false)
	case len(i.Props) > 0:
		last := i.Props[len(i.Props)-1]
		a = after("last property", last.StartLine, last.EndLine, false)
	}
	m.logInsert(synth.KindMethod, ifaceName+"."+method.Name, a.via, a.line)
	return m.insertMember(i.Body, a, code)
}

// AddInterfaceProperty adds a property signature unless present.
func (m *Modifier) AddInterfaceProperty(ifaceName string, p desired.PropModel) error {
	i := m.file.Interface(ifaceName)
	if i == nil {
		return fmt.Errorf("interface %s not found", ifaceName)
	}
	if i.Prop(p.Name) != nil {
		return nil
	}

	code, err := m.synth.Property(synth.ContextInterface, p)
	if err != nil {
		return err
	}

	a := atStart(i.Body)
	switch {
	case len(i.Props) > 0:
		last := i.Props[len(i.Props)-1]
		a = after("last property", last.StartLine, last.EndLine, false)
	case len(i.Methods) > 0:
		a = before("first method", i.Methods[0].StartLine)
	}
	m.logInsert(synth.KindProperty, ifaceName+"."+p.Name, a.via, a.line)
	return m.insertMember(i.Body, a, code)
}

func methodContext(c *structure.ClassInfo) synth.Context {
	if c.Abstract {
		return synth.ContextAbstractClass
	}
	return synth.ContextClass
}

// AddClassMethod adds a method unless present. It goes after the last method
// with the same accessibility, else after the constructor, else after the
// last property, else at the top of the class.
func (m *Modifier) AddClassMethod(className string, method desired.MethodModel) error {
	c := m.file.Class(className)
	if c == nil {
		return fmt.Errorf("class %s not found", className)
	}
	if c.Method(method.Name) != nil {
		return nil
	}

	code, err := m.synth.Method(methodContext(c), method)
	if err != nil {
		return err
	}

	access := structure.ParseAccessibility(method.Access)
	a := atStart(c.Body)
	if last := lastMethodWith(c.Methods, access); last != nil {
		a = after("last "+string(access)+" method", last.StartLine, last.EndLine, true)
	} else if c.Ctor != nil {
		a = after("constructor", c.Ctor.StartLine, c.Ctor.EndLine, true)
	} else if n := len(c.Props); n > 0 {
		a = after("last property", c.Props[n-1].StartLine, c.Props[n-1].EndLine, true)
	}
	m.logInsert(synth.KindMethod, className+"."+method.Name, a.via, a.line)
	return m.insertMember(c.Body, a, code)
}

// AddClassProperty adds a property unless present. It goes after the last
// property with the same accessibility, else before the constructor, else at
// the top of the class.
func (m *Modifier) AddClassProperty(className string, p desired.PropModel) error {
	c := m.file.Class(className)
	if c == nil {
		return fmt.Errorf("class %s not found", className)
	}
	if c.Prop(p.Name) != nil {
		return nil
	}

	code, err := m.synth.Property(synth.ContextClass, p)
	if err != nil {
		return err
	}

	access := structure.ParseAccessibility(p.Access)
	a := atStart(c.Body)
	if last := lastPropWith(c.Props, access); last != nil {
		a = after("last "+string(access)+" property", last.StartLine, last.EndLine, false)
	} else if c.Ctor != nil {
		a = before("constructor", c.Ctor.StartLine)
	}
	m.logInsert(synth.KindProperty, className+"."+p.Name, a.via, a.line)
	return m.insertMember(c.Body, a, code)
}

// AddConstructor adds a constructor to a class that has none, after the last
// property or at the top of the class.
func (m *Modifier) AddConstructor(className string, ctor desired.ConstructorModel) error {
	c := m.file.Class(className)
	if c == nil {
		return fmt.Errorf("class %s not found", className)
	}
	if c.Ctor != nil {
		return nil
	}

	code, err := m.synth.Constructor(ctor)
	if err != nil {
		return err
	}

	a := atStart(c.Body)
	if n := len(c.Props); n > 0 {
		a = after("last property", c.Props[n-1].StartLine, c.Props[n-1].EndLine, true)
	}
	m.log.Debug("inserting constructor", logger.F("class", className), logger.F("anchor", a.via))
	return m.insertMember(c.Body, a, code)
}

func lastMethodWith(methods []structure.MethodInfo, access structure.Accessibility) *structure.MethodInfo {
	for i := len(methods) - 1; i >= 0; i-- {
		if methods[i].Accessibility == access {
			return &methods[i]
		}
	}
	return nil
}

func lastPropWith(props []structure.PropInfo, access structure.Accessibility) *structure.PropInfo {
	for i := len(props) - 1; i >= 0; i-- {
		if props[i].Accessibility == access {
			return &props[i]
		}
	}
	return nil
}
