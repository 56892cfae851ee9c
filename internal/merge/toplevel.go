package merge

import (
	"github.com/simonhull/firebird-suite/splice/internal/desired"
	"github.com/simonhull/firebird-suite/splice/internal/synth"
)

// placement is where a top-level construct goes.
type placement struct {
	after  int // insert after this line
	before bool
	append bool
	via    string
}

func (m *Modifier) lastImport() (placement, bool) {
	if n := len(m.file.Imports); n > 0 {
		return placement{after: m.file.Imports[n-1].EndLine, via: "last import"}, true
	}
	return placement{}, false
}

func (m *Modifier) firstFunction() (placement, bool) {
	if len(m.file.Functions) > 0 {
		return placement{after: m.file.Functions[0].StartLine - 1, before: true, via: "first function"}, true
	}
	return placement{}, false
}

func (m *Modifier) firstClass() (placement, bool) {
	if len(m.file.Classes) > 0 {
		return placement{after: m.file.Classes[0].StartLine - 1, before: true, via: "first class"}, true
	}
	return placement{}, false
}

// choose returns the first available placement, or append.
func choose(candidates ...func() (placement, bool)) placement {
	for _, c := range candidates {
		if p, ok := c(); ok {
			return p
		}
	}
	return placement{append: true, via: "end of file"}
}

// place inserts a block construct at p, separated from its neighbours by a
// blank line.
func (m *Modifier) place(p placement, code string) error {
	switch {
	case p.append:
		return m.reload(appendBlock(m.file.Code, code))
	case p.before:
		return m.reload(insertLines(m.file.Code, p.after, code+"\n"))
	default:
		return m.reload(insertLines(m.file.Code, p.after, "\n"+code))
	}
}

// placeLine inserts a single-line construct after the last import, or at the
// top of the file.
func (m *Modifier) placeLine(code string) (string, int, error) {
	if p, ok := m.lastImport(); ok {
		return p.via, p.after, m.reload(insertLines(m.file.Code, p.after, code))
	}
	return "prepend", prepend, m.reload(insertLines(m.file.Code, prepend, code))
}

// AddExport adds a re-export unless one for the same module exists. Exports
// are anchored after the last import.
func (m *Modifier) AddExport(e desired.ExportModel) error {
	if m.file.HasExport(e.Path) {
		return nil
	}
	code, err := m.synth.Export(e)
	if err != nil {
		return err
	}
	via, line, err := m.placeLine(code)
	m.logInsert(synth.KindExport, e.Path, via, line)
	return err
}

// AddImport adds an import unless the module is already imported.
func (m *Modifier) AddImport(i desired.ImportModel) error {
	if m.file.HasImport(i.Path) {
		return nil
	}
	code, err := m.synth.Import(i)
	if err != nil {
		return err
	}
	via, line, err := m.placeLine(code)
	m.logInsert(synth.KindImport, i.Path, via, line)
	return err
}

// MergeType adds a type alias, or the missing properties of an existing one.
func (m *Modifier) MergeType(t desired.TypeModel) error {
	if m.file.Type(t.Name) != nil {
		for _, p := range t.Props {
			if err := m.AddTypeProperty(t.Name, p); err != nil {
				return err
			}
		}
		return nil
	}

	code, err := m.synth.Type(t)
	if err != nil {
		return err
	}
	p := choose(
		func() (placement, bool) {
			if n := len(m.file.Types); n > 0 {
				return placement{after: m.file.Types[n-1].EndLine, via: "last type"}, true
			}
			return placement{}, false
		},
		m.lastImport,
		m.firstFunction,
		m.firstClass,
	)
	m.logInsert(synth.KindType, t.Name, p.via, p.after)
	return m.place(p, code)
}

// MergeInterface adds an interface, or the missing methods and then the
// missing properties of an existing one.
func (m *Modifier) MergeInterface(i desired.InterfaceModel) error {
	if m.file.Interface(i.Name) != nil {
		for _, method := range i.Methods {
			if err := m.AddInterfaceMethod(i.Name, method); err != nil {
				return err
			}
		}
		for _, p := range i.Props {
			if err := m.AddInterfaceProperty(i.Name, p); err != nil {
				return err
			}
		}
		return nil
	}

	code, err := m.synth.Interface(i)
	if err != nil {
		return err
	}
	p := choose(
		func() (placement, bool) {
			if n := len(m.file.Interfaces); n > 0 {
				return placement{after: m.file.Interfaces[n-1].EndLine, via: "last interface"}, true
			}
			return placement{}, false
		},
		m.lastImport,
		m.firstClass,
	)
	m.logInsert(synth.KindInterface, i.Name, p.via, p.after)
	return m.place(p, code)
}

// AddFunction adds a function unless one with the same name exists.
func (m *Modifier) AddFunction(f desired.FunctionModel) error {
	if m.file.Function(f.Name) != nil {
		return nil
	}

	code, err := m.synth.Function(f)
	if err != nil {
		return err
	}
	p := choose(
		func() (placement, bool) {
			if n := len(m.file.Functions); n > 0 {
				return placement{after: m.file.Functions[n-1].EndLine, via: "last function"}, true
			}
			return placement{}, false
		},
		m.lastImport,
		m.firstClass,
	)
	m.logInsert(synth.KindFunction, f.Name, p.via, p.after)
	return m.place(p, code)
}

// MergeClass appends a class, or updates an existing one: existing methods
// gain missing parameters and body content, then missing methods and
// properties are added, and finally the constructor is merged. Methods named
// constructor are treated as the constructor.
func (m *Modifier) MergeClass(c desired.ClassModel) error {
	c = c.FoldConstructor()
	if m.file.Class(c.Name) == nil {
		code, err := m.synth.Class(c)
		if err != nil {
			return err
		}
		m.logInsert(synth.KindClass, c.Name, "end of file", m.file.LineCount())
		return m.reload(appendBlock(m.file.Code, code))
	}

	for _, method := range c.Methods {
		if m.file.Class(c.Name).Method(method.Name) != nil {
			if err := m.UpdateClassMethod(c.Name, method); err != nil {
				return err
			}
		}
	}
	for _, method := range c.Methods {
		if m.file.Class(c.Name).Method(method.Name) == nil {
			if err := m.AddClassMethod(c.Name, method); err != nil {
				return err
			}
		}
	}
	for _, p := range c.Props {
		if err := m.AddClassProperty(c.Name, p); err != nil {
			return err
		}
	}
	if c.Ctor != nil {
		return m.MergeConstructor(c.Name, *c.Ctor)
	}
	return nil
}
