package structure

import "slices"

// Clone returns a deep copy of f.
func (f *FileInfo) Clone() *FileInfo {
	if f == nil {
		return nil
	}

	out := &FileInfo{
		Path: f.Path,
		Code: f.Code,
	}

	for _, imp := range f.Imports {
		imp.List = slices.Clone(imp.List)
		out.Imports = append(out.Imports, imp)
	}
	for _, exp := range f.Exports {
		exp.List = slices.Clone(exp.List)
		out.Exports = append(out.Exports, exp)
	}
	for _, t := range f.Types {
		t.Props = slices.Clone(t.Props)
		if t.Body != nil {
			body := *t.Body
			t.Body = &body
		}
		out.Types = append(out.Types, t)
	}
	for _, i := range f.Interfaces {
		i.Props = slices.Clone(i.Props)
		i.Methods = cloneMethods(i.Methods)
		out.Interfaces = append(out.Interfaces, i)
	}
	for _, c := range f.Classes {
		c.Props = slices.Clone(c.Props)
		c.Methods = cloneMethods(c.Methods)
		if c.Ctor != nil {
			ctor := c.Ctor.clone()
			c.Ctor = &ctor
		}
		out.Classes = append(out.Classes, c)
	}
	for _, fn := range f.Functions {
		fn.Params = slices.Clone(fn.Params)
		if fn.Body != nil {
			body := *fn.Body
			fn.Body = &body
		}
		out.Functions = append(out.Functions, fn)
	}

	return out
}

func (m MethodInfo) clone() MethodInfo {
	m.Params = slices.Clone(m.Params)
	if m.Body != nil {
		body := *m.Body
		m.Body = &body
	}
	return m
}

func cloneMethods(methods []MethodInfo) []MethodInfo {
	if methods == nil {
		return nil
	}
	out := make([]MethodInfo, len(methods))
	for i, m := range methods {
		out[i] = m.clone()
	}
	return out
}
