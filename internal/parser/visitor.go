package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/simonhull/firebird-suite/splice/internal/structure"
)

type visitor struct {
	src  []byte
	file *structure.FileInfo
}

func (v *visitor) program(root *sitter.Node) {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		n := root.NamedChild(i)
		v.statement(n, n, false)
	}
}

// statement records n. span is the node whose lines the construct occupies,
// which is the enclosing export statement for exported declarations.
func (v *visitor) statement(n, span *sitter.Node, exported bool) {
	switch n.Kind() {
	case "import_statement":
		v.file.Imports = append(v.file.Imports, v.importInfo(n))
	case "export_statement":
		v.export(n)
	case "class_declaration", "abstract_class_declaration":
		v.file.Classes = append(v.file.Classes, v.class(n, span, exported))
	case "interface_declaration":
		v.file.Interfaces = append(v.file.Interfaces, v.iface(n, span, exported))
	case "type_alias_declaration":
		v.file.Types = append(v.file.Types, v.typeAlias(n, span, exported))
	case "function_declaration", "generator_function_declaration":
		v.file.Functions = append(v.file.Functions, v.function(n, n, span, exported))
	case "lexical_declaration", "variable_declaration":
		v.arrowFunctions(n, span, exported)
	case "ambient_declaration":
		for i := uint(0); i < n.NamedChildCount(); i++ {
			v.statement(n.NamedChild(i), span, exported)
		}
	}
}

func (v *visitor) importInfo(n *sitter.Node) structure.ImportInfo {
	info := structure.ImportInfo{
		Path:      v.stringValue(n.ChildByFieldName("source")),
		StartLine: startLine(n),
		EndLine:   endLine(n),
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		clause := n.NamedChild(i)
		if clause.Kind() != "import_clause" {
			continue
		}
		for j := uint(0); j < clause.NamedChildCount(); j++ {
			part := clause.NamedChild(j)
			switch part.Kind() {
			case "identifier":
				info.Default = v.text(part)
			case "namespace_import":
				info.Alias = v.lastIdentifier(part)
			case "named_imports":
				info.List = v.specifiers(part, "import_specifier")
			}
		}
	}
	return info
}

func (v *visitor) export(n *sitter.Node) {
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		v.statement(decl, n, true)
		return
	}

	source := n.ChildByFieldName("source")
	if source == nil {
		return
	}

	info := structure.ExportInfo{
		Path:      v.stringValue(source),
		StartLine: startLine(n),
		EndLine:   endLine(n),
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		part := n.NamedChild(i)
		switch part.Kind() {
		case "export_clause":
			info.List = v.specifiers(part, "export_specifier")
		case "namespace_export":
			info.Alias = v.lastIdentifier(part)
		}
	}
	v.file.Exports = append(v.file.Exports, info)
}

func (v *visitor) specifiers(n *sitter.Node, kind string) []string {
	var names []string
	for i := uint(0); i < n.NamedChildCount(); i++ {
		spec := n.NamedChild(i)
		if spec.Kind() != kind {
			continue
		}
		if name := spec.ChildByFieldName("name"); name != nil {
			names = append(names, v.text(name))
		}
	}
	return names
}

func (v *visitor) lastIdentifier(n *sitter.Node) string {
	name := ""
	for i := uint(0); i < n.NamedChildCount(); i++ {
		name = v.text(n.NamedChild(i))
	}
	return strings.Trim(name, `"'`)
}

func (v *visitor) class(n, span *sitter.Node, exported bool) structure.ClassInfo {
	c := structure.ClassInfo{
		Name:      v.fieldText(n, "name"),
		Abstract:  n.Kind() == "abstract_class_declaration",
		Exported:  exported,
		StartLine: startLine(span),
		EndLine:   endLine(n),
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return c
	}
	c.Body = rangeOf(body)

	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		switch member.Kind() {
		case "method_definition":
			m := v.method(member)
			if m.Name == "constructor" {
				if c.Ctor == nil {
					c.Ctor = &m
				}
				continue
			}
			c.Methods = append(c.Methods, m)
		case "abstract_method_signature":
			m := v.method(member)
			m.Abstract = true
			c.Methods = append(c.Methods, m)
		case "method_signature":
			// Overload signatures precede their implementation.
			if m := v.method(member); m.Name != "constructor" {
				c.Methods = append(c.Methods, m)
			}
		case "public_field_definition":
			c.Props = append(c.Props, v.prop(member))
		}
	}
	return c
}

func (v *visitor) iface(n, span *sitter.Node, exported bool) structure.InterfaceInfo {
	info := structure.InterfaceInfo{
		Name:      v.fieldText(n, "name"),
		Exported:  exported,
		StartLine: startLine(span),
		EndLine:   endLine(n),
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return info
	}
	info.Body = rangeOf(body)

	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		switch member.Kind() {
		case "property_signature":
			info.Props = append(info.Props, v.prop(member))
		case "method_signature":
			info.Methods = append(info.Methods, v.method(member))
		}
	}
	return info
}

func (v *visitor) typeAlias(n, span *sitter.Node, exported bool) structure.TypeInfo {
	info := structure.TypeInfo{
		Name:      v.fieldText(n, "name"),
		Exported:  exported,
		StartLine: startLine(span),
		EndLine:   endLine(n),
	}

	value := n.ChildByFieldName("value")
	if value == nil || value.Kind() != "object_type" {
		return info
	}
	body := rangeOf(value)
	info.Body = &body

	for i := uint(0); i < value.NamedChildCount(); i++ {
		member := value.NamedChild(i)
		if member.Kind() == "property_signature" {
			info.Props = append(info.Props, v.prop(member))
		}
	}
	return info
}

// function records a function declaration. n carries the name, fn carries
// the parameters and body; they differ for const-bound arrow functions.
func (v *visitor) function(n, fn, span *sitter.Node, exported bool) structure.FunctionInfo {
	info := structure.FunctionInfo{
		Name:      v.fieldText(n, "name"),
		Exported:  exported,
		Async:     v.modifiers(fn).async,
		StartLine: startLine(span),
		EndLine:   endLine(span),
	}

	if params := fn.ChildByFieldName("parameters"); params != nil {
		info.ParamList = rangeOf(params)
		info.Params = v.params(params)
	} else if param := fn.ChildByFieldName("parameter"); param != nil {
		info.ParamList = rangeOf(param)
		info.Params = []structure.ParamInfo{{Name: v.text(param), End: point(param.EndPosition())}}
	}

	if body := fn.ChildByFieldName("body"); body != nil && body.Kind() == "statement_block" {
		r := rangeOf(body)
		info.Body = &r
	}
	return info
}

func (v *visitor) arrowFunctions(n, span *sitter.Node, exported bool) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		decl := n.NamedChild(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}
		value := decl.ChildByFieldName("value")
		if value == nil {
			continue
		}
		switch value.Kind() {
		case "arrow_function", "function_expression", "function":
			v.file.Functions = append(v.file.Functions, v.function(decl, value, span, exported))
		}
	}
}

func (v *visitor) method(n *sitter.Node) structure.MethodInfo {
	mods := v.modifiers(n)
	m := structure.MethodInfo{
		Name:          v.fieldText(n, "name"),
		Accessibility: structure.ParseAccessibility(mods.access),
		Static:        mods.static,
		Async:         mods.async,
		Abstract:      mods.abstract,
		StartLine:     startLine(n),
		EndLine:       endLine(n),
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		m.ParamList = rangeOf(params)
		m.Params = v.params(params)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		r := rangeOf(body)
		m.Body = &r
	}
	return m
}

func (v *visitor) prop(n *sitter.Node) structure.PropInfo {
	mods := v.modifiers(n)
	return structure.PropInfo{
		Name:          v.fieldText(n, "name"),
		Type:          v.typeText(n.ChildByFieldName("type")),
		Accessibility: structure.ParseAccessibility(mods.access),
		Static:        mods.static,
		Readonly:      mods.readonly,
		Optional:      mods.optional,
		StartLine:     startLine(n),
		EndLine:       endLine(n),
	}
}

func (v *visitor) params(list *sitter.Node) []structure.ParamInfo {
	var params []structure.ParamInfo
	for i := uint(0); i < list.NamedChildCount(); i++ {
		p := list.NamedChild(i)
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			params = append(params, structure.ParamInfo{
				Name:     v.fieldText(p, "pattern"),
				Type:     v.typeText(p.ChildByFieldName("type")),
				Optional: p.Kind() == "optional_parameter",
				End:      point(p.EndPosition()),
			})
		}
	}
	return params
}

type modifiers struct {
	access   string
	static   bool
	async    bool
	abstract bool
	readonly bool
	optional bool
}

// modifiers scans the direct children of a member for keyword modifiers.
func (v *visitor) modifiers(n *sitter.Node) modifiers {
	var mods modifiers
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "accessibility_modifier":
			mods.access = v.text(child)
		case "static":
			mods.static = true
		case "async":
			mods.async = true
		case "abstract":
			mods.abstract = true
		case "readonly":
			mods.readonly = true
		case "?":
			mods.optional = true
		}
	}
	return mods
}

func (v *visitor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(v.src)
}

func (v *visitor) fieldText(n *sitter.Node, field string) string {
	return v.text(n.ChildByFieldName(field))
}

func (v *visitor) stringValue(n *sitter.Node) string {
	return strings.Trim(v.text(n), "\"'`")
}

// typeText strips the leading colon of a type annotation.
func (v *visitor) typeText(n *sitter.Node) string {
	return strings.TrimSpace(strings.TrimPrefix(v.text(n), ":"))
}

func point(p sitter.Point) structure.Point {
	return structure.Point{Line: int(p.Row), Column: int(p.Column)}
}

func rangeOf(n *sitter.Node) structure.Range {
	return structure.Range{Start: point(n.StartPosition()), End: point(n.EndPosition())}
}

func startLine(n *sitter.Node) int { return int(n.StartPosition().Row) }

func endLine(n *sitter.Node) int { return int(n.EndPosition().Row) }
