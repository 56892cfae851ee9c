// Package structure describes the top-level and member constructs found in a
// TypeScript source file, along with their line positions.
//
// All lines and columns are 0-based. Slices hold constructs in the order they
// appear in the source text.
package structure

import (
	"path"
	"strings"
)

// Point is a position in source text.
type Point struct {
	Line   int
	Column int
}

// Range spans source text. End is exclusive.
type Range struct {
	Start Point
	End   Point
}

// Accessibility is a member visibility modifier.
type Accessibility string

const (
	Public    Accessibility = "public"
	Protected Accessibility = "protected"
	Private   Accessibility = "private"
)

// ParseAccessibility maps a modifier keyword to an Accessibility.
// Anything unrecognized, including the empty string, is Public.
func ParseAccessibility(s string) Accessibility {
	switch Accessibility(strings.TrimSpace(s)) {
	case Protected:
		return Protected
	case Private:
		return Private
	default:
		return Public
	}
}

// ParamInfo is a single formal parameter.
type ParamInfo struct {
	Name     string
	Type     string
	Optional bool
	// End is the position just after the parameter text.
	End Point
}

// PropInfo is a class property, interface property or object type member.
type PropInfo struct {
	Name          string
	Type          string
	Accessibility Accessibility
	Static        bool
	Readonly      bool
	Optional      bool
	StartLine     int
	EndLine       int
}

// MethodInfo is a class method, constructor or interface method signature.
type MethodInfo struct {
	Name          string
	Accessibility Accessibility
	Static        bool
	Async         bool
	Abstract      bool
	Params        []ParamInfo
	// ParamList covers the parentheses around the parameters.
	ParamList Range
	// Body covers the braces of the method body. Nil for signatures.
	Body      *Range
	StartLine int
	EndLine   int
}

// ClassInfo is a class declaration.
type ClassInfo struct {
	Name     string
	Abstract bool
	Exported bool
	Ctor     *MethodInfo
	Props    []PropInfo
	Methods  []MethodInfo
	// Body covers the class braces.
	Body      Range
	StartLine int
	EndLine   int
}

// InterfaceInfo is an interface declaration.
type InterfaceInfo struct {
	Name      string
	Exported  bool
	Props     []PropInfo
	Methods   []MethodInfo
	Body      Range
	StartLine int
	EndLine   int
}

// TypeInfo is a type alias declaration.
type TypeInfo struct {
	Name     string
	Exported bool
	Props    []PropInfo
	// Body covers the braces when the alias value is an object type.
	Body      *Range
	StartLine int
	EndLine   int
}

// FunctionInfo is a function declaration or a const bound to an arrow function.
type FunctionInfo struct {
	Name      string
	Exported  bool
	Async     bool
	Params    []ParamInfo
	ParamList Range
	Body      *Range
	StartLine int
	EndLine   int
}

// ImportInfo is an import declaration.
type ImportInfo struct {
	// Path is the module specifier without quotes.
	Path      string
	Default   string
	List      []string
	Alias     string
	StartLine int
	EndLine   int
}

// ExportInfo is a re-export declaration such as `export * from "./x"`.
type ExportInfo struct {
	Path      string
	List      []string
	Alias     string
	StartLine int
	EndLine   int
}

// FileInfo is the structural model of one source file.
type FileInfo struct {
	Path       string
	Code       string
	Imports    []ImportInfo
	Exports    []ExportInfo
	Types      []TypeInfo
	Interfaces []InterfaceInfo
	Classes    []ClassInfo
	Functions  []FunctionInfo
}

// LineCount returns the number of lines in Code.
func (f *FileInfo) LineCount() int {
	if f.Code == "" {
		return 0
	}
	return strings.Count(f.Code, "\n") + 1
}

// Class returns the class with the given name, or nil.
func (f *FileInfo) Class(name string) *ClassInfo {
	for i := range f.Classes {
		if f.Classes[i].Name == name {
			return &f.Classes[i]
		}
	}
	return nil
}

// Interface returns the interface with the given name, or nil.
func (f *FileInfo) Interface(name string) *InterfaceInfo {
	for i := range f.Interfaces {
		if f.Interfaces[i].Name == name {
			return &f.Interfaces[i]
		}
	}
	return nil
}

// Type returns the type alias with the given name, or nil.
func (f *FileInfo) Type(name string) *TypeInfo {
	for i := range f.Types {
		if f.Types[i].Name == name {
			return &f.Types[i]
		}
	}
	return nil
}

// Function returns the function with the given name, or nil.
func (f *FileInfo) Function(name string) *FunctionInfo {
	for i := range f.Functions {
		if f.Functions[i].Name == name {
			return &f.Functions[i]
		}
	}
	return nil
}

// HasImport reports whether the file imports the module at p.
// Paths are compared after NormalizePath.
func (f *FileInfo) HasImport(p string) bool {
	want := NormalizePath(p)
	for _, imp := range f.Imports {
		if NormalizePath(imp.Path) == want {
			return true
		}
	}
	return false
}

// HasExport reports whether the file re-exports the module at p.
func (f *FileInfo) HasExport(p string) bool {
	want := NormalizePath(p)
	for _, exp := range f.Exports {
		if NormalizePath(exp.Path) == want {
			return true
		}
	}
	return false
}

// Method returns the method with the given name, or nil.
func (c *ClassInfo) Method(name string) *MethodInfo {
	return findMethod(c.Methods, name)
}

// Prop returns the property with the given name, or nil.
func (c *ClassInfo) Prop(name string) *PropInfo {
	return findProp(c.Props, name)
}

// Method returns the method signature with the given name, or nil.
func (i *InterfaceInfo) Method(name string) *MethodInfo {
	return findMethod(i.Methods, name)
}

// Prop returns the property signature with the given name, or nil.
func (i *InterfaceInfo) Prop(name string) *PropInfo {
	return findProp(i.Props, name)
}

// Prop returns the object member with the given name, or nil.
func (t *TypeInfo) Prop(name string) *PropInfo {
	return findProp(t.Props, name)
}

func findMethod(methods []MethodInfo, name string) *MethodInfo {
	for i := range methods {
		if methods[i].Name == name {
			return &methods[i]
		}
	}
	return nil
}

func findProp(props []PropInfo, name string) *PropInfo {
	for i := range props {
		if props[i].Name == name {
			return &props[i]
		}
	}
	return nil
}

var sourceExtensions = []string{".d.ts", ".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

// NormalizePath strips surrounding quotes and one trailing source file
// extension so "./user.ts" and './user' compare equal. Other suffixes such as
// ".controller" are kept.
func NormalizePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), `"'`+"`")
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(p, ext) && len(p) > len(ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}

// ModulePath returns the dot-relative module specifier used to import target
// from a file in dir, without extension. Both paths are cleaned.
func ModulePath(dir, target string) string {
	rel := strings.TrimPrefix(path.Clean(NormalizePath(target)), path.Clean(dir)+"/")
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
