// Package desired holds the declarative description of what a generated
// source file must contain.
package desired

// WriteMethod controls whether an output reaches the disk.
type WriteMethod string

const (
	Write WriteMethod = "write"
	Skip  WriteMethod = "skip"
)

// FileTemplateModel is the desired content of one file.
type FileTemplateModel struct {
	Path        string      `yaml:"path" validate:"required"`
	WriteMethod WriteMethod `yaml:"write_method,omitempty" validate:"omitempty,oneof=write skip"`
	Content     FileContent `yaml:"content"`
}

// Skipped reports whether the model must never be written.
func (m FileTemplateModel) Skipped() bool {
	return m.WriteMethod == Skip
}

// FileContent lists desired constructs by category.
type FileContent struct {
	Imports    []ImportModel    `yaml:"imports,omitempty" validate:"dive"`
	Exports    []ExportModel    `yaml:"exports,omitempty" validate:"dive"`
	Types      []TypeModel      `yaml:"types,omitempty" validate:"dive"`
	Interfaces []InterfaceModel `yaml:"interfaces,omitempty" validate:"dive"`
	Functions  []FunctionModel  `yaml:"functions,omitempty" validate:"dive"`
	Classes    []ClassModel     `yaml:"classes,omitempty" validate:"dive"`
	TestSuites []TestSuiteModel `yaml:"test_suites,omitempty" validate:"dive"`
}

// ImportModel renders `import <default>, { <list> } from "<path>"` or
// `import * as <alias> from "<path>"`.
type ImportModel struct {
	Path    string   `yaml:"path" validate:"required"`
	Default string   `yaml:"dflt,omitempty"`
	List    []string `yaml:"list,omitempty"`
	Alias   string   `yaml:"alias,omitempty"`
}

// ExportModel renders a re-export of the module at Path. On a construct it
// marks the construct as exported and Path may be empty.
type ExportModel struct {
	Path  string   `yaml:"path,omitempty"`
	List  []string `yaml:"list,omitempty"`
	Alias string   `yaml:"alias,omitempty"`
}

// ParamModel is a formal parameter.
type ParamModel struct {
	Name     string `yaml:"name" validate:"required"`
	Type     string `yaml:"type,omitempty"`
	Access   string `yaml:"access,omitempty" validate:"omitempty,oneof=public protected private"`
	Optional bool   `yaml:"optional,omitempty"`
	Value    string `yaml:"value,omitempty"`
}

// PropModel is a property of a class, interface or object type.
type PropModel struct {
	Name     string `yaml:"name" validate:"required"`
	Type     string `yaml:"type,omitempty"`
	Access   string `yaml:"access,omitempty" validate:"omitempty,oneof=public protected private"`
	Optional bool   `yaml:"optional,omitempty"`
	Readonly bool   `yaml:"readonly,omitempty"`
	Static   bool   `yaml:"static,omitempty"`
	Value    string `yaml:"value,omitempty"`
}

// ComponentItem is one entry handed to a component template, such as a
// controller bound in the dependency container or a route mounted on the
// router.
type ComponentItem struct {
	Name string `yaml:"name" validate:"required"`
	// Kind is controller, use_case, toolset or repository.
	Kind         string `yaml:"kind,omitempty"`
	Token        string `yaml:"token,omitempty"`
	Controller   string `yaml:"controller,omitempty"`
	Handler      string `yaml:"handler,omitempty"`
	SkipResolver bool   `yaml:"skip_resolver,omitempty"`
}

// BodyModel is the content of a function, method or constructor body.
// Template selects a component template; Content is copied verbatim;
// Instruction becomes a block comment for the developer.
type BodyModel struct {
	Template    string            `yaml:"template,omitempty"`
	Content     string            `yaml:"content,omitempty"`
	Instruction string            `yaml:"instruction,omitempty"`
	Items       []ComponentItem   `yaml:"items,omitempty" validate:"dive"`
	Options     map[string]string `yaml:"options,omitempty"`
}

// Empty reports whether the body renders nothing.
func (b *BodyModel) Empty() bool {
	return b == nil || (b.Template == "" && b.Content == "" && b.Instruction == "")
}

// ArgModel is an argument to a super call.
type ArgModel struct {
	Name  string `yaml:"name,omitempty"`
	Value string `yaml:"value,omitempty"`
	IO    string `yaml:"io,omitempty"`
}

// SuperModel is the super(...) call of a derived constructor.
type SuperModel struct {
	Template string     `yaml:"template,omitempty"`
	Args     []ArgModel `yaml:"args,omitempty"`
}

// ConstructorModel is a class constructor.
type ConstructorModel struct {
	Access string       `yaml:"access,omitempty" validate:"omitempty,oneof=public protected private"`
	Params []ParamModel `yaml:"params,omitempty" validate:"dive"`
	Super  *SuperModel  `yaml:"super,omitempty"`
	Body   *BodyModel   `yaml:"body,omitempty"`
}

// MethodModel is a class or interface method.
type MethodModel struct {
	Name       string       `yaml:"name" validate:"required"`
	Access     string       `yaml:"access,omitempty" validate:"omitempty,oneof=public protected private"`
	Static     bool         `yaml:"static,omitempty"`
	Async      bool         `yaml:"async,omitempty"`
	Abstract   bool         `yaml:"abstract,omitempty"`
	Params     []ParamModel `yaml:"params,omitempty" validate:"dive"`
	ReturnType string       `yaml:"return_type,omitempty"`
	Body       *BodyModel   `yaml:"body,omitempty"`
}

// ClassModel is a class declaration.
type ClassModel struct {
	Name       string            `yaml:"name" validate:"required"`
	Exp        *ExportModel      `yaml:"exp,omitempty"`
	Abstract   bool              `yaml:"abstract,omitempty"`
	Extends    string            `yaml:"extends,omitempty"`
	Implements []string          `yaml:"implements,omitempty"`
	Ctor       *ConstructorModel `yaml:"ctor,omitempty"`
	Props      []PropModel       `yaml:"props,omitempty" validate:"dive"`
	Methods    []MethodModel     `yaml:"methods,omitempty" validate:"dive"`
}

// ConstructorName is the member name TypeScript reserves for constructors.
const ConstructorName = "constructor"

// FoldConstructor returns c with its methods named constructor folded into
// Ctor. The first becomes Ctor when c has none. Any further one only
// contributes parameters Ctor lacks, and its body when Ctor has none.
func (c ClassModel) FoldConstructor() ClassModel {
	ctor := c.Ctor
	methods := make([]MethodModel, 0, len(c.Methods))
	for _, m := range c.Methods {
		if m.Name != ConstructorName {
			methods = append(methods, m)
			continue
		}
		if ctor == nil {
			ctor = &ConstructorModel{Access: m.Access, Params: m.Params, Body: m.Body}
			continue
		}

		merged := *ctor
		merged.Params = append([]ParamModel(nil), ctor.Params...)
		for _, p := range m.Params {
			if !hasParam(merged.Params, p.Name) {
				merged.Params = append(merged.Params, p)
			}
		}
		if merged.Body == nil {
			merged.Body = m.Body
		}
		ctor = &merged
	}

	if len(methods) == len(c.Methods) {
		return c
	}
	c.Ctor = ctor
	c.Methods = methods
	return c
}

func hasParam(params []ParamModel, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// InterfaceModel is an interface declaration.
type InterfaceModel struct {
	Name    string        `yaml:"name" validate:"required"`
	Exp     *ExportModel  `yaml:"exp,omitempty"`
	Extends []string      `yaml:"extends,omitempty"`
	Props   []PropModel   `yaml:"props,omitempty" validate:"dive"`
	Methods []MethodModel `yaml:"methods,omitempty" validate:"dive"`
}

// TypeModel is a type alias. With Alias set it renders `type N = Alias`,
// otherwise an object type built from Props.
type TypeModel struct {
	Name  string       `yaml:"name" validate:"required"`
	Exp   *ExportModel `yaml:"exp,omitempty"`
	Alias string       `yaml:"alias,omitempty"`
	Props []PropModel  `yaml:"props,omitempty" validate:"dive"`
}

// FunctionModel is a top-level function declaration.
type FunctionModel struct {
	Name       string       `yaml:"name" validate:"required"`
	Exp        *ExportModel `yaml:"exp,omitempty"`
	Async      bool         `yaml:"async,omitempty"`
	Params     []ParamModel `yaml:"params,omitempty" validate:"dive"`
	ReturnType string       `yaml:"return_type,omitempty"`
	Body       *BodyModel   `yaml:"body,omitempty"`
}

// TestCaseModel is a single test case inside a suite.
type TestCaseModel struct {
	Name     string `yaml:"name" validate:"required"`
	Template string `yaml:"template,omitempty"`
	Async    bool   `yaml:"async,omitempty"`
}

// TestSuiteModel is a describe block.
type TestSuiteModel struct {
	Name     string          `yaml:"name" validate:"required"`
	Template string          `yaml:"template,omitempty"`
	Tests    []TestCaseModel `yaml:"tests,omitempty" validate:"dive"`
}

// FileOutput is a rendered file ready for the sink.
type FileOutput struct {
	Path        string
	WriteMethod WriteMethod
	Content     string
}

// Skipped reports whether the output must never be written.
func (o FileOutput) Skipped() bool {
	return o.WriteMethod == Skip
}
