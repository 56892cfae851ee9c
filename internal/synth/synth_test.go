package synth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
)

func TestRules_CoverEveryKind(t *testing.T) {
	for _, kind := range Kinds() {
		_, ok := rules[kind]
		assert.True(t, ok, "kind %q has no rule", kind)
	}
	assert.Len(t, rules, len(Kinds()))
}

func TestSynthesize_Errors(t *testing.T) {
	s := New()

	_, err := s.Synthesize(Kind("decorator"), nil)
	assert.ErrorContains(t, err, "no synthesis rule")

	_, err = s.Synthesize(KindImport, desired.ExportModel{Path: "./a"})
	assert.ErrorContains(t, err, "expected desired.ImportModel")

	_, err = s.Property(ContextAbstractClass, desired.PropModel{Name: "a"})
	assert.ErrorContains(t, err, "cannot be rendered")

	_, err = s.Method(ContextType, desired.MethodModel{Name: "a"})
	assert.ErrorContains(t, err, "cannot be rendered")

	_, err = s.Body(&desired.BodyModel{Template: "nope"})
	assert.ErrorContains(t, err, "missing template: nope")
}

func TestSynthesize_PointerModel(t *testing.T) {
	s := New()
	out, err := s.Synthesize(KindImport, &desired.ImportModel{Path: "express", Default: "express"})
	require.NoError(t, err)
	assert.Equal(t, `import express from "express";`, out)
}

func TestImport(t *testing.T) {
	tests := []struct {
		name  string
		model desired.ImportModel
		want  string
	}{
		{"named", desired.ImportModel{Path: "./user.ts", List: []string{"User"}}, `import { User } from "./user";`},
		{"default", desired.ImportModel{Path: "express", Default: "express"}, `import express from "express";`},
		{"namespace", desired.ImportModel{Path: "path", Alias: "path"}, `import * as path from "path";`},
		{"default and named", desired.ImportModel{Path: "./x", Default: "A", List: []string{"B", "C"}}, `import A, { B, C } from "./x";`},
		{"side effect", desired.ImportModel{Path: "reflect-metadata"}, `import "reflect-metadata";`},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Import(tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExport(t *testing.T) {
	tests := []struct {
		model desired.ExportModel
		want  string
	}{
		{desired.ExportModel{Path: "./models.ts"}, `export * from "./models";`},
		{desired.ExportModel{Path: "./a", List: []string{"A", "B"}}, `export { A, B } from "./a";`},
		{desired.ExportModel{Path: "./a", Alias: "ns"}, `export * as ns from "./a";`},
	}

	s := New()
	for _, tt := range tests {
		got, err := s.Export(tt.model)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestType(t *testing.T) {
	s := New()

	got, err := s.Type(desired.TypeModel{Name: "Id", Exp: &desired.ExportModel{}, Alias: "string"})
	require.NoError(t, err)
	assert.Equal(t, "export type Id = string;", got)

	got, err = s.Type(desired.TypeModel{
		Name: "Point",
		Props: []desired.PropModel{
			{Name: "x", Type: "number"},
			{Name: "y", Type: "number", Optional: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "type Point = {\n  x: number;\n  y?: number;\n};", got)
}

func TestInterface(t *testing.T) {
	s := New()
	got, err := s.Interface(desired.InterfaceModel{
		Name:    "Shape",
		Exp:     &desired.ExportModel{},
		Extends: []string{"Named"},
		Props:   []desired.PropModel{{Name: "sides", Type: "number"}},
		Methods: []desired.MethodModel{{Name: "area", ReturnType: "number"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "export interface Shape extends Named {\n  sides: number;\n  area(): number;\n}", got)
}

func TestClass(t *testing.T) {
	s := New()

	t.Run("empty", func(t *testing.T) {
		got, err := s.Class(desired.ClassModel{Name: "Foo"})
		require.NoError(t, err)
		assert.Equal(t, "class Foo {\n}", got)
	})

	t.Run("full", func(t *testing.T) {
		got, err := s.Class(desired.ClassModel{
			Name:       "UserController",
			Exp:        &desired.ExportModel{},
			Extends:    "Controller",
			Implements: []string{"Handler"},
			Props: []desired.PropModel{
				{Name: "name", Type: "string", Access: "private", Readonly: true},
			},
			Ctor: &desired.ConstructorModel{
				Params: []desired.ParamModel{{Name: "useCase", Type: "UserUseCase", Access: "private"}},
				Super:  &desired.SuperModel{Args: []desired.ArgModel{{Name: "useCase"}}},
			},
			Methods: []desired.MethodModel{{
				Name:       "getUser",
				Async:      true,
				Params:     []desired.ParamModel{{Name: "id", Type: "string"}},
				ReturnType: "Promise<User>",
				Body:       &desired.BodyModel{Instruction: "load user"},
			}},
		})
		require.NoError(t, err)

		want := `export class UserController extends Controller implements Handler {
  private readonly name: string;

  constructor(private useCase: UserUseCase) {
    super(useCase);
  }

  async getUser(id: string): Promise<User> {
    /* load user */
  }
}`
		assert.Equal(t, want, got)
	})

	t.Run("constructor method", func(t *testing.T) {
		got, err := s.Class(desired.ClassModel{
			Name: "Foo",
			Methods: []desired.MethodModel{
				{Name: "constructor", Access: "public", Params: []desired.ParamModel{{Name: "a", Type: "string"}}},
				{Name: "run"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "class Foo {\n  public constructor(a: string) {\n  }\n\n  run() {\n  }\n}", got)
	})

	t.Run("abstract", func(t *testing.T) {
		got, err := s.Class(desired.ClassModel{
			Name:     "Repo",
			Abstract: true,
			Methods:  []desired.MethodModel{{Name: "find", Abstract: true, Access: "protected", ReturnType: "void"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "abstract class Repo {\n  protected abstract find(): void;\n}", got)
	})
}

func TestFunction(t *testing.T) {
	s := New()
	got, err := s.Function(desired.FunctionModel{
		Name:   "main",
		Async:  true,
		Params: []desired.ParamModel{{Name: "port", Type: "number", Value: "3000"}},
		Body:   &desired.BodyModel{Content: "console.log(port);"},
	})
	require.NoError(t, err)
	assert.Equal(t, "async function main(port: number = 3000) {\n  console.log(port);\n}", got)
}

func TestPropertyAndMethod(t *testing.T) {
	s := New()

	got, err := s.Property(ContextInterface, desired.PropModel{Name: "area", Type: "number", Optional: true})
	require.NoError(t, err)
	assert.Equal(t, "area?: number;", got)

	got, err = s.Property(ContextType, desired.PropModel{Name: "tag"})
	require.NoError(t, err)
	assert.Equal(t, "tag: any;", got)

	got, err = s.Property(ContextClass, desired.PropModel{Name: "count", Static: true, Value: "0"})
	require.NoError(t, err)
	assert.Equal(t, "static count = 0;", got)

	got, err = s.Method(ContextClass, desired.MethodModel{
		Name:   "baz",
		Access: "protected",
		Params: []desired.ParamModel{{Name: "q", Type: "string", Optional: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "protected baz(q?: string) {\n}", got)

	got, err = s.Method(ContextInterface, desired.MethodModel{Name: "area", ReturnType: "number"})
	require.NoError(t, err)
	assert.Equal(t, "area(): number;", got)
}

func TestSuperCall(t *testing.T) {
	s := New()

	got, err := s.SuperCall(desired.SuperModel{})
	require.NoError(t, err)
	assert.Equal(t, "super();", got)

	got, err = s.SuperCall(desired.SuperModel{Args: []desired.ArgModel{{Name: "a"}, {Value: "'x'"}}})
	require.NoError(t, err)
	assert.Equal(t, "super(a, 'x');", got)

	got, err = s.SuperCall(desired.SuperModel{
		Template: "route_ctor_supr",
		Args:     []desired.ArgModel{{IO: "UserIO"}, {Name: "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "super({ io: new UserIO() }, b);", got)
}

func TestComponents(t *testing.T) {
	routes := []desired.ComponentItem{{Name: "get_user_route", Controller: "user_controller", Handler: "getUser"}}
	mount := "this.mount(GetUserRoute.create(userController.getUser.bind(userController)));"

	tests := []struct {
		name string
		di   string
		body desired.BodyModel
		want string
	}{
		{
			name: "router inversify",
			di:   DIInversify,
			body: desired.BodyModel{Template: "router_item", Items: routes},
			want: "const userController = container.get<UserController>(UserController.Token);\n" + mount,
		},
		{
			name: "router singleton",
			di:   DISingleton,
			body: desired.BodyModel{Template: "router_item", Items: routes},
			want: "const userController = Singleton.get<UserController>(UserController.Token);\n" + mount,
		},
		{
			name: "router plain",
			di:   DINone,
			body: desired.BodyModel{Template: "router_item", Items: routes},
			want: "const userController = new UserController();\n" + mount,
		},
		{
			name: "router skip resolver",
			di:   DIInversify,
			body: desired.BodyModel{Template: "router_item", Items: []desired.ComponentItem{
				{Name: "get_user_route", Controller: "user_controller", Handler: "getUser", SkipResolver: true},
			}},
			want: mount,
		},
		{
			name: "dependencies inversify",
			di:   DIInversify,
			body: desired.BodyModel{Template: "dependency_item", Items: []desired.ComponentItem{
				{Name: "UserController", Kind: "controller"},
				{Name: "UserRepository", Kind: "repository"},
				{Name: "GetUserUseCase", Kind: "use_case", Token: "Symbol.for('GetUser')"},
			}},
			want: "container.bind<UserController>(UserController.TOKEN).to(UserController);\n" +
				"container.bind<GetUserUseCase>(Symbol.for('GetUser')).to(GetUserUseCase);",
		},
		{
			name: "dependencies option override",
			di:   DINone,
			body: desired.BodyModel{
				Template: "dependency_item",
				Items:    []desired.ComponentItem{{Name: "UserController", Kind: "controller"}},
				Options:  map[string]string{"dependency_injection": DISingleton},
			},
			want: "Singleton.bind(UserController.TOKEN, UserController);",
		},
		{
			name: "dependencies none",
			di:   DINone,
			body: desired.BodyModel{Template: "dependency_item", Items: []desired.ComponentItem{{Name: "UserController", Kind: "controller"}}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithDependencyInjection(tt.di))
			got, err := s.Body(&tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.ElementsMatch(t, []string{"route_ctor_supr", "router_item", "dependency_item"}, Components())
}

func TestTestSuite(t *testing.T) {
	s := New()
	got, err := s.TestSuite(desired.TestSuiteModel{
		Name:  "UserController",
		Tests: []desired.TestCaseModel{{Name: "should get user", Async: true}},
	})
	require.NoError(t, err)

	want := `describe('UserController', () => {
  it.skip('should get user', async () => {
    //
    expect(true).toBe(true);
  });
});`
	assert.Equal(t, want, got)

	got, err = s.TestCase(desired.TestCaseModel{Name: "sync"})
	require.NoError(t, err)
	assert.Contains(t, got, "it.skip('sync', () => {")
}

func TestFile(t *testing.T) {
	s := New()
	got, err := s.File(context.Background(), "src/a.ts", desired.FileContent{
		Imports: []desired.ImportModel{{Path: "./b", List: []string{"B"}}},
		Exports: []desired.ExportModel{{Path: "./c"}},
		Classes: []desired.ClassModel{{Name: "A", Exp: &desired.ExportModel{}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "import { B } from \"./b\";\n\nexport * from \"./c\";\n\nexport class A {\n}\n", got)

	_, err = s.File(context.Background(), "src/bad.ts", desired.FileContent{
		Functions: []desired.FunctionModel{{Name: "f", Body: &desired.BodyModel{Template: "nope"}}},
	})
	assert.ErrorContains(t, err, "src/bad.ts")

	empty, err := s.File(context.Background(), "src/empty.ts", desired.FileContent{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

type fakeRunner struct {
	name  string
	args  []string
	stdin string
	out   string
	err   error
}

func (f *fakeRunner) Output(_ context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	data, _ := io.ReadAll(stdin)
	f.stdin = string(data)
	return []byte(f.out), f.err
}

func TestCommandFormatter(t *testing.T) {
	runner := &fakeRunner{out: "formatted\n"}
	f := NewPrettierFormatter(runner)

	got, err := f.Format(context.Background(), "src/a.ts", "class A{}")
	require.NoError(t, err)
	assert.Equal(t, "formatted\n", got)
	assert.Equal(t, "npx", runner.name)
	assert.Equal(t, []string{"--yes", "prettier", "--stdin-filepath", "src/a.ts"}, runner.args)
	assert.Equal(t, "class A{}", runner.stdin)

	runner.err = errors.New("exit status 2")
	_, err = f.Format(context.Background(), "src/a.ts", "class A{}")
	assert.ErrorContains(t, err, "failed to format src/a.ts")

	s := New(WithFormatter(&CommandFormatter{Runner: &fakeRunner{out: "x"}, Command: "fmt"}))
	got, err = s.File(context.Background(), "a.ts", desired.FileContent{Classes: []desired.ClassModel{{Name: "A"}}})
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}
