package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/splice/internal/structure"
)

func newTestReader(t *testing.T) *Reader {
	t.Helper()
	r, err := NewReader()
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

const sample = `import express from "express";
import { Router, Request } from "./http.ts";
import * as path from "path";
export * from "./models";
export { User } from "./user";

type Id = string;
export type Point = {
  x: number;
  y?: number;
};

export interface Shape {
  sides: number;
  area(): number;
}

export async function main(port: number, host?: string) {
  return port;
}

const handler = async (req: Request) => {
  return req;
};

export abstract class Base {
  protected abstract run(): void;
}

export class Foo extends Base {
  private readonly name: string = "foo";
  static count = 0;

  constructor(private io: IO) {
    super();
  }

  bar(a: string, b: number): void {
    console.log(a, b);
  }

  protected async baz() {}
}
`

func TestReadCode_Sample(t *testing.T) {
	r := newTestReader(t)

	f, err := r.ReadCode("src/sample.ts", sample)
	require.NoError(t, err)
	assert.Equal(t, sample, f.Code)
	assert.Equal(t, "src/sample.ts", f.Path)

	t.Run("imports", func(t *testing.T) {
		require.Len(t, f.Imports, 3)
		assert.Equal(t, "express", f.Imports[0].Path)
		assert.Equal(t, "express", f.Imports[0].Default)
		assert.Equal(t, "./http.ts", f.Imports[1].Path)
		assert.Equal(t, []string{"Router", "Request"}, f.Imports[1].List)
		assert.Equal(t, "path", f.Imports[2].Alias)
		assert.Equal(t, 2, f.Imports[2].EndLine)
		assert.True(t, f.HasImport("./http"))
	})

	t.Run("exports", func(t *testing.T) {
		require.Len(t, f.Exports, 2)
		assert.Equal(t, "./models", f.Exports[0].Path)
		assert.Equal(t, 3, f.Exports[0].StartLine)
		assert.Equal(t, []string{"User"}, f.Exports[1].List)
	})

	t.Run("types", func(t *testing.T) {
		require.Len(t, f.Types, 2)
		assert.Equal(t, "Id", f.Types[0].Name)
		assert.Nil(t, f.Types[0].Body)
		assert.False(t, f.Types[0].Exported)

		point := f.Types[1]
		assert.Equal(t, "Point", point.Name)
		assert.True(t, point.Exported)
		require.NotNil(t, point.Body)
		assert.Equal(t, 10, point.Body.End.Line)
		require.Len(t, point.Props, 2)
		assert.Equal(t, "number", point.Props[0].Type)
		assert.True(t, point.Props[1].Optional)
	})

	t.Run("interfaces", func(t *testing.T) {
		require.Len(t, f.Interfaces, 1)
		shape := f.Interfaces[0]
		assert.Equal(t, "Shape", shape.Name)
		assert.Equal(t, 12, shape.StartLine)
		assert.Equal(t, 15, shape.EndLine)
		require.Len(t, shape.Props, 1)
		assert.Equal(t, "sides", shape.Props[0].Name)
		require.Len(t, shape.Methods, 1)
		assert.Equal(t, "area", shape.Methods[0].Name)
		assert.Nil(t, shape.Methods[0].Body)
	})

	t.Run("functions", func(t *testing.T) {
		require.Len(t, f.Functions, 2)
		main := f.Functions[0]
		assert.Equal(t, "main", main.Name)
		assert.True(t, main.Async)
		assert.True(t, main.Exported)
		require.Len(t, main.Params, 2)
		assert.Equal(t, "host", main.Params[1].Name)
		assert.True(t, main.Params[1].Optional)

		handler := f.Functions[1]
		assert.Equal(t, "handler", handler.Name)
		assert.True(t, handler.Async)
		assert.False(t, handler.Exported)
		require.NotNil(t, handler.Body)
	})

	t.Run("classes", func(t *testing.T) {
		require.Len(t, f.Classes, 2)

		base := f.Classes[0]
		assert.True(t, base.Abstract)
		require.Len(t, base.Methods, 1)
		assert.True(t, base.Methods[0].Abstract)
		assert.Equal(t, structure.Protected, base.Methods[0].Accessibility)

		foo := f.Classes[1]
		assert.Equal(t, "Foo", foo.Name)
		assert.Equal(t, 29, foo.StartLine)
		assert.Equal(t, 42, foo.EndLine)
		assert.Equal(t, 42, foo.Body.End.Line)

		require.Len(t, foo.Props, 2)
		assert.Equal(t, structure.Private, foo.Props[0].Accessibility)
		assert.True(t, foo.Props[0].Readonly)
		assert.Equal(t, structure.Public, foo.Props[1].Accessibility)
		assert.True(t, foo.Props[1].Static)

		require.NotNil(t, foo.Ctor)
		assert.Equal(t, 33, foo.Ctor.StartLine)
		require.Len(t, foo.Ctor.Params, 1)
		assert.Equal(t, "io", foo.Ctor.Params[0].Name)

		require.Len(t, foo.Methods, 2)
		bar := foo.Methods[0]
		assert.Equal(t, "bar", bar.Name)
		assert.Equal(t, structure.Public, bar.Accessibility)
		assert.Equal(t, 37, bar.StartLine)
		assert.Equal(t, 39, bar.EndLine)
		require.NotNil(t, bar.Body)
		assert.Equal(t, 39, bar.Body.End.Line)
		require.Len(t, bar.Params, 2)
		assert.Equal(t, "string", bar.Params[0].Type)
		assert.Equal(t, structure.Point{Line: 37, Column: 26}, bar.Params[1].End)

		baz := foo.Methods[1]
		assert.Equal(t, structure.Protected, baz.Accessibility)
		assert.True(t, baz.Async)
	})
}

func TestReadCode_Empty(t *testing.T) {
	r := newTestReader(t)

	f, err := r.ReadCode("empty.ts", "")
	require.NoError(t, err)
	assert.Empty(t, f.Classes)
	assert.Empty(t, f.Imports)
}

func TestReadCode_SyntaxError(t *testing.T) {
	r := newTestReader(t)

	_, err := r.ReadCode("broken.ts", "class Foo {\n  bar() {\n")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "broken.ts", perr.Path)
	assert.NotEmpty(t, perr.Message)
	assert.Contains(t, err.Error(), "broken.ts:")
}

func TestReadFile(t *testing.T) {
	r := newTestReader(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "view.tsx")
	require.NoError(t, os.WriteFile(path, []byte("export const View = () => <div />;\n"), 0644))

	f, err := r.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, f.Functions, 1)
	assert.Equal(t, "View", f.Functions[0].Name)

	_, err = r.ReadFile(filepath.Join(dir, "missing.ts"))
	assert.Error(t, err)
}

func TestReader_Closed(t *testing.T) {
	r, err := NewReader()
	require.NoError(t, err)
	r.Close()
	r.Close()

	_, err = r.ReadCode("a.ts", "const a = 1;")
	assert.Error(t, err)
}
