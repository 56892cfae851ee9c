package desired

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userModel = `files:
  - path: src/controllers/user.controller.ts
    content:
      imports:
        - path: "@soapjs/soap"
          list: [Route, IO]
        - path: express
          dflt: express
      classes:
        - name: UserController
          exp: {}
          ctor:
            params:
              - name: useCase
                type: UserUseCase
                access: private
          methods:
            - name: getUser
              async: true
              params:
                - name: id
                  type: string
              return_type: Promise<User>
              body:
                instruction: fetch the user through the use case
  - path: src/routes.ts
    write_method: skip
`

func TestLoadBytes(t *testing.T) {
	models, err := LoadBytes([]byte(userModel))
	require.NoError(t, err)
	require.Len(t, models, 2)

	user := models[0]
	assert.Equal(t, Write, user.WriteMethod)
	assert.False(t, user.Skipped())
	require.Len(t, user.Content.Imports, 2)
	assert.Equal(t, []string{"Route", "IO"}, user.Content.Imports[0].List)
	assert.Equal(t, "express", user.Content.Imports[1].Default)

	require.Len(t, user.Content.Classes, 1)
	class := user.Content.Classes[0]
	assert.NotNil(t, class.Exp)
	require.NotNil(t, class.Ctor)
	assert.Equal(t, "private", class.Ctor.Params[0].Access)
	require.Len(t, class.Methods, 1)
	assert.True(t, class.Methods[0].Async)
	assert.Equal(t, "fetch the user through the use case", class.Methods[0].Body.Instruction)

	assert.True(t, models[1].Skipped())
}

func TestLoadBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "files:\n  - path: a.ts\n    colour: red\n",
			wantErr: "unknown/misspelled",
		},
		{
			name:    "missing path",
			yaml:    "files:\n  - content: {}\n",
			wantErr: "files[0].Path: is required",
		},
		{
			name:    "bad write method",
			yaml:    "files:\n  - path: a.ts\n    write_method: overwrite\n",
			wantErr: "must be one of [write skip]",
		},
		{
			name:    "nameless method",
			yaml:    "files:\n  - path: a.ts\n    content:\n      classes:\n        - name: A\n          methods:\n            - async: true\n",
			wantErr: "Classes[0].Methods[0].Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	err := Validate(
		FileTemplateModel{},
		FileTemplateModel{Path: "b.ts", Content: FileContent{Imports: []ImportModel{{}}}},
	)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	assert.Contains(t, err.Error(), "found 2 validation errors")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.splice.yml")
	require.NoError(t, os.WriteFile(path, []byte(userModel), 0644))

	models, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, models, 2)

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestBodyModel_Empty(t *testing.T) {
	var nilBody *BodyModel
	assert.True(t, nilBody.Empty())
	assert.True(t, (&BodyModel{}).Empty())
	assert.False(t, (&BodyModel{Content: "return 1;"}).Empty())
	assert.False(t, (&BodyModel{Template: "router_item"}).Empty())
}
