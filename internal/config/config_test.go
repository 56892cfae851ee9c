package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Project.Source)
	assert.Equal(t, "none", cfg.Project.DI())
	assert.Equal(t, "plain", cfg.Output.Formatter)
	assert.True(t, cfg.Output.Index)

	pkgs, ok := cfg.Language.DIPackages("inversify")
	require.True(t, ok)
	assert.Equal(t, []string{"inversify", "reflect-metadata"}, pkgs)
	assert.Contains(t, cfg.Plugins.Databases, "mongo")
	assert.Contains(t, cfg.Plugins.WebFrameworks, "express")
}

func TestLoad_File(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, FileName), `
project:
  name: shop
  source: app
  dependency_injection: inversify
  database: [mongo, cache]
  web_framework: express
plugins:
  databases:
    mongo:
      packages: [mongodb, "dev:@types/mongodb"]
      plugin: "@soapjs/soap-node-mongo"
output:
  formatter: prettier
  index: false
`)

	require.True(t, Detect(root))

	cfg, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.Project.Name)
	assert.Equal(t, "app", cfg.Project.Source)
	assert.Equal(t, "inversify", cfg.Project.DI())
	assert.Equal(t, []string{"mongo", "cache"}, cfg.Project.Database)
	assert.Equal(t, Plugin{
		Packages: []string{"mongodb", "dev:@types/mongodb"},
		Plugin:   "@soapjs/soap-node-mongo",
	}, cfg.Plugins.Databases["mongo"])
	assert.Equal(t, "prettier", cfg.Output.Formatter)
	assert.False(t, cfg.Output.Index)
	assert.Equal(t, "ISC", cfg.Project.License, "defaults fill what the file omits")
}

func TestLoad_EnvOverrides(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, FileName), "project:\n  source: app\n")
	t.Setenv("SPLICE_PROJECT_SOURCE", "lib")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, "lib", cfg.Project.Source)
}

func TestLoad_DotEnv(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, ".env"), "SPLICE_PROJECT_NAME=from-dotenv\n")
	t.Setenv("SPLICE_PROJECT_NAME", "")
	os.Unsetenv("SPLICE_PROJECT_NAME")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Project.Name)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		file    string
		msg     string
	}{
		{
			name:    "bad di style",
			content: "project:\n  dependency_injection: spring\n",
			msg:     `project.dependency_injection must be one of [inversify singleton none], got "spring"`,
		},
		{
			name:    "bad formatter",
			content: "output:\n  formatter: gofmt\n",
			msg:     "output.formatter must be one of",
		},
		{
			name:    "empty source",
			content: "project:\n  source: \"\"\n",
			msg:     "project.source is required",
		},
		{
			name: "explicit file missing",
			file: "missing.yml",
			msg:  "failed to read config",
		},
		{
			name:    "malformed yaml",
			content: "project: [\n",
			msg:     "failed to read config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.content != "" {
				write(t, filepath.Join(root, FileName), tt.content)
			}
			file := ""
			if tt.file != "" {
				file = filepath.Join(root, tt.file)
			}

			_, err := Load(root, file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Project.Name = "shop"

	data, err := cfg.Marshal()
	require.NoError(t, err)
	write(t, filepath.Join(root, FileName), string(data))

	loaded, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, "shop", loaded.Project.Name)
	require.Len(t, loaded.Language.DependencyInjection, 3)
	pkgs, ok := loaded.Language.DIPackages("inversify")
	require.True(t, ok)
	assert.Equal(t, []string{"inversify", "reflect-metadata"}, pkgs)
}

func TestDetect(t *testing.T) {
	assert.False(t, Detect(t.TempDir()))
}
