package synth

import (
	"bytes"
	"fmt"
	"io/fs"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/stoewer/go-strcase"
)

// Renderer parses and executes text templates, caching parsed templates by
// name.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with sprig's functions, case helpers and
// any extra functions. Later maps override earlier ones.
func NewRenderer(extra ...template.FuncMap) *Renderer {
	funcMap := sprig.TxtFuncMap()
	for k, v := range caseFuncs() {
		funcMap[k] = v
	}
	for _, m := range extra {
		for k, v := range m {
			funcMap[k] = v
		}
	}

	return &Renderer{
		funcMap: funcMap,
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders templateStr. The name keys the cache and appears in
// errors.
func (r *Renderer) RenderString(name, templateStr string, data any) (string, error) {
	return r.render("string:"+name, data, func() (*template.Template, error) {
		return template.New(name).Funcs(r.funcMap).Parse(templateStr)
	})
}

// RenderFS renders the template at path in fsys. Templates are cached by
// path, so a Renderer should read from a single file system.
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) (string, error) {
	return r.render("fs:"+path, data, func() (*template.Template, error) {
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, err
		}
		return template.New(path).Funcs(r.funcMap).Parse(string(content))
	})
}

func (r *Renderer) render(key string, data any, parse func() (*template.Template, error)) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()

	if !ok {
		var err error
		tmpl, err = parse()
		if err != nil {
			return "", fmt.Errorf("failed to parse template '%s': %w", key, err)
		}

		r.mu.Lock()
		r.cache[key] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func caseFuncs() template.FuncMap {
	return template.FuncMap{
		"pascalCase": strcase.UpperCamelCase, // user_controller → UserController
		"camelCase":  strcase.LowerCamelCase, // UserController → userController
		"snakeCase":  strcase.SnakeCase,      // UserController → user_controller
		"kebabCase":  strcase.KebabCase,      // UserController → user-controller
	}
}
