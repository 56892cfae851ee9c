package synth

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
)

// components are named templates that assemble code from a model. Bodies,
// super calls and tests select one by name.
var components = map[string]rule{
	"route_ctor_supr": typed(routeCtorSuper),
	"router_item":     typed(itemsComponent("router_item")),
	"dependency_item": typed(itemsComponent("dependency_item")),
}

// Components returns the names of the registered component templates.
func Components() []string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	return names
}

func (s *Synthesizer) component(name string, model any) (string, error) {
	c, ok := components[name]
	if !ok {
		return "", fmt.Errorf("missing template: %s", name)
	}
	return c(s, model)
}

func routeCtorSuper(_ *Synthesizer, m desired.SuperModel) (string, error) {
	return fmt.Sprintf("super(%s);", strings.Join(args(m.Args, true), ", ")), nil
}

// itemsComponent renders a body's items through the named template with the
// effective DI style.
func itemsComponent(name string) func(*Synthesizer, desired.BodyModel) (string, error) {
	return func(s *Synthesizer, b desired.BodyModel) (string, error) {
		di := s.di
		if v := b.Options["dependency_injection"]; v != "" {
			di = v
		}
		return s.template(name, struct {
			Items []desired.ComponentItem
			DI    string
		}{b.Items, di})
	}
}
