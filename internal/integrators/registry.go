package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/invpend/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"rk4":           func() dynamo.Integrator { return NewRK4() },
	"rk4-classic":   func() dynamo.Integrator { return NewClassicRK4() },
	"rk4-reference": func() dynamo.Integrator { return NewReferenceRK4() },
	"euler":         func() dynamo.Integrator { return NewEuler() },
}

// Get returns a fresh integrator registered under name.
func Get(name string) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
