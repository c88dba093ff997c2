package payments

import (
	"fmt"
	"sort"

	"lojinha.com.br/app/internal/shared/apperr"
)

// Registry maps provider names to instances. It is built explicitly at
// startup and injected; there is no global. Unknown names fail closed.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(provs ...Provider) *Registry {
	m := make(map[string]Provider, len(provs))
	for _, p := range provs {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, apperr.ConfigurationErr(
			fmt.Sprintf("payment provider %q is not registered", name), nil)
	}
	return p, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.providers[name]
	return ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
