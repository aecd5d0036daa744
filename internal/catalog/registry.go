package catalog

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"design2prompt/internal/domain"
)

// Registry implements domain.Catalog over the built-in library plus the
// user definitions loaded from disk. A user definition with a built-in id
// replaces it.
type Registry struct {
	mu      sync.RWMutex
	builtin []domain.CatalogDefinition
	user    map[string]domain.CatalogDefinition
}

func NewRegistry() *Registry {
	return &Registry{
		builtin: Builtins(),
		user:    map[string]domain.CatalogDefinition{},
	}
}

// SetUserDefinitions replaces the whole user layer.
func (r *Registry) SetUserDefinitions(defs []domain.CatalogDefinition) {
	user := make(map[string]domain.CatalogDefinition, len(defs))
	for _, d := range defs {
		user[d.ID] = d
	}
	r.mu.Lock()
	r.user = user
	r.mu.Unlock()
}

func (r *Registry) Lookup(refID string) (domain.CatalogDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.user[refID]; ok {
		return clone(d), true
	}
	for _, d := range r.builtin {
		if d.ID == refID {
			return clone(d), true
		}
	}
	return domain.CatalogDefinition{}, false
}

// List returns built-ins in library order followed by user-only
// definitions sorted by id.
func (r *Registry) List() []domain.CatalogDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CatalogDefinition, 0, len(r.builtin)+len(r.user))
	seen := make(map[string]bool, len(r.builtin))
	for _, d := range r.builtin {
		seen[d.ID] = true
		if u, ok := r.user[d.ID]; ok {
			d = u
		}
		out = append(out, clone(d))
	}
	var extra []string
	for id := range r.user {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		out = append(out, clone(r.user[id]))
	}
	return out
}

// Search matches query case-insensitively against name, description and tags.
func (r *Registry) Search(query string) []domain.CatalogDefinition {
	q := strings.ToLower(strings.TrimSpace(query))
	all := r.List()
	if q == "" {
		return all
	}
	var out []domain.CatalogDefinition
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.Description), q) ||
			slices.ContainsFunc(d.Tags, func(t string) bool { return strings.Contains(strings.ToLower(t), q) }) {
			out = append(out, d)
		}
	}
	return out
}

// Filter is Search narrowed to one category. Empty arguments match
// everything; the result is never nil.
func (r *Registry) Filter(query, category string) []domain.CatalogDefinition {
	category = strings.TrimSpace(category)
	defs := r.Search(query)
	out := make([]domain.CatalogDefinition, 0, len(defs))
	for _, d := range defs {
		if category == "" || strings.EqualFold(d.Category, category) {
			out = append(out, d)
		}
	}
	return out
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Categories counts definitions per category in first-seen order.
func (r *Registry) Categories() []CategoryCount {
	var out []CategoryCount
	index := map[string]int{}
	for _, d := range r.List() {
		i, ok := index[d.Category]
		if !ok {
			i = len(out)
			index[d.Category] = i
			out = append(out, CategoryCount{Category: d.Category})
		}
		out[i].Count++
	}
	return out
}

func clone(d domain.CatalogDefinition) domain.CatalogDefinition {
	d.Tags = slices.Clone(d.Tags)
	d.Options = slices.Clone(d.Options)
	d.DefaultStyleParams = d.DefaultStyleParams.Clone()
	d.Requirements = slices.Clone(d.Requirements)
	return d
}
