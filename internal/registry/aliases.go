package registry

import "slices"

// AddAliases records extra identities for each key. Repeated values are
// stored once per key, in first-seen order.
func (r *Registry) AddAliases(aliases map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, values := range aliases {
		for _, v := range values {
			if !slices.Contains(r.aliases[id], v) {
				r.aliases[id] = append(r.aliases[id], v)
			}
		}
	}
}

// Aliases returns the extra identities recorded for id.
func (r *Registry) Aliases(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.aliases[id])
}
