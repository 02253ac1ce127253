package interp

// Lookup walks the lexical chain starting at scope, returning the first
// binding found for name.
func (h *Heap) Lookup(scope Handle, name string) (Handle, error) {
	for s := scope; s != NullHandle; s = h.ScopeParent(s) {
		if v, ok := h.ScopeBindings(s)[name]; ok {
			return v, nil
		}
	}
	return NullHandle, newNameError("Unknown symbol '%s'", name)
}

// FindScope walks the same chain as Lookup but returns the scope that owns
// the binding, for set! to mutate in place.
func (h *Heap) FindScope(scope Handle, name string) (Handle, error) {
	for s := scope; s != NullHandle; s = h.ScopeParent(s) {
		if _, ok := h.ScopeBindings(s)[name]; ok {
			return s, nil
		}
	}
	return NullHandle, newNameError("Unknown symbol '%s'", name)
}

// Define installs name in scope itself, overwriting any same-name entry
// already there. Parent bindings are shadowed, not destroyed.
func (h *Heap) Define(scope Handle, name string, value Handle) {
	h.ScopeBindings(scope)[name] = value
}

// DefineChildScope registers a child scope under name so it stays reachable
// from scope for as long as the name isn't removed.
func (h *Heap) DefineChildScope(scope Handle, name string, child Handle) {
	h.ScopeChildren(scope)[name] = child
}

// RemoveChildScope drops the named child, shortening its lifetime to
// whatever else still references it.
func (h *Heap) RemoveChildScope(scope Handle, name string) {
	delete(h.ScopeChildren(scope), name)
}
