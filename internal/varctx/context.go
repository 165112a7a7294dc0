// Package varctx implements the variable context shared by tasks within one
// apply run (spec.md §3 "Variable context"): a mapping from names to
// structured values, held in a Go map, so the order in which names were
// bound is not kept. It is mutated by set_fact and by any task's register
// attribute, and owned exclusively by the apply run that created it.
package varctx

import "strings"

// Context holds the mutable key->value map a task executor threads through
// one apply run. It is not safe for concurrent use by multiple apply runs —
// each run owns a disjoint Context, per spec.md §5's shared-resource policy.
type Context struct {
	values map[string]interface{}
}

// New creates a Context seeded with the given initial variables (e.g. an
// apply config's top-level `vars` map). A nil seed is treated as empty.
func New(seed map[string]interface{}) *Context {
	values := make(map[string]interface{}, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &Context{values: values}
}

// Get returns the raw value bound to name, following dotted-path navigation
// into nested maps (e.g. "m.exists" looks up "m" then the "exists" key of
// the resulting map).
func (c *Context) Get(path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	if len(parts) == 0 || parts[0] == "" {
		return nil, false
	}

	current, ok := c.values[parts[0]]
	if !ok {
		return nil, false
	}

	for _, part := range parts[1:] {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Set binds name to value at the top level of the context. Used by set_fact
// and by a task's register attribute.
func (c *Context) Set(name string, value interface{}) {
	c.values[name] = value
}

// All returns the context's flat variable map. Callers must not mutate the
// returned map; it is shared with the Context's internal storage.
func (c *Context) All() map[string]interface{} {
	return c.values
}

// Clone returns a new Context that is a shallow copy of c's current
// bindings, used to seed an include_tasks child run: per spec.md §4.2
// "against a child variable context that starts as a clone of the parent's".
func (c *Context) Clone() *Context {
	return New(c.values)
}

// Merge copies other's bindings into c, with other's values taking
// precedence on key collision. Used to fold a completed child run's mutated
// context back into the parent's, where the spec requires it (register
// results and set_fact visible to subsequent parent tasks).
func (c *Context) Merge(other *Context) {
	for k, v := range other.values {
		c.values[k] = v
	}
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}
