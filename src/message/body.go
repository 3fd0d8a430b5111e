package message

import (
	"fmt"
	"reflect"
	"sort"
)

// Tag carries the discriminating "type" field of every message body.
type Tag struct {
	Type string `codec:"type"`
}

// Kind implements the Body interface.
func (t Tag) Kind() string {
	return t.Type
}

// Body is implemented by every message variant.
type Body interface {
	Kind() string
}

// Registry maps wire tags to the variant a body should be decoded into.
type Registry map[string]reflect.Type

// NewRegistry returns an empty Registry.
func NewRegistry() Registry {
	return make(Registry)
}

// Register associates kind with the concrete type of proto. proto must be a
// struct value, not a pointer. Registering the same kind twice panics.
func (r Registry) Register(kind string, proto Body) Registry {
	typ := reflect.TypeOf(proto)
	if typ == nil || typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("message: cannot register %T for %q, need a struct", proto, kind))
	}
	if _, ok := r[kind]; ok {
		panic(fmt.Sprintf("message: %q registered twice", kind))
	}
	r[kind] = typ
	return r
}

// Merge copies the entries of others into r and returns r.
func (r Registry) Merge(others ...Registry) Registry {
	for _, o := range others {
		for k, typ := range o {
			if _, ok := r[k]; ok {
				panic(fmt.Sprintf("message: %q registered twice", k))
			}
			r[k] = typ
		}
	}
	return r
}

// Kinds returns the registered tags in lexical order.
func (r Registry) Kinds() []string {
	kinds := make([]string, 0, len(r))
	for k := range r {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// instantiate returns a pointer to a fresh zero value of the variant
// registered under kind.
func (r Registry) instantiate(kind string) (reflect.Value, bool) {
	typ, ok := r[kind]
	if !ok {
		return reflect.Value{}, false
	}
	return reflect.New(typ), true
}
