// Package lazy implements per-entity attribute tables whose missing values are
// resolved on first access.
//
// A Table holds eager values plus a binding per lazy field. A binding is either
// a group key, where one load call returns several sibling fields at once, or
// an individual Resolver. Property bindings are re-resolved on every read and
// never cached. All reads go through the generic Get accessor.
package lazy

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnbound is returned when a lazy field has to be resolved but the entity
// was never bound to a source.
var ErrUnbound = errors.New("lazy: entity is not bound to a source")

// Values is a set of resolved fields keyed by field name.
type Values map[string]any

// Loader fetches every field of a group in one call.
type Loader func(ctx context.Context, group string) (Values, error)

// Resolver fetches a single field.
type Resolver func(ctx context.Context) (any, error)

// Binding says how a field is resolved when it has no eager value.
type Binding struct {
	Group    string
	Resolve  Resolver
	Property bool
}

// Group binds a field to a shared group load.
func Group(key string) Binding { return Binding{Group: key} }

// Func binds a field to its own resolver.
func Func(fn Resolver) Binding { return Binding{Resolve: fn} }

// Property binds a field to a resolver that runs on every read.
func Property(fn Resolver) Binding { return Binding{Resolve: fn, Property: true} }

// Table is the attribute table of one entity. It is not safe for concurrent
// use; each entity owns its own table.
type Table struct {
	values   map[string]any
	bindings map[string]Binding
	groups   map[string]Values
	load     Loader
}

// New returns an empty table. load may be nil for entities that were built
// from complete data; resolving a group then fails with ErrUnbound.
func New(load Loader) *Table {
	return &Table{
		values:   map[string]any{},
		bindings: map[string]Binding{},
		groups:   map[string]Values{},
		load:     load,
	}
}

// Bind registers how field is resolved and returns the table for chaining.
func (t *Table) Bind(field string, b Binding) *Table {
	t.bindings[field] = b
	return t
}

// SetLoader replaces the group loader. Cached groups are kept.
func (t *Table) SetLoader(load Loader) {
	t.load = load
}

// Set stores an eager value. Property fields cannot be set.
func (t *Table) Set(field string, v any) error {
	if b, ok := t.bindings[field]; ok && b.Property {
		return fmt.Errorf("lazy: can't set property %q", field)
	}
	t.values[field] = v
	return nil
}

// Fill stores v only if field has no value yet.
func (t *Table) Fill(field string, v any) {
	if cur, ok := t.values[field]; ok && cur != nil {
		return
	}
	_ = t.Set(field, v)
}

// Has reports whether field holds an eager or previously resolved value.
func (t *Table) Has(field string) bool {
	v, ok := t.values[field]
	return ok && v != nil
}

// Loaded reports whether group has been fetched.
func (t *Table) Loaded(group string) bool {
	_, ok := t.groups[group]
	return ok
}

// Forget drops a cached group so the next read fetches it again.
func (t *Table) Forget(group string) {
	delete(t.groups, group)
}

func (t *Table) resolve(ctx context.Context, field string) (any, error) {
	if v, ok := t.values[field]; ok && v != nil {
		return v, nil
	}

	b, ok := t.bindings[field]
	if !ok {
		return nil, nil
	}

	if b.Resolve != nil {
		v, err := b.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		// A nil result is retried on the next read.
		if v != nil && !b.Property {
			t.values[field] = v
		}
		return v, nil
	}

	group, ok := t.groups[b.Group]
	if !ok {
		if t.load == nil {
			return nil, ErrUnbound
		}
		var err error
		group, err = t.load(ctx, b.Group)
		if err != nil {
			return nil, err
		}
		if group == nil {
			group = Values{}
		}
		t.groups[b.Group] = group
	}
	return group[field], nil
}

// Get returns field as a T, resolving it first if needed. A field that stays
// unresolved yields T's zero value.
func Get[T any](ctx context.Context, t *Table, field string) (T, error) {
	var zero T
	v, err := t.resolve(ctx, field)
	if err != nil || v == nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("lazy: field %q holds %T, not %T", field, v, zero)
	}
	return typed, nil
}
