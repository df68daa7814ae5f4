// Package signal implements a generic signal collection core. A signal is a
// named scalar measurement about an entity; a collector runs a fixed set of
// signal definitions over every entity enumerated by a source and produces
// one record per entity, in enumeration order, suitable for tabular export.
package signal

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for the two failure kinds of a collection run.
var (
	// ErrSourceUnreachable indicates the entity source could not be
	// enumerated. Collection aborts with no partial output.
	ErrSourceUnreachable = errors.New("entity source unreachable")

	// ErrUnavailable indicates a single signal could not be computed for a
	// single entity. Extraction functions return it (possibly wrapped) to
	// mark the value missing without aborting the run.
	ErrUnavailable = errors.New("signal unavailable")
)

// Definition binds a signal name to its extraction function. Extract returns
// the observed value, or an error to mark the value missing for that entity.
type Definition[E any] struct {
	Name    string
	Extract func(e E) (any, error)
}

// Value is one observed cell of a record. A missing value carries no data.
type Value struct {
	Data    any
	Missing bool
}

// Record holds all signal values observed for one entity, in definition order.
type Record struct {
	Key    string
	Values []Value
}

// Table is an ordered sequence of records sharing one column set. Insertion
// order is enumeration order and is preserved on export.
type Table struct {
	Columns []string
	Records []Record
}

// Gap identifies one missing value: which entity, which signal, and why.
type Gap struct {
	EntityKey string
	Signal    string
	Err       error
}

// Diagnostics summarizes the missing values accumulated during one run.
type Diagnostics struct {
	MissingBySignal map[string]int
	Gaps            []Gap
}

// MissingTotal returns the total number of missing values across all signals.
func (d *Diagnostics) MissingTotal() int {
	total := 0
	for _, n := range d.MissingBySignal {
		total += n
	}
	return total
}

// Source enumerates the entities to observe.
type Source[E any] interface {
	// Ref identifies the source in errors and logs.
	Ref() string
	// Entities returns all entities in a stable order. Implementations
	// should wrap enumeration failures so callers can identify the source.
	Entities(ctx context.Context) ([]E, error)
}

// sliceSource adapts a pre-fetched entity slice to the Source interface.
type sliceSource[E any] struct {
	ref      string
	entities []E
}

// NewSliceSource returns a Source backed by an in-memory entity slice.
func NewSliceSource[E any](ref string, entities []E) Source[E] {
	return &sliceSource[E]{ref: ref, entities: entities}
}

func (s *sliceSource[E]) Ref() string { return s.ref }

func (s *sliceSource[E]) Entities(_ context.Context) ([]E, error) {
	return s.entities, nil
}

// Collector runs a validated set of signal definitions over entity sources.
// A Collector holds no per-run state; Collect calls are independent.
type Collector[E any] struct {
	key  func(E) string
	defs []Definition[E]
}

// NewCollector validates the definitions and returns a Collector. The key
// function derives the identifying key recorded for each entity. Definition
// names must be non-empty and unique.
func NewCollector[E any](key func(E) string, defs []Definition[E]) (*Collector[E], error) {
	if key == nil {
		return nil, errors.New("key function is required")
	}
	if len(defs) == 0 {
		return nil, errors.New("at least one signal definition is required")
	}

	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("signal definition has empty name")
		}
		if def.Extract == nil {
			return nil, fmt.Errorf("signal %q has nil extract function", def.Name)
		}
		if _, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("duplicate signal name %q", def.Name)
		}
		seen[def.Name] = struct{}{}
	}

	return &Collector[E]{key: key, defs: defs}, nil
}

// Columns returns the signal names in definition order.
func (c *Collector[E]) Columns() []string {
	cols := make([]string, len(c.defs))
	for i, def := range c.defs {
		cols[i] = def.Name
	}
	return cols
}

// Collect enumerates the source and produces one record per entity, in
// enumeration order. If the source cannot be enumerated, Collect returns an
// error wrapping ErrSourceUnreachable and no partial output. A failing
// extraction function marks that one value missing and is reported in the
// diagnostics; every other value is unaffected. Entities with duplicate keys
// each produce their own record.
func (c *Collector[E]) Collect(ctx context.Context, src Source[E]) (*Table, *Diagnostics, error) {
	entities, err := src.Entities(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerating %s: %w: %w", src.Ref(), ErrSourceUnreachable, err)
	}

	table := &Table{
		Columns: c.Columns(),
		Records: make([]Record, 0, len(entities)),
	}
	diag := &Diagnostics{MissingBySignal: make(map[string]int)}

	for _, entity := range entities {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		rec := Record{
			Key:    c.key(entity),
			Values: make([]Value, 0, len(c.defs)),
		}
		for _, def := range c.defs {
			v, err := def.Extract(entity)
			if err != nil {
				diag.MissingBySignal[def.Name]++
				diag.Gaps = append(diag.Gaps, Gap{EntityKey: rec.Key, Signal: def.Name, Err: err})
				rec.Values = append(rec.Values, Value{Missing: true})
				continue
			}
			rec.Values = append(rec.Values, Value{Data: v})
		}
		table.Records = append(table.Records, rec)
	}

	return table, diag, nil
}
