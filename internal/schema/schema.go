// Package schema implements the declarative request-validation engine: typed
// field kinds with required/nullable/format constraints, ordered schemas, and
// a pure Bind operation that turns a raw key-value payload into a validated
// record or a structured error.
package schema

// FieldDef names one field within a schema.
type FieldDef struct {
	Name  string
	Field Field
}

// Schema is an ordered set of named fields describing one request shape.
// Schemas are built once at start-up and are safe for unsynchronized
// concurrent reads.
type Schema []FieldDef

// Record holds the bound values of a successful Bind. Absent optional fields
// carry no entry, which is how callers tell "supplied" from "defaulted".
type Record struct {
	values map[string]any
}

// Present reports whether the named field was supplied and bound.
func (r Record) Present(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Value returns the bound value of the named field, or nil when absent.
func (r Record) Value(name string) any {
	return r.values[name]
}

// String returns the bound string value of the named field, or "" when absent.
func (r Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Bind validates raw against every field of the schema in declaration order
// and fails fast on the first invalid field, attributing the error to it.
// Binding is all-or-nothing: one invalid field voids the whole record. Bind
// never mutates the schema or the raw map.
func Bind(s Schema, raw map[string]any) (Record, error) {
	rec := Record{values: make(map[string]any, len(s))}
	for _, def := range s {
		bound, present, err := def.Field.Validate(raw[def.Name])
		if err != nil {
			err.Field = def.Name
			return Record{}, err
		}
		if present {
			rec.values[def.Name] = bound
		}
	}
	return rec, nil
}
