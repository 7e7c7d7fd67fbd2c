package entity

import (
	"slices"
	"strings"
)

// Canonical record keys supplied by the dissector.
const (
	KeyTime        = "time"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyProtocol    = "protocol"
	KeyLength      = "length"
	KeyInfo        = "info"
	KeySummary     = "summary"
)

// Field is a named record value.
type Field struct {
	Name  string
	Value Value
}

// Record is a read-only packet record: an ordered mapping of field name to value.
// Canonical keys sit alongside free-form extension keys.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord creates a record from fields, keeping their order.
// A repeated name replaces the earlier value in place.
func NewRecord(fields ...Field) Record {
	rec := Record{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, fld := range fields {
		if idx, ok := rec.index[fld.Name]; ok {
			rec.fields[idx].Value = fld.Value
			continue
		}
		rec.index[fld.Name] = len(rec.fields)
		rec.fields = append(rec.fields, fld)
	}
	return rec
}

// Get returns the value stored under name.
// An exact key match wins, otherwise keys are compared case-insensitively.
func (rec Record) Get(name string) (val Value, ok bool) {
	if idx, found := rec.index[name]; found {
		return rec.fields[idx].Value, true
	}
	for _, fld := range rec.fields {
		if strings.EqualFold(fld.Name, name) {
			return fld.Value, true
		}
	}
	return
}

// Has reports whether a field is present.
func (rec Record) Has(name string) bool {
	_, ok := rec.Get(name)
	return ok
}

// Fields returns a copy of the record's fields in order.
func (rec Record) Fields() []Field {
	return slices.Clone(rec.fields)
}

// Len returns the number of fields.
func (rec Record) Len() int {
	return len(rec.fields)
}

// Searchable flattens every value into one space separated string,
// suitable as the fallback haystack for bare text predicates.
func (rec Record) Searchable() string {
	parts := make([]string, 0, len(rec.fields))
	for _, fld := range rec.fields {
		if str := fld.Value.String(); str != "" {
			parts = append(parts, str)
		}
	}
	return strings.Join(parts, " ")
}
