// Package alias maps the field names accepted in display filters to record keys.
package alias

import (
	"strings"

	"github.com/pkg/errors"
)

// Group is a canonical field and the names it may be referred to by.
// The canonical name is expected to be among Aliases; declaration order
// is the order record keys are probed in.
type Group struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

// Entry is a single alias with its canonical field.
type Entry struct {
	Alias     string
	Canonical string
}

// Table is a static, case-insensitive alias lookup.
type Table struct {
	groups  []Group
	entries []Entry
	byAlias map[string]int
}

// DefaultGroups are the fields of dissected packet records.
var DefaultGroups = []Group{
	{Canonical: "src", Aliases: []string{"src", "source"}},
	{Canonical: "dst", Aliases: []string{"dst", "destination"}},
	{Canonical: "protocol", Aliases: []string{"protocol", "proto"}},
	{Canonical: "time", Aliases: []string{"time", "timestamp"}},
	{Canonical: "length", Aliases: []string{"length", "len", "size"}},
	{Canonical: "info", Aliases: []string{"info", "summary"}},
}

// Default is the alias table for dissected packet records.
var Default = MustNew(DefaultGroups...)

// New creates a table from groups.
// Every alias must belong to exactly one group.
func New(groups ...Group) (tbl *Table, err error) {

	tbl = &Table{
		byAlias: map[string]int{},
	}

	for idx, grp := range groups {
		if grp.Canonical == "" || len(grp.Aliases) == 0 {
			err = errors.Errorf("alias group %d is missing a canonical name or aliases", idx)
			return nil, err
		}

		norm := Group{Canonical: strings.ToLower(grp.Canonical)}
		for _, name := range grp.Aliases {
			name = strings.ToLower(name)
			if prev, ok := tbl.byAlias[name]; ok {
				owner := norm.Canonical
				if prev < len(tbl.groups) {
					owner = tbl.groups[prev].Canonical
				}
				err = errors.Errorf("alias %q claimed by both %q and %q", name, owner, norm.Canonical)
				return nil, err
			}
			tbl.byAlias[name] = idx
			norm.Aliases = append(norm.Aliases, name)
			tbl.entries = append(tbl.entries, Entry{Alias: name, Canonical: norm.Canonical})
		}
		tbl.groups = append(tbl.groups, norm)
	}

	return
}

// MustNew is New that panics on a malformed table.
func MustNew(groups ...Group) *Table {
	tbl, err := New(groups...)
	if err != nil {
		panic(err)
	}
	return tbl
}

// Resolve returns the record keys to probe for a field name, in declaration order.
func (tbl *Table) Resolve(name string) (keys []string, ok bool) {
	idx, ok := tbl.byAlias[strings.ToLower(name)]
	if !ok {
		return
	}
	keys = append(keys, tbl.groups[idx].Aliases...)
	return
}

// Canonical returns the canonical field for an alias.
func (tbl *Table) Canonical(name string) (string, bool) {
	idx, ok := tbl.byAlias[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return tbl.groups[idx].Canonical, true
}

// IsAlias reports whether name is a known alias.
func (tbl *Table) IsAlias(name string) bool {
	_, ok := tbl.byAlias[strings.ToLower(name)]
	return ok
}

// HasPrefix reports whether any alias starts with prefix.
// An empty prefix never matches.
func (tbl *Table) HasPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	prefix = strings.ToLower(prefix)
	for _, ent := range tbl.entries {
		if strings.HasPrefix(ent.Alias, prefix) {
			return true
		}
	}
	return false
}

// Entries returns every alias in declaration order.
func (tbl *Table) Entries() []Entry {
	return append([]Entry(nil), tbl.entries...)
}
