package filter

import (
	"errors"
	"fmt"
	"strings"
)

// CityKey is the payload field holding a point's city.
const CityKey = "city"

// ErrEmptyKey is returned by Validate for a field condition without a key.
var ErrEmptyKey = errors.New("filter: condition key is empty")

// Condition is either a field match (Key == Match) or a nested Filter.
type Condition struct {
	Key    string
	Match  string
	Filter *Filter
}

// Filter is a boolean combination of conditions. The zero value and nil
// match everything.
type Filter struct {
	Must    []Condition
	Should  []Condition
	MustNot []Condition
}

// Field returns a condition matching payload[key] == value.
func Field(key, value string) Condition { return Condition{Key: key, Match: value} }

// City returns a condition matching the city payload field.
func City(name string) Condition { return Field(CityKey, name) }

// Nested wraps f as a condition.
func Nested(f *Filter) Condition { return Condition{Filter: f} }

// InCities returns a filter matching any of the given cities. With no
// cities it matches everything.
func InCities(cities ...string) *Filter {
	f := &Filter{}
	for _, c := range cities {
		f.Should = append(f.Should, City(c))
	}
	return f
}

// IsEmpty reports whether f places no constraint.
func (f *Filter) IsEmpty() bool {
	return f == nil || (len(f.Must) == 0 && len(f.Should) == 0 && len(f.MustNot) == 0)
}

// Validate checks that every field condition names a key.
func (f *Filter) Validate() error {
	if f == nil {
		return nil
	}
	for _, list := range [][]Condition{f.Must, f.Should, f.MustNot} {
		for _, c := range list {
			if c.Filter != nil {
				if err := c.Filter.Validate(); err != nil {
					return err
				}
				continue
			}
			if c.Key == "" {
				return ErrEmptyKey
			}
		}
	}
	return nil
}

// Matches evaluates f against payload.
func (f *Filter) Matches(payload map[string]string) bool {
	if f.IsEmpty() {
		return true
	}
	for _, c := range f.Must {
		if !c.matches(payload) {
			return false
		}
	}
	if len(f.Should) > 0 {
		matched := false
		for _, c := range f.Should {
			if c.matches(payload) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, c := range f.MustNot {
		if c.matches(payload) {
			return false
		}
	}
	return true
}

func (c Condition) matches(payload map[string]string) bool {
	if c.Filter != nil {
		return c.Filter.Matches(payload)
	}
	v, ok := payload[c.Key]
	return ok && v == c.Match
}

// SQL renders f as a WHERE fragment over column, a TEXT column holding a
// JSON object payload. Keys and values are bound as arguments.
func (f *Filter) SQL(column string) (string, []any) {
	if f.IsEmpty() {
		return "1=1", nil
	}
	var parts []string
	var args []any
	for _, c := range f.Must {
		s, a := c.sql(column)
		parts = append(parts, s)
		args = append(args, a...)
	}
	if len(f.Should) > 0 {
		var alts []string
		for _, c := range f.Should {
			s, a := c.sql(column)
			alts = append(alts, s)
			args = append(args, a...)
		}
		parts = append(parts, "("+strings.Join(alts, " OR ")+")")
	}
	for _, c := range f.MustNot {
		s, a := c.sql(column)
		parts = append(parts, "NOT "+s)
		args = append(args, a...)
	}
	return strings.Join(parts, " AND "), args
}

func (c Condition) sql(column string) (string, []any) {
	if c.Filter != nil {
		s, a := c.Filter.SQL(column)
		return "(" + s + ")", a
	}
	// IFNULL keeps NOT over a missing field true, as in Matches.
	return fmt.Sprintf("IFNULL(json_extract(%s, ?) = ?, 0)", column), []any{"$." + c.Key, c.Match}
}
