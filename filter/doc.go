// Package filter expresses boolean conditions over point payloads.
//
// A Filter combines three clause lists: every Must condition has to hold, at
// least one Should condition has to hold (when any are given), and no MustNot
// condition may hold. Conditions either compare a payload field with a value
// or nest another Filter. Filters evaluate in memory via Matches, or render
// to a SQLite WHERE fragment over a JSON payload column via SQL.
package filter
