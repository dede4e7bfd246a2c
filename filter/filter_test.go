package filter

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vecfixture/engine"
)

func TestFilter_Matches(t *testing.T) {
	tokyo := map[string]string{"city": "Tokyo", "tier": "gold"}
	paris := map[string]string{"city": "Paris", "tier": "silver"}
	none := map[string]string{}

	tests := []struct {
		name    string
		filter  *Filter
		payload map[string]string
		want    bool
	}{
		{name: "nil filter", filter: nil, payload: tokyo, want: true},
		{name: "empty filter", filter: &Filter{}, payload: none, want: true},
		{name: "must hit", filter: &Filter{Must: []Condition{City("Tokyo")}}, payload: tokyo, want: true},
		{name: "must miss", filter: &Filter{Must: []Condition{City("Tokyo")}}, payload: paris, want: false},
		{name: "must all", filter: &Filter{Must: []Condition{City("Tokyo"), Field("tier", "silver")}}, payload: tokyo, want: false},
		{name: "should any", filter: InCities("Lima", "Paris"), payload: paris, want: true},
		{name: "should none", filter: InCities("Lima", "Paris"), payload: tokyo, want: false},
		{name: "should no cities", filter: InCities(), payload: tokyo, want: true},
		{name: "must not hit", filter: &Filter{MustNot: []Condition{City("Tokyo")}}, payload: tokyo, want: false},
		{name: "must not miss", filter: &Filter{MustNot: []Condition{City("Tokyo")}}, payload: paris, want: true},
		{name: "missing field", filter: &Filter{Must: []Condition{City("Tokyo")}}, payload: none, want: false},
		{name: "must not missing field", filter: &Filter{MustNot: []Condition{City("Tokyo")}}, payload: none, want: true},
		{
			name:    "nested",
			filter:  &Filter{Must: []Condition{Field("tier", "gold"), Nested(InCities("Tokyo", "Osaka"))}},
			payload: tokyo,
			want:    true,
		},
		{
			name:    "nested must not",
			filter:  &Filter{MustNot: []Condition{Nested(InCities("Tokyo", "Osaka"))}},
			payload: tokyo,
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.payload))
		})
	}
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, (*Filter)(nil).Validate())
	assert.NoError(t, InCities("Tokyo").Validate())

	bad := &Filter{Must: []Condition{Nested(&Filter{Should: []Condition{{Match: "x"}}})}}
	assert.ErrorIs(t, bad.Validate(), ErrEmptyKey)
}

func TestFilter_SQLEmpty(t *testing.T) {
	clause, args := (*Filter)(nil).SQL("meta")
	assert.Equal(t, "1=1", clause)
	assert.Empty(t, args)
}

// TestFilter_SQLMatchesInMemory checks that the SQL rendering selects the
// same rows as Matches.
func TestFilter_SQLMatchesInMemory(t *testing.T) {
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE p(id TEXT PRIMARY KEY, meta TEXT)`)
	require.NoError(t, err)

	payloads := map[string]map[string]string{
		"a": {"city": "Tokyo", "tier": "gold"},
		"b": {"city": "Paris", "tier": "gold"},
		"c": {"city": "Lima", "tier": "silver"},
		"d": {"tier": "silver"},
		"e": {"city": "Osaka"},
	}
	for id, p := range payloads {
		meta, err := json.Marshal(p)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO p(id, meta) VALUES(?, ?)`, id, string(meta))
		require.NoError(t, err)
	}

	filters := []*Filter{
		{Must: []Condition{City("Tokyo")}},
		InCities("Paris", "Lima"),
		{MustNot: []Condition{City("Tokyo")}},
		{Must: []Condition{Field("tier", "gold")}, MustNot: []Condition{City("Paris")}},
		{Should: []Condition{Nested(&Filter{Must: []Condition{Field("tier", "silver")}}), City("Osaka")}},
		{MustNot: []Condition{Nested(InCities("Tokyo", "Osaka"))}},
	}
	for i, f := range filters {
		clause, args := f.SQL("meta")
		rows, err := db.Query(`SELECT id FROM p WHERE `+clause, args...)
		require.NoError(t, err, "filter %d: %s", i, clause)
		var got []string
		for rows.Next() {
			var id string
			require.NoError(t, rows.Scan(&id))
			got = append(got, id)
		}
		require.NoError(t, rows.Err())
		rows.Close()

		var want []string
		for id, p := range payloads {
			if f.Matches(p) {
				want = append(want, id)
			}
		}
		sort.Strings(got)
		sort.Strings(want)
		assert.Equal(t, want, got, "filter %d: %s", i, clause)
	}
}
