package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColors(t *testing.T) {
	t.Setenv("TERM", "xterm")
	t.Setenv("NO_COLOR", "")
	assert.False(t, ResolveColors(true), "NO_COLOR set, even empty, disables colors")
}

func TestResolveColors_DumbTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, ResolveColors(true))
}

func TestPrinter_Plain(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)

	p.Success("seeded %d points", 10)
	p.Info("db %s", "points.db")
	p.Warning("slow")
	p.Error("failed: %v", "boom")
	p.Header("Cities")

	assert.Equal(t, "[OK] seeded 10 points\ndb points.db\n\nCities\n", out.String())
	assert.Equal(t, "[WARN] slow\n[ERROR] failed: boom\n", errOut.String())
}

func TestTable_Render(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, nil, false)

	tbl := p.Table("City", "Points")
	tbl.AddRow("Tokyo", "12")
	tbl.AddRow("Lima", "7")
	assert.Equal(t, 2, tbl.Len())
	require.NoError(t, tbl.Render())

	s := out.String()
	assert.Contains(t, s, "CITY")
	assert.Contains(t, s, "POINTS")
	assert.Less(t, strings.Index(s, "Tokyo"), strings.Index(s, "Lima"))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "1,234,567", Count(1234567))
	assert.Equal(t, "0", Count(0))
	assert.Equal(t, "2.0 kB", Bytes(2000))
	assert.Equal(t, "0 B", Bytes(-5))
	assert.Equal(t, "500/s", Rate(1000, 2*time.Second))
	assert.Equal(t, "n/a", Rate(10, 0))
}
