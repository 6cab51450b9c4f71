package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaxsfr/internal/summary"
	"metaxsfr/internal/taxon"
)

func TestDefaultPresets(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"gtdb", "ncbi"}, c.Names())

	s, err := c.Schema("NCBI")
	require.NoError(t, err)
	assert.Equal(t, taxon.RankSchema{"D", "K", "P", "C", "O", "F", "G", "S"}, s)

	d, err := c.Dictionary("gtdb")
	require.NoError(t, err)
	assert.Equal(t, summary.Entry{Label: "bacterial", ID: "3"}, d[2])
	assert.Equal(t, `{"unclassified":"0","human":"NA","bacterial":"3","viral":"NA","fungal":"NA","archaeal":"2"}`, d.JSON())

	_, err = c.Schema("silva")
	assert.Error(t, err)
	assert.Equal(t, 0.01, c.Threshold())
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metaxsfr.yaml")
	content := `databases:
  gtdb:
    ranks: [R1, P, G]
    taxids:
      - {label: bacterial, id: "3"}
  silva:
    ranks: [D, P]
min_abundance: 0.5
end_marker: "@@END@@"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gtdb", "ncbi", "silva"}, c.Names())

	s, err := c.Schema("gtdb")
	require.NoError(t, err)
	assert.Equal(t, taxon.RankSchema{"R1", "P", "G"}, s)
	assert.Equal(t, 0.5, c.Threshold())
	assert.Equal(t, "@@METAXSFR@@INPUT@@START@@", c.StartMarker)
	assert.Equal(t, "@@END@@", c.EndMarker)
}

func TestLoadRejectsEmptyRanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("databases:\n  x:\n    ranks: []\n"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, taxon.ErrFormat)
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Len(t, c.Databases, 2)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	c := Default()

	sel, err := c.Select("ncbi", "", "", math.NaN())
	require.NoError(t, err)
	assert.Len(t, sel.Schema, 8)
	assert.Len(t, sel.Dictionary, 6)
	assert.Equal(t, 0.01, sel.Threshold)

	sel, err = c.Select("unknown", `{"bacterial":"2"}`, "D,P", 1)
	require.NoError(t, err)
	assert.Equal(t, taxon.RankSchema{"D", "P"}, sel.Schema)
	assert.Equal(t, summary.Dictionary{{Label: "bacterial", ID: "2"}}, sel.Dictionary)
	assert.Equal(t, 1.0, sel.Threshold)

	_, err = c.Select("unknown", "", "D", 1)
	assert.Error(t, err)

	_, err = c.Select("ncbi", `["not","an","object"]`, "", 1)
	assert.ErrorIs(t, err, taxon.ErrFormat)
}
