package ranks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaxsfr/internal/taxon"
)

func TestParseList(t *testing.T) {
	cases := []struct {
		in   string
		want taxon.RankSchema
	}{
		{"D,K,P,C,O,F,G,S", taxon.RankSchema{"D", "K", "P", "C", "O", "F", "G", "S"}},
		{" r1, p ,P,,g", taxon.RankSchema{"R1", "P", "G"}},
		{`["P","S"]`, taxon.RankSchema{"P", "S"}},
	}
	for _, c := range cases {
		got, err := ParseList(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseListErrors(t *testing.T) {
	for _, in := range []string{"", " , ", `["P"`, "[]"} {
		_, err := ParseList(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, taxon.ErrFormat), "%q: %v", in, err)
	}
}

func TestNormalizerGating(t *testing.T) {
	n := New(taxon.RankSchema{"P", "S"})

	assert.True(t, n.Emits("P", 2))
	assert.False(t, n.Emits("P", 0), "root never emitted")
	assert.False(t, n.Emits("G", 3), "rank outside schema")
	assert.False(t, n.Emits("-", 3), "unranked")
	assert.False(t, n.Tracks("-"))
}

func TestDisplayName(t *testing.T) {
	n := New(taxon.RankSchema{"P", "U", "R1"})
	assert.Equal(t, "p_Firmicutes", n.DisplayName("P", "Firmicutes"))
	assert.Equal(t, "r1_Bacteria", n.DisplayName("R1", "Bacteria"))
	assert.Equal(t, "unclassified", n.DisplayName("U", "unclassified"))
}
