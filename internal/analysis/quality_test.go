package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	ds := parse(t, "id,regiao,valor\n1,Sul,10\n2,Sul,\n3,Norte,30\n4,Sul,40\n")

	profiles := ds.Profile()
	require.Len(t, profiles, 3)

	id := profiles[0]
	assert.Equal(t, "id", id.Column)
	assert.Equal(t, KindNumeric, id.Kind)
	assert.Equal(t, 4, id.NonNullRows)
	assert.Equal(t, 4, id.DistinctCount)
	assert.InDelta(t, 2.0, id.Entropy, 1e-9)
	assert.True(t, id.IsKey)

	regiao := profiles[1]
	assert.Equal(t, 2, regiao.DistinctCount)
	assert.InDelta(t, 0.5, regiao.UniquenessRatio, 1e-9)
	assert.False(t, regiao.IsKey)

	valor := profiles[2]
	assert.Equal(t, 3, valor.NonNullRows)
	assert.InDelta(t, 0.25, valor.NullRate, 1e-9)
	assert.Less(t, valor.QualityScore, id.QualityScore)
	for _, p := range profiles {
		assert.GreaterOrEqual(t, p.QualityScore, 0.0)
		assert.LessOrEqual(t, p.QualityScore, 1.0)
	}
}

func TestProfileHeaderOnly(t *testing.T) {
	ds := parse(t, "a,b\n")

	profiles := ds.Profile()

	require.Len(t, profiles, 2)
	assert.Equal(t, ColumnProfile{Column: "a", Kind: KindUnknown}, profiles[0])
}
