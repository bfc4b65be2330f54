package state

import (
	"strings"
	"sync"
	"testing"

	"csv-analyzer/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, content string) *analysis.Dataset {
	t.Helper()
	ds, err := analysis.ParseCSV(strings.NewReader(content), "t.csv")
	require.NoError(t, err)
	return ds
}

func TestReplaceSwapsWholeDataset(t *testing.T) {
	s := NewAppState()
	assert.False(t, s.Loaded())
	assert.Nil(t, s.Dataset())

	first := mustParse(t, "a\n1\n")
	assert.Nil(t, s.Replace(first))
	assert.True(t, s.Loaded())
	assert.Same(t, first, s.Dataset())

	second := mustParse(t, "b,c\nx,2\n")
	assert.Same(t, first, s.Replace(second))
	assert.Same(t, second, s.Dataset())
	assert.Equal(t, []string{"b", "c"}, s.Dataset().ColumnNames())
}

func TestConcurrentReadersSeeWholeDatasets(t *testing.T) {
	s := NewAppState()
	a := mustParse(t, "a\n1\n")
	b := mustParse(t, "b\n2\n")
	s.Replace(a)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace(b)
		}()
		go func() {
			defer wg.Done()
			ds := s.Dataset()
			assert.True(t, ds == a || ds == b)
		}()
	}
	wg.Wait()
	assert.Same(t, b, s.Dataset())
}
