package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	p := Params{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultSize, p.Size)

	p = Params{Page: -3, Size: MaxSize + 50}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxSize, p.Size)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 4, TotalPages(100, 25))
}

func TestClampOutOfRangePage(t *testing.T) {
	assert.Equal(t, 1, Clamp(0, 50, 10))
	assert.Equal(t, 3, Clamp(3, 50, 10))
	assert.Equal(t, 5, Clamp(99, 50, 10))
}

func TestSliceReconstructsInput(t *testing.T) {
	items := make([]int, 0, 53)
	for i := 0; i < 53; i++ {
		items = append(items, i)
	}

	var rebuilt []int
	_, meta := Slice(items, Params{Page: 1, Size: 10})
	for page := 1; page <= meta.TotalPages; page++ {
		chunk, _ := Slice(items, Params{Page: page, Size: 10})
		rebuilt = append(rebuilt, chunk...)
	}

	require.Equal(t, items, rebuilt)
	assert.Equal(t, 6, meta.TotalPages)
	assert.Equal(t, 53, meta.TotalItems)
}

func TestSliceClampsInsteadOfErroring(t *testing.T) {
	items := []string{"a", "b", "c"}
	chunk, meta := Slice(items, Params{Page: 9, Size: 2})
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, []string{"c"}, chunk)
}

func TestSliceEmptyInput(t *testing.T) {
	chunk, meta := Slice([]int(nil), Params{Page: 4, Size: 10})
	assert.Empty(t, chunk)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 1, meta.TotalPages)
	assert.Equal(t, 0, meta.TotalItems)
}
