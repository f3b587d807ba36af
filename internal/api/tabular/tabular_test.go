package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickColumn(t *testing.T) {
	t.Run("priority order on exact matches", func(t *testing.T) {
		header := []string{"id", "poi_id", "PoI_ID"}
		idx, ok := PickColumn(header, "PoI_ID", "poi_id", "id")
		require.True(t, ok)
		assert.Equal(t, 2, idx)
	})

	t.Run("case-insensitive fallback", func(t *testing.T) {
		header := []string{"NAME", "LATITUDE"}
		idx, ok := PickColumn(header, "latitude", "lat")
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("normalised fallback", func(t *testing.T) {
		header := []string{"Transport  Mode", "Type A"}
		idx, ok := PickColumn(header, "transport-mode")
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	})

	t.Run("exact beats case-insensitive for a later candidate", func(t *testing.T) {
		header := []string{"Latitude", "lat"}
		idx, ok := PickColumn(header, "latitude", "lat")
		require.True(t, ok)
		assert.Equal(t, 1, idx, "exact match on the second candidate is tried before case folding")
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := PickColumn([]string{"a", "b"}, "c")
		assert.False(t, ok)
	})

	t.Run("non-ascii headers do not collide when normalised", func(t *testing.T) {
		header := []string{"PoI_ID", "施設名", "緯度", "経度"}
		_, ok := PickColumn(header, "Category", "category", "カテゴリ")
		assert.False(t, ok)

		idx, ok := PickColumn(header, "経度")
		require.True(t, ok)
		assert.Equal(t, 3, idx)
	})

	t.Run("separator-only headers never match", func(t *testing.T) {
		_, ok := PickColumn([]string{"--", "##"}, "#", "__")
		assert.False(t, ok)
	})
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "transport_mode", NormalizeHeader(" Transport  Mode "))
	assert.Equal(t, "poi_id", NormalizeHeader("PoI-ID"))
	assert.Equal(t, "_", NormalizeHeader("カテゴリ"))
}

func TestParse(t *testing.T) {
	content := "\xEF\xBB\xBFname,lat\nA,1.5\nB\n"
	tbl, err := Parse(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "lat"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "1.5", Cell(tbl.Rows[0], 1))
	assert.Equal(t, "", Cell(tbl.Rows[1], 1), "short rows read as empty cells")
	assert.Equal(t, "", Cell(tbl.Rows[0], -1))
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(dir, "poi.csv")
	require.NoError(t, os.WriteFile(path, []byte("PoI_ID,name\n1,Temple\n"), 0o644))
	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, tbl.Path)

	col, ok := tbl.Column("poi_id")
	require.True(t, ok)
	assert.Equal(t, "1", Cell(tbl.Rows[0], col))
}
