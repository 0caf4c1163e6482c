package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/orderdoc/internal/types"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "A_B_C", SanitizeFilename("A:B*C", 0))
	assert.Equal(t, "a_b_c_d_e_f_g", SanitizeFilename(`a<b>c"d|e?f\g`, 0))
	assert.Equal(t, "x_y", SanitizeFilename("x/y", DefaultMaxNameLength))

	long := SanitizeFilename(strings.Repeat("가", 300), DefaultMaxNameLength)
	assert.Equal(t, 240, len([]rune(long)))
}

func TestSuggestFilename(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "250602_의자 세트_주문내역.txt", SuggestFilename(now, " 의자 세트 ", "주문내역"))
	assert.Equal(t, "250602_상품_카드영수증.txt", SuggestFilename(now, "", "카드영수증"))
}

func TestWriteResult(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	fm := NewFileManager(dir, 0)
	assert.Equal(t, DefaultMaxNameLength, fm.MaxNameLength)

	path, err := fm.WriteResult(types.ConversionResult{
		Document: "<html></html>",
		Filename: "250602_A/B_주문내역.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "250602_A_B_주문내역.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	_, err = fm.WriteResult(types.ConversionResult{Document: "x"})
	assert.Error(t, err)
}

func TestCopyToOutput(t *testing.T) {
	src := filepath.Join(t.TempDir(), "in.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	fm := NewFileManager(filepath.Join(t.TempDir(), "out"), 0)
	dst, err := fm.CopyToOutput(src, "howser_result_20250602_100000.xlsx")
	require.NoError(t, err)
	assert.True(t, FileExists(dst))
	assert.True(t, FileExists(src))

	_, err = fm.CopyToOutput(filepath.Join(t.TempDir(), "none.xlsx"), "x.xlsx")
	assert.Error(t, err)
}

func TestCleanOldResults(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.txt")
	fresh := filepath.Join(dir, "fresh.txt")
	require.NoError(t, os.WriteFile(old, []byte("o"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("f"), 0644))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	n, err := CleanOldResults(dir, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, FileExists(old))
	assert.True(t, FileExists(fresh))

	n, err = CleanOldResults(filepath.Join(dir, "missing"), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}
