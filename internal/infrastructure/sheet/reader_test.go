package sheet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_RaggedRowsAndBOM(t *testing.T) {
	t.Parallel()

	rows, err := Read(strings.NewReader("\ufeffRank,Player,Team\n1,Josh Allen,BUF\n2,\"Jackson, Lamar\"\n"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, []string{"2", "Jackson, Lamar"}, rows[2])
}

func TestReadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "QB.csv"), []byte("Rank,Player\n1,Josh Allen\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "WR.CSV"), []byte("Rank,Player\n1,Justin Jefferson\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("skip"), 0o644))

	sheets, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, sheets, 2)
	assert.Equal(t, "Josh Allen", sheets["QB"][1][1])
	assert.Contains(t, sheets, "WR")
}

func TestReadDir_Empty(t *testing.T) {
	t.Parallel()

	_, err := ReadDir(t.TempDir())
	require.Error(t, err)
}
