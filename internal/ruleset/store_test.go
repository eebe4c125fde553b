package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "rules.yaml"))
	require.NoError(t, err)

	rs, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, New(), rs)
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rules.yaml")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	rs := &RuleSet{Blocks: []Draft{
		{Title: "Podium", Mode: "range", Start: 1, End: 3, Prizes: "Or | Argent | Bronze"},
		{Title: "Meilleure féminine", Mode: "best", Gender: "f", RatingMax: intPtr(1600), Tournament: "abc"},
	}}
	rs.SetAllowMultiple("abc", false)

	require.NoError(t, store.Save(rs))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, rs, loaded)
}

func TestFileStore_LoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
allow_multiple_winners:
  abc: false
blocks:
  - title: Podium jeunes
    mode: range
    start: 1
    end: 3
    prizes: "1er | 2e | 3e"
    categories: [pou, pup]
  - title: Non classés
    mode: best
    unrated: anyUnrated
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	rs, err := store.Load()
	require.NoError(t, err)

	require.Len(t, rs.Blocks, 2)
	assert.Equal(t, []string{"pou", "pup"}, rs.Blocks[0].Categories)
	assert.Equal(t, "anyUnrated", rs.Blocks[1].Unrated)
	assert.False(t, rs.Policy().AllowMultiple("abc"))

	blocks := rs.Awards()
	assert.Equal(t, []string{"1er", "2e", "3e"}, blocks[0].PrizeLabels)
}

func TestFileStore_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blocks: [unclosed"), 0644))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	assert.Error(t, err)
}

func TestNewFileStore_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	store, err := NewFileStore("~/palmares/rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "palmares", "rules.yaml"), store.Path())
}
