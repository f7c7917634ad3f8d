package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whispersubs/internal/asr"
	"whispersubs/internal/pipeline"
)

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

// blockPath puts a non-empty directory where a file is expected, so that
// renaming onto it fails.
func blockPath(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(path, "x"), 0o755))
}

func TestOutputs_CommitAll(t *testing.T) {
	dir := t.TempDir()
	var files outputs
	defer files.discard()
	files.add(filepath.Join(dir, "a.txt"), []byte("a"))
	files.addYAML(filepath.Join(dir, "b.yaml"), map[string]int{"n": 1})
	files.addJSON(filepath.Join(dir, "c.json"), []int{1, 2})

	require.NoError(t, files.commit())
	assert.ElementsMatch(t, []string{"a.txt", "b.yaml", "c.json"}, dirNames(t, dir))

	data, err := os.ReadFile(filepath.Join(dir, "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "n: 1\n", string(data))
}

func TestOutputs_FailedRenameRollsBack(t *testing.T) {
	dir := t.TempDir()
	blockPath(t, filepath.Join(dir, "c.txt"))

	var files outputs
	files.add(filepath.Join(dir, "a.txt"), []byte("a"))
	files.add(filepath.Join(dir, "b.txt"), []byte("b"))
	files.add(filepath.Join(dir, "c.txt"), []byte("c"))
	require.Error(t, files.commit())
	files.discard()

	assert.Equal(t, []string{"c.txt"}, dirNames(t, dir))
}

func TestOutputs_StagingErrorSkipsCommit(t *testing.T) {
	dir := t.TempDir()
	var files outputs
	files.add(filepath.Join(dir, "a.txt"), []byte("a"))
	files.addJSON(filepath.Join(dir, "bad.json"), func() {})
	files.add(filepath.Join(dir, "c.txt"), []byte("c"))

	require.Error(t, files.commit())
	files.discard()
	assert.Empty(t, dirNames(t, dir))
}

func TestRun_FailedItemLeavesNoOutputs(t *testing.T) {
	inputs, cfg := fixture(t)
	outDir := t.TempDir()
	blockPath(t, filepath.Join(outDir, "good.report.yaml"))

	sum, err := Run(context.Background(), Options{
		Inputs:    inputs[:1],
		OutDir:    outDir,
		Format:    pipeline.FormatSRT,
		Engine:    asr.EngineFaster,
		Captions:  true,
		Sentences: true,
		Jobs:      1,
		Config:    cfg,
	})
	require.Error(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 0, sum.Captions)
	assert.Equal(t, 0, sum.Ledger.Len())
	assert.Empty(t, sum.LedgerOut)
	assert.Equal(t, []string{"good.report.yaml"}, dirNames(t, outDir))
}
