package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherReportsSpecAndScriptEdits(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := NewWatcherWithDebounce(10*time.Millisecond, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agent.yaml"), []byte("name: a\n"), 0o644))

	got := waitChange(t, w, SpecChanged)
	assert.Equal(t, filepath.Join(dir, "agent.yaml"), got.Path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cost.tengo"), []byte("x := 1"), 0o644))
	got = waitChange(t, w, ScriptChanged)
	assert.Equal(t, filepath.Join(dir, "cost.tengo"), got.Path)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")
	for c := range w.Events {
		assert.NotEqual(t, filepath.Join(dir, "notes.txt"), c.Path)
	}
}

func TestWatcherMissingDir(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

// waitChange skips changes of other kinds, such as the write that follows a
// create.
func waitChange(t *testing.T, w *Watcher, kind ChangeKind) Change {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-w.Events:
			if filepath.Ext(c.Path) == ".txt" {
				t.Fatalf("unexpected change for %s", c.Path)
			}
			if c.Kind == kind {
				return c
			}
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-timeout:
			t.Fatalf("timed out waiting for change")
		}
	}
}
