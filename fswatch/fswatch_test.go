package fswatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zoobzio/rxz"
	rxztest "github.com/zoobzio/rxz/testing"
)

const configPath = "/etc/app/config.yaml"

func writeConfig(t *testing.T, fs afero.Fs, contents string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, configPath, []byte(contents), 0o644))
}

func texts(rec *rxztest.Recorder[[]byte]) []string {
	var out []string
	for _, v := range rec.Values() {
		out = append(out, string(v))
	}
	return out
}

func TestContents(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "v1")
	events := rxz.NewSubject[fsnotify.Event]()

	rec, d := rxztest.Record(Contents(fs, configPath, events.Observable))
	defer d.Dispose()

	assert.Equal(t, []string{"v1"}, texts(rec))

	writeConfig(t, fs, "v2")
	events.Push(fsnotify.Event{Name: configPath, Op: fsnotify.Write})
	assert.Equal(t, []string{"v1", "v2"}, texts(rec))

	// Events for other files and other operations are ignored.
	writeConfig(t, fs, "v3")
	events.Push(fsnotify.Event{Name: "/etc/app/other.yaml", Op: fsnotify.Write})
	events.Push(fsnotify.Event{Name: configPath, Op: fsnotify.Chmod})
	assert.Equal(t, []string{"v1", "v2"}, texts(rec))

	events.Push(fsnotify.Event{Name: "/etc/app/./config.yaml", Op: fsnotify.Create})
	assert.Equal(t, []string{"v1", "v2", "v3"}, texts(rec))

	// Rewrites with identical contents are not emitted.
	writeConfig(t, fs, "v3")
	events.Push(fsnotify.Event{Name: configPath, Op: fsnotify.Write})
	assert.Equal(t, []string{"v1", "v2", "v3"}, texts(rec))
	rxztest.AssertNotTerminated(t, rec)
}

func TestContentsWatchesBeforeReading(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "v1")

	// The file changes the moment the watch is in place, before the watcher
	// reports anything.
	events := rxz.Create(func(rxz.Sink[fsnotify.Event]) func() {
		writeConfig(t, fs, "v2")
		return nil
	})

	rec, d := rxztest.Record(Contents(fs, configPath, events))
	defer d.Dispose()

	assert.Equal(t, []string{"v2"}, texts(rec))
	rxztest.AssertNotTerminated(t, rec)
}

func TestContentsReadError(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "v1")
	events := rxz.NewSubject[fsnotify.Event]()

	rec, d := rxztest.Record(Contents(fs, configPath, events.Observable))
	defer d.Dispose()

	require.NoError(t, fs.Remove(configPath))
	events.Push(fsnotify.Event{Name: configPath, Op: fsnotify.Write})

	assert.Equal(t, []string{"v1"}, texts(rec))
	rxztest.AssertErrorIs(t, rec, os.ErrNotExist)
	assert.Equal(t, 0, events.Len())
}

func TestContentsMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	rec, d := rxztest.Record(Contents(fs, configPath, rxz.Never[fsnotify.Event]()))
	defer d.Dispose()

	rxztest.AssertErrorIs(t, rec, os.ErrNotExist)
	assert.Contains(t, rec.Err().Error(), "fswatch: read")
}

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	rec, d := rxztest.Record(Watch(dir))

	target := filepath.Join(dir, "created.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o600))

	require.Eventually(t, func() bool {
		for _, ev := range rec.Values() {
			if ev.Name == target {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	d.Dispose()
	rxztest.AssertNotTerminated(t, rec)
}

func TestWatchMissingPath(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	missing := filepath.Join(t.TempDir(), "missing")
	rec, d := rxztest.Record(Watch(missing))
	defer d.Dispose()

	require.Error(t, rec.Err())
	assert.Contains(t, rec.Err().Error(), "fswatch: watch")
	assert.Equal(t, 1, rec.Terminations())
}

func TestFile(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

	rec, d := rxztest.Record(File(path))
	assert.Equal(t, []string{`{"a":1}`}, texts(rec))

	require.NoError(t, os.WriteFile(path, []byte(`{"a":2}`), 0o600))
	require.Eventually(t, func() bool {
		got := texts(rec)
		return len(got) > 0 && got[len(got)-1] == `{"a":2}`
	}, 5*time.Second, 10*time.Millisecond)

	d.Dispose()
}
