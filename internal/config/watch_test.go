package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor drains events until match returns true. A single save can surface
// as several writes, the first of which may see a truncated file.
func waitFor(t *testing.T, w *Watcher, match func(Event) bool) Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-w.Events:
			if match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("no matching reload event")
			return Event{}
		}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	withHome(t)
	require.NoError(t, (&Config{APIKey: "k"}).Save())

	w, err := NewWatcher(Path())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	w.Start()

	require.NoError(t, (&Config{APIKey: "k", RequestManager: true}).Save())

	ev := waitFor(t, w, func(ev Event) bool { return ev.Err == nil })
	assert.True(t, ev.Config.RequestManager)
}

func TestWatcherReportsBrokenConfig(t *testing.T) {
	withHome(t)
	require.NoError(t, (&Config{APIKey: "k"}).Save())

	w, err := NewWatcher(Path())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	w.Start()

	require.NoError(t, os.WriteFile(Path(), []byte("api_key: \"\"\n"), 0600))

	ev := waitFor(t, w, func(ev Event) bool { return ev.Err != nil })
	assert.Nil(t, ev.Config)
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	withHome(t)
	require.NoError(t, (&Config{APIKey: "k"}).Save())

	w, err := NewWatcher(Path())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	w.Start()

	require.NoError(t, os.WriteFile(Path()+".bak", []byte("x"), 0600))

	select {
	case ev := <-w.Events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher("/nonexistent/dir/config")
	assert.Error(t, err)
}
