// Package fswatch exposes file system notifications as rxz streams.
//
// Watch turns fsnotify events into a hot Observable; Contents follows a single
// file and emits its contents whenever it changes, reading through an
// afero.Fs so that tests can run against an in-memory file system.
package fswatch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/zoobzio/rxz"
)

// Watch returns a hot Observable of the file system events for paths. Each
// subscription owns an fsnotify watcher that is closed when the subscription
// is disposed. Failing to create the watcher or to add a path terminates the
// stream with that error; errors reported by a running watcher are logged and
// do not end the stream.
//
// Example:
//
//	events := fswatch.Watch("/etc/app")
//	d := events.Subscribe(func(ev fsnotify.Event) {
//		log.Printf("%s %s", ev.Op, ev.Name)
//	}, nil, nil)
//	defer d.Dispose()
func Watch(paths ...string) rxz.Observable[fsnotify.Event] {
	return rxz.New(rxz.Hot, rxz.SourceFunc[fsnotify.Event](func(ctx context.Context, sub rxz.Subscriber[fsnotify.Event]) rxz.Disposable {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			sub.OnError(errors.Wrap(err, "fswatch: create watcher"))
			return rxz.Disposed
		}
		for _, p := range paths {
			if err := w.Add(p); err != nil {
				w.Close()
				sub.OnError(errors.Wrapf(err, "fswatch: watch %s", p))
				return rxz.Disposed
			}
		}

		go forward(ctx, w, sub)
		return rxz.NewDisposable(func() {
			if err := w.Close(); err != nil {
				rxz.Logger().Warn("fswatch: close watcher", zap.Error(err))
			}
		})
	}))
}

func forward(ctx context.Context, w *fsnotify.Watcher, sub rxz.Subscriber[fsnotify.Event]) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			sub.OnValue(ev)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			rxz.Logger().Warn("fswatch: watcher error", zap.Error(err))
		}
	}
}

// Contents emits the contents of path, read through fs, once on subscription
// and again after every write or create event for path on events. events is
// subscribed before the first read, so a write landing in between is not
// missed. Reads run one at a time in event order. Rewrites that leave the
// contents unchanged are not emitted. A failed read terminates the stream with
// the read error.
//
// Example:
//
//	dir := filepath.Dir(configPath)
//	configs := fswatch.Contents(afero.NewOsFs(), configPath, fswatch.Watch(dir))
func Contents(fs afero.Fs, path string, events rxz.Observable[fsnotify.Event]) rxz.Observable[[]byte] {
	path = filepath.Clean(path)
	read := rxz.Defer(func() rxz.Observable[[]byte] {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return rxz.Throw[[]byte](errors.Wrapf(err, "fswatch: read %s", path))
		}
		return rxz.Just(data)
	})

	changes := rxz.Filter(events, func(ev fsnotify.Event) bool {
		return filepath.Clean(ev.Name) == path && ev.Op&(fsnotify.Write|fsnotify.Create) != 0
	})
	// Merge subscribes in order: the watch is live before the initial trigger.
	triggers := rxz.Merge(
		rxz.Map(changes, func(fsnotify.Event) struct{} { return struct{}{} }),
		rxz.Just(struct{}{}),
	)
	reads := rxz.FlatMap(triggers, func(struct{}) rxz.Observable[[]byte] {
		return read
	})

	return rxz.DistinctUntilChanged(reads, func(data []byte) string {
		return string(data)
	})
}

// File follows a file on the operating system's file system. It watches the
// parent directory, so atomic replacements by rename are seen as well.
func File(path string) rxz.Observable[[]byte] {
	return Contents(afero.NewOsFs(), path, Watch(filepath.Dir(path)))
}
