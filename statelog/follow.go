package statelog

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PollInterval is how often Follow checks the file when fsnotify is unavailable.
var PollInterval = 100 * time.Millisecond

// Follow tails the log at path and sends each newly completed line.
// With fromStart the lines already in the file are sent first.
// A file that does not exist yet is picked up once it is created.
// The channel is closed when ctx is cancelled.
func Follow(ctx context.Context, path string, fromStart bool) <-chan string {
	ch := make(chan string, 16)

	go func() {
		defer close(ch)

		t := &tail{path: path, out: ch}
		defer t.close()
		t.open(fromStart)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			t.poll(ctx)
			return
		}
		defer watcher.Close()

		// The directory survives the file being recreated.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			t.poll(ctx)
			return
		}

		t.watch(ctx, watcher)
	}()

	return ch
}

// tail tracks the read position in one log file.
type tail struct {
	path    string
	out     chan<- string
	file    *os.File
	reader  *bufio.Reader
	offset  int64
	partial []byte
}

// open opens the file if it is not open yet. Unless fromStart is set the
// read position starts at the current end of file.
func (t *tail) open(fromStart bool) bool {
	if t.file != nil {
		return true
	}
	f, err := os.Open(t.path)
	if err != nil {
		return false
	}
	t.file = f
	t.offset = 0
	t.partial = nil
	if !fromStart {
		if end, err := f.Seek(0, io.SeekEnd); err == nil {
			t.offset = end
		}
	}
	t.reader = bufio.NewReader(f)
	return true
}

func (t *tail) close() {
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
}

func (t *tail) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	base := filepath.Base(t.path)

	// Catch anything written before the watch was registered.
	if !t.drain(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				t.close()
				continue
			case event.Has(fsnotify.Create):
				t.close()
			case !event.Has(fsnotify.Write):
				continue
			}

			if t.open(true) && !t.drain(ctx) {
				return
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (t *tail) poll(ctx context.Context) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		if t.open(true) && !t.drain(ctx) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// drain sends every complete line available and reports false once ctx is done.
func (t *tail) drain(ctx context.Context) bool {
	if t.file == nil {
		return ctx.Err() == nil
	}

	// Truncated: start over from the top.
	if info, err := t.file.Stat(); err == nil && info.Size() < t.offset {
		if _, err := t.file.Seek(0, io.SeekStart); err == nil {
			t.offset = 0
			t.partial = nil
			t.reader.Reset(t.file)
		}
	}

	for {
		chunk, err := t.reader.ReadBytes('\n')
		if len(chunk) > 0 {
			t.offset += int64(len(chunk))
			if chunk[len(chunk)-1] != '\n' {
				t.partial = append(t.partial, chunk...)
			} else {
				line := string(append(t.partial, chunk[:len(chunk)-1]...))
				t.partial = nil
				select {
				case t.out <- line:
				case <-ctx.Done():
					return false
				}
			}
		}
		if err != nil {
			return ctx.Err() == nil
		}
	}
}
