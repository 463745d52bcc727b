package main

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/andewx/glgpu"
)

type reloadKind int

const (
	reloadConfig reloadKind = iota
	reloadShader
)

func (k reloadKind) String() string {
	if k == reloadShader {
		return "shader"
	}
	return "config"
}

// reloader reports writes to the config and shader files. The parent directories are
// watched so editors that replace files by rename are seen too. Bursts of events for
// one file collapse into a single pending reload.
type reloader struct {
	watcher *fsnotify.Watcher
	targets map[string]reloadKind
	events  chan reloadKind
	done    chan struct{}
}

// newReloader watches the non-empty paths of files. It returns nil when there is
// nothing to watch.
func newReloader(files map[reloadKind]string) (*reloader, error) {
	r := &reloader{
		targets: map[string]reloadKind{},
		events:  make(chan reloadKind, 2),
		done:    make(chan struct{}),
	}
	dirs := map[string]bool{}
	for kind, path := range files {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		r.targets[abs] = kind
		dirs[filepath.Dir(abs)] = true
	}
	if len(r.targets) == 0 {
		return nil, nil
	}

	var err error
	r.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for dir := range dirs {
		if err := r.watcher.Add(dir); err != nil {
			r.watcher.Close()
			return nil, err
		}
	}
	go r.watch()
	return r, nil
}

func (r *reloader) watch() {
	for {
		select {
		case <-r.done:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			kind, ok := r.targets[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			glgpu.Log().Debugf("testbed: %s changed (%s)", event.Name, event.Op)
			r.pending(kind)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			glgpu.Log().Warnf("testbed: file watcher: %v", err)
		}
	}
}

// pending queues kind unless a reload of that kind is already waiting.
func (r *reloader) pending(kind reloadKind) {
	for _, queued := range r.drain() {
		if queued != kind {
			r.events <- queued
		}
	}
	r.events <- kind
}

func (r *reloader) drain() []reloadKind {
	var queued []reloadKind
	for {
		select {
		case k := <-r.events:
			queued = append(queued, k)
		default:
			return queued
		}
	}
}

// Poll returns the reloads requested since the last call without blocking.
func (r *reloader) Poll() []reloadKind {
	if r == nil {
		return nil
	}
	return r.drain()
}

func (r *reloader) Close() error {
	if r == nil {
		return nil
	}
	close(r.done)
	return r.watcher.Close()
}
