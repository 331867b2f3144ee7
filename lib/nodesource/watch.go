// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nodesource

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

const (
	// watchPollMillis bounds how long the loop waits in poll(2)
	// before rechecking for Close.
	watchPollMillis = 100

	// watchDebounce coalesces bursts of writes into one signal.
	watchDebounce = 50 * time.Millisecond
)

// Watcher signals when a snapshot file is rewritten.
type Watcher struct {
	events chan struct{}
	stop   chan struct{}
	done   chan struct{}
}

// Watch starts an inotify watch for path. The parent directory is
// watched, not the file, so collectors that write a temporary file
// and rename it over the snapshot are seen too.
func Watch(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, err
	}
	if _, err := unix.InotifyAddWatch(fd, filepath.Dir(absolutePath), unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO); err != nil {
		unix.Close(fd)
		return nil, err
	}

	watcher := &Watcher{
		events: make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go watcher.loop(fd, filepath.Base(absolutePath), logger)
	return watcher, nil
}

// Events delivers one value per (debounced) rewrite. Signals the
// receiver has not consumed yet are merged. The channel is closed
// when the watcher stops.
func (watcher *Watcher) Events() <-chan struct{} {
	return watcher.events
}

// Close stops the watcher and waits for it to release the inotify
// descriptor. Calling Close more than once is safe.
func (watcher *Watcher) Close() error {
	select {
	case <-watcher.stop:
	default:
		close(watcher.stop)
	}
	<-watcher.done
	return nil
}

func (watcher *Watcher) loop(fd int, filename string, logger *slog.Logger) {
	defer close(watcher.done)
	defer close(watcher.events)
	defer unix.Close(fd)

	buffer := make([]byte, 4096)
	for {
		select {
		case <-watcher.stop:
			return
		default:
		}

		descriptors := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		count, err := unix.Poll(descriptors, watchPollMillis)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			logger.Warn("snapshot watcher stopped", "error", err)
			return
		}
		if count == 0 {
			continue
		}

		bytesRead, err := unix.Read(fd, buffer)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			logger.Warn("snapshot watcher stopped", "error", err)
			return
		}
		if !eventsName(buffer[:bytesRead], filename) {
			continue
		}

		time.Sleep(watchDebounce)
		drainEvents(fd, buffer)

		select {
		case watcher.events <- struct{}{}:
		default:
		}
	}
}

// eventsName reports whether any inotify event in buffer names
// filename. Each event is a 16-byte header (wd, mask, cookie, len)
// followed by len bytes of NUL-padded name.
func eventsName(buffer []byte, filename string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}
		if nameLength > 0 {
			name := buffer[offset+unix.SizeofInotifyEvent : offset+eventSize]
			if end := bytes.IndexByte(name, 0); end >= 0 {
				name = name[:end]
			}
			if string(name) == filename {
				return true
			}
		}
		offset += eventSize
	}
	return false
}

// drainEvents discards queued events.
func drainEvents(fd int, buffer []byte) {
	for {
		if _, err := unix.Read(fd, buffer); err != nil {
			return
		}
	}
}
