package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// MPVPlayer plays tracks with mpv and controls the running instance over its
// JSON IPC socket. Volume and pause requests made before mpv has opened the
// socket are kept and pushed once it appears.
type MPVPlayer struct {
	path string
	dir  string

	mu      sync.Mutex
	socket  string
	volume  int
	paused  bool
	pending bool
}

// NewMPVPlayer returns a player backed by the mpv binary at path
func NewMPVPlayer(path string) *MPVPlayer {
	return &MPVPlayer{path: path, dir: os.TempDir()}
}

// Play implements Player
func (p *MPVPlayer) Play(ctx context.Context, track string, volume int) error {
	socket := filepath.Join(p.dir, fmt.Sprintf("grind-mpv-%s.sock", uuid.NewString()))
	cmd := exec.CommandContext(ctx, p.path,
		"--no-video",
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--volume=%d", volume),
		"--input-ipc-server="+socket,
		track,
	)

	p.mu.Lock()
	p.socket = socket
	p.volume = volume
	p.paused = false
	p.pending = false
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		if p.socket == socket {
			p.socket = ""
			p.pending = false
		}
		p.mu.Unlock()
		os.Remove(socket)
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := waitForSocket(watchCtx, socket, 5*time.Second); err == nil {
			p.flush(socket)
		}
	}()

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("mpv %s: %w", track, err)
	}
	return nil
}

// SetVolume implements Player
func (p *MPVPlayer) SetVolume(volume int) error {
	p.mu.Lock()
	p.volume = volume
	p.mu.Unlock()
	return p.sync()
}

// SetPaused implements Player
func (p *MPVPlayer) SetPaused(paused bool) error {
	p.mu.Lock()
	p.paused = paused
	p.mu.Unlock()
	return p.sync()
}

// sync pushes the requested state, or marks it pending while the socket is
// not there yet
func (p *MPVPlayer) sync() error {
	p.mu.Lock()
	socket, volume, paused := p.socket, p.volume, p.paused
	if socket == "" {
		p.mu.Unlock()
		return nil
	}
	if _, err := os.Stat(socket); err != nil {
		p.pending = true
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	if err := send(socket, "set_property", "volume", volume); err != nil {
		return err
	}
	return send(socket, "set_property", "pause", paused)
}

// flush pushes state requested before socket existed
func (p *MPVPlayer) flush(socket string) {
	p.mu.Lock()
	run := p.pending && p.socket == socket
	p.pending = false
	p.mu.Unlock()
	if run {
		_ = p.sync()
	}
}

func send(socket string, args ...any) error {
	conn, err := net.DialTimeout("unix", socket, 200*time.Millisecond)
	if err != nil {
		return fmt.Errorf("connecting to mpv: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(map[string]any{"command": args})
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("writing to mpv: %w", err)
	}
	return nil
}

// waitForSocket blocks until path exists, watching its directory
func waitForSocket(ctx context.Context, path string, timeout time.Duration) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch directory %s: %w", filepath.Dir(path), err)
	}
	// created between the first check and Add
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	name := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("timeout waiting for %s", name)
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if filepath.Base(event.Name) == name && event.Has(fsnotify.Create) {
				return nil
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
		}
	}
}

// NullPlayer pretends to play: each track lasts until cancelled
type NullPlayer struct{}

// Play implements Player
func (NullPlayer) Play(ctx context.Context, _ string, _ int) error {
	<-ctx.Done()
	return ctx.Err()
}

// SetVolume implements Player
func (NullPlayer) SetVolume(int) error { return nil }

// SetPaused implements Player
func (NullPlayer) SetPaused(bool) error { return nil }

// Detect returns a player for the configured backend. "auto" uses mpv when it
// is on PATH; anything else unavailable returns nil, which makes a channel inert.
func Detect(backend string) Player {
	switch backend {
	case "none", "off":
		return nil
	case "null":
		return NullPlayer{}
	default:
		path, err := exec.LookPath("mpv")
		if err != nil {
			return nil
		}
		return NewMPVPlayer(path)
	}
}
