package gallery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vbonduro/photogrid/internal/domain"
)

// saver writes gallery snapshots in the background, one at a time. A snapshot
// submitted while a write is in flight replaces any snapshot still waiting, so
// storage always converges on the newest one.
type saver struct {
	repo   repository
	logger *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	pending domain.Gallery
	dirty   bool
	running bool
	idle    chan struct{}
}

func newSaver(repo repository, logger *slog.Logger) *saver {
	idle := make(chan struct{})
	close(idle)
	return &saver{repo: repo, logger: logger, idle: idle}
}

func (s *saver) submit(ctx context.Context, g domain.Gallery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = context.WithoutCancel(ctx)
	s.pending = g
	s.dirty = true
	if s.running {
		return
	}
	s.running = true
	s.idle = make(chan struct{})
	go s.loop()
}

func (s *saver) loop() {
	for {
		s.mu.Lock()
		if !s.dirty {
			s.running = false
			close(s.idle)
			s.mu.Unlock()
			return
		}
		ctx, g := s.ctx, s.pending
		s.dirty = false
		s.mu.Unlock()

		// Failures are logged by the repository. There is no retry; the next
		// snapshot carries the whole gallery.
		if err := s.repo.Save(ctx, g); err == nil {
			s.logger.Debug("gallery snapshot persisted", "images", len(g))
		}
	}
}

func (s *saver) wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
