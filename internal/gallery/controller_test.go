package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/photogrid/internal/db"
	"github.com/vbonduro/photogrid/internal/domain"
	"github.com/vbonduro/photogrid/internal/persist"
	"github.com/vbonduro/photogrid/internal/store"
)

// stubDevice is a minimal Camera and MediaLibrary for tests.
type stubDevice struct {
	perm    domain.Permission
	permErr error
	result  domain.Result
	err     error
}

func granted(loc domain.Location) *stubDevice {
	return &stubDevice{perm: domain.PermissionGranted, result: domain.Result{Location: loc}}
}

func (s *stubDevice) RequestPermission(context.Context) (domain.Permission, error) {
	return s.perm, s.permErr
}

func (s *stubDevice) Capture(context.Context) (domain.Result, error) { return s.result, s.err }

func (s *stubDevice) Pick(context.Context) (domain.Result, error) { return s.result, s.err }

// recordingRepo keeps every saved snapshot. When gate is set, each Save blocks
// until the gate is closed. When started is set, Save signals it (without
// blocking) before waiting on the gate.
type recordingRepo struct {
	mu      sync.Mutex
	initial domain.Gallery
	saves   []domain.Gallery
	failN   int
	gate    chan struct{}
	started chan struct{}
	loads   int
}

func (r *recordingRepo) Load(context.Context) domain.Gallery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return r.initial.Clone()
}

func (r *recordingRepo) Save(_ context.Context, g domain.Gallery) error {
	select {
	case r.started <- struct{}{}:
	default:
	}
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failN > 0 {
		r.failN--
		return domain.ErrPersistenceWrite
	}
	r.saves = append(r.saves, g)
	return nil
}

func (r *recordingRepo) last() domain.Gallery {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return nil
	}
	return r.saves[len(r.saves)-1]
}

func (r *recordingRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func waitSaved(t *testing.T, c *Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx))
}

func TestControllerCaptureThenPickPersists(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	repo := persist.NewGalleryRepository(store.NewKVStore(d), slog.Default())
	c := New(repo, slog.Default())
	ctx := context.Background()

	c.Load(ctx)
	assert.Empty(t, c.Images())

	out := c.Capture(ctx, granted("A"))
	assert.Equal(t, domain.Location("A"), out.Added)
	assert.Nil(t, out.Notice)
	assert.Equal(t, domain.Gallery{"A"}, c.Images())

	out = c.Pick(ctx, granted("B"))
	assert.Equal(t, domain.Location("B"), out.Added)
	assert.Equal(t, domain.Gallery{"A", "B"}, c.Images())

	waitSaved(t, c)
	assert.Equal(t, domain.Gallery{"A", "B"}, repo.Load(ctx))

	restarted := New(repo, slog.Default())
	restarted.Load(ctx)
	assert.Equal(t, domain.Gallery{"A", "B"}, restarted.Images())
}

func TestControllerActionsKeepCompletionOrder(t *testing.T) {
	repo := &recordingRepo{}
	c := New(repo, slog.Default())
	ctx := context.Background()
	c.Load(ctx)

	var want domain.Gallery
	for i := 0; i < 10; i++ {
		loc := domain.Location(fmt.Sprintf("img-%d.jpg", i))
		want = append(want, loc)
		if i%2 == 0 {
			c.Capture(ctx, granted(loc))
		} else {
			c.Pick(ctx, granted(loc))
		}
	}

	assert.Len(t, c.Images(), 10)
	assert.Equal(t, want, c.Images())

	waitSaved(t, c)
	assert.Equal(t, want, repo.last())
}

func TestControllerLoadStartsFromStoredGallery(t *testing.T) {
	repo := &recordingRepo{initial: domain.Gallery{"old.jpg"}}
	c := New(repo, slog.Default())
	ctx := context.Background()

	c.Load(ctx)
	c.Load(ctx)
	assert.Equal(t, 1, repo.loads)

	c.Capture(ctx, granted("new.jpg"))
	assert.Equal(t, domain.Gallery{"old.jpg", "new.jpg"}, c.Images())
}

func TestControllerLateLoadDoesNotOverwrite(t *testing.T) {
	repo := &recordingRepo{initial: domain.Gallery{"stale.jpg"}}
	c := New(repo, slog.Default())
	ctx := context.Background()

	c.Capture(ctx, granted("fresh.jpg"))
	c.Load(ctx)

	assert.Equal(t, domain.Gallery{"fresh.jpg"}, c.Images())
	assert.Zero(t, repo.loads)
}

func TestControllerCameraPermissionDenied(t *testing.T) {
	repo := &recordingRepo{initial: domain.Gallery{"A"}}
	c := New(repo, slog.Default())
	ctx := context.Background()
	c.Load(ctx)

	cam := granted("never.jpg")
	cam.perm = domain.PermissionDenied
	out := c.Capture(ctx, cam)

	require.NotNil(t, out.Notice)
	assert.Equal(t, "Permission denied", out.Notice.Title)
	assert.Equal(t, "Camera access is required.", out.Notice.Message)
	assert.ErrorIs(t, out.Reason, domain.ErrPermissionDenied)
	assert.Empty(t, out.Added)
	assert.Equal(t, domain.Gallery{"A"}, c.Images())

	waitSaved(t, c)
	assert.Zero(t, repo.saveCount())
}

func TestControllerLibraryPermissionError(t *testing.T) {
	c := New(&recordingRepo{}, slog.Default())
	ctx := context.Background()

	lib := granted("never.jpg")
	lib.permErr = errors.New("prompt crashed")
	out := c.Pick(ctx, lib)

	require.NotNil(t, out.Notice)
	assert.Equal(t, "Media library access is required.", out.Notice.Message)
	assert.ErrorIs(t, out.Reason, domain.ErrPermissionDenied)
	assert.Empty(t, c.Images())
}

func TestControllerPickCancelled(t *testing.T) {
	repo := &recordingRepo{}
	c := New(repo, slog.Default())
	ctx := context.Background()

	lib := &stubDevice{perm: domain.PermissionGranted, result: domain.Result{Cancelled: true}}
	out := c.Pick(ctx, lib)

	require.NotNil(t, out.Notice)
	assert.Equal(t, "No image", out.Notice.Title)
	assert.Equal(t, "No image was selected.", out.Notice.Message)
	assert.ErrorIs(t, out.Reason, domain.ErrNoResult)
	assert.Empty(t, c.Images())

	waitSaved(t, c)
	assert.Zero(t, repo.saveCount())
}

func TestControllerCaptureWithoutLocation(t *testing.T) {
	c := New(&recordingRepo{}, slog.Default())

	out := c.Capture(context.Background(), granted(""))

	require.NotNil(t, out.Notice)
	assert.Equal(t, "No image was captured.", out.Notice.Message)
	assert.Empty(t, c.Images())
}

func TestControllerCaptureError(t *testing.T) {
	c := New(&recordingRepo{}, slog.Default())

	cam := granted("x.jpg")
	cam.err = errors.New("camera busy")
	out := c.Capture(context.Background(), cam)

	require.NotNil(t, out.Notice)
	assert.Equal(t, "No image was captured.", out.Notice.Message)
	assert.ErrorIs(t, out.Reason, domain.ErrNoResult)
	assert.ErrorContains(t, out.Reason, "camera busy")
	assert.Empty(t, c.Images())
}

func TestControllerSaveFailureKeepsMemoryAhead(t *testing.T) {
	repo := &recordingRepo{failN: 1}
	c := New(repo, slog.Default())
	ctx := context.Background()

	c.Capture(ctx, granted("A"))
	waitSaved(t, c)
	assert.Equal(t, domain.Gallery{"A"}, c.Images())
	assert.Zero(t, repo.saveCount())

	c.Capture(ctx, granted("B"))
	waitSaved(t, c)
	assert.Equal(t, domain.Gallery{"A", "B"}, repo.last())
}

func TestControllerSavesCoalesceToNewest(t *testing.T) {
	repo := &recordingRepo{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	c := New(repo, slog.Default())
	ctx := context.Background()

	c.Capture(ctx, granted("A"))
	select {
	case <-repo.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first save never started")
	}

	// The first save is now blocked on the gate; these queue behind it.
	c.Capture(ctx, granted("B"))
	c.Pick(ctx, granted("C"))
	close(repo.gate)

	waitSaved(t, c)
	assert.Equal(t, []domain.Gallery{{"A"}, {"A", "B", "C"}}, repo.saves)
}

func TestControllerOverlappingActionsLoseNothing(t *testing.T) {
	repo := &recordingRepo{}
	c := New(repo, slog.Default())
	ctx := context.Background()
	c.Load(ctx)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loc := domain.Location(fmt.Sprintf("img-%02d.jpg", i))
			if i%2 == 0 {
				c.Capture(ctx, granted(loc))
			} else {
				c.Pick(ctx, granted(loc))
			}
		}(i)
	}
	wg.Wait()

	images := c.Images()
	assert.Len(t, images, n)
	seen := make(map[domain.Location]bool, n)
	for _, loc := range images {
		seen[loc] = true
	}
	assert.Len(t, seen, n)

	waitSaved(t, c)
	assert.Equal(t, images, repo.last())
}

func TestControllerImagesIsACopy(t *testing.T) {
	c := New(&recordingRepo{}, slog.Default())
	c.Capture(context.Background(), granted("A"))

	images := c.Images()
	images[0] = "mutated"

	assert.Equal(t, domain.Gallery{"A"}, c.Images())
}

func TestControllerWaitHonoursContext(t *testing.T) {
	repo := &recordingRepo{gate: make(chan struct{})}
	c := New(repo, slog.Default())
	c.Capture(context.Background(), granted("A"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Wait(ctx), context.DeadlineExceeded)

	close(repo.gate)
	waitSaved(t, c)
	assert.Equal(t, domain.Gallery{"A"}, repo.last())
}
