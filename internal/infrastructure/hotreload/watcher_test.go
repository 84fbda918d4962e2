package hotreload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alchemorsel/recipebook/internal/application/catalog"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/flatfile"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	errors []error
}

func (o *recordingObserver) ReloadCompleted(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors = append(o.errors, err)
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.errors)
}

func (o *recordingObserver) last() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errors[len(o.errors)-1]
}

type failingReloader struct{}

func (failingReloader) Reload(context.Context) (*inbound.LoadReport, error) {
	return nil, errors.New("disk on fire")
}

func startWatcher(t *testing.T, path string, reloader Reloader, observer ReloadObserver) *CatalogWatcher {
	t.Helper()

	w, err := NewCatalogWatcher(path, reloader, testutils.NewTestLogger(t),
		WithDebounceDelay(20*time.Millisecond),
		WithObserver(observer),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return w
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := testutils.TempCatalogFile(t, "Omelette,2,egg,cheese,320,Breakfast")
	logger := testutils.NewTestLogger(t)

	svc := catalog.NewService(flatfile.NewStore(path, logger), logger)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	observer := &recordingObserver{}
	startWatcher(t, path, svc, observer)

	appendLine(t, path, "Tomato Soup,2,tomato,onion,150,Soup")

	testutils.Eventually(t, func() bool { return svc.Len() == 2 }, 2*time.Second)
	_, found := svc.FindByName("Tomato Soup")
	assert.True(t, found)
	assert.NoError(t, observer.last())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	path := testutils.TempCatalogFile(t, "Omelette,2,egg,cheese,320,Breakfast")
	logger := testutils.NewTestLogger(t)

	svc := catalog.NewService(flatfile.NewStore(path, logger), logger)
	observer := &recordingObserver{}
	startWatcher(t, path, svc, observer)

	other := filepath.Join(filepath.Dir(path), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("not a catalog\n"), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, observer.count())
	assert.Zero(t, svc.Len())
}

func TestWatcherDebouncesBursts(t *testing.T) {
	path := testutils.TempCatalogFile(t)
	logger := testutils.NewTestLogger(t)

	svc := catalog.NewService(flatfile.NewStore(path, logger), logger)
	observer := &recordingObserver{}

	w, err := NewCatalogWatcher(path, svc, logger,
		WithDebounceDelay(200*time.Millisecond),
		WithObserver(observer),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)
	defer w.Close()

	for i := 0; i < 5; i++ {
		appendLine(t, path, "Toast,1,bread,90,Breakfast")
	}

	testutils.Eventually(t, func() bool { return observer.count() >= 1 }, 2*time.Second)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, observer.count())
	assert.Equal(t, 5, svc.Len())
}

func TestWatcherReportsReloadFailure(t *testing.T) {
	path := testutils.TempCatalogFile(t)
	observer := &recordingObserver{}
	startWatcher(t, path, failingReloader{}, observer)

	appendLine(t, path, "Toast,1,bread,90,Breakfast")

	testutils.Eventually(t, func() bool { return observer.count() >= 1 }, 2*time.Second)
	assert.EqualError(t, observer.last(), "disk on fire")
}

func TestNewCatalogWatcherMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "recipes.txt")

	_, err := NewCatalogWatcher(path, failingReloader{}, testutils.NewTestLogger(t))
	assert.Error(t, err)
}

func TestCloseStopsRun(t *testing.T) {
	path := testutils.TempCatalogFile(t)

	w, err := NewCatalogWatcher(path, failingReloader{}, testutils.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	require.NoError(t, w.Close())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}
