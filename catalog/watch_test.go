package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stations.geojson")
	require.NoError(t, os.WriteFile(path, []byte(ottawaCatalog), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var latest atomic.Pointer[Catalog]
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Catalog) { latest.Store(c) })
	}()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)

	updated := collection(
		pointFeature(`"CLIMATE_IDENTIFIER":"A"`, -70, 50),
		pointFeature(`"CLIMATE_IDENTIFIER":"B"`, -71, 51),
	)
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	require.Eventually(t, func() bool {
		c := latest.Load()
		return c != nil && c.Len() == 2
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatch_IgnoresBrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stations.geojson")
	require.NoError(t, os.WriteFile(path, []byte(ottawaCatalog), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var reloads atomic.Int32
	go func() {
		_ = Watch(ctx, path, func(c *Catalog) { reloads.Add(1) })
	}()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	<-ctx.Done()

	assert.Equal(t, int32(0), reloads.Load())
}
