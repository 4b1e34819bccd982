package assets

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge/api/schemas"
)

func TestResolve_InlineData(t *testing.T) {
	payload := []byte("png-bytes-here")
	src := schemas.ImageSource{
		Kind: schemas.ImageSourceData,
		Data: base64.StdEncoding.EncodeToString(payload),
	}

	r := NewResolver("")
	asset, err := r.Resolve(src)
	require.NoError(t, err)
	assert.Equal(t, payload, asset.Bytes)
	assert.NotEmpty(t, asset.ID)

	got, ok := r.Get(asset.ID)
	require.True(t, ok)
	assert.Same(t, asset, got)
}

func TestResolve_DataURLPrefix(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	src := schemas.ImageSource{
		Kind: schemas.ImageSourceData,
		Data: "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload),
	}

	asset, err := NewResolver("").Resolve(src)
	require.NoError(t, err)
	assert.Equal(t, payload, asset.Bytes)
}

func TestResolve_PathRelativeToBaseDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte("logo"), 0o600))

	r := NewResolver(dir)
	asset, err := r.Resolve(schemas.ImageSource{Kind: schemas.ImageSourcePath, Path: "logo.png"})
	require.NoError(t, err)
	assert.Equal(t, []byte("logo"), asset.Bytes)
}

func TestResolve_SameSourceSharesAsset(t *testing.T) {
	src := schemas.ImageSource{
		Kind: schemas.ImageSourceData,
		Data: base64.StdEncoding.EncodeToString([]byte("shared")),
	}
	r := NewResolver("")

	const workers = 8
	assets := make([]*Asset, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			asset, err := r.Resolve(src)
			assert.NoError(t, err)
			assets[i] = asset
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, assets[0], assets[i])
	}
}

func TestResolve_Failures(t *testing.T) {
	r := NewResolver(t.TempDir())

	_, err := r.Resolve(schemas.ImageSource{Kind: schemas.ImageSourceData, Data: "%%%not-base64%%%"})
	assert.Error(t, err)

	_, err = r.Resolve(schemas.ImageSource{Kind: schemas.ImageSourcePath, Path: "missing.png"})
	assert.Error(t, err)

	_, err = r.Resolve(schemas.ImageSource{Kind: schemas.ImageSourcePath, Path: "https://example.com/x.png"})
	assert.Error(t, err)

	_, err = r.Resolve(schemas.ImageSource{Kind: "ftp"})
	assert.Error(t, err)

	_, ok := r.Get("nope")
	assert.False(t, ok)
}
