// Package assets resolves image source descriptors into bytes. Sources are
// local only: inline base64 data or files on disk. Remote fetching is out of
// scope for the engine and rejected outright.
package assets

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/observability"
)

// Asset is one resolved image: stable registry ID plus raw bytes.
type Asset struct {
	ID     string
	Bytes  []byte
	Source schemas.ImageSource
}

// Resolver loads image bytes and keeps a registry of everything it resolved,
// so repeated references to the same source share one asset. Safe for
// concurrent use.
type Resolver struct {
	baseDir string
	log     *zap.Logger

	mu       sync.Mutex
	bySource map[string]*Asset
	byID     map[string]*Asset
}

// NewResolver creates a resolver. Relative paths resolve against baseDir;
// empty means the working directory.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{
		baseDir:  baseDir,
		log:      observability.GetLogger().Named("assets"),
		bySource: make(map[string]*Asset),
		byID:     make(map[string]*Asset),
	}
}

// Resolve turns a source descriptor into a registered asset. Resolving the
// same descriptor again returns the already-registered asset.
func (r *Resolver) Resolve(src schemas.ImageSource) (*Asset, error) {
	key := sourceKey(src)

	r.mu.Lock()
	if asset, ok := r.bySource[key]; ok {
		r.mu.Unlock()
		return asset, nil
	}
	r.mu.Unlock()

	data, err := r.loadBytes(src)
	if err != nil {
		return nil, err
	}

	asset := &Asset{ID: uuid.NewString(), Bytes: data, Source: src}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have resolved the same source in the meantime.
	if existing, ok := r.bySource[key]; ok {
		return existing, nil
	}
	r.bySource[key] = asset
	r.byID[asset.ID] = asset
	r.log.Debug("registered asset",
		zap.String("id", asset.ID),
		zap.String("kind", string(src.Kind)),
		zap.Int("bytes", len(data)))
	return asset, nil
}

// Get returns a previously resolved asset by registry ID.
func (r *Resolver) Get(id string) (*Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	asset, ok := r.byID[id]
	return asset, ok
}

func (r *Resolver) loadBytes(src schemas.ImageSource) ([]byte, error) {
	switch src.Kind {
	case schemas.ImageSourceData:
		payload := src.Data
		// Tolerate data-URL style prefixes.
		if idx := strings.Index(payload, "base64,"); idx >= 0 {
			payload = payload[idx+len("base64,"):]
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding inline image data: %w", err)
		}
		return data, nil

	case schemas.ImageSourcePath:
		path := src.Path
		if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
			return nil, fmt.Errorf("remote image sources are not supported: %s", path)
		}
		if !filepath.IsAbs(path) && r.baseDir != "" {
			path = filepath.Join(r.baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading image file: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unknown image source kind %q", src.Kind)
}

func sourceKey(src schemas.ImageSource) string {
	if src.Kind == schemas.ImageSourceData {
		return "data:" + src.Data
	}
	return "path:" + src.Path
}
