package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deckforge/deckforge/api/schemas"
)

// LoadFile reads a deck from disk, picking the front-end by extension
// (.xml/.deckml for deckml, everything else JSON). Content sniffing breaks
// ties for extensionless files.
func LoadFile(path string) (*schemas.Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".deckml":
		return ParseXML(data)
	case ".json":
		return ParseJSON(data)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")) {
		return ParseXML(data)
	}
	return ParseJSON(data)
}
