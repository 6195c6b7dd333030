package typeface

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultURL is the helvetiker regular typeface shipped with the three.js examples.
const DefaultURL = "https://threejs.org/examples/fonts/helvetiker_regular.typeface.json"

// Source produces a Font.
type Source interface {
	Load(ctx context.Context) (*Font, error)
	String() string
}

// HTTPSource fetches a typeface JSON document. There is no retry.
type HTTPSource struct {
	URL    string
	Client *http.Client // Defaults to http.DefaultClient
}

// Load performs a single GET of the configured URL.
func (s HTTPSource) Load(ctx context.Context) (*Font, error) {
	url := s.URL
	if url == "" {
		url = DefaultURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch font: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch font: unexpected status %d from %s", resp.StatusCode, url)
	}
	return Parse(resp.Body)
}

func (s HTTPSource) String() string {
	if s.URL == "" {
		return DefaultURL
	}
	return s.URL
}

// FileSource reads a typeface JSON file or a .ttf/.otf font from disk.
type FileSource struct {
	Path string
}

// Load reads and decodes the file, picking the format from its extension.
func (s FileSource) Load(ctx context.Context) (*Font, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".ttf", ".otf":
		return FromSFNT(data, DefaultCharset)
	case ".json":
		return Parse(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("read font: unsupported format %q (use .json, .ttf or .otf)", filepath.Ext(s.Path))
	}
}

func (s FileSource) String() string { return s.Path }

// BuiltinSource yields the embedded Go Regular font.
type BuiltinSource struct{}

func (BuiltinSource) Load(ctx context.Context) (*Font, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Builtin()
}

func (BuiltinSource) String() string { return "builtin:goregular" }

// FallbackSource tries Primary and, if it fails for any reason other than
// cancellation, Secondary. OnFallback is called with the primary error.
type FallbackSource struct {
	Primary    Source
	Secondary  Source
	OnFallback func(err error)
}

func (s FallbackSource) Load(ctx context.Context) (*Font, error) {
	f, err := s.Primary.Load(ctx)
	if err == nil {
		return f, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if s.OnFallback != nil {
		s.OnFallback(err)
	}
	f, ferr := s.Secondary.Load(ctx)
	if ferr != nil {
		return nil, fmt.Errorf("%w (fallback %s: %v)", err, s.Secondary, ferr)
	}
	return f, nil
}

func (s FallbackSource) String() string {
	return s.Primary.String() + " or " + s.Secondary.String()
}
