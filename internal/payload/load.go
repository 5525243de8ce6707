package payload

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"finorbit/internal/log"
)

var extensions = []string{".json", ".yaml", ".yml"}

// LoadDir reads every page document in dir. The page name is the file name
// without its extension; documents are parsed concurrently and any
// malformed document fails the whole load.
func LoadDir(ctx context.Context, dir string, logger *log.Logger) (map[string]Bundle, error) {
	logger = logger.WithComponent(log.ComponentPayload)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read payload dir: %w", err)
	}

	var (
		mu      sync.Mutex
		bundles = make(map[string]Bundle)
		sources = make(map[string]string)
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !isDocument(ext) {
			continue
		}
		page := strings.TrimSuffix(name, filepath.Ext(name))
		path := filepath.Join(dir, name)

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			b, err := LoadFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if prev, dup := sources[page]; dup {
				return fmt.Errorf("page %q defined by both %s and %s", page, filepath.Base(prev), name)
			}
			sources[page] = path
			bundles[page] = b
			logger.Debug("payload loaded",
				log.FieldPage, page,
				log.FieldOperation, log.OpLoad,
				"ids", len(b),
				log.FieldDuration, time.Since(start).Milliseconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("payload documents loaded", "dir", dir, "pages", len(bundles))
	return bundles, nil
}

func isDocument(ext string) bool {
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFile reads one document. YAML documents are converted to JSON blobs.
func LoadFile(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var b Bundle
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err = ParseYAML(data)
	default:
		b, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return b, nil
}

// ParseJSON parses a JSON object document.
func ParseJSON(data []byte) (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformedPayload)
	}
	return b, nil
}

// ParseYAML parses a YAML mapping document.
func ParseYAML(data []byte) (Bundle, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is not a mapping", ErrMalformedPayload)
	}
	b := make(Bundle, len(doc))
	for id, v := range doc {
		raw, err := json.Marshal(normalize(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, id, err)
		}
		b[id] = raw
	}
	return b, nil
}

// normalize turns YAML-only values into JSON-compatible ones.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = normalize(inner)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[fmt.Sprint(k)] = normalize(inner)
		}
		return m
	case []any:
		for i, inner := range t {
			t[i] = normalize(inner)
		}
		return t
	case time.Time:
		if t.Equal(t.Truncate(24 * time.Hour)) {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
