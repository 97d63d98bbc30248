package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileCache keeps event ids in a JSON file shaped date -> team -> id
type FileCache struct {
	path string

	mu     sync.Mutex
	loaded bool
	data   map[string]map[string]string
}

// NewFileCache creates a file backed cache. The file is created on first Put.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (c *FileCache) Get(_ context.Context, date, team string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return "", false, err
	}
	id, ok := c.data[date][team]
	return id, ok, nil
}

func (c *FileCache) Put(_ context.Context, date, team, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.load(); err != nil {
		return err
	}
	if c.data[date] == nil {
		c.data[date] = make(map[string]string)
	}
	c.data[date][team] = eventID
	return c.flush()
}

func (c *FileCache) load() error {
	if c.loaded {
		return nil
	}
	c.data = make(map[string]map[string]string)

	b, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		c.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read event cache: %w", err)
	}
	if len(bytes.TrimSpace(b)) > 0 {
		if err := json.Unmarshal(b, &c.data); err != nil {
			return fmt.Errorf("failed to parse event cache %s: %w", c.path, err)
		}
	}
	c.loaded = true
	return nil
}

func (c *FileCache) flush() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create event cache dir: %w", err)
	}

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.data); err != nil {
		return fmt.Errorf("failed to encode event cache: %w", err)
	}
	return os.WriteFile(c.path, buf.Bytes(), 0o644)
}
