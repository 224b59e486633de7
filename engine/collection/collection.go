// Package collection keeps the ordered list of member cards the viewer has
// collected, persisted to a small YAML file.
package collection

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-stage/engine/theme"
	"gopkg.in/yaml.v3"
)

var errUnknownMember = errors.New("unknown member")

type fileSpec struct {
	Collected []string `yaml:"collected"`
}

type collectionImpl struct {
	mu *sync.Mutex

	path    string
	names   []string
	allowed map[string]struct{}
}

// Collection is an ordered set of collected member names.
type Collection interface {
	// Collect adds a name. Names outside the roster are rejected. A new name
	// is written to disk immediately; write failures are logged and the
	// in-memory list keeps the name.
	//
	// Parameters:
	//   - name: the member name
	//
	// Returns:
	//   - bool: true when the name was not collected before
	//   - int: the number of collected names
	Collect(name string) (bool, int)

	// Has reports whether name is collected.
	Has(name string) bool

	// Names returns the collected names in collection order.
	Names() []string

	// Len returns the number of collected names.
	Len() int

	// Total returns the roster size.
	Total() int

	// Complete reports whether every roster member is collected.
	Complete() bool

	// Reset clears the collection and removes the file.
	//
	// Returns:
	//   - error: error if the file exists but cannot be removed
	Reset() error
}

var _ Collection = &collectionImpl{}

// Open loads the collection stored at path. A missing file yields an empty
// collection; "" keeps the collection in memory only.
//
// Parameters:
//   - path: the YAML file
//   - options: functional options to configure the collection
//
// Returns:
//   - Collection: the loaded collection
//   - error: error if the file exists but cannot be read or parsed
func Open(path string, options ...CollectionBuilderOption) (Collection, error) {
	c := &collectionImpl{
		mu:      &sync.Mutex{},
		path:    path,
		allowed: make(map[string]struct{}),
	}
	for _, m := range theme.Members() {
		c.allowed[m.Name] = struct{}{}
	}
	for _, option := range options {
		option(c)
	}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse collection %s: %w", path, err)
	}
	for _, name := range spec.Collected {
		if _, ok := c.allowed[name]; !ok {
			log.Printf("[Collection] dropping %q from %s: %v", name, path, errUnknownMember)
			continue
		}
		if !slices.Contains(c.names, name) {
			c.names = append(c.names, name)
		}
	}
	return c, nil
}

func (c *collectionImpl) Collect(name string) (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.allowed[name]; !ok {
		return false, len(c.names)
	}
	if slices.Contains(c.names, name) {
		return false, len(c.names)
	}
	c.names = append(c.names, name)
	if err := c.save(); err != nil {
		log.Printf("[Collection] save failed: %v", err)
	}
	return true, len(c.names)
}

func (c *collectionImpl) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.names, name)
}

func (c *collectionImpl) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.names)
}

func (c *collectionImpl) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.names)
}

func (c *collectionImpl) Total() int {
	return len(c.allowed)
}

func (c *collectionImpl) Complete() bool {
	return c.Len() == c.Total()
}

func (c *collectionImpl) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = nil
	if c.path == "" {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// save writes the list atomically through a temp file. Caller must hold the mutex.
func (c *collectionImpl) save() error {
	if c.path == "" {
		return nil
	}
	data, err := yaml.Marshal(fileSpec{Collected: c.names})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
