package core

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// DefaultViewKey is the view that shows every property.
const DefaultViewKey = "all"

// ErrViewNotFound is returned when a view key is not registered.
var ErrViewNotFound = errors.New("view not found")

// ViewDefinition describes one table view over a job's build properties.
type ViewDefinition struct {
	Key     string // Unique identifier used in URLs: "versions"
	Title   string // Table title: "Component versions"
	Pattern string // Property name filter; empty selects all properties

	pattern *regexp.Regexp
}

// Regexp returns the compiled pattern, or nil when the view selects everything.
func (d ViewDefinition) Regexp() *regexp.Regexp {
	return d.pattern
}

var (
	registry   = make(map[string]ViewDefinition)
	registryMu sync.RWMutex
)

// Register adds a view definition to the registry.
// The pattern is compiled once here.
func Register(def ViewDefinition) error {
	if def.Key == "" {
		return fmt.Errorf("register view: empty key")
	}
	if def.Title == "" {
		def.Title = def.Key
	}
	p, err := ParsePattern(def.Pattern)
	if err != nil {
		return fmt.Errorf("register view %s: %w", def.Key, err)
	}
	def.pattern = p

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		return fmt.Errorf("view already registered: %s", def.Key)
	}
	registry[def.Key] = def
	return nil
}

// MustRegister is Register that panics on error.
func MustRegister(def ViewDefinition) {
	if err := Register(def); err != nil {
		panic(err)
	}
}

// Get returns a view definition by key.
// Returns false if not found.
func Get(key string) (ViewDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered views sorted by key.
func All() []ViewDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ViewDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// ViewCount returns the number of registered views.
func ViewCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered views.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]ViewDefinition)
}

// ParsePattern compiles a view pattern. An empty pattern yields nil.
func ParsePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}

// ParseView parses a "key|title|pattern" view spec. Title and pattern are
// optional; the title defaults to the key.
func ParseView(spec string) (ViewDefinition, error) {
	parts := strings.SplitN(spec, "|", 3)
	def := ViewDefinition{Key: strings.TrimSpace(parts[0])}
	if def.Key == "" {
		return ViewDefinition{}, fmt.Errorf("view %q: empty key", spec)
	}
	if len(parts) > 1 {
		def.Title = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		def.Pattern = parts[2]
	}
	if def.Title == "" {
		def.Title = def.Key
	}
	if _, err := ParsePattern(def.Pattern); err != nil {
		return ViewDefinition{}, fmt.Errorf("view %s: %w", def.Key, err)
	}
	return def, nil
}

// RegisterViews registers the default view followed by the given specs.
func RegisterViews(specs []string) error {
	if _, ok := Get(DefaultViewKey); !ok {
		if err := Register(ViewDefinition{Key: DefaultViewKey, Title: "All properties"}); err != nil {
			return err
		}
	}
	for _, spec := range specs {
		def, err := ParseView(spec)
		if err != nil {
			return err
		}
		if err := Register(def); err != nil {
			return err
		}
	}
	return nil
}
