// Package store persists custom argument type definitions per application so
// they survive restarts. Three backends are available: in-memory, a directory
// of YAML files and Redis.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"argshell/pkg/argtypes"
)

// ErrUnsupportedURL is returned by Open for an unknown store scheme.
var ErrUnsupportedURL = errors.New("unsupported store url")

// Definition is one persisted custom type: the suffix it is published under
// and the configuration it is built from.
type Definition struct {
	Suffix string
	Config *argtypes.ConfigMap
}

// Store keeps definitions grouped by application.
type Store interface {
	// Load returns the definitions of app ordered by suffix. An unknown
	// application has no definitions.
	Load(ctx context.Context, app string) ([]Definition, error)
	// Save inserts or replaces definitions of app by suffix.
	Save(ctx context.Context, app string, defs []Definition) error
	// Delete removes one definition. Deleting a missing suffix is not an error.
	Delete(ctx context.Context, app, suffix string) error
	// Apps lists the applications that have at least one definition.
	Apps(ctx context.Context) ([]string, error)
	Close() error
}

// Open returns the store addressed by url:
//
//	memory://                in-process, lost on exit
//	file:///path or /path    one YAML file per application in a directory
//	redis://, rediss://, redis-sentinel://, rediss-sentinel://
func Open(url string) (Store, error) {
	switch {
	case url == "" || strings.HasPrefix(url, "memory://"):
		return NewMemoryStore(), nil
	case strings.HasPrefix(url, "file://"):
		return NewFileStore(strings.TrimPrefix(url, "file://"))
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"),
		strings.HasPrefix(url, "redis-sentinel://"), strings.HasPrefix(url, "rediss-sentinel://"):
		return NewRedisStore(url)
	case strings.Contains(url, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, url)
	default:
		return NewFileStore(url)
	}
}

// clone copies a definition's configuration so callers cannot alias stored state.
func clone(def Definition) (Definition, error) {
	data, err := def.Config.MarshalJSON()
	if err != nil {
		return Definition{}, fmt.Errorf("definition %q: %w", def.Suffix, err)
	}
	cfg, err := argtypes.ParseConfigMap(data)
	if err != nil {
		return Definition{}, fmt.Errorf("definition %q: %w", def.Suffix, err)
	}
	return Definition{Suffix: def.Suffix, Config: cfg}, nil
}

func validate(app string, defs []Definition) error {
	if app == "" {
		return errors.New("application name is empty")
	}
	for _, def := range defs {
		if def.Suffix == "" {
			return fmt.Errorf("application %q: definition without suffix", app)
		}
		if def.Config == nil {
			return fmt.Errorf("definition %q: no configuration", def.Suffix)
		}
	}
	return nil
}

func sortDefinitions(defs []Definition) {
	sort.Slice(defs, func(i, j int) bool { return defs[i].Suffix < defs[j].Suffix })
}
