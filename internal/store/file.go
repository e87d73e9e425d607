package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"argshell/pkg/argtypes"
)

const fileExt = ".yaml"

// FileStore keeps each application's definitions in <dir>/<app>.yaml under a
// top-level "types" mapping, the same layout definition files use.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

type fileDocument struct {
	Types yaml.Node `yaml:"types"`
}

// NewFileStore opens dir, creating it when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(app string) (string, error) {
	if app == "" || strings.ContainsAny(app, `/\`) || app == "." || app == ".." {
		return "", fmt.Errorf("file store: invalid application name %q", app)
	}
	return filepath.Join(f.dir, app+fileExt), nil
}

func (f *FileStore) Load(_ context.Context, app string) ([]Definition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(app)
}

func (f *FileStore) read(app string) ([]Definition, error) {
	path, err := f.path(app)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("file store: %s: %w", path, err)
	}
	if doc.Types.Kind == 0 {
		return nil, nil
	}
	if doc.Types.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("file store: %s: types must be a mapping", path)
	}

	defs := make([]Definition, 0, len(doc.Types.Content)/2)
	for i := 0; i+1 < len(doc.Types.Content); i += 2 {
		suffix := doc.Types.Content[i].Value
		cfg, err := argtypes.ConfigMapFromYAML(doc.Types.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("file store: %s: type %q: %w", path, suffix, err)
		}
		defs = append(defs, Definition{Suffix: suffix, Config: cfg})
	}
	sortDefinitions(defs)
	return defs, nil
}

func (f *FileStore) write(app string, defs []Definition) error {
	path, err := f.path(app)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file store: %w", err)
		}
		return nil
	}

	sortDefinitions(defs)
	types := yaml.Node{Kind: yaml.MappingNode}
	for _, def := range defs {
		var value yaml.Node
		if err := value.Encode(def.Config); err != nil {
			return fmt.Errorf("file store: type %q: %w", def.Suffix, err)
		}
		types.Content = append(types.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: def.Suffix}, &value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fileDocument{Types: types}); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("file store: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}

func (f *FileStore) Save(_ context.Context, app string, defs []Definition) error {
	if err := validate(app, defs); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, err := f.read(app)
	if err != nil {
		return err
	}
	merged := make(map[string]Definition, len(existing)+len(defs))
	for _, def := range existing {
		merged[def.Suffix] = def
	}
	for _, def := range defs {
		merged[def.Suffix] = def
	}
	out := make([]Definition, 0, len(merged))
	for _, def := range merged {
		out = append(out, def)
	}
	return f.write(app, out)
}

func (f *FileStore) Delete(_ context.Context, app, suffix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, err := f.read(app)
	if err != nil {
		return err
	}
	kept := existing[:0]
	for _, def := range existing {
		if def.Suffix != suffix {
			kept = append(kept, def)
		}
	}
	if len(kept) == len(existing) {
		return nil
	}
	return f.write(app, kept)
}

func (f *FileStore) Apps(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

func (f *FileStore) Close() error { return nil }
