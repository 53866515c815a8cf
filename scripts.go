package sqlmig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const scriptExt = ".sql"

// ScriptStore discovers and creates migration scripts in a single
// directory. File names follow {index}_{name}.sql with a non-negative
// base-10 index; files without the .sql extension are ignored.
type ScriptStore struct {
	dir      string
	randName func() string
}

func NewScriptStore(dir string) *ScriptStore {
	return &ScriptStore{
		dir:      dir,
		randName: shortRandomName,
	}
}

// Dir returns the migrations directory the store was built with.
func (s *ScriptStore) Dir() string {
	return s.dir
}

// List scans the migrations directory and returns every script sorted
// ascending by index. The directory is created when missing. A .sql
// file whose name does not start with an integer followed by an
// underscore fails the whole call; no partial results are returned.
// When two files share an index their relative order is unspecified.
func (s *ScriptStore) List() ([]Script, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var scripts []Script
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), scriptExt) {
			continue
		}

		fileName := entry.Name()
		prefix, rest, found := strings.Cut(fileName, "_")
		index, convErr := strconv.Atoi(prefix)
		if !found || convErr != nil || index < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNamingViolation, fileName)
		}

		scripts = append(scripts, Script{
			Index:    index,
			Name:     strings.TrimSuffix(rest, scriptExt),
			FileName: fileName,
		})
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Index < scripts[j].Index
	})

	return scripts, nil
}

// Read returns the full SQL text of a script.
func (s *ScriptStore) Read(script Script) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, script.FileName))
	if err != nil {
		return "", fmt.Errorf("read script %s: %w", script.FileName, err)
	}
	return string(data), nil
}

// Create writes an empty script at the next free index and returns its
// path. An empty name is replaced by a short random identifier.
func (s *ScriptStore) Create(name string) (string, error) {
	scripts, err := s.List()
	if err != nil {
		return "", err
	}

	next := 1
	if n := len(scripts); n > 0 {
		next = scripts[n-1].Index + 1
	}

	if name == "" {
		name = s.randName()
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%d_%s%s", next, name, scriptExt))
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		return "", fmt.Errorf("create script %s: %w", path, err)
	}
	return path, nil
}

func shortRandomName() string {
	return uuid.NewString()[:8]
}
