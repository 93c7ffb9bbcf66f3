package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/errors"
)

// DirStore keeps each recipe as <filename> in a directory. Files that fail
// to parse are skipped by List and Search.
type DirStore struct {
	mu     sync.RWMutex
	dir    string
	logger *log.Logger
}

// NewDirStore returns a store rooted at dir. An empty dir leaves the store
// unconfigured; every recipe operation then fails with ErrNoDirectory.
func NewDirStore(dir string, logger *log.Logger) *DirStore {
	if logger == nil {
		logger = log.Default()
	}
	return &DirStore{dir: dir, logger: logger}
}

// Dir returns the configured directory ("" when unset).
func (s *DirStore) Dir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}

// SetDir points the store at an existing directory.
func (s *DirStore) SetDir(dir string) error {
	if err := errors.ValidatePath(dir); err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "invalid directory %s", dir)
	}
	s.mu.Lock()
	s.dir = dir
	s.mu.Unlock()
	return nil
}

func (s *DirStore) root() (string, error) {
	dir := s.Dir()
	if dir == "" {
		return "", ErrNoDirectory
	}
	return dir, nil
}

func (s *DirStore) path(filename string) (string, error) {
	dir, err := s.root()
	if err != nil {
		return "", err
	}
	if err := errors.ValidateFilename(filename); err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

func (s *DirStore) List(context.Context) ([]brew.Recipe, error) {
	dir, err := s.root()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []brew.Recipe{}, nil
	}
	if err != nil {
		return nil, err
	}

	recipes := []brew.Recipe{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		r, err := readRecipe(filepath.Join(dir, e.Name()))
		if err != nil {
			s.logger.Debug("skipping unreadable recipe", "file", e.Name(), "error", err)
			continue
		}
		r.Filename = e.Name()
		recipes = append(recipes, *r)
	}
	slices.SortFunc(recipes, func(a, b brew.Recipe) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return recipes, nil
}

func (s *DirStore) Get(_ context.Context, filename string) (*brew.Recipe, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	r, err := readRecipe(path)
	if os.IsNotExist(err) {
		return nil, recipeNotFound(filename)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "read %s", filename)
	}
	r.Filename = filename
	return r, nil
}

func (s *DirStore) Save(_ context.Context, r *brew.Recipe) (string, error) {
	dir, err := s.root()
	if err != nil {
		return "", err
	}
	filename, err := prepare(r)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

func (s *DirStore) Delete(_ context.Context, filename string) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return recipeNotFound(filename)
	}
	return err
}

func (s *DirStore) Search(ctx context.Context, query string) ([]brew.Recipe, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []brew.Recipe{}
	for _, r := range all {
		if r.MatchesQuery(query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *DirStore) SetTags(ctx context.Context, filename, tags string) (*brew.Recipe, error) {
	r, err := s.Get(ctx, filename)
	if err != nil {
		return nil, err
	}
	r.Tags = tags
	if _, err := s.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func readRecipe(path string) (*brew.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r brew.Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

var (
	_ RecipeStore = (*DirStore)(nil)
	_ Directory   = (*DirStore)(nil)
)
