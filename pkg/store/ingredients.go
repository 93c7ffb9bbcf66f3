package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/brewtower/pkg/brew"
)

// FileIngredients keeps the ingredient catalog in one JSON array file. A
// missing file is an empty catalog.
type FileIngredients struct {
	mu   sync.Mutex
	path string
}

// NewFileIngredients returns a catalog stored at path.
func NewFileIngredients(path string) *FileIngredients {
	return &FileIngredients{path: path}
}

// Path returns the catalog file.
func (f *FileIngredients) Path() string { return f.path }

func (f *FileIngredients) load() ([]brew.Ingredient, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return []brew.Ingredient{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ings []brew.Ingredient
	if err := json.Unmarshal(data, &ings); err != nil {
		return nil, err
	}
	return ings, nil
}

func (f *FileIngredients) save(ings []brew.Ingredient) error {
	data, err := json.MarshalIndent(ings, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.path, data, 0o644)
}

func (f *FileIngredients) List(context.Context) ([]brew.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FileIngredients) Search(_ context.Context, query string, t brew.IngredientType) ([]brew.Ingredient, error) {
	f.mu.Lock()
	ings, err := f.load()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []brew.Ingredient{}
	for _, i := range ings {
		if i.Matches(query, t) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *FileIngredients) Add(_ context.Context, ing brew.Ingredient) (brew.Ingredient, error) {
	ing = ing.WithDefaults()
	if err := ing.Validate(); err != nil {
		return brew.Ingredient{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	ings, err := f.load()
	if err != nil {
		return brew.Ingredient{}, err
	}
	ing.ID = nextID(ings)
	if err := f.save(append(ings, ing)); err != nil {
		return brew.Ingredient{}, err
	}
	return ing, nil
}

func (f *FileIngredients) Update(_ context.Context, ing brew.Ingredient) (brew.Ingredient, error) {
	if err := ing.Validate(); err != nil {
		return brew.Ingredient{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	ings, err := f.load()
	if err != nil {
		return brew.Ingredient{}, err
	}
	for i := range ings {
		if ings[i].ID == ing.ID {
			ings[i] = ing
			return ing, f.save(ings)
		}
	}
	return brew.Ingredient{}, ingredientNotFound(ing.ID)
}

func (f *FileIngredients) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ings, err := f.load()
	if err != nil {
		return err
	}
	for i := range ings {
		if ings[i].ID == id {
			return f.save(append(ings[:i], ings[i+1:]...))
		}
	}
	return ingredientNotFound(id)
}

var _ IngredientStore = (*FileIngredients)(nil)
