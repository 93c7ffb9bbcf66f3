// Package store persists recipes and the ingredient catalog.
//
// Two backends implement the same interfaces:
//
//   - [DirStore] + [FileIngredients]: recipes as JSON files in a user-chosen
//     directory and the catalog in a single ingredients.json, the layout a
//     single-user install keeps on disk
//   - [MongoStore]: both collections in MongoDB, for shared deployments
//
// Recipes are keyed by filename. Saving a recipe without one derives it
// from the name (spaces to underscores, ".json" appended). Filenames are
// validated before touching storage.
package store

import (
	"context"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/errors"
)

// ErrNoDirectory is returned by directory-backed operations before a recipe
// directory has been configured.
var ErrNoDirectory = errors.New(errors.ErrCodeNoDirectory, "no recipe directory set")

// RecipeStore persists recipes.
type RecipeStore interface {
	// List returns every readable recipe, sorted by name.
	List(ctx context.Context) ([]brew.Recipe, error)
	Get(ctx context.Context, filename string) (*brew.Recipe, error)
	// Save writes r and returns its filename. r.Filename is used when set.
	Save(ctx context.Context, r *brew.Recipe) (string, error)
	Delete(ctx context.Context, filename string) error
	// Search matches name, brewer, style and tags case-insensitively.
	Search(ctx context.Context, query string) ([]brew.Recipe, error)
	SetTags(ctx context.Context, filename, tags string) (*brew.Recipe, error)
}

// IngredientStore persists the ingredient catalog.
type IngredientStore interface {
	List(ctx context.Context) ([]brew.Ingredient, error)
	Search(ctx context.Context, query string, t brew.IngredientType) ([]brew.Ingredient, error)
	// Add assigns the next id (max existing + 1) and stores the ingredient.
	Add(ctx context.Context, ing brew.Ingredient) (brew.Ingredient, error)
	Update(ctx context.Context, ing brew.Ingredient) (brew.Ingredient, error)
	Delete(ctx context.Context, id int) error
}

// Directory is implemented by recipe stores whose location can be changed
// at runtime.
type Directory interface {
	Dir() string
	SetDir(dir string) error
}

func recipeNotFound(filename string) error {
	return errors.New(errors.ErrCodeRecipeNotFound, "recipe %s not found", filename)
}

func ingredientNotFound(id int) error {
	return errors.New(errors.ErrCodeIngredientNotFound, "ingredient %d not found", id)
}

// prepare validates and normalizes r for saving and resolves its filename.
func prepare(r *brew.Recipe) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	r.Normalize()
	filename := r.Filename
	if filename == "" {
		filename = brew.DefaultFilename(r.Name)
	}
	if err := errors.ValidateFilename(filename); err != nil {
		return "", err
	}
	r.Filename = filename
	return filename, nil
}

func nextID(ings []brew.Ingredient) int {
	id := 0
	for _, i := range ings {
		id = max(id, i.ID)
	}
	return id + 1
}
