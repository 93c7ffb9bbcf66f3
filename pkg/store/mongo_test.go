package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/errors"
)

// Set BREWTOWER_TEST_MONGO to a connection URI to run these tests.
func newMongoStore(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("BREWTOWER_TEST_MONGO")
	if uri == "" {
		t.Skip("BREWTOWER_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := ConnectMongo(ctx, uri, "brewtower_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("ConnectMongo: %v", err)
	}
	t.Cleanup(func() {
		_ = s.recipes.Database().Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestMongoStoreRecipes(t *testing.T) {
	s := newMongoStore(t)
	ctx := context.Background()

	filename, err := s.Save(ctx, testRecipe("Mongo Pale"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, filename)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Mongo Pale" || got.OG <= 1 {
		t.Errorf("Get = %+v", got)
	}

	found, err := s.Search(ctx, "mongo")
	if err != nil || len(found) != 1 {
		t.Errorf("Search = %v, %v", found, err)
	}
	if _, err := s.SetTags(ctx, filename, "db"); err != nil {
		t.Errorf("SetTags: %v", err)
	}
	if err := s.Delete(ctx, filename); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, filename); !errors.Is(err, errors.ErrCodeRecipeNotFound) {
		t.Errorf("Get after delete = %v", err)
	}
}

func TestMongoStoreIngredients(t *testing.T) {
	ings := newMongoStore(t).Ingredients()
	ctx := context.Background()

	a, err := ings.Add(ctx, brew.Ingredient{Name: "Vienna", Type: brew.GrainType})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	b, err := ings.Add(ctx, brew.Ingredient{Name: "Magnum", Type: brew.HopType})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("ids = %d, %d", a.ID, b.ID)
	}
	hops, err := ings.Search(ctx, "", brew.HopType)
	if err != nil || len(hops) != 1 {
		t.Errorf("Search hops = %v, %v", hops, err)
	}
	if err := ings.Delete(ctx, 42); !errors.Is(err, errors.ErrCodeIngredientNotFound) {
		t.Errorf("Delete missing = %v", err)
	}
}
