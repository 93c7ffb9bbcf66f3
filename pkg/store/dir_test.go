package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/errors"
)

func testRecipe(name string) *brew.Recipe {
	return &brew.Recipe{
		Name:      name,
		Brewer:    "Jo",
		BatchSize: 5,
		Style:     "21A - American IPA",
		Tags:      "hoppy, summer",
		Grains:    []brew.Grain{{Name: "Pale Malt", Amount: 10, PPG: 37, Lovibond: 2}},
		Hops:      []brew.Hop{{Name: "Cascade", Amount: 1, Alpha: 5.5, Time: 60}},
		Yeasts:    []brew.Yeast{{Name: "US-05"}},
	}
}

func newDirStore(t *testing.T) *DirStore {
	t.Helper()
	s := NewDirStore("", log.New(os.Stderr))
	if err := s.SetDir(t.TempDir()); err != nil {
		t.Fatalf("SetDir: %v", err)
	}
	return s
}

func TestDirStoreNoDirectory(t *testing.T) {
	ctx := context.Background()
	s := NewDirStore("", nil)

	if _, err := s.List(ctx); !errors.Is(err, errors.ErrCodeNoDirectory) {
		t.Errorf("List error = %v, want NO_DIRECTORY", err)
	}
	if _, err := s.Save(ctx, testRecipe("Pale")); !errors.Is(err, errors.ErrCodeNoDirectory) {
		t.Errorf("Save error = %v, want NO_DIRECTORY", err)
	}
	if _, err := s.Get(ctx, "Pale.json"); !errors.Is(err, errors.ErrCodeNoDirectory) {
		t.Errorf("Get error = %v, want NO_DIRECTORY", err)
	}
}

func TestDirStoreSetDir(t *testing.T) {
	s := NewDirStore("", nil)
	dir := t.TempDir()

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
		ok   bool
	}{
		{"existing", dir, true},
		{"empty", "", false},
		{"missing", filepath.Join(dir, "nope"), false},
		{"file", file, false},
		{"traversal", "../../etc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetDir(tt.dir)
			if tt.ok && err != nil {
				t.Fatalf("SetDir(%q) = %v", tt.dir, err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidPath) {
				t.Fatalf("SetDir(%q) = %v, want INVALID_PATH", tt.dir, err)
			}
		})
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q, want %q after failed updates", s.Dir(), dir)
	}
}

func TestDirStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := newDirStore(t)

	filename, err := s.Save(ctx, testRecipe("West Coast IPA"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filename != "West_Coast_IPA.json" {
		t.Errorf("filename = %q", filename)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), filename)); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	got, err := s.Get(ctx, filename)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "West Coast IPA" || got.Filename != filename {
		t.Errorf("Get = %+v", got)
	}
	if got.OG <= 1 || got.IBU <= 0 || got.SRM <= 0 {
		t.Errorf("stats not computed on save: %+v", got.Stats)
	}
	if got.Yeasts[0].Type != "Ale" {
		t.Errorf("yeast type = %q, want Ale", got.Yeasts[0].Type)
	}
}

func TestDirStoreSaveKeepsFilename(t *testing.T) {
	ctx := context.Background()
	s := newDirStore(t)

	r := testRecipe("Renamed")
	r.Filename = "original.json"
	filename, err := s.Save(ctx, r)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filename != "original.json" {
		t.Errorf("filename = %q, want original.json", filename)
	}
}

func TestDirStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := newDirStore(t)

	r := testRecipe("")
	if _, err := s.Save(ctx, r); !errors.Is(err, errors.ErrCodeInvalidRecipe) {
		t.Errorf("Save without name = %v, want INVALID_RECIPE", err)
	}

	r = testRecipe("Sneaky")
	r.Filename = "../escape.json"
	if _, err := s.Save(ctx, r); !errors.Is(err, errors.ErrCodeInvalidFilename) {
		t.Errorf("Save traversal = %v, want INVALID_FILENAME", err)
	}
	if _, err := s.Get(ctx, "../escape.json"); !errors.Is(err, errors.ErrCodeInvalidFilename) {
		t.Errorf("Get traversal = %v, want INVALID_FILENAME", err)
	}
}

func TestDirStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := newDirStore(t)

	if _, err := s.Get(ctx, "missing.json"); !errors.Is(err, errors.ErrCodeRecipeNotFound) {
		t.Errorf("Get = %v, want RECIPE_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "missing.json"); !errors.Is(err, errors.ErrCodeRecipeNotFound) {
		t.Errorf("Delete = %v, want RECIPE_NOT_FOUND", err)
	}
	if _, err := s.SetTags(ctx, "missing.json", "x"); !errors.Is(err, errors.ErrCodeRecipeNotFound) {
		t.Errorf("SetTags = %v, want RECIPE_NOT_FOUND", err)
	}
}

func TestDirStoreListSortsAndSkipsBroken(t *testing.T) {
	ctx := context.Background()
	s := newDirStore(t)

	for _, name := range []string{"stout", "Amber", "Pilsner"} {
		if _, err := s.Save(ctx, testRecipe(name)); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	recipes, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, r := range recipes {
		names = append(names, r.Name)
	}
	want := []string{"Amber", "Pilsner", "stout"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDirStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newDirStore(t)

	filename, err := s.Save(ctx, testRecipe("Gone"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, filename); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, filename); !errors.Is(err, errors.ErrCodeRecipeNotFound) {
		t.Errorf("Get after delete = %v", err)
	}
}

func TestDirStoreSearchAndTags(t *testing.T) {
	ctx := context.Background()
	s := newDirStore(t)

	ipa := testRecipe("Hazy IPA")
	stout := testRecipe("Dry Stout")
	stout.Style = "16A - Sweet Stout"
	stout.Tags = "winter"
	for _, r := range []*brew.Recipe{ipa, stout} {
		if _, err := s.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"hazy", 1},
		{"STOUT", 1},
		{"winter", 1},
		{"jo", 2},
		{"lager", 0},
	}
	for _, tt := range tests {
		got, err := s.Search(ctx, tt.query)
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q) = %d results, want %d", tt.query, len(got), tt.want)
		}
	}

	r, err := s.SetTags(ctx, "Dry_Stout.json", "winter, roasty")
	if err != nil {
		t.Fatalf("SetTags: %v", err)
	}
	if !r.HasTag("roasty") {
		t.Errorf("tags = %q", r.Tags)
	}
	got, err := s.Get(ctx, "Dry_Stout.json")
	if err != nil {
		t.Fatal(err)
	}
	if got.Tags != "winter, roasty" {
		t.Errorf("persisted tags = %q", got.Tags)
	}
}
