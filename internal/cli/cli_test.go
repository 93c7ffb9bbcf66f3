package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/brewtower/internal/config"
	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/session"
)

type testBackend struct {
	url     string
	dir     string
	workdir string
}

// newTestBackend serves a recipe directory through the same server the
// serve command builds, and isolates the user config and cache dirs.
func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.RecipeDir = dir
	cfg.Store.Ingredients = filepath.Join(t.TempDir(), "ingredients.json")
	cfg.Cache.Kind = config.CacheNone

	c := New(io.Discard, LogInfo)
	c.cfg = cfg
	srv, closeFn, err := c.buildServer(context.Background())
	if err != nil {
		t.Fatalf("buildServer: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		closeFn()
	})
	return &testBackend{url: ts.URL, dir: dir, workdir: t.TempDir()}
}

func (b *testBackend) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{
		"--server", b.url,
		"--config", filepath.Join(b.workdir, "config.toml"),
		"--no-cache",
	}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (b *testBackend) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := b.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func (b *testBackend) writeRecipe(t *testing.T, name string, r brew.Recipe) string {
	t.Helper()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(b.workdir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func ipa() brew.Recipe {
	return brew.Recipe{
		Name:      "Test IPA",
		Brewer:    "Jo",
		BatchSize: 5,
		Style:     "21A - American IPA",
		Tags:      "hoppy, pale",
		Grains:    []brew.Grain{{Name: "Pale", Amount: 13, PPG: 37, Lovibond: 3}},
		Hops:      []brew.Hop{{Name: "Simcoe", Amount: 2, Alpha: 13, Time: 60}},
		Yeasts:    []brew.Yeast{{Name: "US-05", Type: "Ale"}},
	}
}

func TestStylesList(t *testing.T) {
	b := newTestBackend(t)

	out := b.mustRun(t, "styles", "list", "--json")
	var styles []brew.Style
	if err := json.Unmarshal([]byte(out), &styles); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(styles) != len(brew.DefaultStyles()) {
		t.Errorf("got %d styles, want %d", len(styles), len(brew.DefaultStyles()))
	}

	out = b.mustRun(t, "styles", "list")
	if !strings.Contains(out, "American IPA") {
		t.Errorf("table missing American IPA:\n%s", out)
	}
}

func TestStylesShowUnknown(t *testing.T) {
	b := newTestBackend(t)
	if _, err := b.run(t, "styles", "show", "99X"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestRecipesImportAndList(t *testing.T) {
	b := newTestBackend(t)
	path := b.writeRecipe(t, "ipa.json", ipa())

	b.mustRun(t, "recipes", "import", path)
	if _, err := os.Stat(filepath.Join(b.dir, "Test_IPA.json")); err != nil {
		t.Fatalf("recipe not stored: %v", err)
	}

	out := b.mustRun(t, "recipes", "list", "--json")
	var recipes []brew.Recipe
	if err := json.Unmarshal([]byte(out), &recipes); err != nil {
		t.Fatal(err)
	}
	if len(recipes) != 1 || recipes[0].OG == 0 {
		t.Fatalf("recipes = %+v", recipes)
	}

	out = b.mustRun(t, "recipes", "list", "--tag", "lager", "--json")
	recipes = nil
	if err := json.Unmarshal([]byte(out), &recipes); err != nil || len(recipes) != 0 {
		t.Errorf("tag filter: %s (%v)", out, err)
	}

	out = b.mustRun(t, "recipes", "search", "simcoe")
	if strings.Contains(out, "Test IPA") {
		t.Errorf("search should not match hop names:\n%s", out)
	}
	out = b.mustRun(t, "recipes", "search", "ipa")
	if !strings.Contains(out, "Test_IPA.json") {
		t.Errorf("search missed recipe:\n%s", out)
	}
}

func TestRecipesTagsAndDelete(t *testing.T) {
	b := newTestBackend(t)
	b.mustRun(t, "recipes", "import", b.writeRecipe(t, "ipa.json", ipa()))

	b.mustRun(t, "recipes", "tags", "Test_IPA.json", "west coast,bitter")
	out := b.mustRun(t, "recipes", "tags", "Test_IPA.json")
	if strings.TrimSpace(out) != "west coast,bitter" {
		t.Errorf("tags = %q", out)
	}

	b.mustRun(t, "recipes", "delete", "Test_IPA.json")
	if _, err := b.run(t, "recipes", "show", "Test_IPA.json"); err == nil {
		t.Error("expected error after delete")
	}
}

func TestRecipesExportImportBeerXML(t *testing.T) {
	b := newTestBackend(t)
	b.mustRun(t, "recipes", "import", b.writeRecipe(t, "ipa.json", ipa()))

	xmlPath := filepath.Join(b.workdir, "ipa.xml")
	b.mustRun(t, "recipes", "export", "Test_IPA.json", "-o", xmlPath)
	data, err := os.ReadFile(xmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<RECIPES>") {
		t.Fatalf("not BeerXML:\n%s", data)
	}

	b.mustRun(t, "recipes", "delete", "Test_IPA.json")
	b.mustRun(t, "recipes", "import", xmlPath)
	if _, err := os.Stat(filepath.Join(b.dir, "Test_IPA.json")); err != nil {
		t.Errorf("BeerXML import not stored: %v", err)
	}
}

func TestRecipesDiagramDOT(t *testing.T) {
	b := newTestBackend(t)
	path := b.writeRecipe(t, "ipa.json", ipa())
	out := filepath.Join(b.workdir, "ipa.dot")

	b.mustRun(t, "recipes", "diagram", path, "-o", out)
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") || !strings.Contains(string(data), "Simcoe") {
		t.Errorf("unexpected DOT:\n%s", data)
	}
}

func TestIngredients(t *testing.T) {
	b := newTestBackend(t)

	b.mustRun(t, "ingredients", "add", "Golden Promise", "--type", "grain")
	b.mustRun(t, "ingredients", "add", "Nelson Sauvin", "-t", "hop", "--alpha", "12")

	out := b.mustRun(t, "ingredients", "search", "golden")
	if !strings.Contains(out, "Golden Promise") || !strings.Contains(out, "37 ppg") {
		t.Errorf("search output:\n%s", out)
	}
	out = b.mustRun(t, "ingredients", "list", "--type", "hop")
	if strings.Contains(out, "Golden Promise") || !strings.Contains(out, "12% AA") {
		t.Errorf("type filter output:\n%s", out)
	}

	if _, err := b.run(t, "ingredients", "add", "Mystery"); err == nil {
		t.Error("expected error without --type")
	}
	if _, err := b.run(t, "ingredients", "list", "--type", "spice"); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := b.run(t, "ingredients", "delete", "abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestChartRemembersStyle(t *testing.T) {
	b := newTestBackend(t)
	path := b.writeRecipe(t, "ipa.json", ipa())
	out := filepath.Join(b.workdir, "chart.json")

	b.mustRun(t, "chart", path, "-f", "json", "-o", out, "--style", "1A")
	assertChartStyle(t, out, "1A")

	store, err := session.NewFileStore(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "brewtower", "sessions"))
	if err != nil {
		t.Fatal(err)
	}
	sess, err := store.Get(context.Background(), session.CLISessionID)
	if err != nil || sess == nil {
		t.Fatalf("session not saved: %v", err)
	}
	if sess.StyleID != "1A" || sess.Stats == nil {
		t.Errorf("session = %+v", sess)
	}

	// No flag: the remembered selection wins over the recipe's own style.
	b.mustRun(t, "chart", path, "-f", "json", "-o", out)
	assertChartStyle(t, out, "1A")

	b.mustRun(t, "chart", path, "-f", "json", "-o", out, "--no-style")
	assertChartStyle(t, out, "")

	// Selection cleared: falls back to the style named in the recipe.
	b.mustRun(t, "chart", path, "-f", "json", "-o", out)
	assertChartStyle(t, out, "21A")
}

func TestChartRejectsConflictingFlags(t *testing.T) {
	b := newTestBackend(t)
	path := b.writeRecipe(t, "ipa.json", ipa())
	if _, err := b.run(t, "chart", path, "--no-style", "--style", "21A"); err == nil {
		t.Error("expected error for --no-style with --style")
	}
	if _, err := b.run(t, "chart", path, "-f", "gif"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestChartMultipleFormats(t *testing.T) {
	b := newTestBackend(t)
	path := b.writeRecipe(t, "ipa.json", ipa())
	base := filepath.Join(b.workdir, "out")

	b.mustRun(t, "chart", path, "-f", "svg,json", "-o", base)
	for _, ext := range []string{".svg", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", ext, err)
		}
	}
}

func assertChartStyle(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Style *brew.Style `json:"style"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	got := ""
	if doc.Style != nil {
		got = doc.Style.ID
	}
	if got != want {
		t.Errorf("chart style = %q, want %q", got, want)
	}
}
