package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/catalog"
	"github.com/matzehuels/brewtower/pkg/errors"
	"github.com/matzehuels/brewtower/pkg/store"
)

type testEnv struct {
	srv     *httptest.Server
	recipes *store.DirStore
	dirSet  []string
}

func newTestEnv(t *testing.T, withDir bool) *testEnv {
	t.Helper()
	cat := catalog.New(catalog.Static(brew.DefaultStyles()), nil, nil)
	if err := cat.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	env := &testEnv{recipes: store.NewDirStore("", nil)}
	if withDir {
		if err := env.recipes.SetDir(t.TempDir()); err != nil {
			t.Fatal(err)
		}
	}
	s, err := New(Config{
		Recipes:           env.recipes,
		Ingredients:       store.NewFileIngredients(filepath.Join(t.TempDir(), "ingredients.json")),
		Catalog:           cat,
		Metrics:           http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, "# metrics\n") }),
		OnDirectoryChange: func(dir string) error { env.dirSet = append(env.dirSet, dir); return nil },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env.srv = httptest.NewServer(s)
	t.Cleanup(env.srv.Close)
	env.srv.Client().Jar = newJar(t)
	return env
}

func newJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return jar
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := e.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func expectError(t *testing.T, resp *http.Response, status int, code errors.Code) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("status = %d, want %d", resp.StatusCode, status)
	}
	body := decode[errorBody](t, resp)
	if body.Code != code {
		t.Errorf("code = %q, want %q (error %q)", body.Code, code, body.Error)
	}
}

func sampleRecipe() brew.Recipe {
	return brew.Recipe{
		Name:      "Test IPA",
		Brewer:    "Jo",
		BatchSize: 5,
		Style:     "21A - American IPA",
		Tags:      "hoppy",
		Grains:    []brew.Grain{{Name: "Pale", Amount: 13, PPG: 37, Lovibond: 3}},
		Hops:      []brew.Hop{{Name: "Simcoe", Amount: 2, Alpha: 13, Time: 60}},
		Yeasts:    []brew.Yeast{{Name: "US-05"}},
	}
}

func TestNewRequiresStores(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for empty config")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, false)
	resp := env.do(t, http.MethodGet, "/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	resp = env.do(t, http.MethodGet, "/metrics", nil)
	if data, _ := io.ReadAll(resp.Body); !strings.Contains(string(data), "# metrics") {
		t.Errorf("metrics body = %q", data)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	env := newTestEnv(t, false)
	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := env.srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestNoDirectory(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, http.MethodGet, "/api/directory", nil)
	if body := decode[directoryBody](t, resp); body.Directory != nil {
		t.Errorf("directory = %v, want null", *body.Directory)
	}
	expectError(t, env.do(t, http.MethodGet, "/api/recipes", nil), 400, errors.ErrCodeNoDirectory)
	expectError(t, env.do(t, http.MethodPost, "/api/recipe", sampleRecipe()), 400, errors.ErrCodeNoDirectory)
}

func TestSetDirectory(t *testing.T) {
	env := newTestEnv(t, false)
	dir := t.TempDir()

	expectError(t, env.do(t, http.MethodPost, "/api/directory", map[string]string{"directory": filepath.Join(dir, "missing")}), 400, errors.ErrCodeInvalidPath)

	resp := env.do(t, http.MethodPost, "/api/directory", map[string]string{"directory": dir})
	body := decode[directoryBody](t, resp)
	if !body.Success || body.Directory == nil || *body.Directory != dir {
		t.Errorf("body = %+v", body)
	}
	if len(env.dirSet) != 1 || env.dirSet[0] != dir {
		t.Errorf("directory change hook = %v", env.dirSet)
	}
	if resp := env.do(t, http.MethodGet, "/api/recipes", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("list after set = %d", resp.StatusCode)
	}
}

func TestRecipeLifecycle(t *testing.T) {
	env := newTestEnv(t, true)

	created := decode[brew.Recipe](t, env.do(t, http.MethodPost, "/api/recipe", sampleRecipe()))
	if created.Filename != "Test_IPA.json" {
		t.Fatalf("filename = %q", created.Filename)
	}
	if created.OG <= 1 || created.IBU <= 0 {
		t.Errorf("stats not computed: %+v", created.Stats)
	}

	got := decode[brew.Recipe](t, env.do(t, http.MethodGet, "/api/recipe/Test_IPA.json", nil))
	if got.Name != "Test IPA" {
		t.Errorf("get = %+v", got)
	}

	upd := sampleRecipe()
	upd.Name = "Renamed IPA"
	updated := decode[brew.Recipe](t, env.do(t, http.MethodPut, "/api/recipe/Test_IPA.json", upd))
	if updated.Filename != "Test_IPA.json" || updated.Name != "Renamed IPA" {
		t.Errorf("update = %+v", updated)
	}

	tagged := decode[brew.Recipe](t, env.do(t, http.MethodPatch, "/api/recipe/Test_IPA.json/tags", map[string]string{"tags": "hoppy, summer"}))
	if tagged.Tags != "hoppy, summer" {
		t.Errorf("tags = %q", tagged.Tags)
	}

	list := decode[[]brew.Recipe](t, env.do(t, http.MethodGet, "/api/recipes?tag=summer", nil))
	if len(list) != 1 {
		t.Errorf("tag filter = %d recipes", len(list))
	}
	list = decode[[]brew.Recipe](t, env.do(t, http.MethodGet, "/api/recipes?tag=summ", nil))
	if len(list) != 0 {
		t.Errorf("tag filter should match whole tags, got %d", len(list))
	}
	tags := decode[[]string](t, env.do(t, http.MethodGet, "/api/recipes/tags", nil))
	if strings.Join(tags, ",") != "hoppy,summer" {
		t.Errorf("tags = %v", tags)
	}
	found := decode[[]brew.Recipe](t, env.do(t, http.MethodGet, "/api/recipes/search?q=renamed", nil))
	if len(found) != 1 {
		t.Errorf("search = %d", len(found))
	}
	summary := decode[brew.Summary](t, env.do(t, http.MethodGet, "/api/recipes/summary", nil))
	if summary.Count != 1 {
		t.Errorf("summary = %+v", summary)
	}

	resp := env.do(t, http.MethodDelete, "/api/recipe/Test_IPA.json", nil)
	if body := decode[success](t, resp); !body.Success {
		t.Error("delete not acknowledged")
	}
	expectError(t, env.do(t, http.MethodGet, "/api/recipe/Test_IPA.json", nil), 404, errors.ErrCodeRecipeNotFound)
	expectError(t, env.do(t, http.MethodDelete, "/api/recipe/Test_IPA.json", nil), 404, errors.ErrCodeRecipeNotFound)
}

func TestCreateRecipeValidation(t *testing.T) {
	env := newTestEnv(t, true)
	bad := sampleRecipe()
	bad.BatchSize = 0
	expectError(t, env.do(t, http.MethodPost, "/api/recipe", bad), 400, errors.ErrCodeInvalidRecipe)
	expectError(t, env.do(t, http.MethodPost, "/api/recipe", "{not json"), 400, errors.ErrCodeInvalidInput)
}

func TestBeerXMLRoundTrip(t *testing.T) {
	env := newTestEnv(t, true)
	env.do(t, http.MethodPost, "/api/recipe", sampleRecipe())

	resp := env.do(t, http.MethodGet, "/api/recipe/Test_IPA.json/export", nil)
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="Test IPA.xml"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	doc, _ := io.ReadAll(resp.Body)
	doc = bytes.Replace(doc, []byte("<NAME>Test IPA</NAME>"), []byte("<NAME>Imported IPA</NAME>"), 1)

	imported := decode[brew.Recipe](t, env.do(t, http.MethodPost, "/api/recipe/import", string(doc)))
	if imported.Filename != "Imported_IPA.json" || len(imported.Grains) != 1 {
		t.Errorf("imported = %+v", imported)
	}
	if imported.OG <= 1 {
		t.Error("imported recipe has no statistics")
	}
	expectError(t, env.do(t, http.MethodPost, "/api/recipe/import", "garbage"), 400, errors.ErrCodeInvalidBeerXML)
}

func TestCalculate(t *testing.T) {
	env := newTestEnv(t, false)
	stats := decode[brew.Stats](t, env.do(t, http.MethodPost, "/api/recipe/calculate", map[string]any{
		"grains": []brew.Grain{{Name: "Pale", Amount: 8, PPG: 37, Lovibond: 2}},
	}))
	if stats.OG != 1.044 {
		t.Errorf("OG = %v, want 1.044 with the default batch size", stats.OG)
	}
	expectError(t, env.do(t, http.MethodPost, "/api/recipe/calculate", map[string]any{"batch_size": -2}), 400, errors.ErrCodeInvalidInput)
}

func TestIngredients(t *testing.T) {
	env := newTestEnv(t, false)

	added := decode[brew.Ingredient](t, env.do(t, http.MethodPost, "/api/ingredients", brew.Ingredient{Name: "Munich", Type: brew.GrainType}))
	if added.ID != 1 || added.PPG != brew.DefaultPPG {
		t.Errorf("added = %+v", added)
	}
	env.do(t, http.MethodPost, "/api/ingredients", brew.Ingredient{Name: "Mosaic", Type: brew.HopType, Alpha: 12})

	hops := decode[[]brew.Ingredient](t, env.do(t, http.MethodGet, "/api/ingredients/search?q=mo&type=hop", nil))
	if len(hops) != 1 || hops[0].Name != "Mosaic" {
		t.Errorf("search = %+v", hops)
	}
	expectError(t, env.do(t, http.MethodGet, "/api/ingredients/search?type=spice", nil), 400, errors.ErrCodeInvalidInput)

	added.Lovibond = 10
	updated := decode[brew.Ingredient](t, env.do(t, http.MethodPut, "/api/ingredients", added))
	if updated.Lovibond != 10 {
		t.Errorf("updated = %+v", updated)
	}

	env.do(t, http.MethodDelete, "/api/ingredients", map[string]int{"id": 1})
	all := decode[[]brew.Ingredient](t, env.do(t, http.MethodGet, "/api/ingredients", nil))
	if len(all) != 1 {
		t.Errorf("after delete = %+v", all)
	}
	expectError(t, env.do(t, http.MethodDelete, "/api/ingredients", map[string]int{"id": 1}), 404, errors.ErrCodeIngredientNotFound)
}

func TestStyles(t *testing.T) {
	env := newTestEnv(t, false)
	styles := decode[[]brew.Style](t, env.do(t, http.MethodGet, "/api/bjcp/styles", nil))
	if len(styles) != 8 {
		t.Errorf("styles = %d", len(styles))
	}
}

func TestChart(t *testing.T) {
	env := newTestEnv(t, false)
	body := map[string]any{"stats": brew.Stats{OG: 1.065, IBU: 130, SRM: 8}, "style_id": "21A"}

	resp := env.do(t, http.MethodPost, "/api/chart?format=svg", body)
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	svg, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(svg, []byte("130.0")) {
		t.Error("SVG should print the unclamped IBU")
	}

	resp = env.do(t, http.MethodPost, "/api/chart?format=json", body)
	var out struct {
		Metrics []struct {
			Label    string `json:"label"`
			Category string `json:"category"`
		} `json:"metrics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Metrics) != 3 || out.Metrics[0].Label != "IBU" || out.Metrics[0].Category != "above-range" {
		t.Errorf("metrics = %+v", out.Metrics)
	}

	expectError(t, env.do(t, http.MethodPost, "/api/chart?format=gif", body), 400, errors.ErrCodeInvalidFormat)
	body["style_id"] = "99X"
	expectError(t, env.do(t, http.MethodPost, "/api/chart", body), 404, errors.ErrCodeStyleNotFound)
}

func TestRecipeChart(t *testing.T) {
	env := newTestEnv(t, true)
	env.do(t, http.MethodPost, "/api/recipe", sampleRecipe())

	resp := env.do(t, http.MethodGet, "/recipes/Test_IPA.json/chart.html", nil)
	page, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(page, []byte("stat-bar-container")) {
		t.Errorf("recipe style should be resolved from its style text:\n%s", page)
	}

	resp = env.do(t, http.MethodGet, "/recipes/Test_IPA.json/chart.html?style=none", nil)
	page, _ = io.ReadAll(resp.Body)
	if !bytes.Contains(page, []byte(`class="stat-box"`)) {
		t.Errorf("style=none should render the simple display:\n%s", page)
	}

	resp = env.do(t, http.MethodGet, "/recipes/Test_IPA.json/chart.png?style=18B", nil)
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	expectError(t, env.do(t, http.MethodGet, "/recipes/missing.json/chart.svg", nil), 404, errors.ErrCodeRecipeNotFound)
}

func TestNotFoundIsJSON(t *testing.T) {
	env := newTestEnv(t, false)
	expectError(t, env.do(t, http.MethodGet, "/nope", nil), 404, errors.ErrCodeNotFound)
}
