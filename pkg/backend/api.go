package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/matzehuels/brewtower/pkg/brew"
)

// DirectoryResponse is the body of GET/POST /api/directory.
type DirectoryResponse struct {
	Success   bool   `json:"success,omitempty"`
	Directory string `json:"directory"`
}

// SuccessResponse acknowledges deletions.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// IngredientID is the body of DELETE /api/ingredients.
type IngredientID struct {
	ID int `json:"id"`
}

// TagsRequest is the body of PATCH /api/recipe/{filename}/tags.
type TagsRequest struct {
	Tags string `json:"tags"`
}

// ChartRequest is the body of POST /api/chart.
type ChartRequest struct {
	Stats   brew.Stats `json:"stats"`
	StyleID string     `json:"style_id,omitempty"`
}

func recipePath(filename string) string {
	return "/api/recipe/" + url.PathEscape(filename)
}

// FetchStyles returns the BJCP style catalog, through the cache when one is
// configured.
func (c *Client) FetchStyles(ctx context.Context) ([]brew.Style, error) {
	var styles []brew.Style
	key := c.keyer.HTTPKey("styles", c.URL())
	err := c.cached(ctx, key, &styles, func() error {
		return c.do(ctx, http.MethodGet, "/api/bjcp/styles", nil, "", nil, decodeInto(&styles))
	})
	return styles, err
}

// Source identifies the backend for cache scoping.
func (c *Client) Source() string { return c.URL() }

// Calculate asks the backend for the statistics of an ingredient list.
func (c *Client) Calculate(ctx context.Context, req brew.CalcRequest) (brew.Stats, error) {
	var stats brew.Stats
	err := c.call(ctx, http.MethodPost, "/api/recipe/calculate", nil, req, &stats)
	return stats, err
}

// Directory returns the backend's recipe directory ("" when unset).
func (c *Client) Directory(ctx context.Context) (string, error) {
	var resp DirectoryResponse
	err := c.call(ctx, http.MethodGet, "/api/directory", nil, nil, &resp)
	return resp.Directory, err
}

// SetDirectory points the backend at an existing directory.
func (c *Client) SetDirectory(ctx context.Context, dir string) error {
	return c.call(ctx, http.MethodPost, "/api/directory", nil, DirectoryResponse{Directory: dir}, nil)
}

func (c *Client) Recipes(ctx context.Context) ([]brew.Recipe, error) {
	var recipes []brew.Recipe
	err := c.call(ctx, http.MethodGet, "/api/recipes", nil, nil, &recipes)
	return recipes, err
}

func (c *Client) SearchRecipes(ctx context.Context, query string) ([]brew.Recipe, error) {
	var recipes []brew.Recipe
	err := c.call(ctx, http.MethodGet, "/api/recipes/search", url.Values{"q": {query}}, nil, &recipes)
	return recipes, err
}

func (c *Client) Recipe(ctx context.Context, filename string) (*brew.Recipe, error) {
	var r brew.Recipe
	if err := c.call(ctx, http.MethodGet, recipePath(filename), nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRecipe stores a new recipe. The returned copy carries the filename
// and the statistics computed by the backend.
func (c *Client) CreateRecipe(ctx context.Context, r *brew.Recipe) (*brew.Recipe, error) {
	var out brew.Recipe
	if err := c.call(ctx, http.MethodPost, "/api/recipe", nil, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRecipe(ctx context.Context, filename string, r *brew.Recipe) (*brew.Recipe, error) {
	var out brew.Recipe
	if err := c.call(ctx, http.MethodPut, recipePath(filename), nil, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecipe(ctx context.Context, filename string) error {
	return c.call(ctx, http.MethodDelete, recipePath(filename), nil, nil, nil)
}

func (c *Client) SetTags(ctx context.Context, filename, tags string) (*brew.Recipe, error) {
	var out brew.Recipe
	if err := c.call(ctx, http.MethodPatch, recipePath(filename)+"/tags", nil, TagsRequest{Tags: tags}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportRecipe returns the BeerXML document of a stored recipe.
func (c *Client) ExportRecipe(ctx context.Context, filename string) ([]byte, error) {
	return c.raw(ctx, http.MethodGet, recipePath(filename)+"/export", "", nil)
}

// ImportRecipe uploads a BeerXML document and returns the saved recipe.
func (c *Client) ImportRecipe(ctx context.Context, doc []byte) (*brew.Recipe, error) {
	var out brew.Recipe
	err := c.attempt(ctx, http.MethodPost, "/api/recipe/import", func() error {
		return c.do(ctx, http.MethodPost, "/api/recipe/import", nil, "application/xml", doc, decodeInto(&out))
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Ingredients(ctx context.Context) ([]brew.Ingredient, error) {
	var ings []brew.Ingredient
	err := c.call(ctx, http.MethodGet, "/api/ingredients", nil, nil, &ings)
	return ings, err
}

func (c *Client) SearchIngredients(ctx context.Context, query string, t brew.IngredientType) ([]brew.Ingredient, error) {
	q := url.Values{"q": {query}}
	if t != "" {
		q.Set("type", string(t))
	}
	var ings []brew.Ingredient
	err := c.call(ctx, http.MethodGet, "/api/ingredients/search", q, nil, &ings)
	return ings, err
}

func (c *Client) AddIngredient(ctx context.Context, ing brew.Ingredient) (brew.Ingredient, error) {
	var out brew.Ingredient
	err := c.call(ctx, http.MethodPost, "/api/ingredients", nil, ing, &out)
	return out, err
}

func (c *Client) UpdateIngredient(ctx context.Context, ing brew.Ingredient) (brew.Ingredient, error) {
	var out brew.Ingredient
	err := c.call(ctx, http.MethodPut, "/api/ingredients", nil, ing, &out)
	return out, err
}

func (c *Client) DeleteIngredient(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, "/api/ingredients", nil, IngredientID{ID: id}, nil)
}

// Chart renders a comparison chart on the backend in the given format.
func (c *Client) Chart(ctx context.Context, req ChartRequest, format string) ([]byte, error) {
	body, err := marshal(req)
	if err != nil {
		return nil, err
	}
	var out []byte
	err = c.attempt(ctx, http.MethodPost, "/api/chart", func() error {
		return c.do(ctx, http.MethodPost, "/api/chart", url.Values{"format": {format}}, "application/json", body, readInto(&out))
	})
	return out, err
}

// Healthy reports whether the backend answers /healthz.
func (c *Client) Healthy(ctx context.Context) bool {
	return c.do(ctx, http.MethodGet, "/healthz", nil, "", nil, discard) == nil
}
