package brew

import (
	"strings"

	"github.com/matzehuels/brewtower/pkg/errors"
)

// DefaultEfficiency is the mash efficiency (percent) assumed when a grain
// does not specify one.
const DefaultEfficiency = 75

// DefaultBatchSize is the batch size in gallons used when a calculation
// request omits it.
const DefaultBatchSize = 5

// Grain is a fermentable addition.
type Grain struct {
	Name       string  `json:"name" bson:"name"`
	Amount     float64 `json:"amount" bson:"amount"`         // pounds
	PPG        float64 `json:"ppg" bson:"ppg"`               // gravity points per pound per gallon
	Lovibond   float64 `json:"lovibond" bson:"lovibond"`     // color, °L
	Efficiency float64 `json:"efficiency" bson:"efficiency"` // percent; 0 means DefaultEfficiency
}

// EffectiveEfficiency returns the grain's efficiency, falling back to
// DefaultEfficiency when unset.
func (g Grain) EffectiveEfficiency() float64 {
	if g.Efficiency == 0 {
		return DefaultEfficiency
	}
	return g.Efficiency
}

// Hop is a boil hop addition.
type Hop struct {
	Name   string  `json:"name" bson:"name"`
	Amount float64 `json:"amount" bson:"amount"` // ounces
	Alpha  float64 `json:"alpha" bson:"alpha"`   // alpha acid percent
	Time   float64 `json:"time" bson:"time"`     // boil minutes
}

// Yeast is a yeast pitch. Type defaults to "Ale".
type Yeast struct {
	Name string `json:"name" bson:"name"`
	Type string `json:"type" bson:"type"`
}

// Stats are the computed statistics of a recipe.
type Stats struct {
	OG  float64 `json:"og" bson:"og"`
	IBU float64 `json:"ibu" bson:"ibu"`
	SRM float64 `json:"srm" bson:"srm"`
}

// Recipe is a stored beer recipe.
//
// Style holds the display text of the chosen BJCP style ("21A - American IPA")
// rather than a reference, matching how recipes are written by the UI and by
// BeerXML import. Tags is a comma-separated list.
type Recipe struct {
	Filename  string  `json:"filename,omitempty" bson:"_id,omitempty"`
	Name      string  `json:"name" bson:"name"`
	Brewer    string  `json:"brewer" bson:"brewer"`
	BatchSize float64 `json:"batch_size" bson:"batch_size"` // gallons
	Style     string  `json:"style" bson:"style"`
	Tags      string  `json:"tags" bson:"tags"`
	Grains    []Grain `json:"grains" bson:"grains"`
	Hops      []Hop   `json:"hops" bson:"hops"`
	Yeasts    []Yeast `json:"yeasts" bson:"yeasts"`
	Stats     `bson:",inline"`
}

// Validate checks the fields the backend needs to store and compute a recipe.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New(errors.ErrCodeInvalidRecipe, "recipe name is required")
	}
	if strings.TrimSpace(r.Brewer) == "" {
		return errors.New(errors.ErrCodeInvalidRecipe, "brewer name is required")
	}
	if r.BatchSize <= 0 {
		return errors.New(errors.ErrCodeInvalidRecipe, "batch size must be positive, got %g", r.BatchSize)
	}
	return validateIngredients(r.Grains, r.Hops)
}

// Normalize fills defaults (yeast type, grain efficiency) and recomputes
// the recipe statistics from its ingredients.
func (r *Recipe) Normalize() {
	for i := range r.Grains {
		r.Grains[i].Efficiency = r.Grains[i].EffectiveEfficiency()
	}
	for i := range r.Yeasts {
		if r.Yeasts[i].Type == "" {
			r.Yeasts[i].Type = "Ale"
		}
	}
	if r.BatchSize > 0 {
		r.Stats = Calculate(r.BatchSize, r.Grains, r.Hops)
	}
}

// DefaultFilename derives the storage filename for a recipe name:
// spaces become underscores and ".json" is appended.
func DefaultFilename(name string) string {
	return strings.ReplaceAll(name, " ", "_") + ".json"
}

func validateIngredients(grains []Grain, hops []Hop) error {
	for _, g := range grains {
		if err := errors.ValidateQuantity("grain amount", g.Amount); err != nil {
			return err
		}
		if err := errors.ValidateQuantity("grain ppg", g.PPG); err != nil {
			return err
		}
		if err := errors.ValidateQuantity("grain lovibond", g.Lovibond); err != nil {
			return err
		}
	}
	for _, h := range hops {
		if err := errors.ValidateQuantity("hop amount", h.Amount); err != nil {
			return err
		}
		if err := errors.ValidateQuantity("hop alpha", h.Alpha); err != nil {
			return err
		}
		if err := errors.ValidateQuantity("hop time", h.Time); err != nil {
			return err
		}
	}
	return nil
}
