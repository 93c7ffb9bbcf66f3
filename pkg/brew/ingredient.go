package brew

import (
	"strings"

	"github.com/matzehuels/brewtower/pkg/errors"
)

// IngredientType classifies catalog ingredients.
type IngredientType string

const (
	GrainType IngredientType = "grain"
	HopType   IngredientType = "hop"
	YeastType IngredientType = "yeast"
)

// Ingredient is an entry of the ingredient catalog. Only the fields of its
// type are meaningful: PPG and Lovibond for grains, Alpha for hops,
// YeastType for yeasts.
type Ingredient struct {
	ID        int            `json:"id" bson:"id"`
	Name      string         `json:"name" bson:"name"`
	Type      IngredientType `json:"type" bson:"type"`
	PPG       float64        `json:"ppg,omitempty" bson:"ppg,omitempty"`
	Lovibond  float64        `json:"lovibond,omitempty" bson:"lovibond,omitempty"`
	Alpha     float64        `json:"alpha,omitempty" bson:"alpha,omitempty"`
	YeastType string         `json:"yeast_type,omitempty" bson:"yeast_type,omitempty"`
}

// Catalog defaults applied to custom ingredients added without values.
const (
	DefaultPPG      = 37
	DefaultLovibond = 2
	DefaultAlpha    = 5
)

// ParseIngredientType accepts "grain", "hop" or "yeast" in any case. The
// empty string is allowed and means "any type".
func ParseIngredientType(s string) (IngredientType, error) {
	t := IngredientType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case "", GrainType, HopType, YeastType:
		return t, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown ingredient type %q (want grain, hop or yeast)", s)
}

// Validate checks name, type and the quantities of the type.
func (i *Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "ingredient name is required")
	}
	switch i.Type {
	case GrainType:
		if err := errors.ValidateQuantity("ppg", i.PPG); err != nil {
			return err
		}
		return errors.ValidateQuantity("lovibond", i.Lovibond)
	case HopType:
		return errors.ValidateQuantity("alpha", i.Alpha)
	case YeastType:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown ingredient type %q", i.Type)
	}
}

// WithDefaults fills the type-specific defaults used for custom additions.
func (i Ingredient) WithDefaults() Ingredient {
	switch i.Type {
	case GrainType:
		if i.PPG == 0 {
			i.PPG = DefaultPPG
		}
		if i.Lovibond == 0 {
			i.Lovibond = DefaultLovibond
		}
	case HopType:
		if i.Alpha == 0 {
			i.Alpha = DefaultAlpha
		}
	case YeastType:
		if i.YeastType == "" {
			i.YeastType = "Ale"
		}
	}
	return i
}

// Matches reports whether the ingredient's name contains q
// (case-insensitive) and, when t is set, has type t.
func (i *Ingredient) Matches(q string, t IngredientType) bool {
	if t != "" && i.Type != t {
		return false
	}
	return strings.Contains(strings.ToLower(i.Name), strings.ToLower(q))
}
