package brew

import (
	"testing"

	"github.com/matzehuels/brewtower/pkg/errors"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name   string
		batch  float64
		grains []Grain
		hops   []Hop
		want   Stats
	}{
		{
			name:  "pale ale",
			batch: 5,
			grains: []Grain{
				{Name: "2-row", Amount: 10, PPG: 37, Lovibond: 2},
				{Name: "Crystal 40", Amount: 1, PPG: 34, Lovibond: 40},
			},
			hops: []Hop{
				{Name: "Cascade", Amount: 1, Alpha: 5.5, Time: 60},
				{Name: "Cascade", Amount: 1, Alpha: 5.5, Time: 5},
			},
			want: Stats{OG: 1.061, IBU: 20.7, SRM: 8.2},
		},
		{
			name:   "grain only",
			batch:  5.5,
			grains: []Grain{{Name: "Pilsner", Amount: 9, PPG: 37, Lovibond: 1.8}},
			want:   Stats{OG: 1.045, IBU: 0, SRM: 3.1},
		},
		{
			name:  "empty recipe",
			batch: 5,
			want:  Stats{OG: 1, IBU: 0, SRM: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.batch, tt.grains, tt.hops)
			if got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCalculateUsesGrainEfficiency(t *testing.T) {
	full := Calculate(5, []Grain{{Amount: 10, PPG: 40, Efficiency: 100}}, nil)
	if full.OG != 1.08 {
		t.Errorf("OG at 100%% efficiency = %v, want 1.08", full.OG)
	}
	def := Calculate(5, []Grain{{Amount: 10, PPG: 40}}, nil)
	if def.OG != 1.06 {
		t.Errorf("OG at default efficiency = %v, want 1.06", def.OG)
	}
}

// Alpha is a percentage and is scaled to a fraction before use. Older
// calculators multiplied the raw percentage in, which reads 100 times high
// (2978.5 IBU for the single-hop case below).
func TestBitternessScalesAlphaPercent(t *testing.T) {
	hop := []Hop{{Name: "Cascade", Amount: 1, Alpha: 5.5, Time: 60}}

	// util = 1.65 * 0.000125^0 * (1 - 2.718^-2.4) / 4.15 = 0.361513
	// IBU  = 0.055 * 1 * 0.361513 * 7490 / 5 = 29.785
	if got := Calculate(5, nil, hop).IBU; got != 29.8 {
		t.Errorf("IBU without grains = %v, want 29.8", got)
	}

	// OG 1.0555 lowers util to 0.219534; IBU = 18.087
	grains := []Grain{{Name: "2-row", Amount: 10, PPG: 37}}
	if got := Calculate(5, grains, hop).IBU; got != 18.1 {
		t.Errorf("IBU at OG 1.0555 = %v, want 18.1", got)
	}
}

func TestCalcRequest(t *testing.T) {
	req := CalcRequest{}.WithDefaults()
	if req.BatchSize != DefaultBatchSize {
		t.Errorf("WithDefaults().BatchSize = %v, want %v", req.BatchSize, DefaultBatchSize)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	bad := CalcRequest{BatchSize: -1}
	if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Validate() negative batch error = %v, want INVALID_INPUT", err)
	}

	negHop := CalcRequest{BatchSize: 5, Hops: []Hop{{Amount: -1}}}
	if err := negHop.Validate(); err == nil {
		t.Error("Validate() should reject negative hop amount")
	}
}

func TestRecipeValidate(t *testing.T) {
	tests := []struct {
		name    string
		recipe  Recipe
		wantErr bool
	}{
		{"valid", Recipe{Name: "IPA", Brewer: "Sam", BatchSize: 5}, false},
		{"missing name", Recipe{Brewer: "Sam", BatchSize: 5}, true},
		{"blank brewer", Recipe{Name: "IPA", Brewer: "  ", BatchSize: 5}, true},
		{"zero batch", Recipe{Name: "IPA", Brewer: "Sam"}, true},
		{"negative grain", Recipe{Name: "IPA", Brewer: "Sam", BatchSize: 5, Grains: []Grain{{Amount: -2}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.recipe.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecipeNormalize(t *testing.T) {
	r := Recipe{
		Name: "Pils", Brewer: "Sam", BatchSize: 5.5,
		Grains: []Grain{{Name: "Pilsner", Amount: 9, PPG: 37, Lovibond: 1.8}},
		Yeasts: []Yeast{{Name: "W-34/70"}},
		Stats:  Stats{OG: 9, IBU: 9, SRM: 9},
	}
	r.Normalize()

	if r.Grains[0].Efficiency != DefaultEfficiency {
		t.Errorf("Efficiency = %v, want %v", r.Grains[0].Efficiency, DefaultEfficiency)
	}
	if r.Yeasts[0].Type != "Ale" {
		t.Errorf("Yeast type = %q, want Ale", r.Yeasts[0].Type)
	}
	if want := (Stats{OG: 1.045, IBU: 0, SRM: 3.1}); r.Stats != want {
		t.Errorf("Stats = %+v, want %+v", r.Stats, want)
	}
}

func TestDefaultFilename(t *testing.T) {
	if got := DefaultFilename("West Coast IPA"); got != "West_Coast_IPA.json" {
		t.Errorf("DefaultFilename() = %q", got)
	}
}
