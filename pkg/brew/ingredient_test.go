package brew

import "testing"

func TestParseIngredientType(t *testing.T) {
	for in, want := range map[string]IngredientType{"grain": GrainType, " Hop ": HopType, "YEAST": YeastType, "": ""} {
		got, err := ParseIngredientType(in)
		if err != nil || got != want {
			t.Errorf("ParseIngredientType(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseIngredientType("adjunct"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestIngredientValidate(t *testing.T) {
	tests := []struct {
		name    string
		ing     Ingredient
		wantErr bool
	}{
		{"grain", Ingredient{Name: "Pale 2-Row", Type: GrainType, PPG: 37, Lovibond: 2}, false},
		{"hop", Ingredient{Name: "Cascade", Type: HopType, Alpha: 5.5}, false},
		{"yeast", Ingredient{Name: "US-05", Type: YeastType}, false},
		{"missing name", Ingredient{Type: HopType}, true},
		{"negative alpha", Ingredient{Name: "x", Type: HopType, Alpha: -1}, true},
		{"unknown type", Ingredient{Name: "x", Type: "fruit"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ing.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIngredientWithDefaults(t *testing.T) {
	g := Ingredient{Name: "Custom Malt", Type: GrainType}.WithDefaults()
	if g.PPG != 37 || g.Lovibond != 2 {
		t.Errorf("grain defaults = %+v", g)
	}
	h := Ingredient{Name: "Mystery", Type: HopType}.WithDefaults()
	if h.Alpha != 5 {
		t.Errorf("hop defaults = %+v", h)
	}
	y := Ingredient{Name: "House", Type: YeastType}.WithDefaults()
	if y.YeastType != "Ale" {
		t.Errorf("yeast defaults = %+v", y)
	}
}

func TestIngredientMatches(t *testing.T) {
	i := Ingredient{Name: "Cascade", Type: HopType}
	if !i.Matches("casc", "") || !i.Matches("CASC", HopType) {
		t.Error("expected match")
	}
	if i.Matches("casc", GrainType) || i.Matches("citra", "") {
		t.Error("unexpected match")
	}
}
