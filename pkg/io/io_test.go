package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/errors"
)

func testRecipe() *brew.Recipe {
	return &brew.Recipe{
		Name:      "Session Pale",
		Brewer:    "Sam",
		BatchSize: 5,
		Grains:    []brew.Grain{{Name: "Pale", Amount: 8, PPG: 37, Lovibond: 2}},
		Hops:      []brew.Hop{{Name: "Cascade", Amount: 1, Alpha: 5.5, Time: 60}},
		Yeasts:    []brew.Yeast{{Name: "US-05"}},
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{`{"name": "x"}`, FormatJSON},
		{"  \n<?xml version=\"1.0\"?><RECIPES/>", FormatBeerXML},
		{"<RECIPES/>", FormatBeerXML},
		{"", FormatJSON},
	}
	for _, tt := range tests {
		if got := Detect([]byte(tt.in)); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadRecipeRecomputesStats(t *testing.T) {
	in := `{"name": "Session Pale", "brewer": "Sam", "batch_size": 5, "og": 1.9, "ibu": 999,
		"grains": [{"name": "Pale", "amount": 8, "ppg": 37, "lovibond": 2}]}`
	rec, err := ReadRecipe(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadRecipe: %v", err)
	}
	if rec.OG != 1.044 || rec.IBU != 0 {
		t.Errorf("stats = %+v, want recomputed", rec.Stats)
	}
	if rec.Grains[0].Efficiency != brew.DefaultEfficiency {
		t.Errorf("efficiency = %v", rec.Grains[0].Efficiency)
	}
}

func TestReadRecipeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"bad json", "{", errors.ErrCodeInvalidRecipe},
		{"missing brewer", `{"name": "x", "batch_size": 5}`, errors.ErrCodeInvalidRecipe},
		{"bad beerxml", "<RECIPES>", errors.ErrCodeInvalidBeerXML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecipe(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []Format{FormatJSON, FormatBeerXML} {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(dir, "pale."+string(f))
			if f == FormatJSON {
				path = filepath.Join(dir, "pale.json")
			}
			if err := ExportRecipe(testRecipe(), path, f); err != nil {
				t.Fatalf("ExportRecipe: %v", err)
			}
			rec, err := ImportRecipe(path)
			if err != nil {
				t.Fatalf("ImportRecipe: %v", err)
			}
			if rec.Name != "Session Pale" || len(rec.Grains) != 1 || len(rec.Hops) != 1 {
				t.Errorf("round trip = %+v", rec)
			}
			if rec.OG != 1.044 {
				t.Errorf("OG = %v", rec.OG)
			}
		})
	}
}

func TestImportRecipeDefaultsFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my_pale.json")
	var buf bytes.Buffer
	if err := WriteRecipe(testRecipe(), &buf); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	rec, err := ImportRecipe(path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Filename != "my_pale.json" {
		t.Errorf("filename = %q", rec.Filename)
	}
}

func TestImportRecipeMissingFile(t *testing.T) {
	if _, err := ImportRecipe(filepath.Join(t.TempDir(), "nope.json")); !os.IsNotExist(err) {
		t.Errorf("error = %v, want not exist", err)
	}
}
