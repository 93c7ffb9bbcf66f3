package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/brewtower/pkg/beerxml"
	"github.com/matzehuels/brewtower/pkg/brew"
)

// WriteRecipe encodes r as indented JSON.
func WriteRecipe(r *brew.Recipe, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ExportRecipe writes r to path in format f, replacing any existing file.
func ExportRecipe(r *brew.Recipe, path string, f Format) error {
	if f == FormatBeerXML {
		doc, err := beerxml.Export(r)
		if err != nil {
			return err
		}
		return os.WriteFile(path, doc, 0o644)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRecipe(r, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
