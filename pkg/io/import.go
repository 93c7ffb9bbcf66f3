package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/brewtower/pkg/beerxml"
	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/errors"
)

// Format is a recipe file format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatBeerXML Format = "beerxml"
)

// Detect reports the format of a recipe document.
func Detect(data []byte) Format {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '<' {
		return FormatBeerXML
	}
	return FormatJSON
}

// ReadRecipe decodes a JSON or BeerXML recipe from r, normalizes it and
// validates it. ReadRecipe does not close r.
func ReadRecipe(r io.Reader) (*brew.Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var rec *brew.Recipe
	switch Detect(data) {
	case FormatBeerXML:
		if rec, err = beerxml.Import(data); err != nil {
			return nil, err
		}
	default:
		rec = &brew.Recipe{}
		if err := json.Unmarshal(data, rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode recipe JSON")
		}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	rec.Normalize()
	return rec, nil
}

// ImportRecipe reads the recipe file at path. A JSON recipe without a
// filename takes the file's base name.
func ImportRecipe(path string) (*brew.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := ReadRecipe(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rec.Filename == "" && filepath.Ext(path) == ".json" {
		rec.Filename = filepath.Base(path)
	}
	return rec, nil
}
