// Package io reads and writes recipe files.
//
// Two on-disk formats are understood:
//
//   - JSON, the layout the recipe directory uses (one [brew.Recipe] per file)
//   - BeerXML 1.0, via the beerxml package
//
// [ReadRecipe] detects the format from the content: a document whose first
// non-blank byte is '<' is BeerXML, anything else is JSON. Statistics are
// always recomputed from the ingredients after reading, so stale numbers in
// a hand-edited file never reach a chart.
//
// [WriteRecipe] writes indented JSON, the same shape the backend stores.
package io
