// Package diagram renders a recipe's bill of ingredients as a node-link
// diagram.
//
// Grains, hops and yeasts are drawn as rounded boxes in three ranks with
// arrows into the recipe node at the bottom. Hop edges are labelled with
// their boil time, so the hop schedule reads top to bottom.
//
//	dot := diagram.ToDOT(recipe, diagram.Options{Detailed: true})
//	svg, err := diagram.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]; PDF and PNG go through the SVG and
// [render.ToPDF] / [render.ToPNG], which need rsvg-convert.
package diagram
