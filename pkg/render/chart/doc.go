// Package chart draws a [compare.Comparison] as horizontal stat bars onto a
// [Surface].
//
// Each statistic gets one row: a neutral track, the style window, a fill up
// to the (clamped) value colored by category, and a black marker at the
// value. The raw value is always printed to the right of the track. Without
// a style only labels and values are drawn.
//
// [Render] is stateless: drawing the same comparison twice issues the same
// command sequence, which [Recorder] makes observable.
//
// Output formats live in the sink subpackage.
package chart
