// Package brew defines the homebrewing domain model shared by the client and
// the backend: recipes and their ingredients, computed statistics, and BJCP
// style ranges.
//
// # Statistics
//
// [Calculate] derives the three statistics the rest of brewtower compares
// against styles:
//
//   - OG: 1 + Σ(amount × ppg × efficiency / 100 / batch) / 1000, 3 decimals
//   - IBU: Σ(alpha/100 × amount × utilization × 7490 / batch), 1 decimal, where
//     utilization = 1.65 × 0.000125^(og-1) × (1 - e^(-0.04 × time)) / 4.15
//   - SRM: 1.4922 × MCU^0.6859 with MCU = Σ(amount × lovibond / batch), 1 decimal
//
// Amounts are in pounds (grains) and ounces (hops); batch size is in gallons.
//
// # Styles
//
// A [Style] carries closed [Range] intervals for OG, FG, IBU and SRM. Ranges
// decode from two-element JSON arrays; anything else is rejected at decode
// time, and [Style.Validate] rejects inverted or non-finite bounds. Consumers
// that render comparisons must only be handed validated styles.
package brew
