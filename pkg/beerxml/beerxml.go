// Package beerxml converts recipes to and from BeerXML 1.0.
//
// BeerXML is metric (liters, kilograms) and expresses grain potential as a
// percentage yield; recipes are imperial with PPG. Conversion factors:
//
//	gallons   = liters / 3.78541
//	pounds    = kilograms / 0.453592
//	ounces    = kilograms / 0.0283495
//	yield (%) = ppg / 46 * 100
//
// Export writes a single-recipe <RECIPES> document with a fixed 60 minute
// boil, 75% efficiency and a boil volume of 1.2 times the batch. Import reads
// the first <RECIPE> and fills defaults for missing values (batch 18.927 L,
// yield 80%, color 2, alpha 5%, boil time 60, yeast type Ale).
package beerxml

import (
	"bytes"
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/errors"
)

const (
	litersPerGallon   = 3.78541
	kilogramsPerPound = 0.453592
	kilogramsPerOunce = 0.0283495
	maxPPG            = 46

	boilFactor = 1.2
	boilTime   = 60
	efficiency = 75
)

// Import defaults for absent elements.
const (
	DefaultBatchLiters = 18.927
	DefaultYield       = 80
	DefaultColor       = 2
	DefaultAlpha       = 5
	DefaultHopTime     = 60
)

type document struct {
	XMLName xml.Name `xml:"RECIPES"`
	Recipes []recipe `xml:"RECIPE"`
}

type recipe struct {
	Name         string        `xml:"NAME"`
	Version      int           `xml:"VERSION"`
	Type         string        `xml:"TYPE"`
	Brewer       string        `xml:"BREWER"`
	BatchSize    number        `xml:"BATCH_SIZE"`
	BoilSize     number        `xml:"BOIL_SIZE"`
	BoilTime     number        `xml:"BOIL_TIME"`
	Efficiency   number        `xml:"EFFICIENCY"`
	Style        *style        `xml:"STYLE,omitempty"`
	Hops         []hop         `xml:"HOPS>HOP"`
	Fermentables []fermentable `xml:"FERMENTABLES>FERMENTABLE"`
	Yeasts       []yeast       `xml:"YEASTS>YEAST"`
}

type style struct {
	Name     string `xml:"NAME"`
	Version  int    `xml:"VERSION"`
	Category string `xml:"CATEGORY"`
	Type     string `xml:"TYPE"`
}

type hop struct {
	Name    string `xml:"NAME"`
	Version int    `xml:"VERSION"`
	Alpha   number `xml:"ALPHA"`
	Amount  number `xml:"AMOUNT"`
	Use     string `xml:"USE"`
	Time    number `xml:"TIME"`
}

type fermentable struct {
	Name    string `xml:"NAME"`
	Version int    `xml:"VERSION"`
	Amount  number `xml:"AMOUNT"`
	Type    string `xml:"TYPE"`
	Yield   number `xml:"YIELD"`
	Color   number `xml:"COLOR"`
}

type yeast struct {
	Name    string `xml:"NAME"`
	Version int    `xml:"VERSION"`
	Type    string `xml:"TYPE"`
	Form    string `xml:"FORM"`
}

// number is an optional decimal element. Absent or blank elements decode as
// unset so import can apply its defaults.
type number struct {
	Value float64
	Set   bool
}

func num(v float64) number { return number{Value: v, Set: true} }

func (n number) or(def float64) float64 {
	if !n.Set {
		return def
	}
	return n.Value
}

func (n number) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

func (n *number) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*n = number{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = num(v)
	return nil
}

// Export renders r as an indented BeerXML document.
func Export(r *brew.Recipe) ([]byte, error) {
	batch := r.BatchSize
	if batch == 0 {
		batch = brew.DefaultBatchSize
	}
	rec := recipe{
		Name:       r.Name,
		Version:    1,
		Type:       "All Grain",
		Brewer:     r.Brewer,
		BatchSize:  num(batch * litersPerGallon),
		BoilSize:   num(batch * litersPerGallon * boilFactor),
		BoilTime:   num(boilTime),
		Efficiency: num(efficiency),
	}
	if r.Style != "" {
		rec.Style = &style{Name: r.Style, Version: 1, Category: "Custom", Type: "Ale"}
	}
	for _, h := range r.Hops {
		rec.Hops = append(rec.Hops, hop{
			Name:    h.Name,
			Version: 1,
			Alpha:   num(h.Alpha),
			Amount:  num(h.Amount * kilogramsPerOunce),
			Use:     "Boil",
			Time:    num(h.Time),
		})
	}
	for _, g := range r.Grains {
		rec.Fermentables = append(rec.Fermentables, fermentable{
			Name:    g.Name,
			Version: 1,
			Amount:  num(g.Amount * kilogramsPerPound),
			Type:    "Grain",
			Yield:   num(g.PPG / maxPPG * 100),
			Color:   num(g.Lovibond),
		})
	}
	for _, y := range r.Yeasts {
		t := y.Type
		if t == "" {
			t = "Ale"
		}
		rec.Yeasts = append(rec.Yeasts, yeast{Name: y.Name, Version: 1, Type: t, Form: "Liquid"})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(document{Recipes: []recipe{rec}}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode beerxml")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Import parses the first recipe of a BeerXML document. Statistics are not
// computed; callers normalize the recipe when saving it.
func Import(data []byte) (*brew.Recipe, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBeerXML, err, "parse beerxml")
	}
	if len(doc.Recipes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidBeerXML, "no RECIPE element")
	}
	rec := doc.Recipes[0]

	r := &brew.Recipe{
		Name:      rec.Name,
		Brewer:    rec.Brewer,
		BatchSize: rec.BatchSize.or(DefaultBatchLiters) / litersPerGallon,
		Grains:    []brew.Grain{},
		Hops:      []brew.Hop{},
		Yeasts:    []brew.Yeast{},
	}
	if rec.Style != nil {
		r.Style = rec.Style.Name
	}
	for _, f := range rec.Fermentables {
		r.Grains = append(r.Grains, brew.Grain{
			Name:       f.Name,
			Amount:     f.Amount.or(0) / kilogramsPerPound,
			PPG:        truncate(f.Yield.or(DefaultYield) / 100 * maxPPG),
			Lovibond:   f.Color.or(DefaultColor),
			Efficiency: brew.DefaultEfficiency,
		})
	}
	for _, h := range rec.Hops {
		r.Hops = append(r.Hops, brew.Hop{
			Name:   h.Name,
			Amount: h.Amount.or(0) / kilogramsPerOunce,
			Alpha:  h.Alpha.or(DefaultAlpha),
			Time:   truncate(h.Time.or(DefaultHopTime)),
		})
	}
	for _, y := range rec.Yeasts {
		t := y.Type
		if t == "" {
			t = "Ale"
		}
		r.Yeasts = append(r.Yeasts, brew.Yeast{Name: y.Name, Type: t})
	}
	return r, nil
}

// truncate drops the fractional part, tolerating the float error of a
// yield that came from an exported whole PPG.
func truncate(v float64) float64 {
	return math.Trunc(v + 1e-9)
}

// Filename is the attachment name used when exporting r.
func Filename(r *brew.Recipe) string {
	return r.Name + ".xml"
}
