package brew

import "github.com/montanaflynn/stats"

// Summary aggregates statistics across a recipe collection.
type Summary struct {
	Count     int     `json:"count"`
	MeanOG    float64 `json:"mean_og"`
	MeanIBU   float64 `json:"mean_ibu"`
	MeanSRM   float64 `json:"mean_srm"`
	MedianIBU float64 `json:"median_ibu"`
	MaxIBU    float64 `json:"max_ibu"`
}

// Summarize computes collection statistics. An empty collection yields a
// zero Summary.
func Summarize(recipes []Recipe) Summary {
	if len(recipes) == 0 {
		return Summary{}
	}
	og := make(stats.Float64Data, 0, len(recipes))
	ibu := make(stats.Float64Data, 0, len(recipes))
	srm := make(stats.Float64Data, 0, len(recipes))
	for _, r := range recipes {
		og = append(og, r.OG)
		ibu = append(ibu, r.IBU)
		srm = append(srm, r.SRM)
	}

	s := Summary{Count: len(recipes)}
	s.MeanOG, _ = og.Mean()
	s.MeanIBU, _ = ibu.Mean()
	s.MeanSRM, _ = srm.Mean()
	s.MedianIBU, _ = ibu.Median()
	s.MaxIBU, _ = ibu.Max()

	s.MeanOG = round(s.MeanOG, 3)
	s.MeanIBU = round(s.MeanIBU, 1)
	s.MeanSRM = round(s.MeanSRM, 1)
	return s
}
