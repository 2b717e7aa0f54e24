package scoring

import "math"

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Point is one historical assessment in time order.
type Point struct {
	Score     int
	RiskLevel RiskLevel
}

type Trend struct {
	Direction string `json:"direction"`
	Change    int    `json:"change"`
}

// Summary aggregates a subject's assessment history.
type Summary struct {
	TotalCheckIns    int               `json:"totalCheckIns"`
	AverageScore     float64           `json:"averageScore"`
	LatestScore      int               `json:"latestScore"`
	Trend            Trend             `json:"trend"`
	RiskDistribution map[RiskLevel]int `json:"riskDistribution"`
}

// Summarize reduces points ordered oldest first. With a single point the
// previous score is taken to be the latest one, so the trend is stable.
func Summarize(points []Point) Summary {
	out := Summary{
		TotalCheckIns:    len(points),
		RiskDistribution: make(map[RiskLevel]int),
		Trend:            Trend{Direction: TrendStable},
	}
	if len(points) == 0 {
		return out
	}

	total := 0
	for _, p := range points {
		total += p.Score
		out.RiskDistribution[p.RiskLevel]++
	}
	out.AverageScore = math.Round(float64(total)/float64(len(points))*10) / 10

	latest := points[len(points)-1].Score
	previous := latest
	if len(points) > 1 {
		previous = points[len(points)-2].Score
	}
	out.LatestScore = latest

	delta := latest - previous
	switch {
	case delta > 0:
		out.Trend = Trend{Direction: TrendIncreasing, Change: delta}
	case delta < 0:
		out.Trend = Trend{Direction: TrendDecreasing, Change: -delta}
	}
	return out
}
