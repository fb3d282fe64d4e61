package discovery

import (
	"math"
	"time"

	"github.com/Clark-Hu/reelscout/internal/domain"
)

const (
	popularityWeight = 0.5
	recencyWeight    = 0.3
	ratingWeight     = 0.2

	popularityCeiling = 100.0
	ratingCeiling     = 10.0
)

// RecencyBoost is the step function of days since release used by TrendingScore.
func RecencyBoost(days int) float64 {
	switch {
	case days <= 7:
		return 1.0
	case days <= 30:
		return 0.7
	case days <= 60:
		return 0.3
	default:
		return 0
	}
}

// TrendingScore ranks a movie for the trending view. Missing popularity and
// rating count as 0; a missing release date gets no recency boost.
func TrendingScore(m domain.Movie, now time.Time) float64 {
	popularity := math.Min(m.PopularityOrZero()/popularityCeiling, 1)
	rating := m.RatingOrZero() / ratingCeiling

	boost := 0.0
	if m.ReleaseDate != nil {
		boost = RecencyBoost(daysSince(*m.ReleaseDate, now))
	}
	return popularityWeight*popularity + recencyWeight*boost + ratingWeight*rating
}

func daysSince(release, now time.Time) int {
	return int(math.Floor(now.Sub(release).Hours() / 24))
}
