package simulate

import (
	"crypto/rand"
	"math/big"

	"github.com/okian/valuescore/internal/domain/model"
)

// Rating profiles produced by the generator.
const (
	profileUniform = iota
	profileAligned
	profileNeglected
	profileFulfilled
	profileCount
)

// randomInt returns a uniform int in [lo, hi].
func randomInt(lo, hi int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo+1)))
	if err != nil {
		return lo
	}
	return lo + int(n.Int64())
}

func clamp(v int) int {
	return max(model.MinRating, min(model.MaxRating, v))
}

// generateRatings builds one questionnaire over categories. The profile
// shapes how match relates to importance.
func generateRatings(categories []model.Category) model.RatingSet {
	profile := randomInt(0, profileCount-1)
	rs := make(model.RatingSet, len(categories))
	for _, c := range categories {
		imp := randomInt(model.MinRating, model.MaxRating)
		var match int
		switch profile {
		case profileAligned:
			match = clamp(imp + randomInt(-1, 1))
		case profileNeglected:
			match = clamp(imp - randomInt(3, 6))
		case profileFulfilled:
			match = clamp(imp + randomInt(0, 3))
		default:
			match = randomInt(model.MinRating, model.MaxRating)
		}
		rs[c] = model.RatingPair{Importance: imp, Match: match}
	}
	return rs
}
