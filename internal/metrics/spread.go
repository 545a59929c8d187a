package metrics

import (
	"math"

	"github.com/san-kum/emergent/internal/dynamo"
)

// Spread tracks the mean pairwise distance between heads, the visible
// separation of an ensemble. Value is the latest observation.
type Spread struct {
	last, max float64
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string { return "spread" }

func (s *Spread) Observe(snap dynamo.Snapshot) {
	pts := dynamo.FinitePoints(snap.Heads)
	s.last = MeanPairwiseDistance(pts)
	s.max = math.Max(s.max, s.last)
}

func (s *Spread) Value() float64 { return s.last }

// Max is the largest spread seen since the last reset.
func (s *Spread) Max() float64 { return s.max }

func (s *Spread) Reset() {
	s.last = 0
	s.max = 0
}

// MeanPairwiseDistance is the average Euclidean distance over all pairs.
func MeanPairwiseDistance(pts []dynamo.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	sum, n := 0.0, 0
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			dx, dy, dz := pts[i].X-pts[j].X, pts[i].Y-pts[j].Y, pts[i].Z-pts[j].Z
			sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
			n++
		}
	}
	return sum / float64(n)
}
