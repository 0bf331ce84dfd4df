package rope

import "github.com/milk9111/hoprope/common"

// SagRatio is the deepest drop of a rope per block of chord length.
const SagRatio = 0.08

// YHangingOffset returns the vertical sag, never positive, at distance s
// along chord from its start. The profile is a parabola that is zero at both
// ends and deepest at the middle.
func YHangingOffset(s float64, chord common.Vec3) float64 {
	l := chord.Length()
	if l <= 0 {
		return 0
	}
	t := s / l
	if t <= 0 || t >= 1 {
		return 0
	}
	return -4 * SagRatio * l * t * (1 - t)
}
