package genes

// Preset gene vectors for the three fixed difficulty levels.
var (
	Easy   = Vector{0.07, 0.03, 0.10, 0.10, 0.02, 0.02, 0.02, 0.01}
	Medium = Vector{0.09, 0.03, 0.08, 0.12, 0.04, 0.04, 0.04, 0.02}
	Hard   = Vector{0.12, 0.02, 0.05, 0.15, 0.06, 0.06, 0.06, 0.02}
)

// Preset returns the preset for a difficulty in {-1, 0, +1}. Values outside the
// range select the nearest preset.
func Preset(difficulty int) Vector {
	switch {
	case difficulty <= -1:
		return Easy
	case difficulty >= 1:
		return Hard
	default:
		return Medium
	}
}
