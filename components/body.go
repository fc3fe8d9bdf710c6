package components

// Body holds physical properties of an entity.
type Body struct {
	Radius float64
	Mass   float64
	Drag   float64 // linear velocity damping per second
}

// Bounds is the square region a body is kept inside.
type Bounds struct {
	CenterX, CenterY float64
	HalfExtent       float64 // zero disables clamping
}
