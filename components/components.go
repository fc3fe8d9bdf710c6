// Package components defines ECS components for arena bodies.
package components

// Fighter links a body entity back to its arena slot.
type Fighter struct {
	Arena int // arena index
	Side  int // 0 or 1 within the arena pair
}
