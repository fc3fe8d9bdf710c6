package evolve

// MaxRoundScore is the score for reproducing the reference differential exactly.
const MaxRoundScore = 10

// Fitness scores one round: the closer the evolving side's HP lead over the
// static side is to reference, the higher the score.
func Fitness(evolvingHP, staticHP, reference int) int {
	d := (evolvingHP - staticHP) - reference
	if d < 0 {
		d = -d
	}
	return MaxRoundScore - d
}

// ReferenceDifferential converts a live match outcome into the HP gap the
// trainer aims for: the winner's remaining HP, negated when the player lost.
func ReferenceDifferential(playerWon bool, winnerHP int) int {
	if playerWon {
		return winnerHP
	}
	return -winnerHP
}
