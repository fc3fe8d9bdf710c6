// Package difficulty holds the process-wide match state and maps win/loss
// momentum onto the opponent's genes or stats.
package difficulty

import (
	"fmt"

	"github.com/pthm-cable/sparring/genes"
)

// GameMode selects how a live session is played.
type GameMode string

const (
	GameNone        GameMode = "none"
	GameGenetic     GameMode = "genetic"
	GameClassical   GameMode = "classical"
	GameManyEnemies GameMode = "manyEnemies"
)

// ParseGameMode validates a game mode name.
func ParseGameMode(s string) (GameMode, error) {
	switch m := GameMode(s); m {
	case GameNone, GameGenetic, GameClassical, GameManyEnemies:
		return m, nil
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

// MatchState is the shared live-play state. It is mutated only between rounds.
type MatchState struct {
	GameMode   GameMode
	Difficulty int
	Momentum   int
	Genes      genes.Vector

	Lives       int // configured per side
	PlayerLives int
	BotLives    int

	// Outcome of the most recent concluded match
	PlayerWon bool
	WinnerHP  int
	MatchTime float64

	WarmUp   bool
	PlayerID string
}
