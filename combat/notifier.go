package combat

//go:generate go tool mockgen -destination=./mocks/notifier_mock.go -package=mocks . Notifier

// Animation names a fire-and-forget animation trigger.
type Animation uint8

const (
	AnimAttack Animation = iota
	AnimBlock
	AnimUnblock
	AnimInvulnerable
	AnimVulnerable
	AnimDeath
)

// Bar names an on-screen bar.
type Bar uint8

const (
	BarHealth Bar = iota
	BarStamina
)

// Screen names a scene the presentation layer can load.
type Screen uint8

const (
	ScreenTitle Screen = iota
	ScreenMatch
	ScreenTraining
	ScreenGameOver
)

// Notifier receives outbound signals for rendering and HUD collaborators.
// The core never reads anything back.
type Notifier interface {
	Animate(actorID int, anim Animation)
	UpdateBar(actorID int, bar Bar, value, max int)
	PlaceLives(actorID int, left bool, count int)
	RemoveLife(actorID int)
	Countdown(remaining int)
	LoadScreen(screen Screen)
}

// NopNotifier discards every signal.
type NopNotifier struct{}

func (NopNotifier) Animate(int, Animation)       {}
func (NopNotifier) UpdateBar(int, Bar, int, int) {}
func (NopNotifier) PlaceLives(int, bool, int)    {}
func (NopNotifier) RemoveLife(int)               {}
func (NopNotifier) Countdown(int)                {}
func (NopNotifier) LoadScreen(Screen)            {}
