package domain

// PhaseType is the server-reported phase tag the client branches on. The
// values mirror the engine's phase names on the wire.
type PhaseType string

const (
	PhaseMain           PhaseType = "Main"
	PhaseCountering     PhaseType = "Countering"
	PhaseResolvingThree PhaseType = "ResolvingThree"
	PhaseResolvingFour  PhaseType = "ResolvingFour"
	PhaseResolvingFive  PhaseType = "ResolvingFive"
	PhaseResolvingSeven PhaseType = "ResolvingSeven"
	PhaseGameOver       PhaseType = "GameOver"
)
