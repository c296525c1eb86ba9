package game

// Events receives notifications from actors and the registry. Implementations
// must not block: hooks run on the actor goroutine, and a slow hook stalls
// every connection of that game. The server wires an audit store and the
// spectator broker through this.
type Events interface {
	// GameCreated fires once, when the registry mints a new game.
	GameCreated(code string, teams []string)
	// StateChanged fires after every processed command with the serialized
	// snapshot that was broadcast.
	StateChanged(code string, snapshot []byte)
	// BuzzWon fires when a buzz is accepted as the winning activation.
	BuzzWon(code, team, user string)
	// GameDiscarded fires when the actor terminates.
	GameDiscarded(code string)
}

// NopEvents ignores everything.
type NopEvents struct{}

func (NopEvents) GameCreated(string, []string)  {}
func (NopEvents) StateChanged(string, []byte)   {}
func (NopEvents) BuzzWon(string, string, string) {}
func (NopEvents) GameDiscarded(string)          {}
