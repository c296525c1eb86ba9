package game

import (
	"log/slog"

	"github.com/google/uuid"
)

// command is the sealed set of messages an Actor processes. Every mutation of
// a game's State goes through exactly one of these; there is no other path.
type command interface{ isCommand() }

type registerCmd struct {
	team  string
	user  string
	dest  *Destination
	reply chan<- bool
}

type disconnectCmd struct {
	team string
	user string
}

type buzzCmd struct {
	team string
	user string
}

type resetCmd struct{}

type addAdminCmd struct {
	dest *Destination
}

type teamsCmd struct {
	reply chan<- []string
}

type discardCmd struct{}

func (registerCmd) isCommand()   {}
func (disconnectCmd) isCommand() {}
func (buzzCmd) isCommand()       {}
func (resetCmd) isCommand()      {}
func (addAdminCmd) isCommand()   {}
func (teamsCmd) isCommand()      {}
func (discardCmd) isCommand()    {}

// Actor owns one game. A single goroutine drains the command channel in FIFO
// order, so command arrival order is the only synchronization the state needs.
// Only a Discard terminates the loop; every other command, including rejected
// ones, ends with a full-state broadcast to the current destinations.
type Actor struct {
	code   string
	state  *State
	dests  map[uuid.UUID]*Destination
	cmds   chan command
	done   chan struct{}
	logger *slog.Logger
	events Events
	onExit func()
}

// Start spawns the actor goroutine for a fresh game. onExit runs once, after
// the loop has terminated; the registry uses it to evict the game's code.
func Start(code string, teamNames []string, logger *slog.Logger, events Events, onExit func()) *Actor {
	if events == nil {
		events = NopEvents{}
	}
	a := &Actor{
		code:   code,
		state:  NewState(teamNames),
		dests:  make(map[uuid.UUID]*Destination),
		cmds:   make(chan command, 64),
		done:   make(chan struct{}),
		logger: logger.With("game", code),
		events: events,
		onExit: onExit,
	}
	go a.loop()
	return a
}

// Code returns the public join code of this game.
func (a *Actor) Code() string { return a.code }

func (a *Actor) loop() {
	defer func() {
		close(a.done)
		if a.onExit != nil {
			a.onExit()
		}
	}()

	for cmd := range a.cmds {
		if _, ok := cmd.(discardCmd); ok {
			a.discard()
			return
		}
		a.apply(cmd)
		a.broadcast()
	}
}

func (a *Actor) apply(cmd command) {
	switch c := cmd.(type) {
	case registerCmd:
		ok := a.state.register(c.team, c.user)
		if ok {
			a.dests[c.dest.ID()] = c.dest
			a.logger.Info("user registered", "team", c.team, "user", c.user)
		} else {
			a.logger.Warn("registration for unknown team", "team", c.team, "user", c.user)
		}
		c.reply <- ok

	case disconnectCmd:
		if !a.state.disconnect(c.team, c.user) {
			a.logger.Warn("disconnect for unknown team", "team", c.team, "user", c.user)
			return
		}
		a.logger.Info("user disconnected", "team", c.team, "user", c.user)

	case buzzCmd:
		if !a.state.activate(c.team, c.user) {
			a.logger.Debug("buzz rejected", "team", c.team, "user", c.user)
			return
		}
		a.logger.Info("buzzer activated", "team", c.team, "user", c.user)
		a.events.BuzzWon(a.code, c.team, c.user)

	case resetCmd:
		a.state.reset()
		a.logger.Info("buzzer reset")

	case addAdminCmd:
		a.dests[c.dest.ID()] = c.dest

	case teamsCmd:
		c.reply <- a.state.TeamNames()
	}
}

// broadcast serializes the state once and delivers it to every destination.
// Destinations that refuse delivery are pruned and closed in the same pass;
// a failed delivery never affects the others. Roster entries are untouched:
// pruning is about connectivity, not registration.
func (a *Actor) broadcast() {
	frame, err := a.state.MarshalJSON()
	if err != nil {
		a.logger.Error("marshaling state", "error", err)
		return
	}

	for id, d := range a.dests {
		if !d.deliver(frame) {
			delete(a.dests, id)
			d.closeFrames()
			a.logger.Debug("pruned dead destination", "destination", id)
		}
	}

	a.events.StateChanged(a.code, frame)
}

func (a *Actor) discard() {
	for id, d := range a.dests {
		d.closeFrames()
		delete(a.dests, id)
	}
	a.logger.Info("game discarded")
	a.events.GameDiscarded(a.code)
}

// send enqueues a command, reporting false if the actor already terminated.
func (a *Actor) send(cmd command) bool {
	select {
	case a.cmds <- cmd:
		return true
	case <-a.done:
		return false
	}
}

// Register appends user to the team's roster and adds dest to the broadcast
// set. It reports false when the team does not exist or the game is gone.
func (a *Actor) Register(team, user string, dest *Destination) bool {
	reply := make(chan bool, 1)
	if !a.send(registerCmd{team: team, user: user, dest: dest, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-a.done:
		return false
	}
}

// Disconnect removes the user's roster entries from the team.
func (a *Actor) Disconnect(team, user string) {
	a.send(disconnectCmd{team: team, user: user})
}

// Buzz attempts to activate the buzzer for user on team. Rejections are
// silent; the next broadcast carries the authoritative outcome either way.
func (a *Actor) Buzz(team, user string) {
	a.send(buzzCmd{team: team, user: user})
}

// Reset clears the active buzz.
func (a *Actor) Reset() {
	a.send(resetCmd{})
}

// AddAdmin adds dest to the broadcast set without touching any roster.
func (a *Actor) AddAdmin(dest *Destination) {
	a.send(addAdminCmd{dest: dest})
}

// Teams returns the team names in creation order, or nil if the game is gone.
// Like every command, the lookup runs through the queue and triggers a full
// broadcast to all connected destinations.
func (a *Actor) Teams() []string {
	reply := make(chan []string, 1)
	if !a.send(teamsCmd{reply: reply}) {
		return nil
	}
	select {
	case names := <-reply:
		return names
	case <-a.done:
		return nil
	}
}

// Discard closes every destination and terminates the actor. Commands already
// queued behind it are dropped; later sends report failure.
func (a *Actor) Discard() {
	a.send(discardCmd{})
}

// Done is closed when the actor loop has terminated.
func (a *Actor) Done() <-chan struct{} { return a.done }
