// Package game holds the core of the buzzer service: the per-game state,
// the actor that owns it, and the registry that routes join codes to actors.
// It has no transport dependencies; bridges talk to it through commands.
package game

import (
	"bytes"
	"encoding/json"
)

// Activation records the winning buzz since the last reset.
type Activation struct {
	Team string
	User string
}

// State is the full authoritative state of one game. It is owned exclusively
// by the game's Actor; nothing outside the actor loop reads or writes it.
//
// activated is nil exactly when buzzerActive is false; the two are only ever
// set and cleared together.
type State struct {
	buzzerActive bool
	activated    *Activation

	// Team names are fixed at creation and keep their creation order.
	// Only the rosters change afterwards.
	order   []string
	rosters map[string][]string
}

// NewState creates a state with empty rosters for the given team names.
// Duplicate names collapse to a single team.
func NewState(teamNames []string) *State {
	s := &State{
		rosters: make(map[string][]string, len(teamNames)),
	}
	for _, name := range teamNames {
		if _, ok := s.rosters[name]; ok {
			continue
		}
		s.order = append(s.order, name)
		s.rosters[name] = nil
	}
	return s
}

// TeamNames returns the team names in creation order.
func (s *State) TeamNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Roster returns a copy of the named team's roster and whether the team exists.
func (s *State) Roster(team string) ([]string, bool) {
	roster, ok := s.rosters[team]
	if !ok {
		return nil, false
	}
	out := make([]string, len(roster))
	copy(out, roster)
	return out, true
}

// Activated reports the winning buzz, or nil when the buzzer is idle.
func (s *State) Activated() *Activation {
	if s.activated == nil {
		return nil
	}
	a := *s.activated
	return &a
}

// BuzzerActive reports whether a buzz has been accepted since the last reset.
func (s *State) BuzzerActive() bool {
	return s.buzzerActive
}

// register appends user to the team's roster. Duplicate user names are kept.
// Returns false without mutating anything when the team does not exist.
func (s *State) register(team, user string) bool {
	roster, ok := s.rosters[team]
	if !ok {
		return false
	}
	s.rosters[team] = append(roster, user)
	return true
}

// disconnect removes every roster entry equal to user from the team.
// Returns false when the team does not exist.
func (s *State) disconnect(team, user string) bool {
	roster, ok := s.rosters[team]
	if !ok {
		return false
	}
	kept := roster[:0]
	for _, name := range roster {
		if name != user {
			kept = append(kept, name)
		}
	}
	s.rosters[team] = kept
	return true
}

// activate records the first accepted buzz. It fails silently when the team is
// unknown, the user is not on the team's roster, or a buzz is already active.
func (s *State) activate(team, user string) bool {
	roster, ok := s.rosters[team]
	if !ok {
		return false
	}
	member := false
	for _, name := range roster {
		if name == user {
			member = true
			break
		}
	}
	if !member || s.buzzerActive {
		return false
	}
	s.buzzerActive = true
	s.activated = &Activation{Team: team, User: user}
	return true
}

// reset clears the active buzz. Both fields go together.
func (s *State) reset() {
	s.buzzerActive = false
	s.activated = nil
}

// MarshalJSON emits the broadcast snapshot. Field names match the wire
// protocol clients already speak; teams serialize in creation order.
func (s *State) MarshalJSON() ([]byte, error) {
	var user, team *string
	if s.activated != nil {
		user = &s.activated.User
		team = &s.activated.Team
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"buzzer_activated":`)
	if s.buzzerActive {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}

	buf.WriteString(`,"user_activated":`)
	writeJSONString(&buf, user)
	buf.WriteString(`,"team_activated":`)
	writeJSONString(&buf, team)

	buf.WriteString(`,"teams":{`)
	for i, name := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		roster := s.rosters[name]
		if roster == nil {
			roster = []string{}
		}
		val, err := json.Marshal(roster)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteString("}}")

	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s *string) {
	if s == nil {
		buf.WriteString("null")
		return
	}
	b, _ := json.Marshal(*s)
	buf.Write(b)
}
