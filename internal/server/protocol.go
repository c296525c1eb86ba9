package server

import "strings"

// Inbound frame vocabulary. Players send a single registration frame first,
// then zero or more command tokens; admins only send command tokens.
const (
	// tokenBuzz is a player's buzzer press.
	tokenBuzz = "buzzer"
	// tokenReset is the admin's buzzer reset.
	tokenReset = "reset"
)

// registration is the decoded first frame of a player connection.
type registration struct {
	Team string
	User string
}

// parseRegistration decodes the pipe-delimited registration frame
// ("team|user"). Both sections must be non-empty.
func parseRegistration(frame string) (registration, bool) {
	team, user, ok := strings.Cut(frame, "|")
	if !ok || team == "" || user == "" {
		return registration{}, false
	}
	// A second pipe means a malformed frame, not a user named "a|b".
	if strings.Contains(user, "|") {
		return registration{}, false
	}
	return registration{Team: team, User: user}, true
}
