package domain

// Seat identifies one of the three player slots.
type Seat int

// PlayerCount is fixed for cutthroat games.
const PlayerCount = 3

// Valid reports whether the seat is one of the three playable slots.
func (s Seat) Valid() bool {
	return s >= 0 && s < PlayerCount
}

// Token renders the seat in its wire form (P0, P1, P2).
func (s Seat) Token() string {
	if !s.Valid() {
		return ""
	}
	return string([]byte{'P', byte('0' + s)})
}

// ParseSeatToken decodes a P<n> seat token. Seats outside 0-2 are rejected.
func ParseSeatToken(token string) (Seat, bool) {
	if len(token) != 2 || token[0] != 'P' {
		return 0, false
	}
	seat := Seat(token[1] - '0')
	if !seat.Valid() {
		return 0, false
	}
	return seat, true
}
