package tokenlog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cutthroat/internal/domain"
)

const header = "V1 CUTTHROAT3P DEALER P0 DECK 4C 5D ENDDECK"

func TestParseEmptyTranscript(t *testing.T) {
	log, err := Parse("   \n\t ")
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if len(log.Deck) != 0 || len(log.Actions) != 0 {
		t.Fatalf("Parse() = %+v, want empty log", log)
	}
}

func TestParseHeader(t *testing.T) {
	log, err := Parse(header)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if log.Dealer != 0 {
		t.Errorf("Dealer = %d, want 0", log.Dealer)
	}
	if diff := cmp.Diff([]string{"4C", "5D"}, log.Deck); diff != "" {
		t.Errorf("Deck mismatch (-want +got):\n%s", diff)
	}
}

func TestParseActions(t *testing.T) {
	tests := []struct {
		name     string
		tail     string
		expected []domain.ParsedAction
	}{
		{
			name: "draw with card",
			tail: "P0 draw 4C",
			expected: []domain.ParsedAction{
				{Seat: 0, Verb: domain.VerbDraw, CardToken: "4C", SourceIndex: -1},
			},
		},
		{
			name: "draw redacted",
			tail: "P1 draw UNKNOWN",
			expected: []domain.ParsedAction{
				{Seat: 1, Verb: domain.VerbDraw, SourceIndex: -1},
			},
		},
		{
			name: "bare draw then pass",
			tail: "P1 draw P2 pass",
			expected: []domain.ParsedAction{
				{Seat: 1, Verb: domain.VerbDraw, SourceIndex: -1},
				{Seat: 2, Verb: domain.VerbPass, SourceIndex: -1},
			},
		},
		{
			name: "points lowercase token",
			tail: "P0 points 7d",
			expected: []domain.ParsedAction{
				{Seat: 0, Verb: domain.VerbPoints, CardToken: "7D", SourceIndex: -1},
			},
		},
		{
			name: "scuttle keeps acting card",
			tail: "P2 scuttle 9H 7D",
			expected: []domain.ParsedAction{
				{Seat: 2, Verb: domain.VerbScuttle, CardToken: "9H", SourceIndex: -1},
			},
		},
		{
			name: "jack carries steal target",
			tail: "P0 playRoyal JC 7D",
			expected: []domain.ParsedAction{
				{Seat: 0, Verb: domain.VerbPlayRoyal, CardToken: "JC", SourceIndex: -1},
			},
		},
		{
			name: "counter is a counter-two",
			tail: "P1 counter 2H",
			expected: []domain.ParsedAction{
				{Seat: 1, Verb: domain.VerbCounter, Kind: domain.ActionCounterTwo, CardToken: "2H", SourceIndex: -1},
			},
		},
		{
			name: "bare resolve is a counter-pass",
			tail: "P2 resolve",
			expected: []domain.ParsedAction{
				{Seat: 2, Verb: domain.VerbResolve, Kind: domain.ActionCounterPass, SourceIndex: -1},
			},
		},
		{
			name: "resolve discard is a four-discard",
			tail: "P2 resolve discard 9S",
			expected: []domain.ParsedAction{
				{Seat: 2, Verb: domain.VerbResolve, CardToken: "9S", SourceIndex: -1},
			},
		},
		{
			name: "resolve with trailing card is a three-pick",
			tail: "P2 resolve AH",
			expected: []domain.ParsedAction{
				{Seat: 2, Verb: domain.VerbResolve, CardToken: "AH", SourceIndex: -1},
			},
		},
		{
			name: "resolve card then next action stays a three-pick",
			tail: "P2 resolve AH P0 pass",
			expected: []domain.ParsedAction{
				{Seat: 2, Verb: domain.VerbResolve, CardToken: "AH", SourceIndex: -1},
				{Seat: 0, Verb: domain.VerbPass, SourceIndex: -1},
			},
		},
		{
			name: "one-off with player target",
			tail: "P0 oneOff 4C P1",
			expected: []domain.ParsedAction{
				{
					Seat: 0, Verb: domain.VerbOneOff, Kind: domain.ActionOneOff,
					CardToken: "4C",
					Target:    domain.OneOffTarget{Type: domain.OneOffTargetPlayer, Seat: 1},
					SourceIndex: -1,
				},
			},
		},
		{
			name: "one-off seat token belonging to next action",
			tail: "P0 oneOff AC P1 pass",
			expected: []domain.ParsedAction{
				{
					Seat: 0, Verb: domain.VerbOneOff, Kind: domain.ActionOneOff,
					CardToken:   "AC",
					Target:      domain.OneOffTarget{Type: domain.OneOffTargetNone},
					SourceIndex: -1,
				},
				{Seat: 1, Verb: domain.VerbPass, SourceIndex: -1},
			},
		},
		{
			name: "one-off with card target",
			tail: "P1 oneOff 9C QH",
			expected: []domain.ParsedAction{
				{
					Seat: 1, Verb: domain.VerbOneOff, Kind: domain.ActionOneOff,
					CardToken:   "9C",
					Target:      domain.OneOffTarget{Type: domain.OneOffTargetCard, Token: "QH"},
					SourceIndex: -1,
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := ParseActions(header + " " + tt.tail)
			if err != nil {
				t.Fatalf("ParseActions() error = %v", err)
			}
			if diff := cmp.Diff(tt.expected, actions); diff != "" {
				t.Errorf("actions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseGlassesSnapshot(t *testing.T) {
	t.Run("snapshot before end of stream is consumed", func(t *testing.T) {
		actions, err := ParseActions(header + " P0 playRoyal 8C P1 3C 4D P2 5C")
		if err != nil {
			t.Fatalf("ParseActions() error = %v", err)
		}
		if len(actions) != 1 {
			t.Fatalf("len(actions) = %d, want 1", len(actions))
		}
		if actions[0].Verb != domain.VerbPlayRoyal || actions[0].CardToken != "8C" {
			t.Errorf("action = %+v, want playRoyal 8C", actions[0])
		}
	})

	t.Run("snapshot before next action is consumed", func(t *testing.T) {
		actions, err := ParseActions(header + " P0 playRoyal 8C P1 3C 4D P2 5C P1 pass")
		if err != nil {
			t.Fatalf("ParseActions() error = %v", err)
		}
		if len(actions) != 2 {
			t.Fatalf("len(actions) = %d, want 2", len(actions))
		}
		if actions[1].Verb != domain.VerbPass {
			t.Errorf("actions[1].Verb = %v, want pass", actions[1].Verb)
		}
	})

	t.Run("non-terminating lookahead leaves tokens to the next action", func(t *testing.T) {
		// Only one seat-headed group follows, so the snapshot read must
		// back off and P1's tokens parse as a real action.
		actions, err := ParseActions(header + " P0 playRoyal 8C P1 points 3C")
		if err != nil {
			t.Fatalf("ParseActions() error = %v", err)
		}
		if len(actions) != 2 {
			t.Fatalf("len(actions) = %d, want 2", len(actions))
		}
		if actions[1].Verb != domain.VerbPoints || actions[1].CardToken != "3C" {
			t.Errorf("actions[1] = %+v, want points 3C", actions[1])
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		wantToken  string
	}{
		{"wrong version", "V2 CUTTHROAT3P DEALER P0 DECK ENDDECK", "V2"},
		{"wrong mode", "V1 THIRTEEN DEALER P0 DECK ENDDECK", "THIRTEEN"},
		{"bad dealer seat", "V1 CUTTHROAT3P DEALER P7 DECK ENDDECK", "P7"},
		{"missing enddeck", "V1 CUTTHROAT3P DEALER P0 DECK 4C", ""},
		{"bad deck card", "V1 CUTTHROAT3P DEALER P0 DECK 44 ENDDECK", "44"},
		{"unknown verb", header + " P0 shuffle", "shuffle"},
		{"missing scuttle target", header + " P0 scuttle 9H", ""},
		{"bad action seat", header + " P9 pass", "P9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.transcript)
			if err == nil {
				t.Fatal("Parse() error = nil, want ParseError")
			}
			perr, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("Parse() error type = %T, want *ParseError", err)
			}
			if perr.Token != tt.wantToken {
				t.Errorf("ParseError.Token = %q, want %q", perr.Token, tt.wantToken)
			}
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		seat domain.Seat
		mv   domain.Move
	}{
		{"draw", 0, domain.Move{Type: domain.MoveDraw, Card: "4C"}},
		{"pass", 1, domain.Move{Type: domain.MovePass}},
		{"points", 2, domain.Move{Type: domain.MovePoints, Card: "7D"}},
		{"scuttle", 0, domain.Move{Type: domain.MoveScuttle, Card: "9H", TargetCard: "7D"}},
		{"queen", 1, domain.Move{Type: domain.MovePlayRoyal, Card: "QS"}},
		{"jack", 1, domain.Move{Type: domain.MovePlayRoyal, Card: "JC", TargetCard: "7D"}},
		{"joker", 2, domain.Move{Type: domain.MovePlayRoyal, Card: "J0", TargetCard: "QS"}},
		{"one-off untargeted", 0, domain.Move{Type: domain.MoveOneOff, Card: "6C"}},
		{"one-off player target", 0, domain.Move{
			Type: domain.MoveOneOff, Card: "4C",
			Target: domain.OneOffTarget{Type: domain.OneOffTargetPlayer, Seat: 1},
		}},
		{"one-off card target", 1, domain.Move{
			Type: domain.MoveOneOff, Card: "9C",
			Target: domain.OneOffTarget{Type: domain.OneOffTargetPoint, Token: "7D"},
		}},
		{"counter two", 2, domain.Move{Type: domain.MoveCounterTwo, Card: "2H"}},
		{"counter pass", 0, domain.Move{Type: domain.MoveCounterPass}},
		{"three pick", 1, domain.Move{Type: domain.MoveResolveThreePick, Card: "AH"}},
		{"four discard", 2, domain.Move{Type: domain.MoveResolveFourDiscard, Card: "9S"}},
		{"five discard", 0, domain.Move{Type: domain.MoveResolveFiveDiscard, Card: "KD"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeAction(tt.seat, tt.mv, nil)
			if err != nil {
				t.Fatalf("EncodeAction() error = %v", err)
			}
			actions, err := ParseActions(header + " " + encoded)
			if err != nil {
				t.Fatalf("ParseActions(%q) error = %v", encoded, err)
			}
			if len(actions) != 1 {
				t.Fatalf("len(actions) = %d, want 1", len(actions))
			}
			got := actions[0]
			if got.Seat != tt.seat {
				t.Errorf("Seat = %d, want %d", got.Seat, tt.seat)
			}
			if got.CardToken != tt.mv.Card {
				t.Errorf("CardToken = %q, want %q", got.CardToken, tt.mv.Card)
			}
			if tt.mv.Target.Type == domain.OneOffTargetPlayer {
				if got.Target.Type != domain.OneOffTargetPlayer || got.Target.Seat != tt.mv.Target.Seat {
					t.Errorf("Target = %+v, want player %d", got.Target, tt.mv.Target.Seat)
				}
			}
			if tt.mv.Target.Token != "" && got.Target.Token != tt.mv.Target.Token {
				t.Errorf("Target.Token = %q, want %q", got.Target.Token, tt.mv.Target.Token)
			}
		})
	}
}

func TestEncodeSevenChoose(t *testing.T) {
	revealed := []string{"4C", "9H"}

	encoded, err := EncodeAction(1, domain.Move{
		Type:        domain.MoveResolveSevenChoose,
		SourceIndex: 1,
		Seven: domain.SevenPlay{
			Type:       domain.MoveScuttle,
			TargetCard: "7D",
		},
	}, revealed)
	if err != nil {
		t.Fatalf("EncodeAction() error = %v", err)
	}
	if encoded != "P1 scuttle 9H 7D" {
		t.Errorf("EncodeAction() = %q, want %q", encoded, "P1 scuttle 9H 7D")
	}

	_, err = EncodeAction(1, domain.Move{
		Type:        domain.MoveResolveSevenChoose,
		SourceIndex: 5,
		Seven:       domain.SevenPlay{Type: domain.MovePoints},
	}, revealed)
	if err == nil {
		t.Fatal("EncodeAction() error = nil, want source-unresolvable error")
	}
	if !strings.Contains(err.Error(), "source") {
		t.Errorf("error = %v, want it to describe the unresolvable source", err)
	}
}

func TestAppendAction(t *testing.T) {
	transcript, err := AppendAction(header, 0, domain.Move{Type: domain.MovePass}, nil)
	if err != nil {
		t.Fatalf("AppendAction() error = %v", err)
	}
	log, err := Parse(transcript)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(log.Actions) != 1 || log.Actions[0].Verb != domain.VerbPass {
		t.Fatalf("Actions = %+v, want single pass", log.Actions)
	}
}
