package resolution

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"cutthroat/internal/domain"
)

func TestExtractActionSource(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		phase    domain.PhaseType
		expected domain.Source
	}{
		{"draw", "P0 draw", domain.PhaseMain, domain.Source{Zone: domain.ZoneDeck}},
		{"pass", "P0 pass", domain.PhaseMain, domain.Source{Zone: domain.ZoneDeck}},
		{"points", "P0 points 7D", domain.PhaseMain, domain.Source{Zone: domain.ZoneHand, Token: "7D"}},
		{"counter two", "P1 counter 2H", domain.PhaseCountering, domain.Source{Zone: domain.ZoneHand, Token: "2H"}},
		{"counter pass", "P1 resolve", domain.PhaseCountering, domain.Source{Zone: domain.ZoneCounter, Token: "pass"}},
		{"three pick", "P2 resolve AH", domain.PhaseResolvingThree, domain.Source{Zone: domain.ZoneScrap, Token: "AH"}},
		{"four discard", "P2 resolve discard 9S", domain.PhaseResolvingFour, domain.Source{Zone: domain.ZoneHand, Token: "9S"}},
		{"five discard", "P0 discard KD", domain.PhaseResolvingFive, domain.Source{Zone: domain.ZoneHand, Token: "KD"}},
		{"seven-sourced play", "P0 points 7D", domain.PhaseResolvingSeven, domain.Source{Zone: domain.ZoneReveal, Token: "7D"}},
		{"stalemate request", "P0 stalemateRequest", domain.PhaseMain, domain.Source{Zone: domain.ZoneStalemate, Token: "request"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, ok := ExtractActionSource(tt.token, tt.phase)
			if !ok {
				t.Fatalf("ExtractActionSource(%q) ok = false", tt.token)
			}
			if src != tt.expected {
				t.Errorf("ExtractActionSource(%q) = %+v, want %+v", tt.token, src, tt.expected)
			}
		})
	}

	if _, ok := ExtractActionSource("garbage", domain.PhaseMain); ok {
		t.Error("ExtractActionSource(garbage) ok = true, want false")
	}
}

func TestDeriveMoveChoicesForSource(t *testing.T) {
	actions := []string{
		"P0 scuttle 9C 7D",
		"P0 points 9C",
		"P0 oneOff 9C",
		"P0 oneOff 9C 7D",
	}
	src := domain.Source{Zone: domain.ZoneHand, Token: "9C"}

	choices := DeriveMoveChoicesForSource(actions, src, domain.PhaseMain)
	expected := []domain.Choice{domain.ChoicePoints, domain.ChoiceScuttle, domain.ChoiceOneOff}
	if diff := cmp.Diff(expected, choices); diff != "" {
		t.Errorf("choices mismatch (-want +got):\n%s", diff)
	}

	// Identical input must yield identical, identically-ordered output.
	again := DeriveMoveChoicesForSource(actions, src, domain.PhaseMain)
	if diff := cmp.Diff(choices, again); diff != "" {
		t.Errorf("second derivation differs (-first +second):\n%s", diff)
	}
}

func TestDeriveMoveChoicesDeckOrdering(t *testing.T) {
	// The server may list pass before draw; display order is fixed.
	actions := []string{"P0 pass", "P0 draw"}
	choices := DeriveMoveChoicesForSource(actions, domain.Source{Zone: domain.ZoneDeck}, domain.PhaseMain)
	expected := []domain.Choice{domain.ChoiceDraw, domain.ChoicePass}
	if diff := cmp.Diff(expected, choices); diff != "" {
		t.Errorf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveTargetsForChoice(t *testing.T) {
	actions := []string{
		"P1 oneOff 9C QH",
		"P1 oneOff 9C 7D",
		"P1 oneOff 9C QH",
		"P1 oneOff 9C P2",
	}
	src := domain.Source{Zone: domain.ZoneHand, Token: "9C"}

	targets := DeriveTargetsForChoice(actions, src, domain.ChoiceOneOff, domain.PhaseMain)
	expected := []domain.Target{
		{Type: domain.TargetCard, Token: "QH"},
		{Type: domain.TargetCard, Token: "7D"},
		{Type: domain.TargetPlayer, Seat: 2},
	}
	if diff := cmp.Diff(expected, targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}

	again := DeriveTargetsForChoice(actions, src, domain.ChoiceOneOff, domain.PhaseMain)
	if diff := cmp.Diff(targets, again); diff != "" {
		t.Errorf("second derivation differs (-first +second):\n%s", diff)
	}
}

func TestFindMatchingAction(t *testing.T) {
	src := domain.Source{Zone: domain.ZoneHand, Token: "9C"}

	t.Run("card-kind target matches by token", func(t *testing.T) {
		actions := []string{"P1 oneOff 9C 7D", "P1 oneOff 9C QH", "P1 oneOff 9C"}
		target := domain.Target{Type: domain.TargetPoint, Token: "7D"}
		token, ok := FindMatchingAction(actions, src, domain.ChoiceOneOff, &target, domain.PhaseMain)
		if !ok {
			t.Fatal("FindMatchingAction() ok = false")
		}
		if token != "P1 oneOff 9C 7D" {
			t.Errorf("FindMatchingAction() = %q, want %q", token, "P1 oneOff 9C 7D")
		}
	})

	t.Run("nil target prefers targetless candidate", func(t *testing.T) {
		actions := []string{"P1 oneOff 9C 7D", "P1 oneOff 9C"}
		token, ok := FindMatchingAction(actions, src, domain.ChoiceOneOff, nil, domain.PhaseMain)
		if !ok {
			t.Fatal("FindMatchingAction() ok = false")
		}
		if token != "P1 oneOff 9C" {
			t.Errorf("FindMatchingAction() = %q, want %q", token, "P1 oneOff 9C")
		}
	})

	t.Run("nil target falls back to first candidate", func(t *testing.T) {
		actions := []string{"P1 oneOff 9C 7D", "P1 oneOff 9C QH"}
		token, ok := FindMatchingAction(actions, src, domain.ChoiceOneOff, nil, domain.PhaseMain)
		if !ok {
			t.Fatal("FindMatchingAction() ok = false")
		}
		if token != "P1 oneOff 9C 7D" {
			t.Errorf("FindMatchingAction() = %q, want %q", token, "P1 oneOff 9C 7D")
		}
	})

	t.Run("player target", func(t *testing.T) {
		actions := []string{"P1 oneOff 9C P0", "P1 oneOff 9C P2"}
		target := domain.Target{Type: domain.TargetPlayer, Seat: 2}
		token, ok := FindMatchingAction(actions, src, domain.ChoiceOneOff, &target, domain.PhaseMain)
		if !ok {
			t.Fatal("FindMatchingAction() ok = false")
		}
		if token != "P1 oneOff 9C P2" {
			t.Errorf("FindMatchingAction() = %q, want %q", token, "P1 oneOff 9C P2")
		}
	})

	t.Run("no candidate", func(t *testing.T) {
		if _, ok := FindMatchingAction([]string{"P1 points 9C"}, src, domain.ChoiceScuttle, nil, domain.PhaseMain); ok {
			t.Error("FindMatchingAction() ok = true, want false")
		}
	})
}

func TestDeriveFallbackChoiceTypesForSelectedCard(t *testing.T) {
	hand := domain.Source{Zone: domain.ZoneHand, Token: "4C"}
	tests := []struct {
		name     string
		card     domain.Card
		expected []domain.Choice
	}{
		{"ace", domain.ParseCard("AC"), []domain.Choice{domain.ChoicePoints, domain.ChoiceScuttle, domain.ChoiceOneOff}},
		{"eight", domain.ParseCard("8H"), []domain.Choice{domain.ChoicePoints, domain.ChoiceScuttle, domain.ChoiceRoyal}},
		{"ten", domain.ParseCard("TS"), []domain.Choice{domain.ChoicePoints, domain.ChoiceScuttle}},
		{"queen", domain.ParseCard("QD"), []domain.Choice{domain.ChoiceRoyal}},
		{"joker", domain.ParseCard("J0"), []domain.Choice{domain.ChoiceJoker}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveFallbackChoiceTypesForSelectedCard(hand, tt.card)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("choices mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := DeriveFallbackChoiceTypesForSelectedCard(domain.Source{Zone: domain.ZoneScrap, Token: "4C"}, domain.ParseCard("4C")); got != nil {
		t.Errorf("non-hand source = %v, want nil", got)
	}
}

func TestFilterVisibleActions(t *testing.T) {
	actions := []string{
		"P0 points 7D",
		"P0 scuttle 7D 9H",
		"P0 points 4C",
	}

	visible := FilterVisibleActions(actions, true, "7D", domain.PhaseResolvingSeven)
	expected := []string{"P0 points 7D", "P0 scuttle 7D 9H"}
	if diff := cmp.Diff(expected, visible); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}

	passthrough := FilterVisibleActions(actions, false, "", domain.PhaseMain)
	if diff := cmp.Diff(actions, passthrough); diff != "" {
		t.Errorf("passthrough mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupActions(t *testing.T) {
	actions := []string{
		"P0 draw",
		"P0 counter 2H",
		"P0 resolve",
		"P0 resolve discard 9S",
		"garbage",
	}
	groups := GroupActions(actions, domain.PhaseCountering)
	if diff := cmp.Diff([]string{"P0 draw"}, groups.Primary); diff != "" {
		t.Errorf("Primary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"P0 counter 2H", "P0 resolve"}, groups.Counter); diff != "" {
		t.Errorf("Counter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"P0 resolve discard 9S"}, groups.Resolution); diff != "" {
		t.Errorf("Resolution mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"garbage"}, groups.Other); diff != "" {
		t.Errorf("Other mismatch (-want +got):\n%s", diff)
	}
}
