package resolution

import "cutthroat/internal/domain"

// DialogInput is everything the dialog classifier may consult. It must never
// reach outside these arguments; the result is re-derivable on every render.
type DialogInput struct {
	Phase          domain.PhaseType
	LegalActions   []string
	SelectedSource *domain.Source
	SelectedChoice domain.Choice
	Targets        []domain.Target
}

// DialogState is the set of UI-gating flags derived from one DialogInput.
type DialogState struct {
	HasCounterPass   bool
	CounterTwoTokens []string
	// ShowCounterDialog offers the counter picker; ShowCannotCounterDialog
	// tells a player with no valid two that the window is passing them by.
	ShowCounterDialog       bool
	ShowCannotCounterDialog bool

	ResolveFourTokens     []string
	ResolveFiveTokens     []string
	ShowResolveFourDialog bool
	ShowResolveFiveDialog bool

	PlayerTargetSeats []domain.Seat
	// ShowFourPlayerTargetDialog gates the seat chooser a rank-4 one-off
	// needs: it targets a player, not a card on the board.
	ShowFourPlayerTargetDialog bool
}

// DeriveDialogState classifies the current phase and legal actions into
// dialog flags.
func DeriveDialogState(in DialogInput) DialogState {
	var out DialogState

	seenTwos := make(map[string]bool)
	for _, token := range in.LegalActions {
		a, ok := parseLegalAction(token)
		if !ok {
			continue
		}
		choice, ok := choiceFor(a, in.Phase)
		if !ok {
			continue
		}
		switch choice {
		case domain.ChoiceCounterPass:
			out.HasCounterPass = true
		case domain.ChoiceCounterTwo:
			if card := normalCard(a.arg(0)); card != "" && !seenTwos[card] {
				seenTwos[card] = true
				out.CounterTwoTokens = append(out.CounterTwoTokens, card)
			}
		case domain.ChoiceResolveFourDiscard:
			if card := normalCard(a.arg(1)); card != "" {
				out.ResolveFourTokens = append(out.ResolveFourTokens, card)
			}
		case domain.ChoiceResolveFiveDiscard:
			if card := normalCard(a.arg(0)); card != "" {
				out.ResolveFiveTokens = append(out.ResolveFiveTokens, card)
			}
		}
	}

	countering := in.Phase == domain.PhaseCountering
	out.ShowCounterDialog = countering && out.HasCounterPass && len(out.CounterTwoTokens) > 0
	out.ShowCannotCounterDialog = countering && out.HasCounterPass && len(out.CounterTwoTokens) == 0
	out.ShowResolveFourDialog = in.Phase == domain.PhaseResolvingFour && len(out.ResolveFourTokens) > 0
	out.ShowResolveFiveDialog = in.Phase == domain.PhaseResolvingFive && len(out.ResolveFiveTokens) > 0

	seenSeats := make(map[domain.Seat]bool)
	for _, target := range in.Targets {
		if target.Type != domain.TargetPlayer || !target.Seat.Valid() {
			continue
		}
		if seenSeats[target.Seat] {
			continue
		}
		seenSeats[target.Seat] = true
		out.PlayerTargetSeats = append(out.PlayerTargetSeats, target.Seat)
	}

	selectedRank := 0
	if in.SelectedSource != nil && in.SelectedSource.Zone == domain.ZoneHand {
		selectedRank = domain.RankFromToken(in.SelectedSource.Token)
	}
	out.ShowFourPlayerTargetDialog = in.SelectedChoice == domain.ChoiceOneOff &&
		selectedRank == 4 && len(out.PlayerTargetSeats) > 0

	return out
}
