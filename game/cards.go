package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/eladsnd/cardsAgainstSoogShell/domain"
)

// ShuffleFunc permutes a card slice in place. Tests inject an identity
// shuffle to make deal order deterministic.
type ShuffleFunc func(cards []domain.Card)

func FisherYates(cards []domain.Card) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Deck is a pile of cards drawn from the top (end of the slice).
type Deck struct {
	cards   []domain.Card
	shuffle ShuffleFunc
}

func NewDeck(cards []domain.Card, shuffle ShuffleFunc) *Deck {
	if shuffle == nil {
		shuffle = FisherYates
	}
	d := &Deck{cards: cards, shuffle: shuffle}
	d.shuffle(d.cards)
	return d
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Draw pops up to count cards. When the deck runs dry mid-draw the discard
// pile is shuffled back in and drawing continues; when both are empty the
// result is short of count and callers must tolerate that.
func (d *Deck) Draw(count int, discard *[]domain.Card) []domain.Card {
	drawn := make([]domain.Card, 0, count)
	for i := 0; i < count; i++ {
		if len(d.cards) == 0 && discard != nil && len(*discard) > 0 {
			d.cards = *discard
			*discard = nil
			d.shuffle(d.cards)
		}
		if len(d.cards) == 0 {
			break
		}
		last := len(d.cards) - 1
		drawn = append(drawn, d.cards[last])
		d.cards = d.cards[:last]
	}
	return drawn
}

func (d *Deck) DrawOne(discard *[]domain.Card) (domain.Card, bool) {
	drawn := d.Draw(1, discard)
	if len(drawn) == 0 {
		return domain.Card{}, false
	}
	return drawn[0], true
}

// BuildDecks merges every selected built-in pack and custom deck into a
// shuffled prompt deck and answer deck. Custom cards are de-duplicated by
// text, missing ids are synthesized (stable for this run only) and prompt
// cards default to pick 1. Returns ErrNoCards when either merged pool ends
// up empty.
func BuildDecks(packIDs []string, builtin []domain.Pack, custom map[string]domain.Pack, shuffle ShuffleFunc) (*Deck, *Deck, error) {
	var prompts, answers []domain.Card

	selected := make(map[string]bool, len(packIDs))
	for _, id := range packIDs {
		selected[id] = true
	}

	for _, pack := range builtin {
		if !selected[pack.ID] {
			continue
		}
		prompts = append(prompts, pack.Prompts...)
		answers = append(answers, pack.Answers...)
	}

	merged := make(map[string]bool, len(packIDs))
	for _, id := range packIDs {
		pack, ok := custom[id]
		if !ok || merged[id] {
			continue
		}
		merged[id] = true
		prompts = append(prompts, dedupeByText(pack.Prompts)...)
		answers = append(answers, dedupeByText(pack.Answers)...)
	}

	if len(prompts) == 0 || len(answers) == 0 {
		return nil, nil, ErrNoCards
	}

	for i := range prompts {
		if prompts[i].ID == "" {
			prompts[i].ID = fmt.Sprintf("p_%d_%s", i, uuid.NewString()[:8])
		}
		if prompts[i].Pick <= 0 {
			prompts[i].Pick = 1
		}
	}
	for i := range answers {
		if answers[i].ID == "" {
			answers[i].ID = fmt.Sprintf("a_%d_%s", i, uuid.NewString()[:8])
		}
	}

	return NewDeck(prompts, shuffle), NewDeck(answers, shuffle), nil
}

func dedupeByText(cards []domain.Card) []domain.Card {
	seen := make(map[string]bool, len(cards))
	unique := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		if seen[card.Text] {
			continue
		}
		seen[card.Text] = true
		unique = append(unique, card)
	}
	return unique
}
