package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/eladsnd/cardsAgainstSoogShell/domain"
)

// neonPalette is assigned round-robin as players first join a room. A
// player's color survives reconnection because it hangs off the durable
// name, not the connection id.
var neonPalette = []string{
	"hsl(0, 100%, 50%)",
	"hsl(20, 100%, 50%)",
	"hsl(40, 100%, 50%)",
	"hsl(60, 100%, 50%)",
	"hsl(80, 100%, 50%)",
	"hsl(100, 100%, 50%)",
	"hsl(120, 100%, 50%)",
	"hsl(140, 100%, 50%)",
	"hsl(160, 100%, 50%)",
	"hsl(180, 100%, 50%)",
	"hsl(200, 100%, 50%)",
	"hsl(220, 100%, 50%)",
	"hsl(240, 100%, 60%)",
	"hsl(260, 100%, 60%)",
	"hsl(280, 100%, 55%)",
	"hsl(300, 100%, 50%)",
	"hsl(320, 100%, 50%)",
	"hsl(340, 100%, 50%)",
}

// Player is one seat in a room. Key is a permanent identifier minted at
// first join; ID is the transient connection handle and is rebound on every
// reconnect. Name is the durable identity within the room.
type Player struct {
	Key            string
	ID             string
	Name           string
	Hand           []domain.Card
	Score          int
	Connected      bool
	SwapsRemaining int
	Color          string

	folded string
}

// FoldName normalizes a name for identity matching: reconnection by name must
// not hinge on letter case or on composed vs decomposed accents.
func FoldName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		return name
	}
	return folded
}
