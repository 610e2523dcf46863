package domain

// Card is a single prompt or answer card. Pick is only meaningful on prompt
// cards and declares how many answer cards a submission must contain.
type Card struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Pick int    `json:"pick,omitempty"`
}

// Pack is a named collection of prompt and answer cards, either built into the
// server or supplied as a custom deck through the deck store.
type Pack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Prompts []Card `json:"prompts"`
	Answers []Card `json:"answers"`
}

// PackInfo is the lobby-facing description of a selectable pack.
type PackInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"isCustom,omitempty"`
}
