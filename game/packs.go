package game

import "github.com/eladsnd/cardsAgainstSoogShell/domain"

// BuiltinPacks ships with the server. Custom decks come from the deck store.
var BuiltinPacks = []domain.Pack{basePack}

var basePack = domain.Pack{
	ID:   "base",
	Name: "Base Pack",
	Prompts: []domain.Card{
		{ID: "b1", Text: "My therapist says my problems started with ____.", Pick: 1},
		{ID: "b2", Text: "The secret ingredient in grandma's soup is ____.", Pick: 1},
		{ID: "b3", Text: "Nothing ruins a road trip faster than ____.", Pick: 1},
		{ID: "b4", Text: "Scientists have finally discovered ____.", Pick: 1},
		{ID: "b5", Text: "The museum's newest exhibit: a tribute to ____.", Pick: 1},
		{ID: "b6", Text: "I lost my job because of ____.", Pick: 1},
		{ID: "b7", Text: "This year's hottest wedding trend is ____.", Pick: 1},
		{ID: "b8", Text: "My superhero origin story involves ____.", Pick: 1},
		{ID: "b9", Text: "The last thing I googled at 3am was ____.", Pick: 1},
		{ID: "b10", Text: "The neighbors called the police about ____.", Pick: 1},
		{ID: "b11", Text: "My autobiography will be titled \"____\".", Pick: 1},
		{ID: "b12", Text: "Step 1: ____. Step 2: ____. Step 3: profit.", Pick: 2},
		{ID: "b13", Text: "I traded ____ for ____ and I regret nothing.", Pick: 2},
		{ID: "b14", Text: "First they mocked ____. Then came ____.", Pick: 2},
		{ID: "b15", Text: "The perfect date: ____, followed by ____.", Pick: 2},
		{ID: "b16", Text: "In my dream, ____ and ____ teamed up against ____.", Pick: 3},
	},
	Answers: []domain.Card{
		{ID: "w1", Text: "An aggressively friendly raccoon."},
		{ID: "w2", Text: "Seventeen unread voicemails from mom."},
		{ID: "w3", Text: "A suspiciously cheap haircut."},
		{ID: "w4", Text: "Interpretive dance about taxes."},
		{ID: "w5", Text: "The office microwave at lunch hour."},
		{ID: "w6", Text: "A lifetime supply of glitter."},
		{ID: "w7", Text: "Pretending to understand the plot."},
		{ID: "w8", Text: "A motivational poster of a cat."},
		{ID: "w9", Text: "Karaoke with zero self-awareness."},
		{ID: "w10", Text: "My collection of novelty socks."},
		{ID: "w11", Text: "An extremely confident pigeon."},
		{ID: "w12", Text: "Six hours of assembly instructions."},
		{ID: "w13", Text: "The last slice of pizza."},
		{ID: "w14", Text: "A group chat with no exit."},
		{ID: "w15", Text: "Replying all by accident."},
		{ID: "w16", Text: "A dramatic slow-motion entrance."},
		{ID: "w17", Text: "Unsolicited life advice from a barista."},
		{ID: "w18", Text: "The world's smallest violin."},
		{ID: "w19", Text: "Twelve alarms and still late."},
		{ID: "w20", Text: "A spreadsheet of my feelings."},
		{ID: "w21", Text: "Gas station sushi."},
		{ID: "w22", Text: "A really long hug from a stranger."},
		{ID: "w23", Text: "The printer demanding magenta."},
		{ID: "w24", Text: "An apology written in comic sans."},
		{ID: "w25", Text: "Cargo shorts at a black-tie event."},
		{ID: "w26", Text: "A podcast about other podcasts."},
		{ID: "w27", Text: "Repeating the wifi password slowly."},
		{ID: "w28", Text: "A decorative bowl of fake fruit."},
		{ID: "w29", Text: "Forgetting why I walked into the room."},
		{ID: "w30", Text: "Aggressive small talk in an elevator."},
		{ID: "w31", Text: "A conspiracy board held together with string."},
		{ID: "w32", Text: "The fourth cup of coffee."},
		{ID: "w33", Text: "Shoes that light up with every step."},
		{ID: "w34", Text: "An unskippable ad."},
		{ID: "w35", Text: "Narrating my own life in third person."},
		{ID: "w36", Text: "A llama with strong opinions."},
		{ID: "w37", Text: "Waving back at someone waving behind me."},
		{ID: "w38", Text: "The self-checkout accusing me of theft."},
		{ID: "w39", Text: "A houseplant on its last leaf."},
		{ID: "w40", Text: "Winning an argument in the shower."},
		{ID: "w41", Text: "A trombone solo at a funeral."},
		{ID: "w42", Text: "Three kids in a trench coat."},
		{ID: "w43", Text: "An extremely detailed apology video."},
		{ID: "w44", Text: "The blue shell in last place."},
		{ID: "w45", Text: "A weather app that lies."},
		{ID: "w46", Text: "Assembling furniture out of spite."},
		{ID: "w47", Text: "A standing ovation for reheated leftovers."},
		{ID: "w48", Text: "The committee for naming committees."},
		{ID: "w49", Text: "A haunted roomba."},
		{ID: "w50", Text: "Eye contact with the gym mirror."},
		{ID: "w51", Text: "A 40-slide presentation about brunch."},
		{ID: "w52", Text: "The remote, exactly where I left it."},
		{ID: "w53", Text: "An army of garden gnomes."},
		{ID: "w54", Text: "Clapping when the plane lands."},
		{ID: "w55", Text: "A perfectly timed fire drill."},
		{ID: "w56", Text: "My browser history."},
		{ID: "w57", Text: "A duel settled by rock paper scissors."},
		{ID: "w58", Text: "The one sock the dryer spared."},
		{ID: "w59", Text: "A medieval peasant tasting soda."},
		{ID: "w60", Text: "Whispering \"same\" at a documentary."},
	},
}
