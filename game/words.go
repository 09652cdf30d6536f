package game

import "math/rand"

// Built-in word packs. Rooms select one or more at creation; "all" expands to
// every pack.
var wordPacks = map[string][]string{
	"classic": {
		"telephone", "table", "armchair", "shirt", "friend", "key", "newspaper",
		"screen", "sand", "tree", "window", "kitchen", "stairs", "bus", "mall",
		"rice", "belt", "sofa", "backpack", "fridge", "neighbors", "elevator",
		"parking", "door",
	},
	"family": {
		"toy", "unicorn", "candy", "castle", "football", "lego", "pool",
		"watermelon", "dinner", "family trip", "siblings", "grandma", "grandpa",
		"hug", "bedtime story", "kindergarten", "school", "birthday party",
		"teddy bear", "stroller",
	},
	"hard": {
		"philosophy", "coincidence", "illusion", "intuition", "inspiration",
		"consciousness", "routine", "potential", "responsibility", "independence",
		"memory", "empathy", "perspective", "resistance", "insight",
	},
	"food": {
		"hummus", "falafel", "shawarma", "couscous", "pancake", "omelette",
		"dumplings", "stuffed peppers", "eggplant salad", "tahini", "pita",
		"shakshuka", "chicken soup", "stew", "skewers", "pastry", "cheesecake",
		"white rice", "stuffed zucchini", "vine leaves", "garden salad",
		"fresh bread", "doughnut",
	},
	"sports": {
		"football", "basketball", "tennis", "swimming", "running", "bicycle",
		"volleyball", "handball", "gymnastics", "foosball", "weightlifting",
		"strength training", "court", "referee", "national team", "stadium",
		"goalkeeper", "goal", "medal", "tournament",
	},
	"professions": {
		"doctor", "nurse", "teacher", "taxi driver", "police officer",
		"firefighter", "lawyer", "architect", "cook", "waiter", "shopkeeper",
		"programmer", "graphic designer", "ceo", "office manager",
		"business consultant", "barber", "electrician", "plumber", "bus driver",
	},
}

// WordPackKeys returns the available pack identifiers.
func WordPackKeys() []string {
	keys := make([]string, 0, len(wordPacks))
	for k := range wordPacks {
		keys = append(keys, k)
	}
	return keys
}

// wordsForPacks flattens the selected packs into one candidate list. Unknown
// keys are skipped; if the selection yields nothing (or is empty), the full
// bank is returned so the dispenser can never run dry.
func wordsForPacks(keys []string) []string {
	var all []string
	for _, k := range keys {
		if k == "all" {
			for _, pack := range wordPacks {
				all = append(all, pack...)
			}
			continue
		}
		if pack, ok := wordPacks[k]; ok {
			all = append(all, pack...)
		}
	}
	if len(all) == 0 {
		for _, pack := range wordPacks {
			all = append(all, pack...)
		}
	}
	return all
}

// WordSource dispenses words without replacement. When the pool runs out it is
// refilled from the selected packs, so words may repeat across a game but not
// within one unexhausted pass.
type WordSource struct {
	packKeys []string
	pool     []string
	rng      *rand.Rand
}

func NewWordSource(packKeys []string, rng *rand.Rand) *WordSource {
	ws := &WordSource{packKeys: packKeys, rng: rng}
	ws.refill()
	return ws
}

func (ws *WordSource) refill() {
	ws.pool = wordsForPacks(ws.packKeys)
}

// Draw removes and returns one word uniformly at random from the remaining
// pool. It never fails: an exhausted pool is refilled before drawing.
func (ws *WordSource) Draw() string {
	if len(ws.pool) == 0 {
		ws.refill()
	}
	i := ws.rng.Intn(len(ws.pool))
	word := ws.pool[i]
	ws.pool[i] = ws.pool[len(ws.pool)-1]
	ws.pool = ws.pool[:len(ws.pool)-1]
	return word
}

// Remaining reports how many words are left in the current pass.
func (ws *WordSource) Remaining() int {
	return len(ws.pool)
}

// lettersPool is a frequency-weighted multiset: common letters appear more
// often, so a 7-letter draw is usually playable.
const lettersPool = "aaaaaaabbcccdddeeeeeeeeeeffgghhhiiiiiiijkllllmmmnnnnnnooooooopppqrrrrrrsssssttttttuuuvvwwxyyz"

const speedBoardSize = 7

// drawLetters draws n letters with replacement from the weighted pool.
func drawLetters(rng *rand.Rand, n int) []string {
	letters := make([]string, n)
	for i := range letters {
		letters[i] = string(lettersPool[rng.Intn(len(lettersPool))])
	}
	return letters
}
