package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordSource_NoRepeatsWithinAPass(t *testing.T) {
	t.Parallel()
	ws := NewWordSource([]string{"classic"}, rand.New(rand.NewSource(1)))
	total := len(wordPacks["classic"])
	require.Equal(t, total, ws.Remaining())

	seen := map[string]bool{}
	for i := 0; i < total; i++ {
		word := ws.Draw()
		assert.False(t, seen[word], "word %q drawn twice in one pass", word)
		assert.Contains(t, wordPacks["classic"], word)
		seen[word] = true
	}
	assert.Zero(t, ws.Remaining())
}

func TestWordSource_RefillsWhenExhausted(t *testing.T) {
	t.Parallel()
	ws := NewWordSource([]string{"hard"}, rand.New(rand.NewSource(2)))
	total := len(wordPacks["hard"])
	for i := 0; i < total; i++ {
		ws.Draw()
	}
	require.Zero(t, ws.Remaining())

	// The dispenser never runs dry.
	word := ws.Draw()
	assert.Contains(t, wordPacks["hard"], word)
	assert.Equal(t, total-1, ws.Remaining())
}

func TestWordsForPacks(t *testing.T) {
	t.Parallel()
	var bank []string
	for _, pack := range wordPacks {
		bank = append(bank, pack...)
	}

	tests := []struct {
		name string
		keys []string
		want int
	}{
		{name: "single pack", keys: []string{"food"}, want: len(wordPacks["food"])},
		{name: "two packs", keys: []string{"food", "sports"}, want: len(wordPacks["food"]) + len(wordPacks["sports"])},
		{name: "unknown key skipped", keys: []string{"food", "nope"}, want: len(wordPacks["food"])},
		{name: "all expands to the full bank", keys: []string{"all"}, want: len(bank)},
		{name: "nothing selected falls back to the full bank", keys: nil, want: len(bank)},
		{name: "only unknown keys fall back to the full bank", keys: []string{"nope"}, want: len(bank)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, wordsForPacks(tc.keys), tc.want)
		})
	}
}

func TestWordPackKeys(t *testing.T) {
	t.Parallel()
	keys := WordPackKeys()
	assert.Len(t, keys, len(wordPacks))
	assert.Contains(t, keys, "classic")
}

func TestDrawLetters(t *testing.T) {
	t.Parallel()
	letters := drawLetters(rand.New(rand.NewSource(3)), speedBoardSize)
	require.Len(t, letters, speedBoardSize)
	for _, l := range letters {
		assert.Len(t, l, 1)
		assert.Contains(t, lettersPool, l)
	}
}
