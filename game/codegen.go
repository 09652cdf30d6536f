package game

import "math/rand"

// Room codes avoid characters that read ambiguously on a phone screen
// (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 4

func generateCode(rng *rand.Rand) string {
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	return string(code)
}
