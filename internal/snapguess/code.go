package snapguess

import "math/rand/v2"

// codeAlphabet excludes visually confusable characters (0, O, 1, I) so
// codes survive being read out over a video call.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the number of characters in a room code.
const CodeLength = 5

// NewCode returns a random 5-character room code like "A7K2M". Codes are
// not guaranteed unique; room creation must handle the (rare) collision.
func NewCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}
