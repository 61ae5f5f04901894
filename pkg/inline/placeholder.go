package inline

import (
	"strconv"
	"strings"
)

// maxReleaseRounds bounds placeholder substitution. A fragment may contain
// keys of fragments stored before it, so several rounds can be needed.
const maxReleaseRounds = 10

// keyDelim brackets every placeholder key. Document text never contains it
// once normalized.
const keyDelim = "\r"

// Keys generates placeholder keys from a seed and a monotonic counter.
// Keys from one generator never repeat.
type Keys struct {
	seed string
	next int
}

// NewKeys returns a key generator. The seed should be derived from the
// document so that output is reproducible.
func NewKeys(seed string) *Keys {
	return &Keys{seed: seed}
}

// Next returns a fresh key.
func (k *Keys) Next() string {
	k.next++
	return keyDelim + k.seed + strconv.Itoa(k.next) + keyDelim
}

// holders maps placeholder keys to finished fragments for one top-level
// inline render.
type holders map[string]string

// release substitutes stored fragments back into text.
func (h holders) release(text string) string {
	if len(h) == 0 {
		return text
	}

	pairs := make([]string, 0, len(h)*2)
	for key, fragment := range h {
		pairs = append(pairs, key, fragment)
	}
	replacer := strings.NewReplacer(pairs...)

	for round := 0; round < maxReleaseRounds && strings.Contains(text, keyDelim); round++ {
		text = replacer.Replace(text)
	}
	return text
}
