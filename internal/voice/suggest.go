package voice

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/Its-Zach/grandline/pkg/types"
)

const (
	// suggestPhoneticThreshold is the minimum Jaro-Winkler score required
	// for a phonetically-matched entity to be offered as a suggestion.
	suggestPhoneticThreshold = 0.70

	// suggestFuzzyThreshold is the minimum Jaro-Winkler score required
	// when no phonetic candidate exists.
	suggestFuzzyThreshold = 0.85
)

// Suggest finds the reference entity most phonetically similar to a phrase
// that Resolve could not match, for use in a "did you mean" reprompt.
//
// Candidates are filtered by Double Metaphone code overlap between the
// phrase tokens and the entity name tokens, then ranked by Jaro-Winkler
// similarity. When no phonetic candidate clears the threshold, a pure
// Jaro-Winkler pass with a stricter threshold is tried instead.
//
// Suggest never resolves anything: resolution stays with Resolve's
// exact-then-substring passes, and a suggestion is advisory text only.
func Suggest(entities []types.NamedEntity, phrase string) (string, bool) {
	canonical := Normalize(phrase)
	if canonical == "" || len(entities) == 0 {
		return "", false
	}

	phraseTokens := strings.Fields(canonical)
	phraseCodes := codesForTokens(phraseTokens)

	type candidate struct {
		name     string
		score    float64
		phonetic bool
	}

	var best candidate

	for _, e := range entities {
		name := Normalize(e.Name)
		if name == "" {
			continue
		}
		nameTokens := strings.Fields(name)

		phoneticMatch := codesOverlap(phraseCodes, codesForTokens(nameTokens))
		score := bestJWScore(phraseTokens, nameTokens, canonical, name)

		if phoneticMatch {
			if score >= suggestPhoneticThreshold {
				if !best.phonetic || score > best.score {
					best = candidate{name: e.Name, score: score, phonetic: true}
				}
			}
		} else if !best.phonetic {
			if score >= suggestFuzzyThreshold && score > best.score {
				best = candidate{name: e.Name, score: score}
			}
		}
	}

	if best.name != "" {
		return best.name, true
	}
	return "", false
}

// codesForTokens returns the union of all Double Metaphone codes for the
// given tokens. Empty codes (produced when a word is too short or has no
// consonants) are excluded.
func codesForTokens(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

// codesOverlap returns true if the two code sets share at least one code.
func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}

// bestJWScore computes the highest Jaro-Winkler similarity between the
// phrase and the entity name across three strategies: full strings,
// space-stripped strings, and the best pairwise token score.
func bestJWScore(phraseTokens, nameTokens []string, phraseFull, nameFull string) float64 {
	score := matchr.JaroWinkler(phraseFull, nameFull, false)

	if len(phraseTokens) > 1 || len(nameTokens) > 1 {
		concat1 := strings.Join(phraseTokens, "")
		concat2 := strings.Join(nameTokens, "")
		if s := matchr.JaroWinkler(concat1, concat2, false); s > score {
			score = s
		}
	}

	for _, pt := range phraseTokens {
		for _, nt := range nameTokens {
			if s := matchr.JaroWinkler(pt, nt, false); s > score {
				score = s
			}
		}
	}

	return score
}
