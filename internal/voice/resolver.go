package voice

import (
	"strings"

	"github.com/Its-Zach/grandline/pkg/types"
)

// Resolve maps a raw spoken phrase to an entry of the reference list.
//
// Both the phrase and each reference name are canonicalized with Normalize
// before comparison. Resolution runs in two passes:
//
//  1. Exact: the first entry whose canonical name equals the canonical
//     phrase wins. List order is the tie-break.
//  2. Partial: the first entry whose canonical name contains the canonical
//     phrase as a substring, or whose canonical name is contained in the
//     phrase, wins. The symmetry recovers both clipped names ("blue" for
//     "East Blue") and padded ones ("the east blue sea").
//
// An empty canonical phrase never matches; without that guard the empty
// string would "contain"-match every entry. Duplicate or overlapping names
// resolve by list order, not specificity.
func Resolve(entities []types.NamedEntity, phrase string) (types.NamedEntity, bool) {
	canonical := Normalize(phrase)
	if canonical == "" {
		return types.NamedEntity{}, false
	}

	for _, e := range entities {
		if Normalize(e.Name) == canonical {
			return e, true
		}
	}

	for _, e := range entities {
		name := Normalize(e.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, canonical) || strings.Contains(canonical, name) {
			return e, true
		}
	}

	return types.NamedEntity{}, false
}
