// internal/attrition/codec.go
package attrition

import (
	"sort"
	"strings"
	"unicode"

	stderrors "attrition-insights/internal/common/errors"
)

// The five ordinal verdict classes, in canonical order.
const (
	VerdictWillLeave         = 1
	VerdictLikelyToLeave     = 2
	VerdictNotDecided        = 3
	VerdictLessLikelyToLeave = 4
	VerdictWontLeave         = 5
)

// decodeUnknown is returned for class ids outside the canonical range.
// Decode runs on classifier output and must never fail the serving path.
const decodeUnknown = "Unknown"

// LabelCodec maps verdict text to ordinal class ids and back. Raw text is
// normalized (trimmed, title-cased) before lookup.
type LabelCodec struct {
	toClass map[string]int
	toText  map[int]string
}

func NewLabelCodec() *LabelCodec {
	toClass := map[string]int{
		"Will Leave":           VerdictWillLeave,
		"Likely To Leave":      VerdictLikelyToLeave,
		"Not Decided":          VerdictNotDecided,
		"Less Likely To Leave": VerdictLessLikelyToLeave,
		"Wont Leave":           VerdictWontLeave,
	}
	toText := make(map[int]string, len(toClass))
	for text, id := range toClass {
		toText[id] = text
	}
	return &LabelCodec{toClass: toClass, toText: toText}
}

// Normalize trims surrounding whitespace and title-cases each word, matching
// the canonical verdict forms.
func (c *LabelCodec) Normalize(raw string) string {
	words := strings.Fields(strings.TrimSpace(raw))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// EncodeOne maps one raw verdict to its class id after normalization.
func (c *LabelCodec) EncodeOne(raw string) (int, bool) {
	id, ok := c.toClass[c.Normalize(raw)]
	return id, ok
}

// Encode maps a batch of raw verdicts to class ids. If any value has no
// mapping the whole batch fails with an UNMAPPED_LABEL error carrying every
// distinct offending raw value, so callers can report them all at once.
func (c *LabelCodec) Encode(raw []string) ([]int, error) {
	ids := make([]int, len(raw))
	var unmapped []string
	seen := make(map[string]bool)

	for i, v := range raw {
		id, ok := c.EncodeOne(v)
		if !ok {
			norm := c.Normalize(v)
			if !seen[norm] {
				seen[norm] = true
				unmapped = append(unmapped, norm)
			}
			continue
		}
		ids[i] = id
	}

	if len(unmapped) > 0 {
		sort.Strings(unmapped)
		return nil, stderrors.NewUnmappedLabelError(unmapped)
	}
	return ids, nil
}

// Decode maps a class id back to verdict text, returning "Unknown" for
// out-of-range ids instead of failing.
func (c *LabelCodec) Decode(id int) string {
	if text, ok := c.toText[id]; ok {
		return text
	}
	return decodeUnknown
}
