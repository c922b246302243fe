package censor

// maxSegmentRunes is the per-request text limit imposed by the moderation
// API. Longer texts are checked as multiple segments.
const maxSegmentRunes = 600

// splitText slices content into sequential non-overlapping segments of at
// most maxSegmentRunes runes each, preserving original order. Splitting on
// runes keeps multi-byte text within the API limit without breaking a
// character in half. Empty input yields no segments.
func splitText(content string) []string {
	if content == "" {
		return nil
	}
	runes := []rune(content)
	segments := make([]string, 0, (len(runes)+maxSegmentRunes-1)/maxSegmentRunes)
	for start := 0; start < len(runes); start += maxSegmentRunes {
		end := start + maxSegmentRunes
		if end > len(runes) {
			end = len(runes)
		}
		segments = append(segments, string(runes[start:end]))
	}
	return segments
}
