package domain

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// substringMinChars is the shortest normalized text that may match by containment.
	substringMinChars = 12
	// fuzzyMaxShortChars is the length at or below which only exact matches count.
	fuzzyMaxShortChars = 10
	// jaccardThreshold is the character-set similarity that marks a near-duplicate.
	jaccardThreshold = 0.92
)

// AggregatedItem is the representative of a group of near-duplicate retrieved items.
type AggregatedItem struct {
	ID      string `json:"id"`
	Type    string `json:"memoryType"`
	Content string `json:"content"`
	Count   int    `json:"count"`
}

// ItemID derives the stable id of an aggregated item.
func ItemID(itemType, content string) string {
	return itemType + ":" + NormalizeForDedup(content)
}

// IsNearDuplicate reports whether two normalized strings are equivalent:
// equal, long enough and contained in one another, or with a character-set
// Jaccard similarity at or above the threshold.
func IsNearDuplicate(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}

	shorter, longer := a, b
	if CharCount(a) > CharCount(b) {
		shorter, longer = b, a
	}
	shortLen := CharCount(shorter)

	if shortLen >= substringMinChars && strings.Contains(longer, shorter) {
		return true
	}
	if shortLen <= fuzzyMaxShortChars {
		return false
	}

	return jaccard(charSet(a), charSet(b)) >= jaccardThreshold
}

func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for ch := range a {
		if _, ok := b[ch]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Aggregate collapses near-duplicate items into representatives with counts.
//
// Grouping is greedy and anchored: each unassigned item opens a group and
// absorbs every later unassigned item of the same type that is a
// near-duplicate of the anchor itself. Members are never compared with each
// other, so two items close to the anchor but not to each other still merge.
func Aggregate(items []RetrievedItem) []AggregatedItem {
	cleaned := make([]RetrievedItem, 0, len(items))
	for _, item := range items {
		content := strings.TrimSpace(item.Content)
		if content == "" {
			continue
		}
		cleaned = append(cleaned, RetrievedItem{Type: item.Type, Content: content})
	}

	normalized := make([]string, len(cleaned))
	for i, item := range cleaned {
		normalized[i] = NormalizeForDedup(item.Content)
	}

	used := make([]bool, len(cleaned))
	result := make([]AggregatedItem, 0, len(cleaned))

	for i, anchor := range cleaned {
		if used[i] {
			continue
		}
		used[i] = true

		representative := anchor
		repLen := CharCount(anchor.Content)
		count := 1

		for j := i + 1; j < len(cleaned); j++ {
			if used[j] || cleaned[j].Type != anchor.Type {
				continue
			}
			if !IsNearDuplicate(normalized[i], normalized[j]) {
				continue
			}
			used[j] = true
			count++
			if l := CharCount(cleaned[j].Content); l > repLen {
				representative, repLen = cleaned[j], l
			}
		}

		result = append(result, AggregatedItem{
			ID:      ItemID(representative.Type, representative.Content),
			Type:    representative.Type,
			Content: representative.Content,
			Count:   count,
		})
	}

	slices.SortStableFunc(result, compareAggregated)
	return result
}

// compareAggregated orders by count descending, then content length descending.
func compareAggregated(a, b AggregatedItem) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return cmp.Compare(CharCount(b.Content), CharCount(a.Content))
}
