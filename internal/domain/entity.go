package domain

import (
	"regexp"
	"slices"
	"strings"
)

// EntityHonorific is the suffix that marks a name-like run of ideographs.
const EntityHonorific = "さん"

// entityPattern matches 1-10 CJK ideographs followed by the honorific.
var entityPattern = regexp.MustCompile(`[一-龥]{1,10}` + EntityHonorific)

// ExtractEntities returns the distinct name matches in text, sorted.
// Extraction is a heuristic; it does not attempt real entity recognition.
func ExtractEntities(text string) []string {
	matches := entityPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	slices.Sort(matches)
	return slices.Compact(matches)
}

// BuildEntityClusters extracts names from all active notes and makes one
// people cluster per name.
func BuildEntityClusters(notes []Note) []Cluster {
	texts := make([]string, 0, len(notes))
	for _, n := range notes {
		if !n.Deleted {
			texts = append(texts, n.Text)
		}
	}

	names := ExtractEntities(strings.Join(texts, "\n"))
	clusters := make([]Cluster, 0, len(names))
	for _, name := range names {
		clusters = append(clusters, Cluster{
			Origin:      OriginEntity,
			Key:         name,
			Name:        name,
			Description: entityDescription,
		})
	}
	return clusters
}
