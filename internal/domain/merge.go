package domain

// MergeClusters combines the four cluster sources into the single ordered
// cluster list.
//
// Algorithm:
//  1. Index clusters by id; later sources overwrite earlier ones on collision.
//  2. Drop hidden ids.
//  3. Partition by section (unknown namespaces go to "other").
//  4. Within a section: explicitly ordered clusters first by index, the rest by name.
//  5. Concatenate sections in display order.
//
// The result depends only on the inputs, never on map iteration order.
func MergeClusters(entity, local, user, external []Cluster, prefs Preferences) []Cluster {
	merged := make(map[string]Cluster)
	for _, source := range [][]Cluster{entity, local, user, external} {
		for _, c := range source {
			merged[c.ID()] = c
		}
	}

	bySection := make(map[Section][]Cluster, len(Sections))
	for id, c := range merged {
		if prefs.IsClusterHidden(id) {
			continue
		}
		bySection[c.Section()] = append(bySection[c.Section()], c)
	}

	result := make([]Cluster, 0, len(merged))
	for _, section := range Sections {
		result = append(result, sortClusters(bySection[section], prefs.ClusterOrder(section))...)
	}
	return result
}

// BuildClusters recomputes the full cluster list from the durable state and
// the externally sourced clusters.
func BuildClusters(notes []Note, categories []UserCategory, external []Cluster, prefs Preferences) []Cluster {
	return MergeClusters(
		BuildEntityClusters(notes),
		BuildLocalClusters(notes),
		BuildUserClusters(categories),
		external,
		prefs,
	)
}
