package domain

import (
	"encoding/json"
	"strings"
)

// Origin identifies where a cluster came from. The origin decides the
// cluster's id namespace and the section it is shown in.
type Origin int

const (
	OriginUnknown Origin = iota
	OriginEntity         // entity:<name>
	OriginLocal          // local:<category key>
	OriginUser           // manual:<user category id>
	OriginRemote         // remote:<remote category name>
)

func (o Origin) String() string {
	switch o {
	case OriginEntity:
		return "entity"
	case OriginLocal:
		return "local"
	case OriginUser:
		return "manual"
	case OriginRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Section returns the fixed section a cluster of this origin belongs to.
func (o Origin) Section() Section {
	switch o {
	case OriginEntity:
		return SectionPeople
	case OriginLocal:
		return SectionLocal
	case OriginUser:
		return SectionManual
	case OriginRemote:
		return SectionRemote
	default:
		return SectionOther
	}
}

// Section is one of the fixed groups of the cluster list.
type Section string

const (
	SectionPeople Section = "people"
	SectionLocal  Section = "local"
	SectionManual Section = "manual"
	SectionRemote Section = "remote"
	SectionOther  Section = "other"
)

// Sections lists the sections in display order.
var Sections = []Section{SectionPeople, SectionLocal, SectionManual, SectionRemote, SectionOther}

// ParseSection returns the section named s.
func ParseSection(s string) (Section, bool) {
	for _, section := range Sections {
		if string(section) == s {
			return section, true
		}
	}
	return "", false
}

// Title returns a display label for the section.
func (s Section) Title() string {
	switch s {
	case SectionPeople:
		return "People"
	case SectionLocal:
		return "Categories"
	case SectionManual:
		return "My categories"
	case SectionRemote:
		return "Memory"
	default:
		return "Other"
	}
}

var originPrefixes = []Origin{OriginEntity, OriginLocal, OriginUser, OriginRemote}

// Cluster is a named, derived group of notes or external facts.
type Cluster struct {
	Origin      Origin
	Key         string // id without the origin namespace; the raw id for OriginUnknown
	Name        string
	Description string
	Summary     string // optional long-form summary, remote clusters only
}

// ID returns the namespaced cluster id, e.g. "local:work".
func (c Cluster) ID() string {
	if c.Origin == OriginUnknown {
		return c.Key
	}
	return ClusterID(c.Origin, c.Key)
}

// Section returns the section the cluster is listed under.
func (c Cluster) Section() Section {
	return c.Origin.Section()
}

// ClusterID builds the namespaced id for a key of the given origin.
func ClusterID(origin Origin, key string) string {
	if origin == OriginUnknown {
		return key
	}
	return origin.String() + ":" + key
}

// ParseClusterID splits a namespaced id into its origin and key.
// Ids with an unrecognized namespace yield OriginUnknown and the raw id.
func ParseClusterID(id string) (Origin, string) {
	for _, origin := range originPrefixes {
		if key, ok := strings.CutPrefix(id, origin.String()+":"); ok {
			return origin, key
		}
	}
	return OriginUnknown, id
}

type clusterJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Summary     string `json:"summary,omitempty"`
}

// MarshalJSON encodes the cluster with its namespaced id.
func (c Cluster) MarshalJSON() ([]byte, error) {
	return json.Marshal(clusterJSON{
		ID:          c.ID(),
		Name:        c.Name,
		Description: c.Description,
		Summary:     c.Summary,
	})
}

// UnmarshalJSON decodes a cluster, recovering its origin from the id namespace.
func (c *Cluster) UnmarshalJSON(data []byte) error {
	var raw clusterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Origin, c.Key = ParseClusterID(raw.ID)
	c.Name = raw.Name
	c.Description = raw.Description
	c.Summary = raw.Summary
	return nil
}

// FindCluster returns the cluster with the given id.
func FindCluster(clusters []Cluster, id string) (Cluster, bool) {
	for _, c := range clusters {
		if c.ID() == id {
			return c, true
		}
	}
	return Cluster{}, false
}

// ClustersByOrigin returns the clusters of one origin, in their current order.
func ClustersByOrigin(clusters []Cluster, origin Origin) []Cluster {
	var result []Cluster
	for _, c := range clusters {
		if c.Origin == origin {
			result = append(result, c)
		}
	}
	return result
}
