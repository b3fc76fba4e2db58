package application

import "unsort/internal/domain"

// Re-export domain types for use by adapters
type (
	Cluster        = domain.Cluster
	Note           = domain.Note
	UserCategory   = domain.UserCategory
	AggregatedItem = domain.AggregatedItem
	RetrievedItem  = domain.RetrievedItem
	Section        = domain.Section
	Origin         = domain.Origin
)

// Re-export sections for use by adapters
const (
	SectionPeople = domain.SectionPeople
	SectionLocal  = domain.SectionLocal
	SectionManual = domain.SectionManual
	SectionRemote = domain.SectionRemote
	SectionOther  = domain.SectionOther
)

// Sections returns the cluster sections in display order
func Sections() []Section {
	return domain.Sections
}

// ItemID returns the stable id of a retrieved or aggregated item
func ItemID(itemType, content string) string {
	return domain.ItemID(itemType, content)
}

// Snippet flattens text to one line of at most max characters
func Snippet(text string, max int) string {
	return domain.Snippet(text, max)
}

// BulletLine renders a retrieved fragment as a bullet
func BulletLine(text string) string {
	return domain.BulletLine(text)
}

// MoveIDs moves entries of an ordered id list the way a list drag does
func MoveIDs(ids []string, from []int, to int) []string {
	return domain.MoveIDs(ids, from, to)
}
