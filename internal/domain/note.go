package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Note is a single user-authored memo, the unit of durable input.
// Deleted notes stay in storage but are excluded from classification and listings.
type Note struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"date"`
	CategoryIDs []string  `json:"manualCategoryIDs"`
	Deleted     bool      `json:"isDeleted"`
}

// HasCategory reports whether the note is filed under the user category.
func (n Note) HasCategory(categoryID string) bool {
	return slices.Contains(n.CategoryIDs, categoryID)
}

// UserCategory is a category declared explicitly by the user.
type UserCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

const (
	entityDescription       = "人物"
	userCategoryDescription = "手動カテゴリ"
)

// ActiveNotes returns the notes that are not deleted, newest first.
func ActiveNotes(notes []Note) []Note {
	active := make([]Note, 0, len(notes))
	for _, n := range notes {
		if !n.Deleted {
			active = append(active, n)
		}
	}
	slices.SortStableFunc(active, func(a, b Note) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return active
}

// FindNote returns the index of the note with the given id, or -1.
func FindNote(notes []Note, id string) int {
	return slices.IndexFunc(notes, func(n Note) bool { return n.ID == id })
}

// RecentNoteText returns the text of the newest active note.
func RecentNoteText(notes []Note) (string, bool) {
	active := ActiveNotes(notes)
	if len(active) == 0 {
		return "", false
	}
	return active[0].Text, true
}

// BuildUserClusters makes one manual cluster per user category, newest declared first.
func BuildUserClusters(categories []UserCategory) []Cluster {
	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b UserCategory) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	clusters := make([]Cluster, 0, len(sorted))
	for _, category := range sorted {
		description := category.Description
		if description == "" {
			description = userCategoryDescription
		}
		clusters = append(clusters, Cluster{
			Origin:      OriginUser,
			Key:         category.ID,
			Name:        category.Name,
			Description: description,
		})
	}
	return clusters
}

// SortUserCategories orders categories by name, then creation time.
func SortUserCategories(categories []UserCategory) {
	slices.SortFunc(categories, func(a, b UserCategory) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

// NotesForCluster returns the active notes that belong to a cluster, newest first.
// Remote clusters have no local notes.
func NotesForCluster(c Cluster, notes []Note) []Note {
	var match func(Note) bool
	switch c.Origin {
	case OriginEntity:
		match = func(n Note) bool { return strings.Contains(n.Text, c.Name) }
	case OriginLocal:
		match = func(n Note) bool { return slices.Contains(Classify(n.Text), c.Key) }
	case OriginUser:
		match = func(n Note) bool { return n.HasCategory(c.Key) }
	default:
		return nil
	}

	var result []Note
	for _, n := range ActiveNotes(notes) {
		if match(n) {
			result = append(result, n)
		}
	}
	return result
}

// NoteCount returns how many active notes belong to a cluster.
// The second result is false for clusters whose membership is not known locally.
func NoteCount(c Cluster, notes []Note) (int, bool) {
	switch c.Origin {
	case OriginEntity, OriginLocal, OriginUser:
		return len(NotesForCluster(c, notes)), true
	default:
		return 0, false
	}
}
