package domain

import (
	"fmt"
	"strings"
)

// RemoteCategory is a category summarized by the external memory service.
type RemoteCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

// RetrievedItem is a short text fragment returned for a cluster.
type RetrievedItem struct {
	Type    string `json:"memory_type"`
	Content string `json:"content"`
}

// Retrieval is the answer of the external service to a retrieval query.
type Retrieval struct {
	RewrittenQuery string
	Categories     []RemoteCategory
	Items          []RetrievedItem
}

// Summary returns the summary of the first category in the retrieval.
func (r *Retrieval) Summary() string {
	if r == nil || len(r.Categories) == 0 {
		return ""
	}
	return r.Categories[0].Summary
}

// TaskStatus is the processing state of a submitted note.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskSuccess
	TaskFailed
)

func (s TaskStatus) String() string {
	switch s {
	case TaskSuccess:
		return "success"
	case TaskFailed:
		return "failed"
	default:
		return "pending"
	}
}

// BuildRemoteClusters makes one remote cluster per external category.
func BuildRemoteClusters(categories []RemoteCategory) []Cluster {
	clusters := make([]Cluster, 0, len(categories))
	for _, category := range categories {
		clusters = append(clusters, Cluster{
			Origin:      OriginRemote,
			Key:         category.Name,
			Name:        category.Name,
			Description: category.Description,
			Summary:     category.Summary,
		})
	}
	return clusters
}

// RetrievalQuery builds the query sent to the external service when a
// cluster is opened: a Japanese bullet-list answer, merged duplicates.
func RetrievalQuery(c Cluster) string {
	topic := strings.TrimSpace(c.Name)
	return fmt.Sprintf("日本語で回答してください。\n"+
		"出力は箇条書き（各行の先頭に「・」）にしてください。\n"+
		"内容が重複している場合は統合して、短く分かりやすくまとめてください。\n"+
		"テーマ: %s", topic)
}

var bulletReplacer = strings.NewReplacer(
	"•", "・",
	"- ", "・",
	"The user ", "",
	"The user", "",
	"User ", "",
	"User", "",
)

// BulletLine renders a retrieved fragment as a single "・" bullet.
func BulletLine(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	cleaned := strings.TrimSpace(bulletReplacer.Replace(trimmed))
	if strings.HasPrefix(cleaned, "・") {
		return cleaned
	}
	return "・" + cleaned
}
