package domain

import "strings"

// LocalCategory is a fixed keyword category of the rule-based classifier.
type LocalCategory struct {
	Key         string
	Name        string
	Description string
	Keywords    []string
}

// FallbackCategoryKey is assigned to notes that match no other local category.
const FallbackCategoryKey = "misc"

// LocalCategories is the static, ordered classification table.
var LocalCategories = []LocalCategory{
	{
		Key:         "novel",
		Name:        "小説・創作",
		Description: "構想・設定・プロット",
		Keywords:    []string{"小説", "物語", "プロット", "設定", "登場人物", "章", "シーン", "キャラ", "世界観", "構想"},
	},
	{
		Key:         "study",
		Name:        "勉強",
		Description: "学習・読書・復習",
		Keywords:    []string{"勉強", "学習", "復習", "読書", "講義", "試験", "テスト", "暗記", "演習"},
	},
	{
		Key:         "work",
		Name:        "仕事",
		Description: "会議・資料・業務",
		Keywords:    []string{"仕事", "会議", "ミーティング", "報告", "資料", "顧客", "取引先", "納期", "レビュー", "PM"},
	},
	{
		Key:         "plan",
		Name:        "計画・タスク",
		Description: "予定・TODO・締切",
		Keywords:    []string{"計画", "予定", "タスク", "TODO", "ToDo", "やること", "締切", "期限", "リマインド", "明日", "今週", "来週", "今月"},
	},
	{
		Key:         "idea",
		Name:        "アイデア",
		Description: "発想メモ",
		Keywords:    []string{"アイデア", "発想", "ひらめき", "案", "ネタ", "企画"},
	},
	{
		Key:         FallbackCategoryKey,
		Name:        "その他",
		Description: "未分類",
	},
}

// Classify returns the keys of the local categories whose keywords occur in
// text, case-insensitively, in table order. A note matching nothing gets
// exactly the fallback category.
func Classify(text string) []string {
	lowered := Lower(text)

	var matched []string
	for _, category := range LocalCategories {
		if category.Key == FallbackCategoryKey {
			continue
		}
		for _, keyword := range category.Keywords {
			if strings.Contains(lowered, Lower(keyword)) {
				matched = append(matched, category.Key)
				break
			}
		}
	}

	if len(matched) == 0 {
		return []string{FallbackCategoryKey}
	}
	return matched
}

// BuildLocalClusters materializes a local cluster for every category that at
// least one active note currently matches, in table order.
func BuildLocalClusters(notes []Note) []Cluster {
	counts := make(map[string]int)
	for _, n := range notes {
		if n.Deleted {
			continue
		}
		for _, key := range Classify(n.Text) {
			counts[key]++
		}
	}

	var clusters []Cluster
	for _, category := range LocalCategories {
		if counts[category.Key] == 0 {
			continue
		}
		clusters = append(clusters, Cluster{
			Origin:      OriginLocal,
			Key:         category.Key,
			Name:        category.Name,
			Description: category.Description,
		})
	}
	return clusters
}
