package models

// SearchCondition 目录检索的过滤条件，零值表示不过滤
type SearchCondition struct {
	Venues   []string
	YearFrom int
	YearTo   int
	Category string
	Limit    int
}
