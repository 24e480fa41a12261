package models

// Heatmap holds expense totals by calendar month (rows) and category (columns).
type Heatmap struct {
	Categories []string    `json:"categories"`
	Months     []int       `json:"months"`
	Cells      [][]float64 `json:"cells"` // Cells[month index][category index]
}

// Empty reports whether the heatmap has no expense data.
func (h Heatmap) Empty() bool {
	return len(h.Categories) == 0 || len(h.Months) == 0
}
