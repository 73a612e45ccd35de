package core

// Grouped-aggregate rows. Each query returns a typed label/value pair
// instead of an untyped tuple list.
type (
	// MonthSum is a sum of amounts for one calendar month (1-12)
	// extracted from record dates.
	MonthSum struct {
		Month int     `json:"month"`
		Total float64 `json:"total"`
	}

	// MonthCount is a record count for one calendar month.
	MonthCount struct {
		Month int   `json:"month"`
		Count int64 `json:"count"`
	}

	// YearCount is a record count for one calendar year.
	YearCount struct {
		Year  int   `json:"year"`
		Count int64 `json:"count"`
	}

	// LabelSum is a sum of amounts for one free-text grouping key,
	// such as an income source.
	LabelSum struct {
		Label string  `json:"label"`
		Total float64 `json:"total"`
	}

	// LabelCount is a record count for one free-text grouping key,
	// such as a budget month label or category.
	LabelCount struct {
		Label string `json:"label"`
		Count int64  `json:"count"`
	}
)
