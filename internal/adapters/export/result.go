package export

// ImportResult summarises a roster import.
type ImportResult struct {
	Imported int        `json:"imported"`
	Rejected []RowError `json:"rejected"`
	Replaced bool       `json:"replaced"`
	Total    int        `json:"total"`
}
