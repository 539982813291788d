package vectorstore

// SearchResults carries the outcome of one content search. Documents,
// Metadata and Distances are positionally aligned, but consumers must not
// assume equal lengths. When Error is set, all three lists are empty.
type SearchResults struct {
	Documents []string                 `json:"documents"`
	Metadata  []map[string]interface{} `json:"metadata"`
	Distances []float64                `json:"distances"`
	Error     string                   `json:"error,omitempty"`
}

// EmptyResults creates an empty SearchResults carrying an error message.
func EmptyResults(errMsg string) *SearchResults {
	return &SearchResults{
		Documents: []string{},
		Metadata:  []map[string]interface{}{},
		Distances: []float64{},
		Error:     errMsg,
	}
}

// IsEmpty reports whether the result set contains no documents.
func (r *SearchResults) IsEmpty() bool {
	return len(r.Documents) == 0
}
