package history

import "strings"

// Filter narrows a loaded collection client-side. Zero values mean "no
// constraint"; a filtered view never mutates the underlying records.
type Filter struct {
	Type       TransactionType
	TokenType  string
	SearchTerm string
}

// IsZero reports whether the filter constrains nothing
func (f Filter) IsZero() bool {
	return f.Type == "" && f.TokenType == "" && f.SearchTerm == ""
}

// Apply returns the records passing every set constraint, preserving order
func (f Filter) Apply(records []TransactionRecord) []TransactionRecord {
	if f.IsZero() {
		return records
	}

	result := make([]TransactionRecord, 0, len(records))
	for _, r := range records {
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if f.TokenType != "" && r.TokenType != f.TokenType {
			continue
		}
		if f.SearchTerm != "" && !matchesSearch(r, f.SearchTerm) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// matchesSearch checks the term case-insensitively against description,
// hash, sender, and receiver; any single match qualifies.
func matchesSearch(r TransactionRecord, term string) bool {
	needle := strings.ToLower(term)
	for _, haystack := range []string{r.Description, r.Hash, r.From, r.To} {
		if haystack != "" && strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}
