package domain

// ProjectFilter is a saved search filter a person can keep between sessions.
// Zero-value fields mean "no constraint".
type ProjectFilter struct {
	Neighborhood string
	FlatType     FlatTypeKind
}

// IsZero reports whether the filter constrains anything.
func (f ProjectFilter) IsZero() bool {
	return f.Neighborhood == "" && f.FlatType == ""
}
