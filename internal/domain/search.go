package domain

// SearchResult groups global search hits by collection
type SearchResult struct {
	Query      string     `json:"query"`
	Properties []Property `json:"properties"`
	Tenants    []Tenant   `json:"tenants"`
	Leases     []Lease    `json:"leases"`
}

// Total returns the number of hits over all collections
func (r *SearchResult) Total() int {
	return len(r.Properties) + len(r.Tenants) + len(r.Leases)
}
