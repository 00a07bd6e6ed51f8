package remote

import "github.com/nrfta/go-catalog"

// BuildPayload serializes state for DataSource.Query. Vacuous filters are
// omitted and numbers use the shortest decimal form.
func BuildPayload(state catalog.QueryState) catalog.QueryPayload {
	return catalog.NewQueryPayload(state)
}

// ParsePayloadFilter converts one payload filter back into a FieldFilter.
// Malformed filters come back as catalog.KindNever.
func ParsePayloadFilter(pf catalog.PayloadFilter) catalog.FieldFilter {
	return pf.FieldFilter()
}

// PayloadToFilters converts every filter of payload, in order.
func PayloadToFilters(payload catalog.QueryPayload) []catalog.FieldFilter {
	return payload.FieldFilters()
}
