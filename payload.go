package catalog

import (
	"math"
	"strconv"

	"github.com/aarondl/null/v8"
)

// FormatNumber renders a number the way payloads carry numeric bounds and
// the way numeric fields compare as text.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewQueryPayload serializes a state into the store-facing payload.
// Vacuous filters are left out, so a store never sees a filter that
// excludes nothing.
func NewQueryPayload(state QueryState) QueryPayload {
	payload := QueryPayload{
		SearchTerm:  state.SearchTerm,
		Filters:     make([]PayloadFilter, 0, len(state.Filters)),
		CurrentPage: state.PageNumber,
		PageSize:    state.PageSize,
	}

	for _, f := range state.ActiveFilters() {
		payload.Filters = append(payload.Filters, NewPayloadFilter(f))
	}

	return payload
}

// NewPayloadFilter normalizes a single non-vacuous filter.
func NewPayloadFilter(f FieldFilter) PayloadFilter {
	out := PayloadFilter{Key: f.Key, Logic: LogicAnd}

	if !f.Spec.Finite() {
		out.Type = PayloadNever
		out.Values = []string{}
		return out
	}

	switch f.Spec.Kind {
	case KindValue:
		out.Type = PayloadValue
		out.Values = []string{f.Spec.Value.String}
	case KindRange:
		out.Type = PayloadRange
		out.Values = []string{formatBound(f.Spec.Min), formatBound(f.Spec.Max)}
	case KindGreater:
		out.Type = PayloadGreater
		out.Values = []string{FormatNumber(f.Spec.Threshold.Float64)}
	case KindSmaller:
		out.Type = PayloadSmaller
		out.Values = []string{FormatNumber(f.Spec.Threshold.Float64)}
	case KindMultiselect:
		out.Type = PayloadMultiselect
		out.Values = f.Spec.Selected()
		out.Logic = LogicOr
	default:
		out.Type = PayloadNever
		out.Values = []string{}
	}

	return out
}

// FieldFilter converts a payload filter back into a FieldFilter, so stores
// that evaluate payloads in process use the same predicate semantics as the
// in-memory engine. Malformed filters become KindNever.
func (pf PayloadFilter) FieldFilter() FieldFilter {
	never := FieldFilter{Key: pf.Key, Spec: FilterSpec{Kind: KindNever}}

	switch pf.Type {
	case PayloadValue:
		if len(pf.Values) == 0 {
			return FieldFilter{Key: pf.Key, Spec: ValueFilter(null.String{})}
		}
		return FieldFilter{Key: pf.Key, Spec: ValueFilter(null.StringFrom(pf.Values[0]))}

	case PayloadRange:
		if len(pf.Values) != 2 {
			return never
		}
		lo, ok := parseBound(pf.Values[0])
		if !ok {
			return never
		}
		hi, ok := parseBound(pf.Values[1])
		if !ok {
			return never
		}
		return FieldFilter{Key: pf.Key, Spec: RangeFilter(lo, hi)}

	case PayloadGreater, PayloadSmaller:
		if len(pf.Values) != 1 {
			return never
		}
		t, ok := parseBound(pf.Values[0])
		if !ok || !t.Valid {
			return never
		}
		if pf.Type == PayloadGreater {
			return FieldFilter{Key: pf.Key, Spec: GreaterFilter(t)}
		}
		return FieldFilter{Key: pf.Key, Spec: SmallerFilter(t)}

	case PayloadMultiselect:
		opts := make([]Option, len(pf.Values))
		for i, v := range pf.Values {
			opts[i] = Option{Value: v, Selected: true}
		}
		return FieldFilter{Key: pf.Key, Spec: MultiselectFilter(opts...)}

	default:
		return never
	}
}

// FieldFilters converts every payload filter, in order.
func (p QueryPayload) FieldFilters() []FieldFilter {
	out := make([]FieldFilter, len(p.Filters))
	for i, pf := range p.Filters {
		out[i] = pf.FieldFilter()
	}
	return out
}

// QueryState rebuilds the state a payload was serialized from, minus the
// vacuous filters it never carried.
func (p QueryPayload) QueryState() QueryState {
	return QueryState{
		SearchTerm: p.SearchTerm,
		Filters:    p.FieldFilters(),
		PageNumber: p.CurrentPage,
		PageSize:   p.PageSize,
	}
}

func formatBound(v null.Float64) string {
	if !v.Valid {
		return ""
	}
	return FormatNumber(v.Float64)
}

func parseBound(s string) (null.Float64, bool) {
	if s == "" {
		return null.Float64{}, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float64{}, false
	}
	return null.Float64From(f), true
}
