package sqlstore

import (
	"strings"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/pagination"
	"github.com/nrfta/go-catalog/predicate"
)

// column describes how a filter field maps onto the products table.
type column struct {
	quoted  string
	numeric bool
}

// columns is built from the predicate field list so both engines share one
// vocabulary. Filter keys outside it never reach SQL.
var columns = func() map[string]column {
	out := make(map[string]column)
	for _, f := range predicate.Fields() {
		out[f.Key] = column{
			quoted:  quoteIdent(f.Column),
			numeric: f.Numeric,
		}
	}
	return out
}()

// text renders the column the way the evaluator sees a field as text.
func (c column) text() string {
	return "coalesce(" + c.quoted + "::text, '')"
}

// PayloadToQueryMods converts a payload into the mods for one page:
// WhereMods followed by PageMods.
func PayloadToQueryMods(payload catalog.QueryPayload) []qm.QueryMod {
	return append(WhereMods(payload), PageMods(payload)...)
}

// WhereMods converts the search term and filters of a payload into WHERE
// mods. Filters are ANDed. Unknown keys and malformed filters compile to
// FALSE.
//
// Example:
//
//	{category multiselect [Phones Tablets]} → coalesce("category"::text, '') IN (?, ?)
//	{price range ["50" ""]}                 → "price" >= ?
func WhereMods(payload catalog.QueryPayload) []qm.QueryMod {
	mods := []qm.QueryMod{}

	if payload.SearchTerm != "" {
		mods = append(mods, searchClause(payload.SearchTerm))
	}

	for _, f := range payload.FieldFilters() {
		if mod := filterClause(f); mod != nil {
			mods = append(mods, mod)
		}
	}

	return mods
}

// PageMods converts the page of a payload into ORDER BY, LIMIT and OFFSET
// mods. Rows are always in catalog order.
func PageMods(payload catalog.QueryPayload) []qm.QueryMod {
	mods := []qm.QueryMod{qm.OrderBy(columns[catalog.FieldID].quoted)}

	if payload.PageSize > 0 {
		mods = append(mods, qm.Limit(payload.PageSize))
	}

	if offset := pagination.Offset(payload.CurrentPage, payload.PageSize); offset > 0 {
		mods = append(mods, qm.Offset(offset))
	}

	return mods
}

func searchClause(term string) qm.QueryMod {
	fields := predicate.SearchFields()
	parts := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, key := range fields {
		parts[i] = "strpos(lower(" + columns[key].text() + "), lower(?)) > 0"
		args[i] = term
	}
	return rawWhereClause("("+strings.Join(parts, " OR ")+")", args)
}

// filterClause returns nil for a filter that excludes nothing.
func filterClause(f catalog.FieldFilter) qm.QueryMod {
	spec := f.Spec
	if spec.IsVacuous() {
		return nil
	}

	col, ok := columns[f.Key]
	if !ok || !spec.Finite() {
		return rawWhereClause("FALSE", nil)
	}

	switch spec.Kind {
	case catalog.KindValue:
		return rawWhereClause("strpos(lower("+col.text()+"), lower(?)) > 0", []any{spec.Value.String})

	case catalog.KindMultiselect:
		selected := spec.Selected()
		args := make([]any, len(selected))
		for i, v := range selected {
			args[i] = v
		}
		return rawWhereClause(col.text()+" IN ("+placeholders(len(args))+")", args)

	case catalog.KindRange:
		if !col.numeric {
			return rawWhereClause("FALSE", nil)
		}
		var parts []string
		var args []any
		if spec.Min.Valid {
			parts = append(parts, col.quoted+" >= ?")
			args = append(args, spec.Min.Float64)
		}
		if spec.Max.Valid {
			parts = append(parts, col.quoted+" <= ?")
			args = append(args, spec.Max.Float64)
		}
		return rawWhereClause(strings.Join(parts, " AND "), args)

	case catalog.KindGreater:
		if !col.numeric {
			return rawWhereClause("FALSE", nil)
		}
		return rawWhereClause(col.quoted+" > ?", []any{spec.Threshold.Float64})

	case catalog.KindSmaller:
		if !col.numeric {
			return rawWhereClause("FALSE", nil)
		}
		return rawWhereClause(col.quoted+" < ?", []any{spec.Threshold.Float64})

	default:
		return rawWhereClause("FALSE", nil)
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// rawWhereClause creates a custom query mod that injects a WHERE clause directly.
// Clauses are built from whitelisted column names only; every value travels
// as a bind argument.
func rawWhereClause(clause string, args []any) qm.QueryMod {
	return qm.QueryModFunc(func(q *queries.Query) {
		queries.AppendWhere(q, clause, args...)
	})
}
