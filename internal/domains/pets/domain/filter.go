package domain

import "strings"

// ListFilter selects pets for listing. Filters apply in field order; Skip and First apply last.
type ListFilter struct {
	// Adoptable selects pets with no owner, a steward, and not yet adopted. Otherwise Holders applies.
	Adoptable bool
	Holders   Custody
	// Search matches the pet name case-insensitively, or a steward listed in SearchStewardIDs.
	Search           string
	SearchStewardIDs []int64
	Kind             Kind
	IsAdopted        *bool
	Skip             int
	// First limits the page size; zero means no limit.
	First int
}

// Matches evaluates every predicate except pagination.
func (f ListFilter) Matches(p *Pet) bool {
	if p == nil {
		return false
	}
	if f.Adoptable {
		if !p.Custody.Adoptable() || p.IsAdopted {
			return false
		}
	} else if !f.Holders.Covers(p.Custody) {
		return false
	}
	if f.Search != "" && !f.matchesSearch(p) {
		return false
	}
	if f.Kind != "" && p.Kind != f.Kind {
		return false
	}
	if f.IsAdopted != nil && p.IsAdopted != *f.IsAdopted {
		return false
	}
	return true
}

func (f ListFilter) matchesSearch(p *Pet) bool {
	if strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return true
	}
	if p.Custody.StewardID == nil {
		return false
	}
	for _, id := range f.SearchStewardIDs {
		if id == *p.Custody.StewardID {
			return true
		}
	}
	return false
}

// Page applies Skip then First to an already ordered slice.
func Page[T any](items []T, skip, first int) []T {
	if skip > 0 {
		if skip >= len(items) {
			return nil
		}
		items = items[skip:]
	}
	if first > 0 && first < len(items) {
		items = items[:first]
	}
	return items
}
