package services

import (
	"context"
	"strings"
)

// CustomerInput carries the fields accepted on customer registration.
type CustomerInput struct {
	Name       string
	Phone      string
	Address    string
	City       string
	Department string
	Email      string
	TaxID      string
	Company    string
}

// CustomerRecord is a customer as stored, with a store-assigned identifier.
type CustomerRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Department string `json:"department"`
	TaxID      string `json:"tax_id"`
	Company    string `json:"company"`
}

// CustomerFilter selects customers. An exact-id match takes precedence over
// the substring query when both are supplied.
type CustomerFilter struct {
	ID    string
	Query string
}

// PageParams is 1-based pagination. Zero values fall back to page 1 with 10
// records per page.
type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) normalized() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}

// bounds returns the half-open slice range for this page of a result set of
// the given size.
func (p PageParams) bounds(total int) (int, int) {
	start := (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

// CustomerPage is one page of directory results. Total counts all matches
// before pagination.
type CustomerPage struct {
	Data  []CustomerRecord `json:"data"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// CustomerDirectory looks up and registers customers.
type CustomerDirectory interface {
	List(ctx context.Context, filter CustomerFilter, page PageParams) (*CustomerPage, error)
	Find(ctx context.Context, id string) (*CustomerRecord, error)
	Create(ctx context.Context, input CustomerInput) (string, error)
}

// sameID compares identifiers as normalized strings, tolerating the
// numeric/string mismatches a loosely typed backing store produces.
func sameID(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b) && strings.TrimSpace(a) != ""
}

// matchesQuery tests a case-insensitive substring against name, company,
// phone and id (logical OR).
func (r CustomerRecord) matchesQuery(q string) bool {
	q = strings.ToLower(q)
	for _, field := range []string{r.Name, r.Company, r.Phone, r.ID} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
