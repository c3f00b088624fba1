package repository

import (
	"fmt"
	"slices"

	"github.com/fastygo/degreeprogram/domain"
)

const (
	// PerPageAll disables pagination.
	PerPageAll = -1

	defaultPerPage = 10
)

// CollectionCriteria selects a page of degree programs. Values are immutable;
// the With methods return validated copies.
type CollectionCriteria struct {
	page         int
	perPage      int
	include      []int
	facultySlugs []string
}

func NewCollectionCriteria() CollectionCriteria {
	return CollectionCriteria{page: 1, perPage: defaultPerPage}
}

func (c CollectionCriteria) WithPage(page int) (CollectionCriteria, error) {
	if page < 1 {
		return c, domain.NewInvalidInputError(fmt.Sprintf("page must be positive, got %d", page))
	}
	c.page = page
	return c, nil
}

// WithPerPage accepts PerPageAll or any positive value.
func (c CollectionCriteria) WithPerPage(perPage int) (CollectionCriteria, error) {
	if perPage < PerPageAll || perPage == 0 {
		return c, domain.NewInvalidInputError(fmt.Sprintf("per_page must be -1 or positive, got %d", perPage))
	}
	c.perPage = perPage
	return c, nil
}

func (c CollectionCriteria) WithInclude(ids []int) (CollectionCriteria, error) {
	for _, id := range ids {
		if id < 1 {
			return c, domain.NewInvalidInputError(fmt.Sprintf("include ids must be positive, got %d", id))
		}
	}
	c.include = slices.Clone(ids)
	return c, nil
}

// WithFacultySlugs sets the faculty context used to filter the views.
func (c CollectionCriteria) WithFacultySlugs(slugs []string) CollectionCriteria {
	c.facultySlugs = slices.Clone(slugs)
	return c
}

func (c CollectionCriteria) ToNextPage() CollectionCriteria {
	c.page++
	return c
}

func (c CollectionCriteria) Page() int { return c.page }
func (c CollectionCriteria) PerPage() int { return c.perPage }
func (c CollectionCriteria) Include() []int { return slices.Clone(c.include) }
func (c CollectionCriteria) FacultySlugs() []string { return slices.Clone(c.facultySlugs) }
func (c CollectionCriteria) PaginationDisabled() bool { return c.perPage == PerPageAll }

// Offset is the number of rows to skip for the current page.
func (c CollectionCriteria) Offset() int {
	if c.PaginationDisabled() {
		return 0
	}
	return (c.page - 1) * c.perPage
}

// PaginatedCollection is one page of a result set.
type PaginatedCollection[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
}

// NewPaginatedCollection computes the page count from criteria and totalItems.
func NewPaginatedCollection[T any](items []T, criteria CollectionCriteria, totalItems int) PaginatedCollection[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 1
	if !criteria.PaginationDisabled() && totalItems > 0 {
		totalPages = (totalItems + criteria.PerPage() - 1) / criteria.PerPage()
	}
	if totalItems == 0 {
		totalPages = 0
	}
	return PaginatedCollection[T]{
		Items:      items,
		TotalItems: totalItems,
		TotalPages: totalPages,
		Page:       criteria.Page(),
	}
}

// MapCollection converts the items of a page, keeping the pagination data.
func MapCollection[T, R any](in PaginatedCollection[T], fn func(T) R) PaginatedCollection[R] {
	out := PaginatedCollection[R]{
		Items:      make([]R, 0, len(in.Items)),
		TotalItems: in.TotalItems,
		TotalPages: in.TotalPages,
		Page:       in.Page,
	}
	for _, item := range in.Items {
		out.Items = append(out.Items, fn(item))
	}
	return out
}
