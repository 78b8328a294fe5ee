package jobs

import (
	"context"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"jobportal/internal/database"
	"jobportal/internal/errcode"
	"jobportal/internal/store"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSort     = "postedDate"

	// MaxPage keeps Page*Size within int for every accepted size.
	MaxPage = math.MaxInt / MaxPageSize
)

// sortable maps the public sort keys onto columns.
var sortable = map[string]string{
	"postedDate": "posted_date",
	"title":      "title",
	"company":    "company",
	"location":   "location",
	"minSalary":  "min_salary",
	"maxSalary":  "max_salary",
}

// Filter is a search request. Zero fields impose no constraint.
type Filter struct {
	Keyword   string
	Location  string
	JobType   string
	MinSalary *float64
	MaxSalary *float64
	SortBy    string
	Direction string
	Page      int
	Size      int
}

// Page is one page of search results.
type Page struct {
	Items      []database.Job
	Total      int64
	Page       int
	Size       int
	TotalPages int
}

// Search returns the page of jobs matching f. No principal is required.
func (s *Service) Search(ctx context.Context, f Filter) (Page, error) {
	q, err := f.query()
	if err != nil {
		return Page{}, err
	}
	items, total, err := s.repo.Search(ctx, q)
	if err != nil {
		return Page{}, errcode.Dependency("search jobs", err)
	}
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return Page{
		Items:      items,
		Total:      total,
		Page:       q.Offset / q.Limit,
		Size:       q.Limit,
		TotalPages: pages,
	}, nil
}

func (f Filter) query() (store.SearchQuery, error) {
	if f.SortBy == "" {
		f.SortBy = DefaultSort
	}
	switch {
	case f.Size == 0:
		f.Size = DefaultPageSize
	case f.Size > MaxPageSize:
		f.Size = MaxPageSize
	}
	direction := strings.ToUpper(f.Direction)
	if direction == "" {
		direction = "DESC"
	}

	err := errcode.FromValidation(validation.Errors{
		"jobType":   validation.Validate(f.JobType, validation.In(jobTypes...)),
		"minSalary": validation.Validate(f.MinSalary, validation.Min(0.0)),
		"maxSalary": validation.Validate(f.MaxSalary, validation.Min(0.0)),
		"sortBy":    validation.Validate(f.SortBy, validation.In(sortKeys()...)),
		"direction": validation.Validate(direction, validation.In("ASC", "DESC")),
		"page":      validation.Validate(f.Page, validation.Min(0), validation.Max(MaxPage)),
		"size":      validation.Validate(f.Size, validation.Min(1)),
	}.Filter())
	if err != nil {
		return store.SearchQuery{}, err
	}
	if f.MinSalary != nil && f.MaxSalary != nil && *f.MinSalary > *f.MaxSalary {
		return store.SearchQuery{}, errcode.Invalid("maxSalary", "must not be below minSalary")
	}

	return store.SearchQuery{
		Keyword:    f.Keyword,
		Location:   f.Location,
		JobType:    f.JobType,
		MinSalary:  f.MinSalary,
		MaxSalary:  f.MaxSalary,
		SortColumn: sortable[f.SortBy],
		Descending: direction == "DESC",
		Offset:     f.Page * f.Size,
		Limit:      f.Size,
	}, nil
}

func sortKeys() []any {
	keys := make([]any, 0, len(sortable))
	for k := range sortable {
		keys = append(keys, k)
	}
	return keys
}
