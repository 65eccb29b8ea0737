package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// Paging bounds the per_page query parameter.
type Paging struct {
	DefaultPerPage int
	MaxPerPage     int
}

// listQuery is a parsed list request.
type listQuery struct {
	opts    record.Options
	page    int
	perPage int
}

func (q listQuery) meta(total int64) *response.Meta {
	return response.NewMeta(q.page, q.perPage, total)
}

// parseList translates page, per_page, order, order_by, status and search
// into record options. per_page=-1 returns every row.
func (p Paging) parseList(r *http.Request) (listQuery, error) {
	query := r.URL.Query()
	var errs validator.ValidationErrors

	page := 1
	if v := query.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive integer"})
		} else {
			page = n
		}
	}

	perPage := p.DefaultPerPage
	if v := query.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil || n == 0 || n < record.Unbounded:
			errs = append(errs, validator.ValidationError{Field: "per_page", Message: "per_page must be a positive integer or -1"})
		case p.MaxPerPage > 0 && n > p.MaxPerPage:
			errs = append(errs, validator.ValidationError{
				Field:   "per_page",
				Message: "per_page must not exceed " + strconv.Itoa(p.MaxPerPage),
			})
		default:
			perPage = n
		}
	}

	if len(errs) > 0 {
		return listQuery{}, errs
	}

	opts := record.Options{
		Order:   record.Order(query.Get("order")),
		OrderBy: query.Get("order_by"),
		Status:  query.Get("status"),
		Search:  query.Get("search"),
	}.Page(page, perPage)

	return listQuery{opts: opts, page: page, perPage: perPage}, nil
}

// optionalID reads a positive integer query parameter; absent yields nil.
func optionalID(r *http.Request, param string) (*int64, error) {
	v := r.URL.Query().Get(param)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return nil, validator.New(param, param+" must be a positive integer")
	}
	return &n, nil
}

// int64Filter adds column = value when the query parameter is present.
func int64Filter(r *http.Request, param string, opts *record.Options) error {
	n, err := optionalID(r, param)
	if err != nil || n == nil {
		return err
	}
	opts.Where = append(opts.Where, record.Eq(param, *n))
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, validator.New("id", "id must be a positive integer")
	}
	return id, nil
}
