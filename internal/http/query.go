package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"eventbook/internal/domain"
)

const (
	defaultLimit  = 10
	defaultOffset = 0
)

// sortColumns is the allow-list of sortable fields. The request value is
// used only as a key into this map, never as query text.
var sortColumns = map[string]domain.SortColumn{
	"id":         domain.SortByID,
	"title":      domain.SortByTitle,
	"start_date": domain.SortByStartDate,
	"end_date":   domain.SortByEndDate,
	"location":   domain.SortByLocation,
	"user_id":    domain.SortByUserID,
}

// allowedSortColumns is the order the allow-list is reported in.
var allowedSortColumns = []string{"id", "title", "start_date", "end_date", "location", "user_id"}

// parseListQuery turns untrusted query parameters into a validated
// ListQuery. The returned error message is safe to hand to the client.
func parseListQuery(c *gin.Context) (domain.ListQuery, error) {
	q := domain.ListQuery{
		Limit:  defaultLimit,
		Offset: defaultOffset,
		Sort:   domain.SortByStartDate,
		Order:  domain.OrderAsc,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("limit and offset must be numeric")
		}
		q.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("limit and offset must be numeric")
		}
		q.Offset = offset
	}

	if raw := c.Query("sort"); raw != "" {
		column, ok := sortColumns[raw]
		if !ok {
			return q, errors.New("Invalid sort column. Allowed: " + strings.Join(allowedSortColumns, ", "))
		}
		q.Sort = column
	}

	if strings.EqualFold(c.Query("order"), "desc") {
		q.Order = domain.OrderDesc
	}

	q.Search = strings.TrimSpace(c.Query("query"))

	return q, nil
}
