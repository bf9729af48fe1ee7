package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spec-kit/ticket-console/internal/api/dto"
)

// queryBuilder keeps pairs in insertion order, unlike url.Values.Encode which
// sorts keys.
type queryBuilder struct {
	parts []string
}

func (q *queryBuilder) add(key, value string) {
	q.parts = append(q.parts, url.QueryEscape(key)+"="+url.QueryEscape(value))
}

func (q *queryBuilder) addString(key string, value *string) {
	if value != nil {
		q.add(key, *value)
	}
}

func (q *queryBuilder) addInt(key string, value *int) {
	if value != nil {
		q.add(key, strconv.Itoa(*value))
	}
}

func addEach[S ~string](q *queryBuilder, key string, values []S) {
	for _, v := range values {
		q.add(key, string(v))
	}
}

func (q *queryBuilder) String() string {
	return strings.Join(q.parts, "&")
}

// EncodeTicketFilters renders the list query. Slice fields repeat their key
// once per element and unset fields are omitted.
func EncodeTicketFilters(f dto.TicketFilters) string {
	var q queryBuilder
	addEach(&q, "status", f.Status)
	addEach(&q, "priority", f.Priority)
	q.addString("category_id", f.CategoryID)
	q.addString("department_id", f.DepartmentID)
	q.addString("assigned_to", f.AssignedTo)
	q.addString("search", f.Search)
	q.addInt("page", f.Page)
	q.addInt("limit", f.Limit)
	return q.String()
}

func encodeSessionFilter(f dto.ChatSessionFilter) string {
	var q queryBuilder
	addEach(&q, "status", f.Status)
	return q.String()
}
