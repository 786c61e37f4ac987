package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// FieldKind decides how a filter value is parsed
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldUUID
	FieldTime
)

// QueryField maps a public query parameter to a column
type QueryField struct {
	Column string
	Kind   FieldKind
}

// UserQueryFields are the filterable user fields
var UserQueryFields = map[string]QueryField{
	"id":        {Column: "id", Kind: FieldUUID},
	"username":  {Column: "username", Kind: FieldString},
	"createdAt": {Column: "created_at", Kind: FieldTime},
}

// ThreadQueryFields are the filterable thread fields
var ThreadQueryFields = map[string]QueryField{
	"id":        {Column: "id", Kind: FieldUUID},
	"topicId":   {Column: "topic_id", Kind: FieldUUID},
	"authorId":  {Column: "author_id", Kind: FieldUUID},
	"title":     {Column: "title", Kind: FieldString},
	"createdAt": {Column: "created_at", Kind: FieldTime},
}

var filterOps = map[string]domain.FilterOp{
	"eq":   domain.OpEq,
	"ne":   domain.OpNe,
	"gt":   domain.OpGt,
	"gte":  domain.OpGte,
	"lt":   domain.OpLt,
	"lte":  domain.OpLte,
	"in":   domain.OpIn,
	"like": domain.OpLike,
}

// ParseListQuery parses ?limit=20&page=2&<field>=<op>:<value>.
// The operator defaults to eq; "in" takes a comma separated list.
func ParseListQuery(values url.Values, fields map[string]QueryField) (domain.ListOptions, error) {
	opts := domain.ListOptions{Limit: DefaultListLimit}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return opts, fmt.Errorf("limit must be a positive integer")
		}
		if limit > MaxListLimit {
			limit = MaxListLimit
		}
		opts.Limit = limit
	}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return opts, fmt.Errorf("page must be a non-negative integer")
		}
		opts.Offset = page * opts.Limit
	}

	for key, rawValues := range values {
		if key == "limit" || key == "page" {
			continue
		}
		field, ok := fields[key]
		if !ok {
			return opts, fmt.Errorf("unknown filter field %q", key)
		}
		for _, raw := range rawValues {
			filter, err := parseFilter(field, raw)
			if err != nil {
				return opts, fmt.Errorf("invalid filter %s: %w", key, err)
			}
			opts.Filters = append(opts.Filters, filter)
		}
	}
	return opts, nil
}

func parseFilter(field QueryField, raw string) (domain.Filter, error) {
	op := domain.OpEq
	value := raw
	if prefix, rest, found := strings.Cut(raw, ":"); found {
		if parsed, ok := filterOps[prefix]; ok {
			op = parsed
			value = rest
		}
	}

	if op == domain.OpLike && field.Kind != FieldString {
		return domain.Filter{}, fmt.Errorf("like is only supported on text fields")
	}

	parts := []string{value}
	if op == domain.OpIn {
		parts = strings.Split(value, ",")
	}

	filter := domain.Filter{Column: field.Column, Op: op}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return domain.Filter{}, fmt.Errorf("empty value")
		}
		converted, err := convertValue(field.Kind, part)
		if err != nil {
			return domain.Filter{}, err
		}
		filter.Values = append(filter.Values, converted)
	}
	return filter, nil
}

func convertValue(kind FieldKind, value string) (interface{}, error) {
	switch kind {
	case FieldUUID:
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid id", value)
		}
		return id, nil
	case FieldTime:
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, fmt.Errorf("%q is not an RFC3339 time", value)
		}
		return t.UTC(), nil
	}
	return value, nil
}
