package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	postsdomain "social-app-go/internal/domain/posts"
)

func ParseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

// PageFilter reads limit and offset, or a 1-based page number, from the query string.
func PageFilter(r *http.Request, pageSize int) (postsdomain.ListFilter, error) {
	query := r.URL.Query()

	limit, err := ParseIntParam(query.Get("limit"), pageSize)
	if err != nil {
		return postsdomain.ListFilter{}, fmt.Errorf("invalid limit")
	}
	if limit == 0 {
		limit = pageSize
	}

	if raw := query.Get("page"); raw != "" {
		page, err := ParseIntParam(raw, 1)
		if err != nil || page < 1 {
			return postsdomain.ListFilter{}, fmt.Errorf("invalid page")
		}
		return postsdomain.ListFilter{Limit: limit, Offset: (page - 1) * limit}, nil
	}

	offset, err := ParseIntParam(query.Get("offset"), 0)
	if err != nil {
		return postsdomain.ListFilter{}, fmt.Errorf("invalid offset")
	}
	return postsdomain.ListFilter{Limit: limit, Offset: offset}, nil
}
