package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		want        PageRequest
	}{
		{"defaults", "", "", PageRequest{Page: 1, Limit: 10}},
		{"non-numeric", "abc", "xyz", PageRequest{Page: 1, Limit: 10}},
		{"page below one", "0", "5", PageRequest{Page: 1, Limit: 5}},
		{"negative page", "-3", "5", PageRequest{Page: 1, Limit: 5}},
		{"limit clamped low", "2", "0", PageRequest{Page: 2, Limit: 1}},
		{"limit clamped high", "2", "1000", PageRequest{Page: 2, Limit: 100}},
		{"float page", "1.5", "10", PageRequest{Page: 1, Limit: 10}},
		{"huge page capped", "9223372036854775807", "10", PageRequest{Page: MaxPage, Limit: 10}},
		{"page beyond int", "99999999999999999999", "10", PageRequest{Page: 1, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePageRequest(tt.page, tt.limit))
		})
	}
}

func TestPageRequest_SkipAndTotalPages(t *testing.T) {
	p := PageRequest{Page: 3, Limit: 10}
	assert.Equal(t, 20, p.Skip())

	assert.Equal(t, Pagination{Page: 3, Limit: 10, Total: 21, TotalPages: 3}, p.With(21))
	assert.EqualValues(t, 0, p.With(0).TotalPages)
	assert.EqualValues(t, 2, p.With(20).TotalPages)

	last := ParsePageRequest("9223372036854775807", "100")
	assert.Positive(t, last.Skip())
	assert.Equal(t, (MaxPage-1)*MaxLimit, last.Skip())
}
