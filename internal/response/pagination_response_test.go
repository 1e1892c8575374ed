package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageSize  int
		count     int
		total     int64
		wantPages int64
		wantFrom  int
		wantTo    int
		wantMore  bool
	}{
		{name: "first of three pages", page: 1, pageSize: 10, count: 10, total: 25, wantPages: 3, wantFrom: 1, wantTo: 10, wantMore: true},
		{name: "last partial page", page: 3, pageSize: 10, count: 5, total: 25, wantPages: 3, wantFrom: 21, wantTo: 25},
		{name: "empty history", page: 1, pageSize: 10, count: 0, total: 0},
		{name: "page past the end", page: 4, pageSize: 10, count: 0, total: 25, wantPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.pageSize, tt.count, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantFrom, p.From)
			assert.Equal(t, tt.wantTo, p.To)
			assert.Equal(t, tt.wantMore, p.HasMore)
			assert.Equal(t, tt.total, p.TotalItems)
		})
	}
}
