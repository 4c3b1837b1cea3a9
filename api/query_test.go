package api

import (
	"net/url"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"bazar/models"
)

func TestCompileListingQuery(t *testing.T) {
	tests := []struct {
		name       string
		values     url.Values
		wantSpec   ListingQuerySpec
		wantFields []string
	}{
		{
			name:     "無參數時使用預設值",
			values:   url.Values{},
			wantSpec: ListingQuerySpec{Limit: DefaultPageSize, Offset: 0},
		},
		{
			name: "所有篩選條件",
			values: url.Values{
				"city":     {"Lahore"},
				"category": {"electronics"},
				"status":   {"active"},
				"search":   {"iphone"},
				"limit":    {"20"},
				"offset":   {"40"},
			},
			wantSpec: ListingQuerySpec{
				City:     lo.ToPtr("Lahore"),
				Category: lo.ToPtr("electronics"),
				Status:   lo.ToPtr(models.ListingStatusActive),
				Search:   lo.ToPtr("iphone"),
				Limit:    20,
				Offset:   40,
			},
		},
		{
			name:     "limit剛好在上限",
			values:   url.Values{"limit": {"50"}},
			wantSpec: ListingQuerySpec{Limit: 50},
		},
		{
			name:       "limit超過上限是驗證失敗而不是截斷",
			values:     url.Values{"limit": {"100"}},
			wantFields: []string{"limit"},
		},
		{
			name:       "limit不是整數",
			values:     url.Values{"limit": {"ten"}},
			wantFields: []string{"limit"},
		},
		{
			name:       "limit小於1",
			values:     url.Values{"limit": {"0"}},
			wantFields: []string{"limit"},
		},
		{
			name:       "offset為負數",
			values:     url.Values{"offset": {"-1"}},
			wantFields: []string{"offset"},
		},
		{
			name:       "offset不是整數",
			values:     url.Values{"offset": {"abc"}},
			wantFields: []string{"offset"},
		},
		{
			name:       "status不在列舉內",
			values:     url.Values{"status": {"archived"}},
			wantFields: []string{"status"},
		},
		{
			name: "多個欄位的錯誤要一次回報",
			values: url.Values{
				"status": {"archived"},
				"limit":  {"100"},
				"offset": {"-5"},
			},
			wantFields: []string{"status", "limit", "offset"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, fieldErrors := CompileListingQuery(tt.values)
			if len(tt.wantFields) > 0 {
				gotFields := make([]string, len(fieldErrors))
				for i, fe := range fieldErrors {
					gotFields[i] = fe.Field
				}
				assert.ElementsMatch(t, tt.wantFields, gotFields)
				return
			}
			assert.Empty(t, fieldErrors)
			assert.Equal(t, tt.wantSpec, spec)
		})
	}
}

func TestEscapeLikePattern(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"iphone", "iphone"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLikePattern(tt.input))
		})
	}
}
