package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"bazar/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// ListingQuerySpec 是通過驗證後的刊登查詢條件
// 指標為 nil 代表該篩選條件沒有被提供
type ListingQuerySpec struct {
	City     *string
	Category *string
	Status   *models.ListingStatus
	Search   *string
	Limit    int
	Offset   int
}

// CompileListingQuery 驗證原始的查詢參數並轉換成 ListingQuerySpec
// 所有不合法的欄位都會被收集起來一次回報，不會在第一個錯誤就中斷
// 超過上限的 limit 視為驗證失敗，不會默默地截斷
func CompileListingQuery(values url.Values) (ListingQuerySpec, []FieldError) {
	spec := ListingQuerySpec{
		Limit:  DefaultPageSize,
		Offset: 0,
	}
	var fieldErrors []FieldError

	if city := values.Get("city"); city != "" {
		spec.City = lo.ToPtr(city)
	}
	if category := values.Get("category"); category != "" {
		spec.Category = lo.ToPtr(category)
	}
	if status := values.Get("status"); status != "" {
		switch models.ListingStatus(status) {
		case models.ListingStatusActive, models.ListingStatusInactive:
			spec.Status = lo.ToPtr(models.ListingStatus(status))
		default:
			fieldErrors = append(fieldErrors, FieldError{
				Field:   "status",
				Message: fmt.Sprintf("must be one of %q or %q", models.ListingStatusActive, models.ListingStatusInactive),
			})
		}
	}
	if search := values.Get("search"); search != "" {
		spec.Search = lo.ToPtr(search)
	}
	if limit := values.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, FieldError{Field: "limit", Message: "must be an integer"})
		case n < 1 || n > MaxPageSize:
			fieldErrors = append(fieldErrors, FieldError{
				Field:   "limit",
				Message: fmt.Sprintf("must be between 1 and %d", MaxPageSize),
			})
		default:
			spec.Limit = n
		}
	}
	if offset := values.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, FieldError{Field: "offset", Message: "must be an integer"})
		case n < 0:
			fieldErrors = append(fieldErrors, FieldError{Field: "offset", Message: "must be greater than or equal to 0"})
		default:
			spec.Offset = n
		}
	}

	if len(fieldErrors) > 0 {
		return ListingQuerySpec{}, fieldErrors
	}
	return spec, nil
}

// escapeLikePattern 跳脫 LIKE 模式中的萬用字元，搜尋字串是未受信任的輸入
func escapeLikePattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
