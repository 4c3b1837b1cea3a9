package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazar/models"
)

type listResponse struct {
	Success bool             `json:"success"`
	Data    []ListingSummary `json:"data"`
}

func getListings(t *testing.T, router http.Handler, rawQuery string) (int, listResponse, ErrorResponse) {
	t.Helper()
	target := "/listings"
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)

	var ok listResponse
	var fail ErrorResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	} else {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fail))
	}
	return w.Code, ok, fail
}

func listingTitles(resp listResponse) []string {
	titles := make([]string, len(resp.Data))
	for i, row := range resp.Data {
		titles[i] = row.Title
	}
	return titles
}

func TestGetListings_Scenario(t *testing.T) {
	impl, router := newTestServer(t)
	categories := seedCategories(t, impl)
	electronics := categories["electronics"]
	createListing(t, impl, listingSeed{Title: "iPhone 14 Pro", City: "Lahore", Category: &electronics, Price: 250000})
	furniture := categories["furniture"]
	createListing(t, impl, listingSeed{Title: "Sofa Set", City: "Karachi", Category: &furniture})

	code, resp, _ := getListings(t, router, "city=Lahore&status=active")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	row := resp.Data[0]
	assert.Equal(t, "iPhone 14 Pro", row.Title)
	assert.Equal(t, int64(250000), row.Price)
	assert.Equal(t, "Lahore", row.City)
	assert.Equal(t, models.ListingStatusActive, row.Status)
	require.NotNil(t, row.Category)
	assert.Equal(t, "Electronics", *row.Category)

	code, _, fail := getListings(t, router, "limit=100")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid query parameters", fail.Error)
	require.Len(t, fail.Details, 1)
	assert.Equal(t, "limit", fail.Details[0].Field)
}

func TestGetListings_FilterConjunction(t *testing.T) {
	impl, router := newTestServer(t)
	categories := seedCategories(t, impl)
	electronics, furniture := categories["electronics"], categories["furniture"]
	createListing(t, impl, listingSeed{Title: "iPhone 14 Pro", City: "Lahore", Category: &electronics})
	createListing(t, impl, listingSeed{Title: "iPhone 11", City: "Lahore", Status: models.ListingStatusInactive, Category: &electronics})
	createListing(t, impl, listingSeed{Title: "Sofa Set", City: "Karachi", Category: &furniture})
	createListing(t, impl, listingSeed{Title: "Office Chair", City: "Lahore", Category: &furniture})
	createListing(t, impl, listingSeed{Title: "Samsung TV", City: "Karachi", Category: &electronics})
	// 沒有分類的刊登也要出現在不限制分類的查詢中
	createListing(t, impl, listingSeed{Title: "Mystery Box", City: "Lahore"})

	tests := []struct {
		name       string
		rawQuery   string
		wantTitles []string
	}{
		{
			name:       "零個條件回傳不受限制的一頁",
			rawQuery:   "",
			wantTitles: []string{"iPhone 14 Pro", "iPhone 11", "Sofa Set", "Office Chair", "Samsung TV", "Mystery Box"},
		},
		{
			name:       "只篩選城市",
			rawQuery:   "city=Lahore",
			wantTitles: []string{"iPhone 14 Pro", "iPhone 11", "Office Chair", "Mystery Box"},
		},
		{
			name:       "城市加狀態",
			rawQuery:   "city=Lahore&status=active",
			wantTitles: []string{"iPhone 14 Pro", "Office Chair", "Mystery Box"},
		},
		{
			name:       "只篩選分類",
			rawQuery:   "category=electronics",
			wantTitles: []string{"iPhone 14 Pro", "iPhone 11", "Samsung TV"},
		},
		{
			name:       "城市、狀態加分類",
			rawQuery:   "city=Lahore&status=active&category=electronics",
			wantTitles: []string{"iPhone 14 Pro"},
		},
		{
			name:       "搜尋不分大小寫",
			rawQuery:   "search=IPHONE",
			wantTitles: []string{"iPhone 14 Pro", "iPhone 11"},
		},
		{
			name:       "搜尋加城市加狀態",
			rawQuery:   "search=iphone&city=Lahore&status=inactive",
			wantTitles: []string{"iPhone 11"},
		},
		{
			name:       "沒有符合條件的刊登",
			rawQuery:   "city=Nowhere",
			wantTitles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp, _ := getListings(t, router, tt.rawQuery)
			require.Equal(t, http.StatusOK, code)
			assert.ElementsMatch(t, tt.wantTitles, listingTitles(resp))
		})
	}
}

func TestGetListings_SearchEscapesWildcards(t *testing.T) {
	impl, router := newTestServer(t)
	createListing(t, impl, listingSeed{Title: "100% cotton shirt", City: "Lahore"})
	createListing(t, impl, listingSeed{Title: "100 cotton shirts", City: "Lahore"})

	code, resp, _ := getListings(t, router, "search=100%25")
	require.Equal(t, http.StatusOK, code)
	assert.ElementsMatch(t, []string{"100% cotton shirt"}, listingTitles(resp))
}

func TestGetListings_PaginationBounds(t *testing.T) {
	impl, router := newTestServer(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		createListing(t, impl, listingSeed{
			Title:     "Listing " + string(rune('A'+i)),
			City:      "Lahore",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	// 預設一頁10筆
	code, resp, _ := getListings(t, router, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data, 10)

	// limit限制每頁的筆數
	code, resp, _ = getListings(t, router, "limit=5")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data, 5)

	// offset之後剩下的不足一頁
	code, resp, _ = getListings(t, router, "limit=10&offset=10")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data, 5)

	// offset超出範圍回傳空頁而不是錯誤
	code, resp, _ = getListings(t, router, "offset=100")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Data)

	// 分頁不重疊也不遺漏
	seen := make(map[string]struct{})
	for offset := 0; offset < 15; offset += 5 {
		_, page, _ := getListings(t, router, "limit=5&offset="+strconv.Itoa(offset))
		for _, row := range page.Data {
			_, dup := seen[row.Id.String()]
			assert.False(t, dup, "listing %s appears in two pages", row.Id)
			seen[row.Id.String()] = struct{}{}
		}
	}
	assert.Len(t, seen, 15)
}

func TestGetListings_PrimaryImage(t *testing.T) {
	impl, router := newTestServer(t)
	withPrimary := createListing(t, impl, listingSeed{Title: "With Primary", City: "Lahore"})
	createImage(t, impl, withPrimary, "https://img.example.com/side.jpg", false)
	createImage(t, impl, withPrimary, "https://img.example.com/front.jpg", true)
	createListing(t, impl, listingSeed{Title: "No Images", City: "Lahore"})
	onlySecondary := createListing(t, impl, listingSeed{Title: "Only Secondary", City: "Lahore"})
	createImage(t, impl, onlySecondary, "https://img.example.com/other.jpg", false)

	code, resp, _ := getListings(t, router, "")
	require.Equal(t, http.StatusOK, code)
	urls := make(map[string]*string, len(resp.Data))
	for i, row := range resp.Data {
		urls[row.Title] = resp.Data[i].PrimaryImageUrl
	}
	require.Contains(t, urls, "With Primary")
	require.NotNil(t, urls["With Primary"])
	assert.Equal(t, "https://img.example.com/front.jpg", *urls["With Primary"])
	assert.Nil(t, urls["No Images"])
	assert.Nil(t, urls["Only Secondary"])
}

func TestGetListings_Ordering(t *testing.T) {
	impl, router := newTestServer(t)
	base := time.Now().Add(-time.Hour)
	oldest := createListing(t, impl, listingSeed{Title: "Oldest", City: "Lahore", CreatedAt: base})
	middle := createListing(t, impl, listingSeed{Title: "Middle", City: "Lahore", CreatedAt: base.Add(10 * time.Minute)})
	newest := createListing(t, impl, listingSeed{Title: "Newest", City: "Lahore", CreatedAt: base.Add(20 * time.Minute)})

	code, resp, _ := getListings(t, router, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, newest.ID, resp.Data[0].Id)
	assert.Equal(t, middle.ID, resp.Data[1].Id)
	assert.Equal(t, oldest.ID, resp.Data[2].Id)

	// 新寫入的刊登要出現在第0頁的第一筆
	latest := createListing(t, impl, listingSeed{Title: "Just Posted", City: "Lahore"})
	code, resp, _ = getListings(t, router, "")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, latest.ID, resp.Data[0].Id)
}

func TestGetListings_OrderingStableOnEqualTimestamps(t *testing.T) {
	impl, router := newTestServer(t)
	at := time.Now().Add(-time.Hour).Truncate(time.Second)
	first := createListing(t, impl, listingSeed{Title: "Tie A", City: "Lahore", CreatedAt: at})
	second := createListing(t, impl, listingSeed{Title: "Tie B", City: "Lahore", CreatedAt: at})

	// 相同時間戳以id遞減決勝，後建立的uuid v7比較大
	wantOrder := []string{second.ID.String(), first.ID.String()}
	for i := 0; i < 3; i++ {
		code, resp, _ := getListings(t, router, "")
		require.Equal(t, http.StatusOK, code)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, wantOrder, []string{resp.Data[0].Id.String(), resp.Data[1].Id.String()})
	}
}
