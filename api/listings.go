package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bazar/models"
)

// ListingSummary 是列表查詢中單筆刊登的內容
type ListingSummary struct {
	Id              uuid.UUID            `json:"id"`
	Title           string               `json:"title"`
	Price           int64                `json:"price"`
	City            string               `json:"city"`
	Status          models.ListingStatus `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	Category        *string              `json:"category"`
	PrimaryImageUrl *string              `json:"primaryImageUrl"`
}

// List listings
// (GET /listings)
//
// 單一查詢完成所有條件的篩選、排序和分頁
// 主圖的 URL 透過限制一列的相關子查詢解析，不會對每筆刊登多查一次
// offset 分頁在同時有新資料寫入時會位移，這是已知的取捨
func (impl *ServerImpl) GetListings(c *gin.Context) {
	const op = "GetListings"
	// 編譯查詢參數
	spec, fieldErrors := CompileListingQuery(c.Request.URL.Query())
	if len(fieldErrors) > 0 {
		respondValidationError(c, "Invalid query parameters", fieldErrors)
		return
	}
	// 建立查詢
	//  - 主圖：每個刊登限制一列的相關子查詢
	primaryImage := impl.db.Model(&models.Image{}).
		Select("images.url").
		Where("images.listing_id = listings.id").
		Where("images.is_primary = ?", true).
		Order("images.id").
		Limit(1)
	//  - 沒有分類的刊登也要出現，所以用left join
	query := impl.db.WithContext(c.Request.Context()).
		Model(&models.Listing{}).
		Select(`listings.id, listings.title, listings.price, listings.city, listings.status, listings.created_at,
			categories.name AS category, (?) AS primary_image_url`, primaryImage).
		Joins("LEFT JOIN categories ON categories.id = listings.category_id AND categories.deleted_at IS NULL")
	//  - 只套用有提供的篩選條件，零個條件時查詢不受限制
	if spec.City != nil {
		query = query.Where("listings.city = ?", *spec.City)
	}
	if spec.Status != nil {
		query = query.Where("listings.status = ?", *spec.Status)
	}
	if spec.Category != nil {
		query = query.Where("categories.slug = ?", *spec.Category)
	}
	if spec.Search != nil {
		pattern := "%" + escapeLikePattern(strings.ToLower(*spec.Search)) + "%"
		query = query.Where(`LOWER(listings.title) LIKE ? ESCAPE '\'`, pattern)
	}
	//  - 以建立時間排到最新的在前，id作為相同時間戳的決勝鍵，讓分頁順序穩定
	query = query.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: "listings", Name: "created_at"}, Desc: true},
		{Column: clause.Column{Table: "listings", Name: "id"}, Desc: true},
	}})
	query = query.Limit(spec.Limit).Offset(spec.Offset)
	// 查詢刊登
	summaries := make([]ListingSummary, 0, spec.Limit)
	if result := query.Scan(&summaries); result.Error != nil {
		respondInternalError(c, op, fmt.Errorf("[%s] Fail to list listings, err=%w", op, result.Error))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}

// ListingDetail 是單筆刊登的完整內容
type ListingDetail struct {
	Id          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Price       int64                `json:"price"`
	City        string               `json:"city"`
	Status      models.ListingStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
	Category    *string              `json:"category"`
	Owner       *string              `json:"owner"`
	Images      []ListingImage       `json:"images"`
}

type ListingImage struct {
	Url       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
}

// Get listing details
// (GET /listings/{listingID})
func (impl *ServerImpl) GetListingDetail(c *gin.Context) {
	const op = "GetListingDetail"
	listingID, err := uuid.Parse(c.Param("listingID"))
	if err != nil {
		respondValidationError(c, "Invalid listing id", []FieldError{
			{Field: "listingID", Message: "must be a valid id"},
		})
		return
	}
	// 檢查刊登是否存在
	listing := models.Listing{ID: listingID}
	if result := impl.db.WithContext(c.Request.Context()).
		Preload("Category").
		Preload("Owner").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "is_primary"}, Desc: true},
				{Column: clause.Column{Name: "id"}},
			}})
		}).
		First(&listing); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, op, fmt.Errorf("[%s] Fail to find listing, err=%w", op, result.Error))
		return
	}
	detail := ListingDetail{
		Id:          listing.ID,
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		City:        listing.City,
		Status:      listing.Status,
		CreatedAt:   listing.CreatedAt,
		Images:      make([]ListingImage, len(listing.Images)),
	}
	if listing.Category != nil {
		detail.Category = lo.ToPtr(listing.Category.Name)
	}
	if listing.Owner != nil {
		detail.Owner = lo.ToPtr(listing.Owner.Username)
	}
	for i, image := range listing.Images {
		detail.Images[i] = ListingImage{Url: image.Url, IsPrimary: image.IsPrimary}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    detail,
	})
}

type CreateListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	City        string `json:"city"`
	CategoryId  string `json:"categoryId"`
}

// Create a new listing
// (POST /listings)
//
// 擁有者只會來自通過驗證的權杖，請求內容中的任何身份欄位都會被忽略
func (impl *ServerImpl) PostListing(c *gin.Context) {
	const op = "PostListing"
	// 檢查呼叫者身份，必須在任何資料庫存取之前
	callerID, ok := CallerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	var request CreateListingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondValidationError(c, "Invalid request body", []FieldError{
			{Field: "body", Message: "must be a valid JSON object"},
		})
		return
	}
	// 驗證刊登內容，所有不合法的欄位一次回報
	var fieldErrors []FieldError
	request.Title = strings.TrimSpace(request.Title)
	if len([]rune(request.Title)) < 3 {
		fieldErrors = append(fieldErrors, FieldError{Field: "title", Message: "must be at least 3 characters"})
	}
	if len([]rune(strings.TrimSpace(request.Description))) < 10 {
		fieldErrors = append(fieldErrors, FieldError{Field: "description", Message: "must be at least 10 characters"})
	}
	if request.Price <= 0 {
		fieldErrors = append(fieldErrors, FieldError{Field: "price", Message: "must be greater than 0"})
	}
	request.City = strings.TrimSpace(request.City)
	if request.City == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "city", Message: "is required"})
	}
	categoryID, err := uuid.Parse(request.CategoryId)
	if err != nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "categoryId", Message: "must be a valid id"})
	}
	if len(fieldErrors) > 0 {
		respondValidationError(c, "Invalid listing", fieldErrors)
		return
	}
	// 檢查分類是否存在
	category := models.Category{ID: categoryID}
	if result := impl.db.WithContext(c.Request.Context()).First(&category); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondValidationError(c, "Invalid listing", []FieldError{
				{Field: "categoryId", Message: "unknown category"},
			})
			return
		}
		respondInternalError(c, op, fmt.Errorf("[%s] Fail to find category, err=%w", op, result.Error))
		return
	}
	// 儲存刊登，單一語句寫入
	listing := models.Listing{
		OwnerID:     &callerID,
		CategoryID:  &category.ID,
		Title:       request.Title,
		Description: impl.htmlChecker.Sanitize(request.Description),
		Price:       request.Price,
		Status:      models.ListingStatusActive,
		City:        request.City,
	}
	if result := impl.db.WithContext(c.Request.Context()).Create(&listing); result.Error != nil {
		respondInternalError(c, op, fmt.Errorf("[%s] Fail to create listing, err=%w", op, result.Error))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      listing.ID,
	})
}
