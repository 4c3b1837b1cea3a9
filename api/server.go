package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"bazar/adapters/oidc"
	"bazar/models"
)

type ServerImpl struct {
	oidcProvider *oidc.Provider
	htmlChecker  *bluemonday.Policy
	db           *gorm.DB

	config ServerConfig
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"

	// 初始化OIDC提供者
	oidcProvider, err := oidc.NewProvider(config.OIDC.IssuerURL, config.OIDC.ClientID, config.OIDC.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to initial OIDC provider, err=%w", op, err)
	}

	// 初始化資料庫連線
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s", config.DB.User, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Database, config.DB.Schema)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: config.DB.Schema + ".",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Listing{}, &models.Image{}); err != nil {
		return nil, fmt.Errorf("[%s] Fail to migrate schema, err=%w", op, err)
	}

	return &ServerImpl{
		oidcProvider: oidcProvider,
		htmlChecker:  bluemonday.UGCPolicy(),
		db:           db,
		config:       config,
	}, nil
}

func (impl *ServerImpl) RegisterRoutes(router *gin.Engine) {
	router.GET("/listings", impl.GetListings)
	router.GET("/listings/:listingID", impl.GetListingDetail)
	router.POST("/listings", impl.AuthRequired(), impl.PostListing)
	router.GET("/categories", impl.GetCategories)
	router.GET("/auth/sso/login", impl.GetSsoLogin)
	router.GET("/auth/sso/callback", impl.GetSsoCallback)
	router.GET("/auth/logout", impl.GetLogout)
}

// DefaultCategories 是固定的分類種子資料
var DefaultCategories = []models.Category{
	{Slug: "electronics", Name: "Electronics"},
	{Slug: "furniture", Name: "Furniture"},
	{Slug: "vehicles", Name: "Vehicles"},
	{Slug: "property", Name: "Property"},
	{Slug: "fashion", Name: "Fashion"},
}

// Seed 建立固定的分類，重複執行不會改變已存在的資料
func (impl *ServerImpl) Seed() error {
	const op = "Seed"
	categories := make([]models.Category, len(DefaultCategories))
	copy(categories, DefaultCategories)
	if result := impl.db.Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "slug"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "deleted_at IS NULL"}}},
		DoNothing:   true,
	}).Create(&categories); result.Error != nil {
		return fmt.Errorf("[%s] Fail to seed categories, err=%w", op, result.Error)
	}
	return nil
}

func (impl *ServerImpl) Close() {
	// 關閉資料庫連線池
	if sqlDB, err := impl.db.DB(); err == nil {
		sqlDB.Close()
	}
}
