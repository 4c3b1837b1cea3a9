package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bazar/models"
)

type CategorySummary struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// List categories
// (GET /categories)
func (impl *ServerImpl) GetCategories(c *gin.Context) {
	const op = "GetCategories"
	summaries := make([]CategorySummary, 0)
	if result := impl.db.WithContext(c.Request.Context()).
		Model(&models.Category{}).
		Select("categories.slug, categories.name").
		Order("categories.slug").
		Scan(&summaries); result.Error != nil {
		respondInternalError(c, op, fmt.Errorf("[%s] Fail to list categories, err=%w", op, result.Error))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}
