package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError 描述單一欄位的驗證失敗
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse 是所有失敗回應共用的信封
// 驗證失敗時 Details 列出所有不合法的欄位，其餘錯誤只有單一原因
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// respondValidationError 回應 400，列出所有不合法的欄位
func respondValidationError(c *gin.Context, message string, details []FieldError) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Details: details})
}

// respondUnauthorized 回應 401
func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
}

// respondNotFound 回應 404
func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
}

// respondInternalError 記錄完整的錯誤內容後回應不透漏細節的 500
// 後端錯誤的原文絕對不能出現在回應中
func respondInternalError(c *gin.Context, op string, err error) {
	slog.Error("Unexpected backend error", slog.String("op", op), slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
