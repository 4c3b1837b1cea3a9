package api

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bazar/adapters/oidc"
	"bazar/models"
)

const (
	CookieRequestState       = "request_state"
	CookieRequestNonce       = "request_nonce"
	CookieRequestRedirectUrl = "request_redirect_url"
)

// Obtain authentication url
// (GET /auth/sso/login)
func (impl *ServerImpl) GetSsoLogin(c *gin.Context) {
	const op = "GetSsoLogin"
	state, err := generateID("st")
	if err != nil {
		respondInternalError(c, op, fmt.Errorf("[%s] Unable to generate state, err=%w", op, err))
		return
	}
	nonce, err := generateID("n")
	if err != nil {
		respondInternalError(c, op, fmt.Errorf("[%s] Unable to generate nonce, err=%w", op, err))
		return
	}
	redirectUrl := c.Query("redirect_url")
	// 把state和nonce存在secure cookie，callback時用來比對
	c.SetCookie(CookieRequestState, state, 120, "/", "", true, true)
	c.SetCookie(CookieRequestNonce, nonce, 120, "/", "", true, true)
	c.SetCookie(CookieRequestRedirectUrl, redirectUrl, 120, "/", "", true, true)
	// 重新導向到身份提供者的登入頁面
	c.Redirect(http.StatusFound, impl.oidcProvider.AuthURL(state, nonce, redirectUrl, []string{"email", "openid", "profile"}))
}

// Exchange authorization code
// (GET /auth/sso/callback)
func (impl *ServerImpl) GetSsoCallback(c *gin.Context) {
	const op = "GetSsoCallback"
	// 驗證callback的參數和login時存在secure cookie的參數是否相同
	requestState, _ := c.Cookie(CookieRequestState)
	requestNonce, _ := c.Cookie(CookieRequestNonce)
	requestRedirectUrl, _ := c.Cookie(CookieRequestRedirectUrl)
	verifier := impl.oidcProvider.NewExchangeVerifier(requestState, requestNonce)
	// 向身份提供者交換token
	token, err := impl.oidcProvider.Exchange(c.Request.Context(), verifier, c.Query("code"), c.Query("state"), requestRedirectUrl)
	if errors.Is(err, oidc.ErrStateMismatch) || errors.Is(err, oidc.ErrNonceMismatch) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid authentication state"})
		return
	}
	if err != nil {
		respondInternalError(c, op, fmt.Errorf("[%s] Fail to exchange token, err=%w", op, err))
		return
	}
	// 以外部身份識別字串關聯本地使用者
	// 第一次通過驗證時建立新的使用者
	user := models.User{Subject: token.IDToken.Sub}
	if result := impl.db.WithContext(c.Request.Context()).Where(&user).First(&user); result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		respondInternalError(c, op, fmt.Errorf("[%s] Fail to find user, err=%w", op, result.Error))
		return
	} else if result.Error != nil {
		user.Username = token.IDToken.Name
		user.Email = token.IDToken.Email
		if result := impl.db.WithContext(c.Request.Context()).Create(&user); result.Error != nil {
			respondInternalError(c, op, fmt.Errorf("[%s] Fail to create user, err=%w", op, result.Error))
			return
		}
		slog.Info("Create user on first authenticated contact", slog.String("op", op), slog.String("userID", user.ID.String()))
	}
	// 核發存取權杖
	tokenString, err := impl.SignToken(user)
	if err != nil {
		respondInternalError(c, op, fmt.Errorf("[%s] err=%w", op, err))
		return
	}
	maxAge := int(impl.config.Auth.ExpireDuration.Seconds())
	c.SetCookie(CookieAccessToken, tokenString, maxAge, "/", "", true, true)
	c.SetCookie("username", base64.StdEncoding.EncodeToString([]byte(user.Username)), maxAge, "/", "", true, false)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Revoke authentication token
// (GET /auth/logout)
func (impl *ServerImpl) GetLogout(c *gin.Context) {
	// only clear the cookie without revoking the token
	c.SetCookie(CookieAccessToken, "", -1, "/", "", true, true)
	c.SetCookie("username", "", -1, "/", "", true, false)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func generateID(prefix string) (string, error) {
	const op = "generateID"
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("[%s] Fail to generate unique id, err=%w", op, err)
	}
	return prefix + "_" + base64.URLEncoding.EncodeToString(bytes), nil
}
