// 參考https://auth0.com/docs/get-started/apis/scopes/openid-connect-scopes
package oidc

import "github.com/coreos/go-oidc/v3/oidc"

// IDToken 是服務實際使用的ID token claims
// Sub在提供者內唯一，用來關聯本地使用者
type IDToken struct {
	Sub           string `json:"sub"`
	Iss           string `json:"iss"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`

	internal *oidc.IDToken
}

func (i *IDToken) Claims(v any) error {
	return i.internal.Claims(v)
}
