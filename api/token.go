package api

import (
	"crypto"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bazar/models"
)

// AccessToken 是交換 OIDC 身份後核發的存取權杖內容
// Subject 是本地使用者的 ID，寫入端只信任這裡的身份
type AccessToken struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func ParseAndValidateToken(tokenString string, secret crypto.Signer) (*AccessToken, error) {
	const op = "ParseAndValidateToken"
	token, err := jwt.ParseWithClaims(tokenString, &AccessToken{}, func(token *jwt.Token) (interface{}, error) {
		return secret.Public(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("[%s] token is invalid", op)
	}
	claims, ok := token.Claims.(*AccessToken)
	if !ok {
		return nil, fmt.Errorf("[%s] token claims are invalid", op)
	}
	return claims, nil
}

// SignToken 以伺服器的私鑰核發使用者的存取權杖
func (impl *ServerImpl) SignToken(user models.User) (string, error) {
	const op = "SignToken"
	token := jwt.NewWithClaims(&jwt.SigningMethodEd25519{}, AccessToken{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(impl.config.Auth.ExpireDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    impl.config.Auth.Issuer,
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			Audience:  []string{impl.config.Auth.Audience},
		},
	})
	tokenString, err := token.SignedString(impl.config.Auth.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to sign token, err=%w", op, err)
	}
	return tokenString, nil
}
