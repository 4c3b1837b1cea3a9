package oidc

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

var (
	ErrStateMismatch = errors.New("state mismatch")
	ErrNonceMismatch = errors.New("nonce mismatch")
)

// Provider 包裝外部身份提供者
// 服務本身不管理帳號密碼，呼叫者的身份完全由這裡的code flow交換而來
type Provider struct {
	*oidc.Provider

	clientInfo ClientInfo
}

type ClientInfo struct {
	ID     string
	Secret string
}

func NewProvider(issuerURL, clientID, clientSecret string) (*Provider, error) {
	const op = "NewProvider"
	provider, err := oidc.NewProvider(context.Background(), issuerURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create provider, err=%w", op, err)
	}
	return &Provider{
		Provider: provider,
		clientInfo: ClientInfo{
			ID:     clientID,
			Secret: clientSecret,
		},
	}, nil
}

// AuthURL 回傳身份提供者的登入頁面網址
func (p *Provider) AuthURL(state, nonce, redirectUrl string, scopes []string, opts ...oauth2.AuthCodeOption) string {
	config := oauth2.Config{
		ClientID:     p.clientInfo.ID,
		ClientSecret: p.clientInfo.Secret,
		Endpoint:     p.Endpoint(),
		RedirectURL:  redirectUrl,
		Scopes:       scopes,
	}
	return config.AuthCodeURL(state, oidc.Nonce(nonce))
}

// Exchange 用授權碼向身份提供者交換token，並驗證state、nonce和ID token
func (p *Provider) Exchange(ctx context.Context, verifier *ExchangeVerifier, code, state, redirectUrl string) (*ExchangeToken, error) {
	const op = "Exchange"
	if !verifier.VerifyState(state) {
		return nil, ErrStateMismatch
	}
	config := oauth2.Config{
		ClientID:     p.clientInfo.ID,
		ClientSecret: p.clientInfo.Secret,
		Endpoint:     p.Endpoint(),
		RedirectURL:  redirectUrl,
	}
	oauth2Token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to exchange token, err=%w", op, err)
	}
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("[%s] No id_token field in oauth2 token", op)
	}
	idToken, err := verifier.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to verify ID token, err=%w", op, err)
	}
	if !verifier.VerifyNonce(idToken.Nonce) {
		return nil, ErrNonceMismatch
	}
	token := &ExchangeToken{
		OAuth2Token: oauth2Token,
		IDToken:     IDToken{internal: idToken},
	}
	if err := idToken.Claims(&token.IDToken); err != nil {
		return nil, fmt.Errorf("[%s] Fail to parse ID token claims, err=%w", op, err)
	}
	return token, nil
}

func (p *Provider) NewExchangeVerifier(reqState, reqNonce string) *ExchangeVerifier {
	return &ExchangeVerifier{
		idTokenVerifier: p.Verifier(&oidc.Config{ClientID: p.clientInfo.ID}),
		reqState:        reqState,
		reqNonce:        reqNonce,
	}
}

type ExchangeToken struct {
	OAuth2Token *oauth2.Token
	IDToken     IDToken
}
