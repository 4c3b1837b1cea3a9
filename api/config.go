package api

import (
	"crypto"
	"time"
)

type ServerConfig struct {
	OIDC OIDCConfig
	DB   DBConfig
	Auth AuthConfig
}

type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
}

type AuthConfig struct {
	PrivateKey     crypto.Signer
	Issuer         string
	Audience       string
	ExpireDuration time.Duration
}
