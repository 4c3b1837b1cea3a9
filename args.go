package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bazar/api"
)

func ParseArgs() Args {
	// server config
	pflag.String("server-url", "0.0.0.0:8080", "")
	pflag.Bool("seed", false, "")

	// oidc config
	pflag.String("oidc-issuer-url", "", "")
	pflag.String("oidc-client-id", "", "")
	pflag.String("oidc-client-secret", "", "")

	// db config
	pflag.String("db-user", "", "")
	pflag.String("db-password", "", "")
	pflag.String("db-host", "", "")
	pflag.Int("db-port", 5432, "")
	pflag.String("db-database", "", "")
	pflag.String("db-schema", "", "")

	// auth config
	pflag.String("auth-private-key-seed", "", "base64 encoded ed25519 seed")
	pflag.String("auth-issuer", "bazar", "")
	pflag.String("auth-audience", "bazar", "")
	pflag.Duration("auth-token-ttl", 3*time.Hour, "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("BAZAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// initial arguments
	args := Args{
		ServerURL: viper.GetString("server-url"),
		Seed:      viper.GetBool("seed"),
		ServerConfig: api.ServerConfig{
			OIDC: api.OIDCConfig{
				IssuerURL:    viper.GetString("oidc-issuer-url"),
				ClientID:     viper.GetString("oidc-client-id"),
				ClientSecret: viper.GetString("oidc-client-secret"),
			},
			DB: api.DBConfig{
				User:     viper.GetString("db-user"),
				Password: viper.GetString("db-password"),
				Host:     viper.GetString("db-host"),
				Port:     viper.GetInt("db-port"),
				Database: viper.GetString("db-database"),
				Schema:   viper.GetString("db-schema"),
			},
			Auth: api.AuthConfig{
				Issuer:         viper.GetString("auth-issuer"),
				Audience:       viper.GetString("auth-audience"),
				ExpireDuration: viper.GetDuration("auth-token-ttl"),
			},
		},
	}
	// 解析簽發token用的ed25519私鑰，不合法的種子視同沒有提供
	if seed, err := base64.StdEncoding.DecodeString(viper.GetString("auth-private-key-seed")); err == nil && len(seed) == ed25519.SeedSize {
		args.ServerConfig.Auth.PrivateKey = ed25519.NewKeyFromSeed(seed)
	}
	return args
}

type Args struct {
	ServerURL    string
	Seed         bool
	ServerConfig api.ServerConfig
}

func (args Args) Validate() bool {
	return args.ServerURL != "" &&
		args.ServerConfig.OIDC.IssuerURL != "" &&
		args.ServerConfig.OIDC.ClientID != "" &&
		args.ServerConfig.OIDC.ClientSecret != "" &&
		args.ServerConfig.DB.Host != "" &&
		args.ServerConfig.DB.User != "" &&
		args.ServerConfig.DB.Database != "" &&
		args.ServerConfig.Auth.PrivateKey != nil
}
