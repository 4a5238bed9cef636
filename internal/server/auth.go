package server

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sngm3741/mymoo-services/api/internal/config"
	commonhttp "github.com/sngm3741/mymoo-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

type authClaims struct {
	jwt.RegisteredClaims
	Nickname          string `json:"nickname,omitempty"`
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// nickname は nickname クレームを優先し、無ければプロフィール名を使う。
func (c *authClaims) nickname() string {
	for _, candidate := range []string{c.Nickname, c.PreferredUsername, c.Name} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// jwtResolver は設定済みのいずれかの Issuer が発行した HS256 Bearer トークンから呼び出し元を解決する。
// subject は数値のアカウント ID でなければならない。
type jwtResolver struct {
	configs  []config.JWTConfig
	audience string
	now      func() time.Time
}

var _ commonhttp.CallerResolver = (*jwtResolver)(nil)

func newJWTResolver(configs []config.JWTConfig, audience string) *jwtResolver {
	return &jwtResolver{
		configs:  append([]config.JWTConfig(nil), configs...),
		audience: audience,
		now:      time.Now,
	}
}

func (j *jwtResolver) Resolve(r *http.Request) (commonhttp.Caller, error) {
	tokenString, err := bearerToken(r)
	if err != nil {
		return commonhttp.Caller{}, err
	}
	claims, err := j.parseAuthToken(tokenString)
	if err != nil {
		return commonhttp.Caller{}, err
	}
	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || accountID <= 0 {
		return commonhttp.Caller{}, fmt.Errorf("%w: subject is not an account id", domain.ErrUnauthorized)
	}
	return commonhttp.Caller{AccountID: accountID, Nickname: claims.nickname()}, nil
}

// parseAuthToken は複数の JWT 設定を順番に試し、署名検証と Issuer/Audience の整合性を確認する。
// いずれの設定にも一致しない場合は認証エラーを返す。
func (j *jwtResolver) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(j.configs) == 0 {
		return nil, fmt.Errorf("%w: no token issuers configured", domain.ErrUnauthorized)
	}

	for _, cfg := range j.configs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second), jwt.WithTimeFunc(j.now))

		if err != nil || !token.Valid {
			continue
		}
		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if j.audience != "" && !slices.Contains(claims.Audience, j.audience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("%w: access token is invalid", domain.ErrUnauthorized)
}

// adminAuth は専用シークレットで Admin ルートを保護する。
func adminAuth(admin config.JWTConfig, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	resolver := newJWTResolver([]config.JWTConfig{admin}, "")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err == nil {
				_, err = resolver.parseAuthToken(tokenString)
			}
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("%w: missing Authorization header", domain.ErrUnauthorized)
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", fmt.Errorf("%w: expected a Bearer token", domain.ErrUnauthorized)
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if tokenString == "" {
		return "", fmt.Errorf("%w: empty access token", domain.ErrUnauthorized)
	}
	return tokenString, nil
}
