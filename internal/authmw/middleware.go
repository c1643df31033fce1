package authmw

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the identity middlewares.
const (
	KeyAccountID = "account.id"
	KeyRoles     = "kc.roles"
	KeyEmail     = "kc.email"
	KeyToken     = "kc.access_token"
)

// HeaderAuth trusts the Authorization header to carry the caller's account
// id. Requests without the header pass through unidentified.
func HeaderAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader("Authorization")); id != "" {
			c.Set(KeyAccountID, id)
		}
		c.Next()
	}
}

// AccountID returns the caller's account id if a middleware resolved one.
func AccountID(c *gin.Context) (string, bool) {
	id := c.GetString(KeyAccountID)
	return id, id != ""
}

type KeycloakAuth struct {
	Issuer   string // e.g. http://localhost:8080/realms/myrealm
	Audience string
	ClientID string // for client roles under resource_access[ClientID].roles

	Keyfunc      jwt.Keyfunc
	ValidMethods []string
	Leeway       time.Duration
}

// NewKeycloakAuth fetches the JWKS once; keys are refreshed in the background.
func NewKeycloakAuth(jwksURL, issuer, audience, clientID string) (*KeycloakAuth, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:  time.Hour,
		RefreshRateLimit: time.Minute * 5,
		RefreshTimeout:   time.Second * 10,
	})
	if err != nil {
		return nil, err
	}

	return &KeycloakAuth{
		Issuer:       issuer,
		Audience:     audience,
		ClientID:     clientID,
		Keyfunc:      jwks.Keyfunc,
		ValidMethods: []string{"RS256"},
		Leeway:       30 * time.Second,
	}, nil
}

type KCClaims struct {
	jwt.RegisteredClaims

	AccountID         string `json:"account_id"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`

	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`

	ResourceAccess map[string]struct {
		Roles []string `json:"roles"`
	} `json:"resource_access"`
}

// Identify verifies a bearer token when one is sent and stores the account id
// from its account_id claim, falling back to the subject. A request without a
// token passes through unidentified; a bad token is rejected.
func (a *KeycloakAuth) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := extractAccessToken(c)
		if err != nil {
			c.Next()
			return
		}

		claims := &KCClaims{}
		_, err = jwt.ParseWithClaims(tokenStr, claims, a.Keyfunc, a.parserOptions()...)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		accountID := claims.AccountID
		if accountID == "" {
			accountID = claims.Subject
		}

		c.Set(KeyToken, tokenStr)
		c.Set(KeyAccountID, accountID)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyRoles, collectRoles(claims, a.ClientID))

		c.Next()
	}
}

func (a *KeycloakAuth) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(a.Leeway),
		jwt.WithValidMethods(a.ValidMethods),
	}
	if a.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.Issuer))
	}
	if a.Audience != "" {
		opts = append(opts, jwt.WithAudience(a.Audience))
	}
	return opts
}

// RequireRoles rejects callers whose verified token carries none of anyOf.
// It must run after Identify.
func RequireRoles(anyOf ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(KeyRoles)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}
		roles, _ := v.([]string)
		if !hasAnyRole(roles, anyOf...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// --- helpers ---

func extractAccessToken(c *gin.Context) (string, error) {
	authz := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:]), nil
	}

	if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		return cookie, nil
	}

	return "", errors.New("missing access token")
}

func collectRoles(claims *KCClaims, clientID string) []string {
	out := make([]string, 0, 16)

	out = append(out, claims.RealmAccess.Roles...)

	if clientID != "" && claims.ResourceAccess != nil {
		if ra, ok := claims.ResourceAccess[clientID]; ok {
			out = append(out, ra.Roles...)
		}
	}

	return uniq(out)
}

func hasAnyRole(userRoles []string, anyOf ...string) bool {
	roleSet := make(map[string]struct{}, len(userRoles))
	for _, r := range userRoles {
		roleSet[r] = struct{}{}
	}
	for _, required := range anyOf {
		if _, ok := roleSet[required]; ok {
			return true
		}
	}
	return false
}

func uniq(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
