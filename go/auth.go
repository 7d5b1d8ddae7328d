package petguardserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	principals "github.com/Apurer/petguard-api/internal/domains/principals/domain"
	principalsports "github.com/Apurer/petguard-api/internal/domains/principals/ports"
	"github.com/Apurer/petguard-api/internal/shared/faults"
)

const (
	callerKey = "petguard.caller"
	tokenKey  = "petguard.token"
)

// Authenticate resolves an "Authorization: Bearer" token to its account and stores it on the
// context. Requests without a token pass through anonymously and each use case decides whether
// a caller is required. A token that does not resolve is rejected.
func Authenticate(service principalsports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		account, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondServiceError(c, err)
			c.Abort()
			return
		}
		c.Set(callerKey, account)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// RequireCaller aborts anonymous requests with not_authenticated. It runs after Authenticate
// and before any body, query or path parsing.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if callerFrom(c) == nil {
			respondServiceError(c, faults.NotAuthenticated())
			c.Abort()
			return
		}
		c.Next()
	}
}

// callerFrom returns the authenticated account, or nil for anonymous requests.
func callerFrom(c *gin.Context) *principals.Account {
	value, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	account, _ := value.(*principals.Account)
	return account
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
