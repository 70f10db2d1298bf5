package cookies

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easepay/easepay/internal/app/models/dto"
)

// Cookie names used for session transport
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Config controls the session cookie attributes. Secure must be true in
// production because SameSite=None cookies are rejected without it.
type Config struct {
	Domain string
	Secure bool
}

// SetSession writes both token cookies on the response. Max-Age tracks each
// token's own lifetime so the browser drops them in step with expiry.
func SetSession(c *gin.Context, cfg Config, pair *dto.TokenPair) {
	setTokenCookie(c, cfg, AccessTokenCookie, pair.AccessToken, int(pair.ExpiresIn))
	setTokenCookie(c, cfg, RefreshTokenCookie, pair.RefreshToken, int(pair.RefreshExpiresIn))
}

// ClearSession expires both token cookies
func ClearSession(c *gin.Context, cfg Config) {
	setTokenCookie(c, cfg, AccessTokenCookie, "", -1)
	setTokenCookie(c, cfg, RefreshTokenCookie, "", -1)
}

func setTokenCookie(c *gin.Context, cfg Config, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
