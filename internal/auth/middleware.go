package auth

import (
	"net/http"

	// echo-jwt validates tokens with golang-jwt v5, so the context token is
	// a v5 type even though issuance in this package uses v4. The wire
	// format is identical; only the claim types differ.
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"bookshelf/internal/model"
	"bookshelf/internal/repository"
)

// currentUserKey is the echo context key the identity middleware stores the
// resolved user under.
const currentUserKey = "current_user"

// Identity resolves the JWT (already validated by echo-jwt) to a stored
// user on every request. Requests with a blacklisted token or a claim that
// no longer maps to an existing user are rejected, so a logged-out session
// never resolves and a context never carries a dangling user id.
func Identity(userRepo repository.UserRepository, tokenStore TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, ok := token.Claims.(jwtv5.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			if jti, ok := claims["jti"].(string); ok && jti != "" {
				if blacklisted, _ := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), jti); blacklisted {
					return echo.NewHTTPError(http.StatusUnauthorized, "session ended")
				}
			}

			userID, ok := claims["user_id"].(float64)
			if !ok || userID <= 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			user, err := userRepo.FindByID(c.Request().Context(), uint(userID))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by the Identity middleware.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(currentUserKey).(*model.User)
	return user, ok
}
