package middleware

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/repositories"
)

// AuthMiddleware authenticates a request from its bearer token, accepting
// either a locally issued JWT or, when a Firebase client is configured, a
// Firebase ID token resolved to the local user record. Both paths attach
// the same "userID" key to the context.
func AuthMiddleware(authClient *auth.Client, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing or malformed Authorization header")
			}

			if claims, err := parseClaims(tokenString); err == nil {
				c.Set("user", claims)
				c.Set("userID", claims.UserID)
				return next(c)
			}

			if authClient != nil {
				token, err := authClient.VerifyIDToken(c.Request().Context(), tokenString)
				if err == nil {
					user, uerr := userRepo.GetUserByFirebaseUID(token.UID)
					if uerr != nil {
						return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not registered")
					}
					c.Set("firebaseUID", token.UID)
					c.Set("userID", user.ID)
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
	}
}
