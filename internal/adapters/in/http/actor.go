package http

import (
	"net/http"
	"strings"

	"custody/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorKey = "custody.actor"

// ActorMiddleware resolves the acting user from an optional HMAC bearer token. The user id is
// read from the user_id claim, then sub; the role from the role claim. Requests without a
// token, or whose token carries no user id, act as kernel.SystemUserID. A token that is
// present but invalid is rejected.
func ActorMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := actorFromRequest(c.Request(), secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by ActorMiddleware, or the system actor.
func ActorFrom(c echo.Context) kernel.Actor {
	if actor, ok := c.Get(actorKey).(kernel.Actor); ok {
		return actor
	}
	return kernel.SystemActor()
}

func actorFromRequest(r *http.Request, secret []byte) (kernel.Actor, error) {
	auth := r.Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return kernel.SystemActor(), nil
	}
	if len(secret) == 0 {
		return kernel.Actor{}, jwt.ErrTokenUnverifiable
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		return kernel.Actor{}, err
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		userID, _ = claims.GetSubject()
	}
	if strings.TrimSpace(userID) == "" {
		return kernel.SystemActor(), nil
	}

	role := kernel.RoleOperator
	if claimed, _ := claims["role"].(string); claimed != "" {
		role = kernel.Role(strings.ToUpper(claimed))
	}
	return kernel.NewActor(userID, role)
}
