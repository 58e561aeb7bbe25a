package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT — токен не разбирается как JWT.
var ErrNotJWT = errors.New("token is not a jwt")

// Info — то, что можно показать о сессии, не проверяя подпись.
type Info struct {
	Subject   string
	UserID    string
	Username  string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired — срок действия указан и прошёл к моменту now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect разбирает JWT без проверки подписи. Результат годится только для
// отображения и не является доказательством подлинности.
func Inspect(token string) (Info, error) {
	const op = "session.Inspect"

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{}, fmt.Errorf("%s: %w: %v", op, ErrNotJWT, err)
	}

	var info Info

	info.Subject, _ = claims.GetSubject()
	info.UserID = firstString(claims, "id", "userId", "uid", "_id")
	if info.UserID == "" {
		info.UserID = info.Subject
	}
	info.Username = firstString(claims, "username", "name")

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time.UTC()
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time.UTC()
	}

	return info, nil
}

func firstString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s, ok := claims[k].(string); ok && s != "" {
			return s
		}
	}

	return ""
}
