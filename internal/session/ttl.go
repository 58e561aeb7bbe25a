package session

import "time"

var now = time.Now

// ttlFor — оставшийся срок JWT; 0 (без истечения) для непрозрачных токенов
// и токенов без exp. Уже истёкший токен хранится минимально допустимое время.
func ttlFor(token string) time.Duration {
	info, err := Inspect(token)
	if err != nil || info.ExpiresAt.IsZero() {
		return 0
	}

	ttl := info.ExpiresAt.Sub(now())
	if ttl < time.Second {
		return time.Second
	}

	return ttl
}
