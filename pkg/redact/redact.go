// redact маскирует чувствительные значения перед записью в лог.
package redact

import "strings"

// Email оставляет два первых символа локальной части и домен: "al***@mail.com".
func Email(s string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "***"
	}

	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Token скрывает токен целиком; для длинных токенов оставляет хвост из 4 символов,
// чтобы различать сессии в логах.
func Token(tok string) string {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return ""
	}

	if len(tok) <= 16 {
		return "[REDACTED_TOKEN]"
	}

	return "[REDACTED_TOKEN]…" + tok[len(tok)-4:]
}

func Password() string { return "[REDACTED_PASSWORD]" }
