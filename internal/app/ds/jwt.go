package ds

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Tokens пара токенов, выданная при логине
type Tokens struct {
	Access  string
	Refresh string
}

// TokenClaims полезная нагрузка access токена.
// Клиент подпись не проверяет, читает только срок действия.
type TokenClaims struct {
	jwt.StandardClaims
	UserID int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// ExpiresAtTime срок действия токена, ok=false если exp не задан
func (c TokenClaims) ExpiresAtTime() (time.Time, bool) {
	if c.ExpiresAt == 0 {
		return time.Time{}, false
	}
	return time.Unix(c.ExpiresAt, 0), true
}
