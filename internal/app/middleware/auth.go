package middleware

import (
	"context"
	"net/http"
)

// TokenSource отдает текущий access токен, false если сессии нет
type TokenSource func(ctx context.Context) (string, bool)

type tokenKey struct{}

// WithToken закрепляет токен за запросом. Так токен и роль, по которой выбран
// эндпоинт, берутся из одного снимка сессии.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// BearerAuth подставляет заголовок Authorization: токен из контекста запроса,
// иначе из сессии. Без токена запрос уходит без заголовка, решает сервер.
func BearerAuth(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			token, ok := tokenFromContext(req.Context())
			if !ok {
				token, ok = tokens(req.Context())
			}
			if !ok || token == "" {
				return next.RoundTrip(req)
			}

			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(req)
		})
	}
}
