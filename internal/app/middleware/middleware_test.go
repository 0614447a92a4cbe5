package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	requests []*http.Request
	err      error
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
}

func TestBearerAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens TokenSource
		want   string
	}{
		{
			name:   "token present",
			tokens: func(context.Context) (string, bool) { return "abc", true },
			want:   "Bearer abc",
		},
		{
			name:   "no session",
			tokens: func(context.Context) (string, bool) { return "", false },
			want:   "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			rt := Chain(rec, BearerAuth(tt.tokens))

			req := httptest.NewRequest(http.MethodGet, "http://api.local/orders/", nil)
			_, err := rt.RoundTrip(req)
			require.NoError(t, err)

			require.Len(t, rec.requests, 1)
			require.Equal(t, tt.want, rec.requests[0].Header.Get("Authorization"))
			// исходный запрос не трогаем
			require.Empty(t, req.Header.Get("Authorization"))
		})
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	rt := Chain(rec, RequestID())

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api.local/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(rec.requests[0].Header.Get(HeaderRequestID))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "http://api.local/", nil)
	req.Header.Set(HeaderRequestID, "fixed")
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, "fixed", rec.requests[1].Header.Get(HeaderRequestID))
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}

	rec := &recorder{}
	rt := Chain(rec, mark("outer"), mark("inner"))
	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api.local/", nil))
	require.NoError(t, err)
	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestLogging_PassesErrorsThrough(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	rt := Chain(&recorder{err: boom}, Logging())

	resp, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api.local/", nil))
	require.ErrorIs(t, err, boom)
	require.Nil(t, resp)
}

func TestBearerAuth_PrefersRequestToken(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	rt := Chain(rec, BearerAuth(func(context.Context) (string, bool) { return "from-session", true }))

	req := httptest.NewRequest(http.MethodGet, "http://api.local/courier/orders/", nil)
	req = req.WithContext(WithToken(req.Context(), "from-snapshot"))
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, "Bearer from-snapshot", rec.requests[0].Header.Get("Authorization"))

	// пустой токен в контексте не считается
	req = httptest.NewRequest(http.MethodGet, "http://api.local/courier/orders/", nil)
	req = req.WithContext(WithToken(req.Context(), ""))
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, "Bearer from-session", rec.requests[1].Header.Get("Authorization"))
}
