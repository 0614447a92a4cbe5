package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const HeaderRequestID = "X-Request-ID"

// Middleware оборачивает исходящий транспорт
type Middleware func(next http.RoundTripper) http.RoundTripper

type RoundTripperFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain первый middleware оказывается внешним
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// RequestID проставляет X-Request-ID, если вызывающий его не задал
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(HeaderRequestID) != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(HeaderRequestID, uuid.New().String())
			return next.RoundTrip(req)
		})
	}
}

// Logging пишет метод, путь, статус и время запроса на уровне debug
func Logging() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			entry := log.WithFields(log.Fields{
				"method":     req.Method,
				"path":       req.URL.Path,
				"request_id": req.Header.Get(HeaderRequestID),
				"latency":    time.Since(start),
			})
			if err != nil {
				entry.WithError(err).Debug("request failed")
				return nil, err
			}
			entry.WithField("status", resp.StatusCode).Debug("request done")
			return resp, nil
		})
	}
}
