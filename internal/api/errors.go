package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidURL    = errors.New("Неверный URL")
	ErrNoData        = errors.New("Нет данных")
	ErrNoSession     = fmt.Errorf("%w: вход не выполнен", ErrNoData)
	ErrDecoding      = errors.New("Ошибка декодирования")
	ErrValidation    = errors.New("Заполните все поля")
	ErrOrderNotFound = errors.New("Заказ не найден")
)

const maxErrorBody = 512

// HTTPError ответ сервера с кодом вне 2xx
type HTTPError struct {
	StatusCode int
	Status     string
	// Body начало тела ответа, не длиннее maxErrorBody байт
	Body string
	// Detail текст ошибки от сервера из полей detail или error
	Detail string
}

// newHTTPError detail разбирается из полного тела, обрезается только Body
func newHTTPError(code int, status string, body []byte) *HTTPError {
	b := strings.TrimSpace(string(body))
	return &HTTPError{
		StatusCode: code,
		Status:     status,
		Body:       truncateRunes(b, maxErrorBody),
		Detail:     parseDetail(b),
	}
}

func (e *HTTPError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s: %s", e.Status, msg)
	}
	return e.Status
}

func (e *HTTPError) Message() string {
	return e.Detail
}

func parseDetail(body string) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}

// truncateRunes не режет многобайтовый символ посередине
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := max
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
