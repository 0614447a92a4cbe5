package dto

import (
	"encoding/json"

	"adalcrm/internal/app/ds"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ============ Аутентификация ============

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() error {
	return validate.Struct(r)
}

type LoginResponse struct {
	Access  string  `json:"access" validate:"required"`
	Refresh string  `json:"refresh" validate:"required"`
	User    ds.User `json:"user"`
}

// Validate проверяет, что сервер вернул оба токена и пользователя с ролью
func (r LoginResponse) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validate.Var(string(r.User.Role), "required")
}

func (r LoginResponse) Tokens() ds.Tokens {
	return ds.Tokens{Access: r.Access, Refresh: r.Refresh}
}

// ============ Заказы ============

type UpdateStatusRequest struct {
	Status ds.Status `json:"status"`
	Notes  string    `json:"notes"`
}

// UpdateStatusResponse ответ на смену статуса, заказ лежит в поле order.
// RawMessage нужен, чтобы отличить отсутствующее поле от пустого.
type UpdateStatusResponse struct {
	Message string          `json:"message,omitempty"`
	Order   json.RawMessage `json:"order"`
}

// OrdersEnvelope постраничный ответ списка заказов
type OrdersEnvelope struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []ds.Order `json:"results"`
}

// ListKind форма, в которой пришел список
type ListKind int

const (
	ListEnvelope ListKind = iota + 1
	ListBare
)

func (k ListKind) String() string {
	switch k {
	case ListEnvelope:
		return "envelope"
	case ListBare:
		return "bare"
	}
	return "unknown"
}

// OrderList результат разбора списка: либо конверт, либо голый массив
type OrderList struct {
	Kind     ListKind
	Count    int
	Next     *string
	Previous *string
	Orders   []ds.Order
}
