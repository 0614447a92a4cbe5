package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"adalcrm/internal/app/role"
)

type Operation int

const (
	OpListOrders Operation = iota + 1
	OpUpdateStatus
	OpStatistics
)

func (o Operation) String() string {
	switch o {
	case OpListOrders:
		return "list orders"
	case OpUpdateStatus:
		return "update status"
	case OpStatistics:
		return "statistics"
	}
	return "unknown"
}

type Endpoint struct {
	Method string
	Path   string
}

type endpointKey struct {
	role role.Role
	op   Operation
}

// У директора и менеджера общий набор эндпоинтов
var endpoints = func() map[endpointKey]Endpoint {
	m := map[endpointKey]Endpoint{
		{role.Courier, OpListOrders}:   {http.MethodGet, "/courier/orders/"},
		{role.Courier, OpUpdateStatus}: {http.MethodPost, "/courier/orders/{id}/update-status/"},
		{role.Courier, OpStatistics}:   {http.MethodGet, "/courier/statistics/"},

		{role.Washer, OpListOrders}:   {http.MethodGet, "/washer/orders/"},
		{role.Washer, OpUpdateStatus}: {http.MethodPost, "/washer/orders/{id}/complete/"},
		{role.Washer, OpStatistics}:   {http.MethodGet, "/washer/statistics/"},

		{role.WasherAssistant, OpListOrders}:   {http.MethodGet, "/washer-assistant/orders/"},
		{role.WasherAssistant, OpUpdateStatus}: {http.MethodPost, "/washer-assistant/orders/{id}/update-status/"},
		{role.WasherAssistant, OpStatistics}:   {http.MethodGet, "/washer-assistant/statistics/"},
	}
	for _, r := range []role.Role{role.Director, role.Manager} {
		m[endpointKey{r, OpListOrders}] = Endpoint{http.MethodGet, "/orders/"}
		m[endpointKey{r, OpUpdateStatus}] = Endpoint{http.MethodPost, "/orders/{id}/update-status/"}
		m[endpointKey{r, OpStatistics}] = Endpoint{http.MethodGet, "/statistics/"}
	}
	return m
}()

// EndpointFor путь для роли и операции, {id} подставляется из orderID
func EndpointFor(r role.Role, op Operation, orderID int64) (Endpoint, error) {
	ep, ok := endpoints[endpointKey{r, op}]
	if !ok {
		return Endpoint{}, fmt.Errorf("no endpoint for role %q, operation %s", r, op)
	}
	ep.Path = strings.ReplaceAll(ep.Path, "{id}", strconv.FormatInt(orderID, 10))
	return ep, nil
}
