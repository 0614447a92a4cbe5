package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"adalcrm/internal/app/ds"
	"adalcrm/internal/app/dto"
)

// decodeOrderList сначала пробует конверт с results, затем голый массив
func decodeOrderList(body []byte) (dto.OrderList, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return dto.OrderList{}, ErrNoData
	}

	switch body[0] {
	case '{':
		var env struct {
			dto.OrdersEnvelope
			Results *[]ds.Order `json:"results"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return dto.OrderList{}, fmt.Errorf("%w: orders envelope: %v", ErrDecoding, err)
		}
		if env.Results == nil {
			return dto.OrderList{}, fmt.Errorf("%w: orders envelope without results", ErrDecoding)
		}
		return dto.OrderList{
			Kind:     dto.ListEnvelope,
			Count:    env.Count,
			Next:     env.Next,
			Previous: env.Previous,
			Orders:   *env.Results,
		}, nil
	case '[':
		var orders []ds.Order
		if err := json.Unmarshal(body, &orders); err != nil {
			return dto.OrderList{}, fmt.Errorf("%w: orders array: %v", ErrDecoding, err)
		}
		return dto.OrderList{
			Kind:   dto.ListBare,
			Count:  len(orders),
			Orders: orders,
		}, nil
	}

	return dto.OrderList{}, fmt.Errorf("%w: orders payload is neither object nor array", ErrDecoding)
}

// decodeUpdatedOrder поле order обязательно и не может быть null
func decodeUpdatedOrder(body []byte) (ds.Order, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ds.Order{}, ErrNoData
	}

	var resp dto.UpdateStatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ds.Order{}, fmt.Errorf("%w: update response: %v", ErrDecoding, err)
	}

	raw := bytes.TrimSpace(resp.Order)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ds.Order{}, fmt.Errorf("%w: update response without order", ErrDecoding)
	}

	var order ds.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return ds.Order{}, fmt.Errorf("%w: updated order: %v", ErrDecoding, err)
	}
	return order, nil
}

func decodeJSON(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ErrNoData
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return nil
}
