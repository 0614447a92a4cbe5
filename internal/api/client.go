package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"adalcrm/internal/app/ds"
	"adalcrm/internal/app/dto"
	"adalcrm/internal/app/lifecycle"
	"adalcrm/internal/app/middleware"
	"adalcrm/internal/app/session"

	log "github.com/sirupsen/logrus"
)

const loginPath = "/auth/login/"

// Client типизированные операции над API прачечной.
// Эндпоинты выбираются по роли пользователя текущей сессии.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	session *session.Store
}

type Option func(c *Client)

// WithHTTPClient свой http.Client, его транспорт оборачивается цепочкой middleware
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		cp := *hc
		c.http = &cp
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

func New(baseURL string, sess *session.Store, opts ...Option) (*Client, error) {
	if sess == nil {
		return nil, fmt.Errorf("nil session store")
	}

	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		session: sess,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http.Transport = middleware.Chain(c.http.Transport,
		middleware.RequestID(),
		middleware.BearerAuth(sess.AccessToken),
		middleware.Logging(),
	)

	return c, nil
}

func (c *Client) Session() *session.Store {
	return c.session
}

// Login при успехе сохраняет токены и пользователя, при любой ошибке сессия не трогается
func (c *Client) Login(ctx context.Context, username, password string) (ds.User, error) {
	req := dto.LoginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := req.Validate(); err != nil {
		return ds.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	body, err := c.do(ctx, http.MethodPost, loginPath, req)
	if err != nil {
		return ds.User{}, err
	}

	var resp dto.LoginResponse
	if err = decodeJSON(body, &resp); err != nil {
		return ds.User{}, err
	}
	if err = resp.Validate(); err != nil {
		return ds.User{}, fmt.Errorf("%w: login response: %v", ErrDecoding, err)
	}

	if err = c.session.SaveSession(ctx, resp.Tokens(), resp.User); err != nil {
		return ds.User{}, err
	}

	log.WithFields(log.Fields{
		"user": resp.User.Username,
		"role": resp.User.Role,
	}).Info("logged in")

	return resp.User, nil
}

// Logout только локальный, сервер не уведомляется
func (c *Client) Logout(ctx context.Context) error {
	return c.session.ClearSession(ctx)
}

func (c *Client) FetchOrders(ctx context.Context) ([]ds.Order, error) {
	list, err := c.FetchOrderList(ctx)
	if err != nil {
		return nil, err
	}
	return list.Orders, nil
}

// FetchOrderList список заказов вместе с формой ответа и полями пагинации
func (c *Client) FetchOrderList(ctx context.Context) (dto.OrderList, error) {
	ctx, user, err := c.snapshot(ctx)
	if err != nil {
		return dto.OrderList{}, err
	}

	ep, err := EndpointFor(user.Role, OpListOrders, 0)
	if err != nil {
		return dto.OrderList{}, err
	}

	body, err := c.do(ctx, ep.Method, ep.Path, nil)
	if err != nil {
		return dto.OrderList{}, err
	}

	list, err := decodeOrderList(body)
	if err != nil {
		log.WithError(err).WithField("path", ep.Path).Error("orders decoding failed")
		return dto.OrderList{}, err
	}
	return list, nil
}

// FetchOrder отдельного эндпоинта нет, заказ ищется в свежем списке
func (c *Client) FetchOrder(ctx context.Context, id int64) (ds.Order, error) {
	orders, err := c.FetchOrders(ctx)
	if err != nil {
		return ds.Order{}, err
	}
	order, ok := ds.FindOrder(orders, id)
	if !ok {
		return ds.Order{}, fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
	}
	return order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status ds.Status, notes string) (ds.Order, error) {
	ctx, user, err := c.snapshot(ctx)
	if err != nil {
		return ds.Order{}, err
	}
	return c.updateStatus(ctx, user, orderID, status, notes)
}

func (c *Client) updateStatus(ctx context.Context, user ds.User, orderID int64, status ds.Status, notes string) (ds.Order, error) {
	ep, err := EndpointFor(user.Role, OpUpdateStatus, orderID)
	if err != nil {
		return ds.Order{}, err
	}

	body, err := c.do(ctx, ep.Method, ep.Path, dto.UpdateStatusRequest{Status: status, Notes: notes})
	if err != nil {
		return ds.Order{}, err
	}

	order, err := decodeUpdatedOrder(body)
	if err != nil {
		log.WithError(err).WithField("path", ep.Path).Error("update response decoding failed")
		return ds.Order{}, err
	}
	return order, nil
}

// AdvanceOrder переводит заказ на следующий статус по роли пользователя.
// Если переход запрещен, запрос не отправляется.
func (c *Client) AdvanceOrder(ctx context.Context, order ds.Order, notes string) (ds.Order, error) {
	ctx, user, err := c.snapshot(ctx)
	if err != nil {
		return ds.Order{}, err
	}

	next, err := lifecycle.NextStatus(user.Role, order.Status)
	if err != nil {
		return ds.Order{}, err
	}

	log.WithFields(log.Fields{
		"order": order.OrderNumber,
		"from":  order.Status,
		"to":    next,
	}).Info("advancing order")

	return c.updateStatus(ctx, user, order.ID, next, notes)
}

func (c *Client) FetchStatistics(ctx context.Context) (ds.Statistics, error) {
	ctx, user, err := c.snapshot(ctx)
	if err != nil {
		return ds.Statistics{}, err
	}

	ep, err := EndpointFor(user.Role, OpStatistics, 0)
	if err != nil {
		return ds.Statistics{}, err
	}

	body, err := c.do(ctx, ep.Method, ep.Path, nil)
	if err != nil {
		return ds.Statistics{}, err
	}

	var stats ds.Statistics
	if err = decodeJSON(body, &stats); err != nil {
		log.WithError(err).WithField("path", ep.Path).Error("statistics decoding failed")
		return ds.Statistics{}, err
	}
	return stats, nil
}

// snapshot токен и пользователь из одного чтения сессии.
// Токен закрепляется за контекстом, чтобы заголовок совпал с ролью эндпоинта.
func (c *Client) snapshot(ctx context.Context) (context.Context, ds.User, error) {
	token, user, ok := c.session.Snapshot(ctx)
	if !ok || token == "" {
		return ctx, ds.User{}, ErrNoSession
	}
	return middleware.WithToken(ctx, token), user, nil
}

// do отправляет запрос и возвращает тело 2xx ответа
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := newHTTPError(resp.StatusCode, resp.Status, body)
		log.WithFields(log.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("api returned error status")
		return nil, httpErr
	}

	return body, nil
}
