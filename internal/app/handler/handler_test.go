package handler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"adalcrm/internal/api"
	"adalcrm/internal/app/apitest"
	"adalcrm/internal/app/ds"
	"adalcrm/internal/app/lifecycle"
	"adalcrm/internal/app/role"
	"adalcrm/internal/app/session"
	"adalcrm/internal/app/storage"

	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	loginFn      func(ctx context.Context, username, password string) (ds.User, error)
	logoutFn     func(ctx context.Context) error
	ordersFn     func(ctx context.Context) ([]ds.Order, error)
	orderFn      func(ctx context.Context, id int64) (ds.Order, error)
	advanceFn    func(ctx context.Context, order ds.Order, notes string) (ds.Order, error)
	statisticsFn func(ctx context.Context) (ds.Statistics, error)
}

func (s stubAPI) Login(ctx context.Context, username, password string) (ds.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s stubAPI) Logout(ctx context.Context) error {
	return s.logoutFn(ctx)
}

func (s stubAPI) FetchOrders(ctx context.Context) ([]ds.Order, error) {
	return s.ordersFn(ctx)
}

func (s stubAPI) FetchOrder(ctx context.Context, id int64) (ds.Order, error) {
	return s.orderFn(ctx, id)
}

func (s stubAPI) AdvanceOrder(ctx context.Context, order ds.Order, notes string) (ds.Order, error) {
	return s.advanceFn(ctx, order, notes)
}

func (s stubAPI) FetchStatistics(ctx context.Context) (ds.Statistics, error) {
	return s.statisticsFn(ctx)
}

type stubSession struct {
	user   *ds.User
	expiry time.Time
}

func (s stubSession) CurrentUser(context.Context) (ds.User, bool) {
	if s.user == nil {
		return ds.User{}, false
	}
	return *s.user, true
}

func (s stubSession) TokenExpiry(context.Context) (time.Time, bool) {
	return s.expiry, !s.expiry.IsZero()
}

func courier() *ds.User {
	return &ds.User{ID: 3, Username: "courier", FullName: "Ерлан Сапаров", Role: role.Courier, IsActive: true}
}

func sampleOrders() []ds.Order {
	return []ds.Order{
		{ID: 2, OrderNumber: "ORD-0002", ClientName: "Клиент 2", Status: ds.StatusAssigned, TotalAmount: "1500.00", ItemsCount: 2, CreatedAt: "2024-05-02T10:30:00Z"},
		{ID: 4, OrderNumber: "ORD-0004", ClientName: "Клиент 4", Status: ds.StatusInWashing, TotalAmount: "990.50", ItemsCount: 1, CreatedAt: "2024-05-04T10:30:00Z"},
	}
}

func findOrder(id int64) (ds.Order, error) {
	o, ok := ds.FindOrder(sampleOrders(), id)
	if !ok {
		return ds.Order{}, api.ErrOrderNotFound
	}
	return o, nil
}

func newTestHandler(a API, sess Session, stdin string) (*Handler, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewHandler(a, sess, strings.NewReader(stdin), out), out
}

func TestRun_UnknownCommandAndHelp(t *testing.T) {
	t.Parallel()

	h, out := newTestHandler(stubAPI{}, stubSession{}, "")

	err := h.Run(context.Background(), []string{"fly"})
	require.ErrorIs(t, err, ErrUnknownCommand)
	require.Contains(t, out.String(), "advance ID")

	out.Reset()
	require.NoError(t, h.Run(context.Background(), nil))
	require.Contains(t, out.String(), "Использование")
}

func TestLogin(t *testing.T) {
	t.Parallel()

	var gotUser, gotPass string
	a := stubAPI{loginFn: func(ctx context.Context, username, password string) (ds.User, error) {
		gotUser, gotPass = username, password
		return *courier(), nil
	}}

	h, out := newTestHandler(a, stubSession{}, "")
	require.NoError(t, h.Run(context.Background(), []string{"login", "-u", "courier", "-p", "secret"}))
	require.Equal(t, "courier", gotUser)
	require.Equal(t, "secret", gotPass)
	require.Contains(t, out.String(), "Добро пожаловать, Ерлан Сапаров (Курьер)")

	// пароль со stdin
	h, _ = newTestHandler(a, stubSession{}, "from-stdin\n")
	require.NoError(t, h.Run(context.Background(), []string{"login", "--username", "courier"}))
	require.Equal(t, "from-stdin", gotPass)
}

func TestProfile(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(stubAPI{}, stubSession{}, "")
	require.ErrorIs(t, h.Run(context.Background(), []string{"profile"}), ErrNotLoggedIn)

	u := courier()
	u.Email = "courier@adal.kz"
	u.DateJoined = "2024-01-10T09:00:00Z"
	h, out := newTestHandler(stubAPI{}, stubSession{user: u, expiry: time.Now().Add(time.Hour)}, "")
	require.NoError(t, h.Run(context.Background(), []string{"profile"}))

	text := out.String()
	require.Contains(t, text, "Курьер")
	require.Contains(t, text, "courier@adal.kz")
	require.Contains(t, text, "10.01.2024 09:00")
	require.Contains(t, text, "Активен")
	require.Contains(t, text, "Токен до:")
}

func TestOrders(t *testing.T) {
	t.Parallel()

	a := stubAPI{ordersFn: func(context.Context) ([]ds.Order, error) { return sampleOrders(), nil }}
	h, out := newTestHandler(a, stubSession{user: courier()}, "")
	require.NoError(t, h.Run(context.Background(), []string{"orders"}))

	text := out.String()
	require.Contains(t, text, "ORD-0002")
	require.Contains(t, text, "Назначен")
	require.Contains(t, text, "В стирке")
	require.Contains(t, text, "02.05.2024 10:30")
	require.Contains(t, text, "Всего: 2")
	require.NotContains(t, text, "\033[")

	empty := stubAPI{ordersFn: func(context.Context) ([]ds.Order, error) { return nil, nil }}
	h, out = newTestHandler(empty, stubSession{user: courier()}, "")
	require.NoError(t, h.Run(context.Background(), []string{"orders"}))
	require.Contains(t, out.String(), "Заказов нет")
}

func TestOrders_Color(t *testing.T) {
	t.Parallel()

	a := stubAPI{ordersFn: func(context.Context) ([]ds.Order, error) { return sampleOrders(), nil }}
	h, out := newTestHandler(a, stubSession{user: courier()}, "")
	h.Color = true
	require.NoError(t, h.Run(context.Background(), []string{"orders"}))
	require.Contains(t, out.String(), lifecycle.ToneAlert.ANSI()+"Назначен"+ansiReset)
}

func TestOrder_Detail(t *testing.T) {
	t.Parallel()

	a := stubAPI{orderFn: func(ctx context.Context, id int64) (ds.Order, error) { return findOrder(id) }}
	h, out := newTestHandler(a, stubSession{user: courier()}, "")

	require.NoError(t, h.Run(context.Background(), []string{"order", "2"}))
	require.Contains(t, out.String(), "Клиент 2")
	require.Contains(t, out.String(), "Отметить как забранный? -> adalcrm advance 2")

	require.ErrorIs(t, h.Run(context.Background(), []string{"order", "abc"}), ErrBadOrderID)
	require.ErrorIs(t, h.Run(context.Background(), []string{"order"}), ErrBadOrderID)
	require.ErrorIs(t, h.Run(context.Background(), []string{"order", "77"}), api.ErrOrderNotFound)
}

func TestAdvance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		user       *ds.User
		args       []string
		stdin      string
		wantErr    error
		wantMsg    string
		wantCalled bool
	}{
		{name: "confirmed", user: courier(), args: []string{"advance", "2"}, stdin: "y\n", wantCalled: true},
		{name: "confirmed in russian", user: courier(), args: []string{"advance", "2"}, stdin: "да\n", wantCalled: true},
		{name: "flag yes", user: courier(), args: []string{"advance", "--yes", "--notes", "у двери", "2"}, wantCalled: true},
		{name: "declined", user: courier(), args: []string{"advance", "2"}, stdin: "n\n", wantErr: ErrCancelled},
		{name: "wrong status", user: courier(), args: []string{"advance", "--yes", "4"}, wantErr: lifecycle.ErrNotAllowed, wantMsg: "Невозможно обновить статус"},
		{
			name:    "director",
			user:    &ds.User{ID: 1, Username: "director", Role: role.Director},
			args:    []string{"advance", "--yes", "2"},
			wantErr: lifecycle.ErrNotAllowed,
			wantMsg: "У вас нет прав для обновления статуса",
		},
		{name: "no session", args: []string{"advance", "2"}, wantErr: ErrNotLoggedIn},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			var gotNotes string
			a := stubAPI{
				orderFn: func(ctx context.Context, id int64) (ds.Order, error) { return findOrder(id) },
				advanceFn: func(ctx context.Context, order ds.Order, notes string) (ds.Order, error) {
					called = true
					gotNotes = notes
					order.Status = ds.StatusPickedUp
					return order, nil
				},
			}

			h, out := newTestHandler(a, stubSession{user: tt.user}, tt.stdin)
			err := h.Run(context.Background(), tt.args)
			require.Equal(t, tt.wantCalled, called)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					require.Equal(t, tt.wantMsg, ErrorMessage(err))
				}
				return
			}
			require.NoError(t, err)
			require.Contains(t, out.String(), "Статус заказа ORD-0002 обновлен: Забран")
			if tt.name == "flag yes" {
				require.Equal(t, "у двери", gotNotes)
				require.NotContains(t, out.String(), "[y/N]")
			} else {
				require.Contains(t, out.String(), "Отметить как забранный?")
			}
		})
	}
}

func TestTransitions(t *testing.T) {
	t.Parallel()

	h, out := newTestHandler(stubAPI{}, stubSession{user: courier()}, "")
	require.NoError(t, h.Run(context.Background(), []string{"transitions"}))
	require.Contains(t, out.String(), "Отметить как забранный?")
	require.Contains(t, out.String(), "Отметить как доставленный?")

	h, out = newTestHandler(stubAPI{}, stubSession{user: &ds.User{Username: "m", Role: role.Manager}}, "")
	require.NoError(t, h.Run(context.Background(), []string{"transitions"}))
	require.Contains(t, out.String(), "Роль Менеджер не меняет статусы заказов")
}

func TestStats(t *testing.T) {
	t.Parallel()

	a := stubAPI{statisticsFn: func(context.Context) (ds.Statistics, error) {
		return ds.Statistics{
			TotalOrders: 3,
			TotalAmount: 4500.5,
			StatusCounts: map[string]ds.StatusCount{
				"delivered": {Name: "Доставлен", Count: 1},
				"assigned":  {Name: "Назначен", Count: 2},
			},
		}, nil
	}}

	h, out := newTestHandler(a, stubSession{user: courier()}, "")
	require.NoError(t, h.Run(context.Background(), []string{"stats"}))

	text := out.String()
	require.Contains(t, text, "4500.50")
	require.Less(t, strings.Index(text, "Назначен"), strings.Index(text, "Доставлен"))
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := stubAPI{
		ordersFn: func(context.Context) ([]ds.Order, error) {
			// заказы отвечают дольше, но выводятся первыми
			time.Sleep(20 * time.Millisecond)
			return sampleOrders(), nil
		},
		statisticsFn: func(context.Context) (ds.Statistics, error) {
			return ds.Statistics{TotalOrders: 2}, nil
		},
	}
	h, out := newTestHandler(a, stubSession{user: courier()}, "")

	require.NoError(t, h.Run(ctx, []string{"dashboard"}))
	text := out.String()
	require.Contains(t, text, "ORD-0002")
	require.Less(t, strings.Index(text, "== Заказы =="), strings.Index(text, "== Статистика =="))

	boom := errors.New("stats down")
	a.statisticsFn = func(context.Context) (ds.Statistics, error) { return ds.Statistics{}, boom }
	h.API = a
	require.ErrorIs(t, h.Run(ctx, []string{"dashboard"}), boom)
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	h, out := newTestHandler(stubAPI{}, stubSession{}, "")
	h.ErrorHandler(errors.New("сервер недоступен"))
	require.Equal(t, "Ошибка: сервер недоступен\n", out.String())
}

// Полный путь через клиент и заглушку сервера
func TestCommands_AgainstStandInServer(t *testing.T) {
	t.Parallel()

	srv := apitest.New()
	defer srv.Close()

	sess := session.NewStore(storage.NewMemory())
	client, err := api.New(srv.BaseURL(), sess)
	require.NoError(t, err)

	ctx := context.Background()
	h, out := newTestHandler(client, sess, "")

	require.NoError(t, h.Run(ctx, []string{"login", "-u", "washer", "-p", apitest.DefaultPassword}))
	require.NoError(t, h.Run(ctx, []string{"orders"}))
	require.Contains(t, out.String(), "ORD-0004")

	require.NoError(t, h.Run(ctx, []string{"advance", "--yes", "4"}))
	require.Contains(t, out.String(), "обновлен: Постиран")

	o, ok := srv.Order(4)
	require.True(t, ok)
	require.Equal(t, ds.StatusWashed, o.Status)

	// постиранный заказ мойщик дальше не двигает
	err = h.Run(ctx, []string{"advance", "--yes", "4"})
	require.ErrorIs(t, err, lifecycle.ErrNotAllowed)

	require.NoError(t, h.Run(ctx, []string{"logout"}))
	require.ErrorIs(t, h.Run(ctx, []string{"orders"}), api.ErrNoSession)
}
