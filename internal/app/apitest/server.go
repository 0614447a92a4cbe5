// Package apitest поднимает на loopback заглушку API прачечной для тестов клиента
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"adalcrm/internal/app/ds"
	"adalcrm/internal/app/dto"
	"adalcrm/internal/app/lifecycle"
	"adalcrm/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

const DefaultPassword = "password"

type account struct {
	password string
	user     ds.User
}

// Request запрос, который дошел до сервера
type Request struct {
	Method        string
	Path          string
	Authorization string
	Body          string
}

type Server struct {
	*httptest.Server

	secret []byte
	bare   bool

	mu       sync.Mutex
	accounts map[string]account
	orders   []ds.Order
	requests []Request
}

type Option func(s *Server)

// WithBareLists списки заказов отдаются голым массивом вместо конверта
func WithBareLists() Option {
	return func(s *Server) { s.bare = true }
}

func WithOrders(orders ...ds.Order) Option {
	return func(s *Server) { s.orders = append([]ds.Order(nil), orders...) }
}

func WithUser(user ds.User, password string) Option {
	return func(s *Server) { s.accounts[user.Username] = account{password: password, user: user} }
}

// New запускает сервер с сотрудниками всех ролей и набором заказов
func New(opts ...Option) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:   []byte("apitest"),
		accounts: make(map[string]account),
		orders:   SeedOrders(),
	}
	for _, u := range SeedUsers() {
		s.accounts[u.Username] = account{password: DefaultPassword, user: u}
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(s.record())
	s.registerRoutes(router)

	s.Server = httptest.NewServer(router)
	return s
}

// BaseURL адрес с префиксом /api
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) Order(id int64) (ds.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ds.FindOrder(s.orders, id)
}

// Token выпускает access токен для пользователя без похода в /auth/login/
func (s *Server) Token(user ds.User, ttl time.Duration) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ds.TokenClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "adalcrm-apitest",
		},
		UserID: user.ID,
		Role:   string(user.Role),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/auth/login/", s.login)

	staff := api.Group("")
	staff.Use(s.withAuthCheck(role.Director, role.Manager))
	{
		staff.GET("/orders/", s.listOrders)
		staff.POST("/orders/:id/update-status/", s.updateStatus)
		staff.GET("/statistics/", s.statistics)
	}

	courier := api.Group("/courier")
	courier.Use(s.withAuthCheck(role.Courier))
	{
		courier.GET("/orders/", s.listOrders)
		courier.POST("/orders/:id/update-status/", s.updateStatus)
		courier.GET("/statistics/", s.statistics)
	}

	washer := api.Group("/washer")
	washer.Use(s.withAuthCheck(role.Washer))
	{
		washer.GET("/orders/", s.listOrders)
		washer.POST("/orders/:id/complete/", s.updateStatus)
		washer.GET("/statistics/", s.statistics)
	}

	assistant := api.Group("/washer-assistant")
	assistant.Use(s.withAuthCheck(role.WasherAssistant))
	{
		assistant.GET("/orders/", s.listOrders)
		assistant.POST("/orders/:id/update-status/", s.updateStatus)
		assistant.GET("/statistics/", s.statistics)
	}
}

func (s *Server) record() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var body string
		if ctx.Request.Body != nil {
			data, err := ctx.GetRawData()
			if err == nil {
				body = string(data)
				ctx.Request.Body = newBody(data)
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        ctx.Request.Method,
			Path:          ctx.Request.URL.Path,
			Authorization: ctx.GetHeader("Authorization"),
			Body:          body,
		})
		s.mu.Unlock()

		ctx.Next()
	}
}

// withAuthCheck проверяет Bearer токен и роль
func (s *Server) withAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtStr := ctx.GetHeader("Authorization")
		if len(jwtStr) <= 7 || jwtStr[:7] != "Bearer " {
			s.errorHandler(ctx, http.StatusUnauthorized, "Учетные данные не были предоставлены.")
			return
		}
		jwtStr = jwtStr[7:]

		claims := &ds.TokenClaims{}
		token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			s.errorHandler(ctx, http.StatusUnauthorized, "Токен недействителен")
			return
		}

		userRole := role.Role(claims.Role)
		allowed := false
		for _, r := range assignedRoles {
			if r == userRole {
				allowed = true
				break
			}
		}
		if !allowed {
			s.errorHandler(ctx, http.StatusForbidden, "У вас недостаточно прав для выполнения данного действия.")
			return
		}

		ctx.Set("userRole", userRole)
		ctx.Set("userID", claims.UserID)
		ctx.Next()
	}
}

func (s *Server) errorHandler(ctx *gin.Context, code int, msg string) {
	logrus.WithField("status", code).Debug(msg)
	ctx.AbortWithStatusJSON(code, gin.H{
		"status": "error",
		"detail": msg,
	})
}

func (s *Server) login(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil || request.Validate() != nil {
		s.errorHandler(ctx, http.StatusBadRequest, "Необходимо указать логин и пароль")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[request.Username]
	s.mu.Unlock()
	if !ok || acc.password != request.Password {
		s.errorHandler(ctx, http.StatusUnauthorized, "Неверные учетные данные")
		return
	}
	if !acc.user.IsActive {
		s.errorHandler(ctx, http.StatusForbidden, "Пользователь неактивен")
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Access:  s.Token(acc.user, time.Hour),
		Refresh: s.Token(acc.user, 24*time.Hour),
		User:    acc.user,
	})
}

func (s *Server) listOrders(ctx *gin.Context) {
	orders := s.visibleOrders(ctx.MustGet("userRole").(role.Role))

	if s.bare {
		ctx.JSON(http.StatusOK, orders)
		return
	}
	ctx.JSON(http.StatusOK, dto.OrdersEnvelope{
		Count:   len(orders),
		Results: orders,
	})
}

func (s *Server) updateStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		s.errorHandler(ctx, http.StatusBadRequest, "Некорректный id заказа")
		return
	}

	var request dto.UpdateStatusRequest
	if err = ctx.ShouldBindJSON(&request); err != nil {
		s.errorHandler(ctx, http.StatusBadRequest, "Некорректный статус")
		return
	}

	userRole := ctx.MustGet("userRole").(role.Role)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, o := range s.orders {
		if o.ID == id && visibleTo(userRole, o.Status) {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.errorHandler(ctx, http.StatusNotFound, "Заказ не найден")
		return
	}

	order := s.orders[idx]
	if !userRole.Privileged() {
		next, err := lifecycle.NextStatus(userRole, order.Status)
		if err != nil || next != request.Status {
			s.errorHandler(ctx, http.StatusBadRequest, fmt.Sprintf("Недопустимый переход %s -> %s", order.Status, request.Status))
			return
		}
	}

	order.Status = request.Status
	order.StatusDisplay = lifecycle.Describe(request.Status).Label
	s.orders[idx] = order

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Статус обновлен",
		"order":   order,
	})
}

func (s *Server) statistics(ctx *gin.Context) {
	orders := s.visibleOrders(ctx.MustGet("userRole").(role.Role))

	stats := ds.Statistics{
		TotalOrders:  len(orders),
		StatusCounts: make(map[string]ds.StatusCount),
	}
	for _, o := range orders {
		if v, err := o.Amount(); err == nil {
			stats.TotalAmount += v
		}
		sc := stats.StatusCounts[string(o.Status)]
		sc.Name = lifecycle.Describe(o.Status).Label
		sc.Count++
		stats.StatusCounts[string(o.Status)] = sc
	}

	ctx.JSON(http.StatusOK, stats)
}

func (s *Server) visibleOrders(r role.Role) []ds.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ds.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if visibleTo(r, o.Status) {
			out = append(out, o)
		}
	}
	return out
}

// visibleTo какие статусы попадают в рабочий список роли
func visibleTo(r role.Role, st ds.Status) bool {
	switch r {
	case role.Director, role.Manager:
		return true
	case role.Courier:
		return st == ds.StatusAssigned || st == ds.StatusPickedUp ||
			st == ds.StatusReadyForDelivery || st == ds.StatusDelivered
	case role.Washer:
		return st == ds.StatusPickedUp || st == ds.StatusInWashing || st == ds.StatusWashed
	case role.WasherAssistant:
		return st == ds.StatusWashed || st == ds.StatusDriedAndPacked
	}
	return false
}
