package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"adalcrm/internal/app/ds"

	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
)

// Ключи в долговременном хранилище
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyCurrentUser  = "current_user"
)

var sessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyCurrentUser}

// Storage долговременное key-value хранилище сессии
type Storage interface {
	// Load возвращает только найденные ключи
	Load(ctx context.Context, keys ...string) (map[string]string, error)
	// Save пишет все записи разом или ничего
	Save(ctx context.Context, entries map[string]string) error
	// Delete удаляет ключи, отсутствующие ключи не ошибка
	Delete(ctx context.Context, keys ...string) error
}

// Store единственный источник ответа на вопрос "кто залогинен"
type Store struct {
	storage Storage

	mu sync.RWMutex

	obsMu     sync.Mutex
	observers []func()
}

func NewStore(storage Storage) *Store {
	if storage == nil {
		panic("nil session storage")
	}
	return &Store{storage: storage}
}

// SaveSession перезаписывает сессию токенами и пользователем
func (s *Store) SaveSession(ctx context.Context, tokens ds.Tokens, user ds.User) error {
	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.storage.Save(ctx, map[string]string{
		KeyAccessToken:  tokens.Access,
		KeyRefreshToken: tokens.Refresh,
		KeyCurrentUser:  string(userData),
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	log.WithField("user", user.Username).Debug("session saved")
	return nil
}

func (s *Store) load(ctx context.Context) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.storage.Load(ctx, sessionKeys...)
	if err != nil {
		log.WithError(err).Warn("session storage read failed")
		return nil
	}
	return entries
}

func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	v, ok := s.load(ctx)[KeyAccessToken]
	return v, ok && v != ""
}

func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	v, ok := s.load(ctx)[KeyRefreshToken]
	return v, ok && v != ""
}

// CurrentUser битая запись пользователя считается отсутствующей
func (s *Store) CurrentUser(ctx context.Context) (ds.User, bool) {
	return decodeUser(s.load(ctx))
}

// Snapshot токен и пользователь, прочитанные за одно обращение
func (s *Store) Snapshot(ctx context.Context) (token string, user ds.User, ok bool) {
	entries := s.load(ctx)
	token = entries[KeyAccessToken]
	user, userOK := decodeUser(entries)
	return token, user, token != "" && userOK
}

func (s *Store) IsLoggedIn(ctx context.Context) bool {
	_, _, ok := s.Snapshot(ctx)
	return ok
}

// ClearSession удаляет токены и пользователя и оповещает подписчиков
func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	err := s.storage.Delete(ctx, sessionKeys...)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	log.Debug("session cleared")
	s.notifyCleared()
	return nil
}

// OnClear подписка на выход из сессии, например для перехода на экран логина
func (s *Store) OnClear(fn func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) notifyCleared() {
	s.obsMu.Lock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// TokenExpiry срок действия access токена по claim exp, подпись не проверяется
func (s *Store) TokenExpiry(ctx context.Context) (time.Time, bool) {
	token, ok := s.AccessToken(ctx)
	if !ok {
		return time.Time{}, false
	}

	claims := &ds.TokenClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		log.WithError(err).Debug("access token is not a readable jwt")
		return time.Time{}, false
	}
	return claims.ExpiresAtTime()
}

func decodeUser(entries map[string]string) (ds.User, bool) {
	raw, ok := entries[KeyCurrentUser]
	if !ok || raw == "" {
		return ds.User{}, false
	}

	var user ds.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.WithError(err).Warn("cached user is corrupted, treating session as absent")
		return ds.User{}, false
	}
	return user, true
}
