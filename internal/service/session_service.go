package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"fsanano/storefront/internal/event"
	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/repository"
	"fsanano/storefront/internal/service/storeapi"

	"github.com/golang-jwt/jwt/v5"
)

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*storeapi.LoginResponse, error)
	Register(ctx context.Context, req storeapi.RegisterRequest) (*storeapi.RegisterResponse, error)
}

// SessionService owns the signed-in identity. It is the only writer of the
// persisted token.
type SessionService struct {
	api    AuthAPI
	tokens repository.TokenStore
	bus    *event.Bus

	mu      sync.RWMutex
	current *model.Session
}

func NewSessionService(api AuthAPI, tokens repository.TokenStore, bus *event.Bus) *SessionService {
	return &SessionService{api: api, tokens: tokens, bus: bus}
}

// Load restores the session from the persisted token. A token that cannot
// be decoded is removed and leaves the session empty.
func (s *SessionService) Load(ctx context.Context) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	var sess *model.Session
	if token != "" {
		decoded, err := DecodeToken(token)
		if err != nil {
			slog.Warn("discarding unreadable token", "error", err)
			if err := s.tokens.DeleteToken(ctx); err != nil {
				slog.Error("failed to delete token", "error", err)
			}
		} else {
			sess = &decoded
		}
	}

	s.set(sess)
	_ = s.bus.Publish(ctx, event.SessionChanged)
	return nil
}

func (s *SessionService) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Session{}, ErrMissingFields
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}
	if resp.Token == "" {
		return model.Session{}, errors.New("login response carried no token")
	}
	if err := s.tokens.SaveToken(ctx, resp.Token); err != nil {
		return model.Session{}, err
	}

	sess := model.Session{ID: resp.User.ID, Username: resp.User.Username, Role: resp.User.Role}
	s.set(&sess)
	_ = s.bus.Publish(ctx, event.SessionChanged)
	return sess, nil
}

// Register creates an account. It does not sign the user in.
func (s *SessionService) Register(ctx context.Context, username, email, password string) (*storeapi.RegisterResponse, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	return s.api.Register(ctx, storeapi.RegisterRequest{Username: username, Email: email, Password: password})
}

// Logout is safe to call without a session.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.tokens.DeleteToken(ctx); err != nil {
		return err
	}
	s.set(nil)
	_ = s.bus.Publish(ctx, event.SessionChanged)
	return nil
}

func (s *SessionService) Current() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Session{}, false
	}
	return *s.current, true
}

func (s *SessionService) set(sess *model.Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
}

// DecodeToken reads the identity claims from a JWT without verifying its
// signature. userId, username and a known role must all be present.
func DecodeToken(token string) (model.Session, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithJSONNumber())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return model.Session{}, fmt.Errorf("failed to parse token: %w", err)
	}

	id, err := claimInt(claims["userId"])
	if err != nil {
		return model.Session{}, err
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return model.Session{}, errors.New("token has no username")
	}
	roleStr, _ := claims["role"].(string)
	role := model.Role(roleStr)
	if !role.Valid() {
		return model.Session{}, fmt.Errorf("token has unknown role %q", roleStr)
	}

	return model.Session{ID: id, Username: username, Role: role}, nil
}

func claimInt(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("token userId is not an integer: %w", err)
		}
		return int(i), nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("token userId is not an integer: %w", err)
		}
		return i, nil
	case nil:
		return 0, errors.New("token has no userId")
	}
	return 0, fmt.Errorf("token userId has type %T", v)
}
