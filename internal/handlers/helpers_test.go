package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"ritmo-backend/internal/config"
	"ritmo-backend/internal/handlers"
	"ritmo-backend/internal/logging"
	"ritmo-backend/internal/metrics"
	"ritmo-backend/internal/services"
	"ritmo-backend/internal/store"
)

type testServer struct {
	router *gin.Engine
	hub    *handlers.WebSocketHub
	mr     *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	redisService := services.NewRedisServiceFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
		SessionMode:     config.SessionModeStore,
	}
	sessions, err := services.NewSessionStrategy(cfg, redisService)
	require.NoError(t, err)

	log := logging.Nop()
	rec := metrics.Nop()
	users := store.NewMemoryStore()
	hasher := services.NewBcryptHasher(4)

	ctx, cancel := context.WithCancel(context.Background())
	hub := handlers.NewWebSocketHub(log)
	go hub.Run(ctx)

	authService := services.NewAuthService(cfg, users, hasher, services.NewJWTService(cfg), sessions, log, rec)
	userService := services.NewUserService(users, hasher, sessions, hub, log, rec)
	economyService := services.NewEconomyService(users, hub, log, rec)

	router := handlers.NewRouter(handlers.Routes{
		Auth:      handlers.NewAuthHandler(userService, authService),
		User:      handlers.NewUserHandler(userService, authService),
		Economy:   handlers.NewEconomyHandler(economyService),
		WebSocket: handlers.NewWebSocketHandler(hub, userService, log),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"redis": redisService,
			"users": users,
		}),
	}, authService, log)

	t.Cleanup(func() {
		cancel()
		redisService.Close()
		mr.Close()
	})

	return &testServer{router: router, hub: hub, mr: mr}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

type session struct {
	userID       string
	accessToken  string
	refreshToken string
}

// signUp registers username and logs in.
func (s *testServer) signUp(t *testing.T, username string) session {
	t.Helper()

	w, _ := s.do(t, http.MethodPost, "/api/user/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.do(t, http.MethodPost, "/api/user/login", "", gin.H{
		"username": username,
		"password": "password1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	return session{
		userID:       resp["userId"].(string),
		accessToken:  resp["accessToken"].(string),
		refreshToken: resp["refreshToken"].(string),
	}
}
