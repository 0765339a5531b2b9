package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"ritmo-backend/internal/config"
	"ritmo-backend/internal/logging"
	"ritmo-backend/internal/metrics/metricstest"
	"ritmo-backend/internal/models"
	"ritmo-backend/internal/services"
	"ritmo-backend/internal/store"
)

type testEnv struct {
	cfg      *config.Config
	users    *store.MemoryStore
	redis    *services.RedisService
	mr       *miniredis.Miniredis
	jwt      *services.JWTService
	sessions services.SessionStrategy
	auth     *services.AuthService
	userSvc  *services.UserService
	economy  *services.EconomyService
	events   *recordingBroadcaster
	metrics  *sdkmetric.ManualReader
}

func newTestEnv(t *testing.T, mode config.SessionMode) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
		SessionMode:     mode,
	}

	redisService, mr := setupTestRedis(t)
	sessions, err := services.NewSessionStrategy(cfg, redisService)
	require.NoError(t, err)

	users := store.NewMemoryStore()
	hasher := services.NewBcryptHasher(4)
	jwtService := services.NewJWTService(cfg)
	log := logging.Nop()
	rec, reader := metricstest.NewRecorder(t)
	events := &recordingBroadcaster{}

	return &testEnv{
		cfg:      cfg,
		users:    users,
		redis:    redisService,
		mr:       mr,
		jwt:      jwtService,
		sessions: sessions,
		auth:     services.NewAuthService(cfg, users, hasher, jwtService, sessions, log, rec),
		userSvc:  services.NewUserService(users, hasher, sessions, events, log, rec),
		economy:  services.NewEconomyService(users, events, log, rec),
		events:   events,
		metrics:  reader,
	}
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.userSvc.Register(context.Background(), &models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	return user
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	balances []int64
	levelUps int
	progress []models.Progress
}

func (b *recordingBroadcaster) BroadcastBalance(_ string, gems int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances = append(b.balances, gems)
}

func (b *recordingBroadcaster) BroadcastProgress(_ string, p models.Progress, leveledUp bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.progress = append(b.progress, p)
	if leveledUp {
		b.levelUps++
	}
}
