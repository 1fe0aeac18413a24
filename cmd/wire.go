package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	presenceadapter "github.com/whosinhq/whosin/internal/adapters/render/presence"
	tomlrepo "github.com/whosinhq/whosin/internal/adapters/repo/toml"
	secretsfile "github.com/whosinhq/whosin/internal/adapters/secrets/file"
	storefile "github.com/whosinhq/whosin/internal/adapters/store/file"
	"github.com/whosinhq/whosin/internal/adapters/upstream/gsuite"
	"github.com/whosinhq/whosin/internal/application"
	"github.com/whosinhq/whosin/internal/cache"
	"github.com/whosinhq/whosin/internal/domain"
	"github.com/whosinhq/whosin/internal/ports"
)

const credentialKey = "google/oauth_token"

type app struct {
	cfg             *viper.Viper
	responseCache   *cache.Cache
	secretStore     ports.SecretStore
	settingsService *application.SettingsService
	ingestor        *application.Ingestor
	renderSnapshot  func(application.Snapshot, presenceadapter.RenderOptions) (string, error)
	renderRooms     func([]domain.Room) (string, error)
	now             func() time.Time
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	setDefaults(cfg, homeDir)
	cfg.SetEnvPrefix("WHOSIN")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	clock := ports.SystemClock{}

	// Loggers stay nil here so the cache and ingestor pick up the handler
	// the root command installs from --log-level.
	kvStore := storefile.NewStore(cfg.GetString("cache.path"), cfg.GetInt("cache.max_bytes"))
	responseCache := cache.New(kvStore, clock, nil)

	secretStore := secretsfile.NewStore(filepath.Join(homeDir, ".whosin", "secrets"))

	settingsRepo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire settings repository: %w", err)
	}

	client := gsuite.NewClient(
		gsuite.Config{
			DirectoryBaseURL: cfg.GetString("upstream.directory_base_url"),
			CalendarBaseURL:  cfg.GetString("upstream.calendar_base_url"),
			DirectoryTTL:     cfg.GetDuration("cache.ttl.directory"),
			EventsTTL:        cfg.GetDuration("cache.ttl.events"),
			RoomsTTL:         cfg.GetDuration("cache.ttl.rooms"),
		},
		http.DefaultClient,
		responseCache,
		tokenSource(secretStore),
	)

	ingestor := application.NewIngestor(
		client,
		client,
		secretStore,
		settingsRepo,
		clock,
		credentialKey,
		cfg.GetInt("window.days"),
		nil,
	)

	return &app{
		cfg:             cfg,
		responseCache:   responseCache,
		secretStore:     secretStore,
		settingsService: application.NewSettingsService(settingsRepo),
		ingestor:        ingestor,
		renderSnapshot:  presenceadapter.Render,
		renderRooms:     presenceadapter.RenderRooms,
		now:             time.Now,
	}, nil
}

// purgeExpiredCache drops entries already past their expiry; malformed
// entries are left for a schema bump to age out. Runs once per invocation,
// after the logger is configured.
func (a *app) purgeExpiredCache(ctx context.Context) {
	if removed, err := a.responseCache.PurgeExpired(ctx); err != nil {
		slog.Warn("startup cache purge incomplete", "err", err)
	} else if removed > 0 {
		slog.Debug("startup cache purge", "removed", removed)
	}
}

func setDefaults(cfg *viper.Viper, homeDir string) {
	cfg.SetDefault("upstream.directory_base_url", "https://people.googleapis.com/v1")
	cfg.SetDefault("upstream.calendar_base_url", "https://www.googleapis.com/calendar/v3")
	cfg.SetDefault("cache.path", filepath.Join(homeDir, ".whosin", "cache.json"))
	cfg.SetDefault("cache.max_bytes", 5<<20)
	cfg.SetDefault("cache.ttl.directory", "24h")
	cfg.SetDefault("cache.ttl.events", "15m")
	cfg.SetDefault("cache.ttl.rooms", "24h")
	cfg.SetDefault("window.days", 5)
	cfg.SetDefault("serve.listen", "127.0.0.1:8787")
	cfg.SetDefault("serve.refresh_cron", "*/15 * * * *")
}

// tokenSource reads the stored credential blob. The blob is either an OAuth
// token JSON with an access_token field or a bare token string. A missing
// credential is an authentication-required condition, not an I/O error.
func tokenSource(secrets ports.SecretStore) gsuite.TokenSource {
	return func(ctx context.Context) (string, error) {
		blob, err := secrets.Get(ctx, credentialKey)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: no stored credential, run `whosin login`", domain.ErrReauthRequired)
			}
			return "", err
		}

		var tokens struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal([]byte(blob), &tokens); err == nil && tokens.AccessToken != "" {
			return tokens.AccessToken, nil
		}

		token := strings.TrimSpace(blob)
		if token == "" {
			return "", fmt.Errorf("%w: stored credential is empty, run `whosin login`", domain.ErrReauthRequired)
		}
		return token, nil
	}
}
