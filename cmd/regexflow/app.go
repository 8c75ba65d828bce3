package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/config"
	"github.com/vedant-dewangan/RegexFlow/internal/lifecycle"
	"github.com/vedant-dewangan/RegexFlow/internal/metrics"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
	"github.com/vedant-dewangan/RegexFlow/internal/notify"
	"github.com/vedant-dewangan/RegexFlow/internal/service"
	"github.com/vedant-dewangan/RegexFlow/internal/sms"
	"github.com/vedant-dewangan/RegexFlow/internal/storage"
)

var (
	envKeyReplacer = strings.NewReplacer(".", "_")
	appMetrics     = metrics.New()
)

// app wires storage and services for a single command invocation.
type app struct {
	store     *storage.SQLiteStorage
	publisher *notify.RedisPublisher
	templates *lifecycle.Service
	emitter   *notify.Emitter
	messages  *sms.Service
}

func openApp(ctx context.Context) (*app, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	a := &app{store: store}

	emitterOpts := []notify.Option{notify.WithMetrics(appMetrics)}
	if addr := viper.GetString("notifications.redis.addr"); addr != "" {
		a.publisher = notify.NewRedisPublisher(notify.RedisConfig{
			Addr:     addr,
			Password: viper.GetString("notifications.redis.password"),
			DB:       viper.GetInt("notifications.redis.db"),
			Stream:   viper.GetString("notifications.redis.stream"),
			Retry: service.RetryOptions{
				MaxAttempts:  viper.GetInt("notifications.retry.max_attempts"),
				InitialDelay: 200 * time.Millisecond,
			},
		})
		emitterOpts = append(emitterOpts, notify.WithPublisher(a.publisher))
		slog.Debug("Publishing notifications to Redis", "addr", addr)
	}

	a.templates = lifecycle.NewService(store, lifecycle.WithMetrics(appMetrics))
	a.emitter = notify.NewEmitter(store, emitterOpts...)
	a.messages = sms.NewService(store,
		sms.WithNotifier(a.emitter),
		sms.WithParallelScoring(viper.GetBool("matcher.parallel")),
		sms.WithMetrics(appMetrics),
	)
	return a, nil
}

func (a *app) Close() {
	if a.publisher != nil {
		_ = a.publisher.Close()
	}
	_ = a.store.Close()
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// currentActor builds the actor from --user and --role.
func currentActor() (model.Actor, error) {
	userID := viper.GetInt64("actor.user")
	role := model.Role(strings.ToUpper(strings.TrimSpace(viper.GetString("actor.role"))))

	switch role {
	case model.RoleMaker, model.RoleChecker, model.RoleAdmin, model.RoleUser:
	case "":
		return model.Actor{}, common.NewUserError("--role is required", common.ErrMissingConfig)
	default:
		return model.Actor{}, common.NewUserError(fmt.Sprintf("unknown role %q", role), common.ErrInvalidConfig)
	}
	if userID <= 0 {
		return model.Actor{}, common.NewUserError("--user must be a positive ID", common.ErrMissingConfig)
	}
	return model.Actor{UserID: userID, Role: role}, nil
}

func flushMetrics(cmd *cobra.Command, _ []string) error {
	path := config.ExpandPath(viper.GetString("metrics.file"))
	if err := appMetrics.WriteTextfile(path); err != nil {
		common.LogError(cmd.Context(), err, "Failed to write metrics textfile", common.Fields{"path": path})
	}
	return nil
}
