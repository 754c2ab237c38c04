package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Cache
		Session
		Sync
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}

	Database struct {
		Path string // Per-device local store (sqlite)
	}

	Cache struct {
		Path            string        // Primary backing store file (bolt)
		SweepSchedule   string        // Cron format: "@every 1m"
		BookTTL         time.Duration // book:{id} entries
		SearchTTL       time.Duration // search:{query} entries
		UserTTL         time.Duration // user:{email} / user:id:{id} entries
		ProgressTTL     time.Duration // progress:{bookId} (single-device path)
		UserProgressTTL time.Duration // user:{id}:progress:{bookId}
	}

	Session struct {
		ActiveTTL time.Duration // Lifetime refreshed on activity
		IdleTTL   time.Duration // Shortened lifetime after mark-idle
	}

	Sync struct {
		ServerURL      string
		Token          string        // Opaque bearer credential, forwarded as-is
		PushInterval   time.Duration // Minimum gap between single-record pushes
		ResyncSchedule string        // Cron format: "@every 15m"
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Cache defaults
	v.SetDefault("cache_path", DefaultCachePath)
	v.SetDefault("cache_sweep_schedule", "@every 1m")
	v.SetDefault("cache_book_ttl", "24h")
	v.SetDefault("cache_search_ttl", "1h")
	v.SetDefault("cache_user_ttl", "8760h")     // ~1 year
	v.SetDefault("cache_progress_ttl", "720h")  // 30 days
	v.SetDefault("cache_user_progress_ttl", "8760h")

	// Session lifecycle defaults
	v.SetDefault("session_active_ttl", "24h")
	v.SetDefault("session_idle_ttl", "10m")

	// Sync defaults
	v.SetDefault("sync_server_url", "http://localhost:8190")
	v.SetDefault("sync_token", "")
	v.SetDefault("sync_push_interval", "30s")
	v.SetDefault("sync_resync_schedule", "@every 15m")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "2m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Cache: Cache{
			Path:            v.GetString("CACHE_PATH"),
			SweepSchedule:   v.GetString("CACHE_SWEEP_SCHEDULE"),
			BookTTL:         v.GetDuration("CACHE_BOOK_TTL"),
			SearchTTL:       v.GetDuration("CACHE_SEARCH_TTL"),
			UserTTL:         v.GetDuration("CACHE_USER_TTL"),
			ProgressTTL:     v.GetDuration("CACHE_PROGRESS_TTL"),
			UserProgressTTL: v.GetDuration("CACHE_USER_PROGRESS_TTL"),
		},
		Session: Session{
			ActiveTTL: v.GetDuration("SESSION_ACTIVE_TTL"),
			IdleTTL:   v.GetDuration("SESSION_IDLE_TTL"),
		},
		Sync: Sync{
			ServerURL:      v.GetString("SYNC_SERVER_URL"),
			Token:          v.GetString("SYNC_TOKEN"),
			PushInterval:   v.GetDuration("SYNC_PUSH_INTERVAL"),
			ResyncSchedule: v.GetString("SYNC_RESYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
