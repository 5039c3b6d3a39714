package app

import (
	"testing"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/service"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{
			"RECIPEBOX_STORAGE", "RECIPEBOX_DATABASE_FILE", "RECIPEBOX_AVATAR_BASE_URL",
			"ENV", "LOG_LEVEL", "LOG_FORMAT",
		} {
			t.Setenv(key, "")
		}

		require.Equal(t, Config{
			Storage:       StorageSQLite,
			DatabaseFile:  "recipebox.db",
			AvatarBaseURL: service.DefaultAvatarBaseURL,
			Env:           "dev",
			LogLevel:      "warn",
			LogFormat:     "text",
		}, LoadConfig())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("RECIPEBOX_STORAGE", "memory")
		t.Setenv("RECIPEBOX_DATABASE_FILE", "/tmp/rb.db")
		t.Setenv("RECIPEBOX_AVATAR_BASE_URL", "https://avatars.example/a")
		t.Setenv("ENV", "prod")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")

		require.Equal(t, Config{
			Storage:       StorageMemory,
			DatabaseFile:  "/tmp/rb.db",
			AvatarBaseURL: "https://avatars.example/a",
			Env:           "prod",
			LogLevel:      "debug",
			LogFormat:     "json",
		}, LoadConfig())
	})
}
