package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/momo-ledger/internal/common"
)

// Viper keys.
const (
	KeyDatabasePath = "database.path"
	KeyRejectsPath  = "ingest.rejects"
	KeyWorkers      = "ingest.workers"
	KeyServerAddr   = "server.address"
	KeyReadTimeout  = "server.read_timeout"
	KeyWriteTimeout = "server.write_timeout"
	KeyLogLevel     = "logging.level"
	KeyLogFormat    = "logging.format"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	DatabasePath  string
	RejectsPath   string
	ServerAddress string
	LogLevel      string
	LogFormat     string
	Workers       int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, filepath.Join(DefaultConfigDir(), "momo.db"))
	v.SetDefault(KeyRejectsPath, "logs/unprocessed.log")
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyServerAddr, ":3000")
	v.SetDefault(KeyReadTimeout, 15*time.Second)
	v.SetDefault(KeyWriteTimeout, 30*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads Settings from v, expanding paths.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		DatabasePath:  ExpandPath(v.GetString(KeyDatabasePath)),
		RejectsPath:   ExpandPath(v.GetString(KeyRejectsPath)),
		ServerAddress: v.GetString(KeyServerAddr),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFormat:     v.GetString(KeyLogFormat),
		Workers:       v.GetInt(KeyWorkers),
		ReadTimeout:   v.GetDuration(KeyReadTimeout),
		WriteTimeout:  v.GetDuration(KeyWriteTimeout),
	}

	if s.DatabasePath == "" {
		return s, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if s.Workers < 1 {
		return s, fmt.Errorf("%w: %s must be at least 1, got %d", common.ErrInvalidConfig, KeyWorkers, s.Workers)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return s, fmt.Errorf("%w: server timeouts cannot be negative", common.ErrInvalidConfig)
	}

	return s, nil
}
