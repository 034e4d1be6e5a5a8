package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon.
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported.
	DBTypeKey = "DB_TYPE"
	// MaxHopsKey is the default bound on the path search depth.
	MaxHopsKey = "MAX_HOPS"
	// ReserveTTLKey is the duration in seconds after which a shard reserve
	// snapshot is considered stale and re-fetched on read.
	ReserveTTLKey = "RESERVE_TTL"
	// QuoteTTLKey is the duration in seconds of the validity window of
	// issued path quotes.
	QuoteTTLKey = "QUOTE_TTL"
	// SlippageBufferKey is the fraction added on top of each hop's quoted
	// input when deriving the maximal amount the executor may spend.
	SlippageBufferKey = "SLIPPAGE_BUFFER"
	// ScoreToleranceKey is the efficiency score distance within which two
	// paths are considered tied and ranked by hop count instead.
	ScoreToleranceKey = "SCORE_TOLERANCE"
	// FetchRatePerSecondKey caps the reserve fetch calls per second.
	FetchRatePerSecondKey = "FETCH_RATE_PER_SECOND"
	// FeedURLKey is the websocket endpoint of the chain events stream. If
	// empty the daemon runs pull-only.
	FeedURLKey = "FEED_URL"
	// StatsIntervalKey defines the interval in seconds for printing basic
	// daemon statistics.
	StatsIntervalKey = "STATS_INTERVAL"

	// DbLocation is the name of the database dir inside the datadir.
	DbLocation = "db"
)

var vip *viper.Viper

// InitConfig ...
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("SAMM")
	vip.AutomaticEnv()

	defaultDatadir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	vip.SetDefault(DatadirKey, filepath.Join(defaultDatadir, ".samm-daemon"))
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, "badger")
	vip.SetDefault(MaxHopsKey, 3)
	vip.SetDefault(ReserveTTLKey, 120)
	vip.SetDefault(QuoteTTLKey, 60)
	vip.SetDefault(SlippageBufferKey, 0.05)
	vip.SetDefault(ScoreToleranceKey, 0.01)
	vip.SetDefault(FetchRatePerSecondKey, 10)
	vip.SetDefault(FeedURLKey, "")
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validateDbType(GetString(DBTypeKey)); err != nil {
		return err
	}

	return initDatadir()
}

// GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetDuration returns the value of a seconds-valued key as time.Duration.
func GetDuration(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

// GetDecimal ...
func GetDecimal(key string) decimal.Decimal {
	return decimal.NewFromFloat(vip.GetFloat64(key))
}

// GetDatadir returns the data dir of the daemon.
func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the database dir inside the datadir.
func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetLogLevel ...
func GetLogLevel() log.Level {
	return log.Level(GetInt(LogLevelKey))
}

func validateDbType(dbType string) error {
	if dbType != "badger" && dbType != "inmemory" {
		return fmt.Errorf("unsupported database type: %s", dbType)
	}
	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(GetDatadir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
