package node

import (
	"testing"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/sirupsen/logrus"
)

// DefaultMaxLineSize is the default size limit of a single line read from the
// transport.
const DefaultMaxLineSize = 16 * 1024 * 1024

// Config contains the settings of the runtime itself.
type Config struct {
	MaxLineSize int `mapstructure:"max-line-size"`
	Logger      *logrus.Logger
}

// NewConfig ...
func NewConfig(maxLineSize int, logger *logrus.Logger) *Config {
	return &Config{
		MaxLineSize: maxLineSize,
		Logger:      logger,
	}
}

// DefaultConfig ...
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		MaxLineSize: DefaultMaxLineSize,
		Logger:      logger,
	}
}

// TestConfig ...
func TestConfig(t testing.TB) *Config {
	config := DefaultConfig()
	config.Logger = common.NewTestLogger(t, logrus.DebugLevel)
	return config
}
