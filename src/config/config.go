package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/node"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultBadgerFile is the default name of the folder containing the Badger
	// database
	DefaultBadgerFile = "badger_db"

	// DefaultConfigName is the name, without extension, of the optional
	// configuration file looked for in the data directory.
	DefaultConfigName = "murmur"
)

// Default configuration values.
const (
	DefaultLogLevel       = "debug"
	DefaultLogFile        = ""
	DefaultGossipInterval = 150 * time.Millisecond
	DefaultStore          = false
	DefaultServiceAddr    = ""
	DefaultMaxLineSize    = node.DefaultMaxLineSize
)

// Config contains all the configuration properties of a murmur node.
type Config struct {
	// DataDir is the top-level directory containing murmur configuration and
	// data
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, if set, is a file that receives a JSON copy of every log
	// entry. Logs always go to stderr; stdout carries the protocol.
	LogFile string `mapstructure:"log-file"`

	// GossipInterval is the frequency of the gossip timer of the workloads
	// that replicate state.
	GossipInterval time.Duration `mapstructure:"gossip-interval"`

	// Store activates persistant storage of gossiped values.
	Store bool `mapstructure:"store"`

	// DatabaseDir is the directory containing database files.
	DatabaseDir string `mapstructure:"db"`

	// ServiceAddr is the address:port of the optional HTTP service. The
	// service is disabled when it is empty.
	ServiceAddr string `mapstructure:"service-listen"`

	// MaxLineSize is the size limit, in bytes, of a single line read from
	// stdin.
	MaxLineSize int `mapstructure:"max-line-size"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:        DefaultDataDir(),
		LogLevel:       DefaultLogLevel,
		LogFile:        DefaultLogFile,
		GossipInterval: DefaultGossipInterval,
		Store:          DefaultStore,
		DatabaseDir:    DefaultDatabaseDir(),
		ServiceAddr:    DefaultServiceAddr,
		MaxLineSize:    DefaultMaxLineSize,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level murmur directory, and updates the database
// directory if it is currently set to the default value. If the database
// directory is not currently the default, it means the user has explicitely set
// it to something else, so avoid changing it again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// BadgerDir returns the directory of the database of the given workload.
// Workloads never share a database.
func (c *Config) BadgerDir(workload string) string {
	return filepath.Join(c.DatabaseDir, workload)
}

// NodeConfig returns the configuration of the runtime.
func (c *Config) NodeConfig() *node.Config {
	return node.NewConfig(c.MaxLineSize, c.Logger().Logger)
}

// Logger returns a formatted logrus Entry, with prefix set to "murmur". The
// underlying logger writes to stderr and, when LogFile is set, to that file.
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Out = os.Stderr
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogFile != "" {
			c.logger.AddHook(lfshook.NewHook(c.LogFile, &logrus.JSONFormatter{}))
		}
	}
	return c.logger.WithField("prefix", "murmur")
}

// DefaultDatabaseDir returns the default path for the badger database files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level murmur config
// based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Murmur")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Murmur")
		} else {
			return filepath.Join(home, ".murmur")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
