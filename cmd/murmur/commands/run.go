package commands

import (
	"fmt"
	"strings"

	"github.com/mosaicnetworks/murmur/src/config"
	"github.com/mosaicnetworks/murmur/src/murmur"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var workloadDescriptions = map[string]string{
	murmur.Echo:      "Run an echo node",
	murmur.UniqueIDs: "Run a node generating globally unique ids",
	murmur.Broadcast: "Run a broadcast node",
	murmur.GCounter:  "Run a grow-only counter node",
}

//NewWorkloadCmds returns one command per workload. Each of them starts a node
//running that workload.
func NewWorkloadCmds() []*cobra.Command {
	cmds := []*cobra.Command{}
	for _, w := range murmur.Workloads() {
		cmds = append(cmds, NewRunCmd(w))
	}
	return cmds
}

//NewRunCmd returns the command that starts a node running workload
func NewRunCmd(workload string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     workload,
		Short:   workloadDescriptions[workload],
		Args:    cobra.NoArgs,
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMurmur(workload)
		},
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runMurmur(workload string) error {
	engine := murmur.NewMurmur(_config, workload)

	if err := engine.Init(); err != nil {
		_config.Logger().WithError(err).Error("Cannot initialize node")
		return err
	}

	engine.Run()

	return nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", _config.LogFile, "File receiving a JSON copy of the logs")

	// Gossip
	cmd.Flags().Duration("gossip-interval", _config.GossipInterval, "Time between gossips")

	// Transport
	cmd.Flags().Int("max-line-size", _config.MaxLineSize, "Max size of a message in bytes")

	// Service
	cmd.Flags().StringP("service-listen", "s", _config.ServiceAddr, "Listen IP:Port for HTTP service")

	// Store
	cmd.Flags().Bool("store", _config.Store, "Use badgerDB instead of in-mem DB")
	cmd.Flags().String("db", _config.DatabaseDir, "Dabatabase directory")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	configFile, err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.SetDataDir(_config.DataDir)

	logFields := logrus.Fields{
		"murmur.DataDir":        _config.DataDir,
		"murmur.LogLevel":       _config.LogLevel,
		"murmur.LogFile":        _config.LogFile,
		"murmur.GossipInterval": _config.GossipInterval,
		"murmur.MaxLineSize":    _config.MaxLineSize,
		"murmur.ServiceAddr":    _config.ServiceAddr,
		"murmur.Store":          _config.Store,
		"ConfigFile":            configFile,
	}

	if _config.Store {
		logFields["murmur.DatabaseDir"] = _config.DatabaseDir
	}

	_config.Logger().WithFields(logFields).Debug("RUN")

	return nil
}

// Bind all flags, environment variables and the config file into viper. It
// returns the config file used, if any. The logger is not touched before the
// configuration is complete, as it is built from it.
func bindFlagsLoadViper(cmd *cobra.Command) (string, error) {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return "", err
	}

	// MURMUR_GOSSIP_INTERVAL overrides --gossip-interval, and so on
	viper.SetEnvPrefix("murmur")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return "", err
	}

	// look for config file in [datadir]/murmur.toml (.json, .yaml also work)
	viper.SetConfigName(config.DefaultConfigName) // name of config file (without extension)
	viper.AddConfigPath(_config.DataDir)          // search root directory

	configFile := ""

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		configFile = viper.ConfigFileUsed()
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return "", fmt.Errorf("reading config file in %s: %v", _config.DataDir, err)
	}

	// second unmarshal to read from config file
	return configFile, viper.Unmarshal(_config)
}
