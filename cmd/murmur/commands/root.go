package commands

import (
	"github.com/mosaicnetworks/murmur/src/config"
	"github.com/spf13/cobra"
)

var (
	_config = config.NewDefaultConfig()
)

//RootCmd is the root command for murmur
var RootCmd = &cobra.Command{
	Use:   "murmur",
	Short: "murmur nodes for the distributed systems test harness",
	Long: `murmur runs one node of a distributed systems workload. The node reads
one JSON message per line on stdin and writes its replies on stdout. Logs go to
stderr.`,
	TraverseChildren: true,
}
