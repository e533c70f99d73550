// Package cmd provides the command-line interface of the cache simulator.
package cmd

import (
	"github.com/sarchlab/cachesim/internal/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "cachesim <cache-size> <block-size> <fifo|lru> <associativity> <trace-file>",
		Short: "Simulate a set-associative cache against a memory access trace.",
		Long: `cachesim replays a trace of reads and writes through a single-level ` +
			`cache and reports memory reads, memory writes, cache hits and cache misses. ` +
			`The associativity is direct, assoc (fully associative) or assoc:N.`,
		Example: "  cachesim 128 16 lru assoc:2 trace.txt\n" +
			"  cachesim 32768 64 fifo direct trace.txt --format json",
		Args:         cobra.ExactArgs(5),
		SilenceUsage: true,
		RunE:         runSimulation,
	}

	config.RegisterFlags(root.Flags())
	root.AddCommand(newGeometryCommand())

	return root
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
