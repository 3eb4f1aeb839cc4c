package cmd

import (
	"fmt"
	"os"

	"netsync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "netsync",
	Short: "Network inventory reconciliation",
	Long: `netsync turns facts collected from network devices into the inventory of
devices, interfaces, VLANs, VRFs, IP addresses and cables, applying only the changes
needed to make the inventory match what the devices report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the debug config gives readable ISO8601 timestamps on a terminal
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
