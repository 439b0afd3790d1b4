package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "expenseflow",
	Version: Version,
	Short:   "An approval workflow service for employee expenses",
	Long: `Expenseflow tracks employee expense submissions through an
approval process: an expense is created by an employee, routed to
eligible approvers, and moves through a closed set of states as
decisions are recorded, with a tamper-evident audit trail.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "expenseflow.yaml", "path to the config file")
}
