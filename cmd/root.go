package cmd

import (
	"context"
	"fmt"
	"os"

	"appointly/config"
	"appointly/utils"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "appointly",
		Short: "Appointment booking service for a single clinic",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			utils.InitializeLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), true)
		},
		SilenceUsage: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newSlotsCmd())
	root.AddCommand(newBookingsCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
