package cmd

import (
	"encoding/json"
	"fmt"

	"appointly/config"
	"appointly/database"
	"appointly/services/booking"

	"github.com/spf13/cobra"
)

func newBookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Inspect and cancel bookings",
	}
	cmd.AddCommand(newBookingsListCmd())
	cmd.AddCommand(newBookingsCancelCmd())
	return cmd
}

func newBookingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every booking as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resolver, _, err := newResolver(ctx, config.AppConfig)
			if err != nil {
				return err
			}
			defer database.Close(ctx)

			list, err := booking.NewBookingService(resolver, nil, true).List(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		},
	}
}

func newBookingsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a booking by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resolver, _, err := newResolver(ctx, config.AppConfig)
			if err != nil {
				return err
			}
			defer database.Close(ctx)

			if err := booking.NewBookingService(resolver, nil, true).Cancel(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %s cancelled\n", args[0])
			return nil
		},
	}
}
