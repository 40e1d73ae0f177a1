package cmd

import (
	"encoding/json"

	"appointly/config"
	"appointly/database"
	"appointly/services/booking"

	"github.com/spf13/cobra"
)

func newSlotsCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the available slots of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resolver, _, err := newResolver(ctx, config.AppConfig)
			if err != nil {
				return err
			}
			defer database.Close(ctx)

			svc := booking.NewBookingService(resolver, nil, config.AppConfig.EnforceSlotAlignment)
			slots, err := svc.AvailableSlots(ctx, date)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(slots)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date to list, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
