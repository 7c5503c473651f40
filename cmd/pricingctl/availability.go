package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hireshop-backend/internal/availability"
	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/security"
	"hireshop-backend/internal/service"
	"hireshop-backend/internal/utils"
)

func newAvailabilityCmd(opts *rootOptions) *cobra.Command {
	var assetID int64
	var start, end string
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Check whether an asset can be booked for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := utils.ParseDate(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endDate, err := utils.ParseDate(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			cfg, store, db, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewBookingService(store.AssetRepository, service.BookingOptions{
				LookaheadDays: cfg.Booking.LookaheadDays,
			})
			err = svc.CheckAvailability(cmd.Context(), assetID, domain.BookingInterval{Start: startDate, End: endDate})
			out := cmd.OutOrStdout()
			switch {
			case err == nil:
				fmt.Fprintf(out, "Asset %d is available %s to %s\n", assetID, start, end)
				return nil
			case errors.Is(err, availability.ErrDateUnavailable),
				errors.Is(err, availability.ErrStartTooSoon),
				errors.Is(err, availability.ErrInvertedRange):
				fmt.Fprintf(out, "Asset %d is not available: %v\n", assetID, err)
				return nil
			default:
				return err
			}
		},
	}
	cmd.Flags().Int64Var(&assetID, "asset", 0, "Asset ID")
	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day, inclusive (YYYY-MM-DD)")
	cmd.MarkFlagRequired("asset")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var userID int64
	var email string
	var roles []string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := opts.jwtSecret()
			if err != nil {
				return err
			}
			token, err := security.NewTokenManager(secret, ttl).GenerateAccessToken(userID, email, roles)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringSliceVar(&roles, "role", []string{security.RoleStaff}, "Roles (staff, customer)")
	cmd.Flags().DurationVar(&ttl, "ttl", security.DefaultAccessTokenTTL, "Token lifetime")
	cmd.MarkFlagRequired("user")
	return cmd
}
