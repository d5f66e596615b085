package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the cached Trakt credential",
	}

	authCmd.AddCommand(newAuthLoginCommand(ctx))
	authCmd.AddCommand(newAuthStatusCommand(ctx))
	authCmd.AddCommand(newAuthLogoutCommand(ctx))

	return authCmd
}

func newAuthLoginCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize this tool with Trakt using the device code flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return withCredentialLock(svc.cfg, func() error {
				presenter := newConsolePresenter(out)
				_, err := svc.auth.Login(cmd.Context(), presenter)
				presenter.finish()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderStatusLine("Trakt", statusOK, "authenticated; credential saved to "+svc.store.Path(), shouldColorize(out)))
				return nil
			})
		},
	}
}

func newAuthStatusCommand(ctx *commandContext) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the cached credential state",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			status := svc.auth.Status(cmd.Context(), check)
			if !status.Cached {
				fmt.Fprintln(out, renderStatusLine("Credential", statusWarn, "not cached; run 'trakt2letterboxd auth login'", colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Credential", statusOK, svc.store.Path(), colorize))

			switch {
			case status.ExpiresAt.IsZero():
				fmt.Fprintln(out, renderStatusLine("Expires", statusInfo, "unknown", colorize))
			case status.Expired:
				fmt.Fprintln(out, renderStatusLine("Expires", statusWarn, "expired "+formatExpiry(status.ExpiresAt)+"; the next export refreshes it", colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Expires", statusOK, formatExpiry(status.ExpiresAt), colorize))
			}

			if status.Checked {
				if status.Valid {
					fmt.Fprintln(out, renderStatusLine("Trakt", statusOK, "access token accepted", colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine("Trakt", statusError, "access token rejected", colorize))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Ask Trakt whether the cached access token is still accepted")
	return cmd
}

func newAuthLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the cached credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.services(cmd)
			if err != nil {
				return err
			}
			return withCredentialLock(svc.cfg, func() error {
				if err := svc.auth.Logout(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed cached credential %s\n", svc.store.Path())
				return nil
			})
		},
	}
}

func formatExpiry(ts time.Time) string {
	return ts.Local().Format("2006-01-02 15:04 MST")
}
