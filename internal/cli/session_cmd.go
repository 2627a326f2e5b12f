package cli

import (
	"fmt"

	"github.com/alexanderramin/prreport/internal/cli/formatter"
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/session"
	"github.com/spf13/cobra"
)

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in GitHub user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := app.palette(ctx)
			id, err := app.identity(ctx)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), p.Warn("Not signed in."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(p, "Signed in", formatter.IdentityCard(p, id)))
			return nil
		},
	}
}

func newLoginCmd(app *App) *cobra.Command {
	var privateRepo bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with GitHub in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := app.palette(ctx)
			out := cmd.OutOrStdout()

			if !cmd.Flags().Changed("private-repo") && app.interactive() {
				if err := privateRepoForm(p, &privateRepo).RunWithContext(ctx); err != nil {
					return err
				}
			}

			fmt.Fprintln(out, p.Dim("Complete the sign-in in your browser…"))
			if err := app.signIn(ctx, privateRepo); err != nil {
				return fmt.Errorf("sign-in: %w", err)
			}

			id, err := app.identity(ctx)
			if err != nil {
				return fmt.Errorf("sign-in finished but the server did not confirm a session")
			}
			fmt.Fprintln(out, p.Success("Signed in as "+id.DisplayName))
			return nil
		},
	}

	cmd.Flags().BoolVar(&privateRepo, "private-repo", false, "request access to private repositories")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the report server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := app.palette(ctx)

			next, err := session.NewTerminator(app.Client, app.logger()).Terminate(ctx)
			if err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			if _, still := next.Bootstrap(ctx).(domain.SessionAuthenticated); still {
				fmt.Fprintln(cmd.OutOrStdout(), p.Warn("The server still reports an active session."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Success("Signed out."))
			return nil
		},
	}
}
