package cli

import (
	"fmt"

	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/theme"
	"github.com/spf13/cobra"
)

func newThemeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark), string(domain.ThemeSystem)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := app.palette(ctx)
			current := app.Theme.Load(ctx)

			if len(args) == 0 {
				if !app.interactive() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", current, theme.Resolve(current, app.SystemDark))
					return nil
				}
				choice := current
				if err := themePickerForm(p, &choice).RunWithContext(ctx); err != nil {
					return err
				}
				args = []string{string(choice)}
			}

			pref, ok := domain.ParseThemePreference(args[0])
			if !ok {
				return fmt.Errorf("unknown theme %q: want light, dark or system", args[0])
			}
			if err := app.Theme.Set(ctx, pref); err != nil {
				return err
			}
			p = app.palette(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), p.Success(fmt.Sprintf("Theme set to %s.", pref)))
			return nil
		},
	}
}
