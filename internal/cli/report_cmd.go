package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/prreport/internal/cli/formatter"
	"github.com/alexanderramin/prreport/internal/domain"
	"github.com/alexanderramin/prreport/internal/report"
	"github.com/alexanderramin/prreport/internal/reportdate"
	"github.com/alexanderramin/prreport/internal/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// renderWidth is the wrap width for one-shot report output.
const renderWidth = 80

type reportFlags struct {
	date string
	raw  bool
}

func (f *reportFlags) register(fs *pflag.FlagSet, today string) {
	fs.StringVarP(&f.date, "date", "d", today, "report date (YYYY-MM-DD)")
	fs.BoolVar(&f.raw, "raw", false, "print the markdown without rendering it")
}

func newReportCmd(app *App) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the pull request report for a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := app.palette(ctx)

			if _, err := app.identity(ctx); err != nil {
				return err
			}

			ctrl := report.NewController(app.logger())
			defer ctrl.Close()

			stop := formatter.StartSpinner(cmd.ErrOrStderr(), p, "Generating report…", app.interactive())
			state, err := ctrl.Generate(ctx, app.Client, reportdate.FromText(flags.date))
			stop()
			if err != nil {
				return errors.New(reportdate.Message(err))
			}

			switch st := state.(type) {
			case domain.ReportSucceeded:
				out := st.Text
				if !flags.raw {
					out = theme.RenderMarkdown(st.Text, p.Mode, renderWidth)
				}
				if !strings.HasSuffix(out, "\n") {
					out += "\n"
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			case domain.ReportFailed:
				return fmt.Errorf("report for %s: %s", st.Date, st.Message)
			default:
				return fmt.Errorf("unexpected report state %s", domain.ReportLabel(st))
			}
		},
	}

	flags.register(cmd.Flags(), reportdate.Of(app.now()).String())
	return cmd
}
