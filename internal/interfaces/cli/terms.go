package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/saju-engine/internal/application/chart"
	"github.com/turtacn/saju-engine/pkg/errors"
)

type termsOptions struct {
	ephemeris string
	timezone  string
	jieOnly   bool
}

// NewTermsCmd creates the terms command.
func NewTermsCmd() *cobra.Command {
	opts := &termsOptions{}

	cmd := &cobra.Command{
		Use:   "terms YEAR",
		Short: "List the 24 solar-term crossings of a year",
		Example: `  saju terms 2024 --tz +09:00
  saju terms 1900 --ephemeris low-precision --jie -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerms(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ephemeris, "ephemeris", "", "ephemeris method (vsop87, low-precision); default from config")
	f.StringVar(&opts.timezone, "tz", "", "zone for local instants (default UTC)")
	f.BoolVar(&opts.jieOnly, "jie", false, "only the 12 month-opening terms")

	return cmd
}

func runTerms(cmd *cobra.Command, arg string, opts *termsOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(arg)
	if err != nil {
		return errors.Newf(errors.ErrCodeBadRequest, "year %q is not an integer", arg)
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	res, err := cliCtx.Service.SolarTerms(ctx, &chart.SolarTermsRequest{
		Year:      year,
		Ephemeris: opts.ephemeris,
		Timezone:  opts.timezone,
	})
	if err != nil {
		return err
	}
	if opts.jieOnly {
		jie := make([]chart.TermView, 0, len(res.Terms)/2)
		for _, t := range res.Terms {
			if t.Jie {
				jie = append(jie, t)
			}
		}
		res.Terms = jie
	}
	return PrintResult(cmd, termsView{res})
}

type termsView struct {
	res *chart.SolarTermsResult
}

func (v termsView) JSONValue() interface{} { return v.res }

func (v termsView) TableHeaders() []string {
	return []string{"TERM", "LONGITUDE", "JIE", "UTC", "LOCAL"}
}

func (v termsView) TableRows() [][]string {
	rows := make([][]string, len(v.res.Terms))
	for i, t := range v.res.Terms {
		jie := ""
		if t.Jie {
			jie = "yes"
		}
		rows[i] = []string{
			t.Name,
			strconv.FormatFloat(t.Longitude, 'f', 0, 64),
			jie,
			t.Instant.UTC().Format(time.RFC3339),
			t.Local,
		}
	}
	return rows
}

func (v termsView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Solar terms %d (%s, %s)\n", v.res.Year, v.res.Ephemeris, v.res.Timezone)
	sb.WriteString(FormatTable(v.TableHeaders(), v.TableRows()))
	fmt.Fprintf(&sb, "Lunar new year %s\n", v.res.LunarNewYearDate)
	return sb.String()
}

//Personal.AI order the ending
