package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/services"
	"visit-route-service/internal/workflow"

	"github.com/spf13/cobra"
)

const dateTimeLayout = "2006-01-02 15:04"

func newRootCmd(out, logOut io.Writer, in io.Reader) *cobra.Command {
	opts := defaultOptions()

	root := &cobra.Command{
		Use:   "fieldvisit",
		Short: "Plan and schedule home visits for an outreach team",
		Long: `fieldvisit drives the field visit workflow against the visit route API.

Available subcommands:
  calendar   - Show next and last visits grouped by day
  visits     - List the geo-referenced patients due on a day
  route      - Optimize the visiting order for a day and print the maps link
  schedule   - Set a patient's next visit
  reschedule - Replace a patient's next visit
  clear      - Remove a patient's next visit`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetIn(in)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.apiBaseURL, "api", opts.apiBaseURL, "Visit route API base URL (or API_BASE_URL)")
	pf.StringVar(&opts.timezone, "tz", opts.timezone, "Time zone that defines calendar days (or APP_TIMEZONE)")
	pf.StringVar(&opts.logLevel, "log-level", opts.logLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&opts.latitude, "lat", opts.latitude, "Device latitude (or DEVICE_LATITUDE)")
	pf.StringVar(&opts.longitude, "lon", opts.longitude, "Device longitude (or DEVICE_LONGITUDE)")
	pf.StringVar(&opts.ipLocationURL, "ip-location-url", opts.ipLocationURL, "IP geolocation fallback endpoint; empty disables it")
	pf.StringVar(&opts.userAgent, "user-agent", "", "Device user agent, selects location help messages")
	pf.DurationVar(&opts.locationTimeout, "location-timeout", opts.locationTimeout, "Positioning timeout")

	build := func() (*app, error) { return newApp(opts, out, logOut) }

	root.AddCommand(
		newCalendarCmd(build),
		newVisitsCmd(build),
		newRouteCmd(build),
		newScheduleCmd(build, false),
		newScheduleCmd(build, true),
		newClearCmd(build, in),
	)
	return root
}

func newCalendarCmd(build func() (*app, error)) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show next and last visits grouped by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			fromDay, err := parseOptionalDay(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			toDay, err := parseOptionalDay(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			patients, err := a.patients.Patients(cmd.Context())
			if err != nil {
				return err
			}

			cal := services.ProjectCalendar(patients, a.loc).Between(fromDay, toDay)
			for _, day := range cal.Days() {
				next, last := cal.Counts(day)
				fmt.Fprintf(a.out, "%s  próximos: %d  últimos: %d\n", day, next, last)
				for _, ev := range cal[day] {
					fmt.Fprintf(a.out, "  %s  %-4s  #%d %s\n", ev.At.In(a.loc).Format("15:04"), ev.Kind, ev.PatientID, ev.PatientName)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")
	return cmd
}

func newVisitsCmd(build func() (*app, error)) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "visits",
		Short: "List the geo-referenced patients due on a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			d, err := parseDayOrToday(day, a.loc)
			if err != nil {
				return err
			}

			a.sequencer.SelectDay(d)
			dests, err := a.sequencer.Destinations(cmd.Context())
			if err != nil {
				return err
			}
			if len(dests) == 0 {
				fmt.Fprintf(a.out, "nenhum paciente georreferenciado para %s\n", d)
				return nil
			}
			for _, dst := range dests {
				fmt.Fprintf(a.out, "#%d %s  %s  (%s)  %s\n",
					dst.PatientID, dst.Name, dst.ScheduledAt.In(a.loc).Format("15:04"), dst.Location, dst.Address)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Day (YYYY-MM-DD, default today)")
	return cmd
}

func newRouteCmd(build func() (*app, error)) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Optimize the visiting order for a day and print the maps link",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			d, err := parseDayOrToday(day, a.loc)
			if err != nil {
				return err
			}

			a.sequencer.SelectDay(d)
			plan, err := a.sequencer.Optimize(cmd.Context())
			if err != nil {
				return err
			}

			stops := a.store.State().PlanStops
			for i, idx := range plan.OptimizedOrder {
				leg := plan.Legs[i]
				fmt.Fprintf(a.out, "%d. #%d %s  %s, %s\n", i+1, stops[idx].PatientID, stops[idx].Name, leg.DistanceText, leg.DurationText)
			}
			fmt.Fprintf(a.out, "total: %s, %s\n", plan.TotalDistanceText, plan.TotalDurationText)

			link, err := a.sequencer.NavigationURL()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, link)
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Day (YYYY-MM-DD, default today)")
	return cmd
}

func newScheduleCmd(build func() (*app, error), reschedule bool) *cobra.Command {
	var patientID int64
	var at string

	use, short := "schedule", "Set a patient's next visit"
	if reschedule {
		use, short = "reschedule", "Replace a patient's next visit"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}

			var idPtr *int64
			if cmd.Flags().Changed("patient") {
				idPtr = &patientID
			}
			var atPtr *time.Time
			if at != "" {
				t, err := time.ParseInLocation(dateTimeLayout, at, a.loc)
				if err != nil {
					return fmt.Errorf("--at must be %q: %w", dateTimeLayout, err)
				}
				atPtr = &t
			}

			if reschedule {
				_, err = a.agenda.Reschedule(cmd.Context(), idPtr, atPtr)
			} else {
				_, err = a.agenda.Schedule(cmd.Context(), idPtr, atPtr)
			}
			return err
		},
	}
	cmd.Flags().Int64Var(&patientID, "patient", 0, "Patient id")
	cmd.Flags().StringVar(&at, "at", "", "Visit date and time ("+dateTimeLayout+")")
	return cmd
}

func newClearCmd(build func() (*app, error), in io.Reader) *cobra.Command {
	var patientID int64
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove a patient's next visit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("patient") {
				return errors.New("--patient is required")
			}
			a, err := build()
			if err != nil {
				return err
			}

			confirm := workflow.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
				if yes {
					return true, nil
				}
				return promptYesNo(a.out, in, prompt)
			})
			_, err = a.agenda.Clear(cmd.Context(), patientID, confirm)
			return err
		},
	}
	cmd.Flags().Int64Var(&patientID, "patient", 0, "Patient id")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func promptYesNo(out io.Writer, in io.Reader, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [s/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true, nil
	}
	return false, nil
}

func parseOptionalDay(s string) (domain.Day, error) {
	if s == "" {
		return domain.Day{}, nil
	}
	return domain.ParseDay(s)
}

func parseDayOrToday(s string, loc *time.Location) (domain.Day, error) {
	if s == "" {
		return domain.DayOf(time.Now(), loc), nil
	}
	return domain.ParseDay(s)
}
