package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"visit-route-service/internal/adapters/apiclient"
	"visit-route-service/internal/config"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/location"
	"visit-route-service/internal/platform/obs"
	"visit-route-service/internal/workflow"
	"visit-route-service/pkg/logging"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	apiBaseURL      string
	timezone        string
	logLevel        string
	latitude        string
	longitude       string
	ipLocationURL   string
	userAgent       string
	locationTimeout time.Duration
}

func defaultOptions() options {
	cfg := config.LoadClient()
	return options{
		apiBaseURL:      cfg.APIBaseURL,
		timezone:        cfg.Timezone,
		logLevel:        cfg.LogLevel,
		latitude:        cfg.DeviceLatitude,
		longitude:       cfg.DeviceLongitude,
		ipLocationURL:   cfg.IPGeolocationURL,
		locationTimeout: cfg.LocationTimeout,
	}
}

// app is the wired field workflow for one CLI invocation.
type app struct {
	loc       *time.Location
	out       io.Writer
	store     *workflow.Store
	patients  *workflow.PatientCache
	sequencer *workflow.Sequencer
	agenda    *workflow.AgendaMutator
}

// newApp wires the workflow against the API. Logs go to logOut, results and
// notifications to out.
func newApp(opts options, out, logOut io.Writer) (*app, error) {
	logger := logging.NewWithWriter(logOut, opts.logLevel)
	obs.SetLogger(logger.Logger)

	client, err := apiclient.New(opts.apiBaseURL, &http.Client{})
	if err != nil {
		return nil, err
	}

	loc := config.Location(opts.timezone)
	store := workflow.NewStore(workflow.State{})
	notifier := workflow.NotifierFunc(func(ctx context.Context, n domain.Notification) {
		printNotification(out, n)
		store.Notify(ctx, n)
	})

	locator := &location.Locator{
		Native:   location.FixedProvider{Latitude: opts.latitude, Longitude: opts.longitude},
		Notifier: notifier,
		Logger:   logger,
	}
	if opts.ipLocationURL != "" {
		locator.Browser = &location.IPProvider{URL: opts.ipLocationURL, Session: &http.Client{}}
	}

	locateOpts := location.DefaultOptions()
	if opts.locationTimeout > 0 {
		locateOpts.Timeout = opts.locationTimeout
	}
	locateOpts.UserAgent = opts.userAgent

	patients := workflow.NewPatientCache(client)
	return &app{
		loc:      loc,
		out:      out,
		store:    store,
		patients: patients,
		sequencer: &workflow.Sequencer{
			Store:         store,
			Patients:      patients,
			Locator:       locator,
			Optimizer:     client,
			Notifier:      notifier,
			Location:      loc,
			LocateOptions: locateOpts,
			Logger:        logger,
		},
		agenda: &workflow.AgendaMutator{
			Writer:   client,
			Cache:    patients,
			Notifier: notifier,
		},
	}, nil
}

func printNotification(w io.Writer, n domain.Notification) {
	marker := "✓"
	switch {
	case n.Level == domain.LevelError:
		marker = "✗"
	case n.Warning:
		marker = "!"
	}
	fmt.Fprintf(w, "%s %s: %s\n", marker, n.Title, n.Body)
}
