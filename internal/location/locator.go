// Package location acquires the device position used as a route origin.
//
// The native provider is always tried first. On any failure the browser
// provider is tried with the same parameters and MaximumAge zero. Only when
// both fail (or none exists) is the failure classified, reported once to the
// notifier and returned.
package location

import (
	"context"
	"errors"
	"time"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/observability/metrics"
	"visit-route-service/internal/platform/obs"
	"visit-route-service/internal/ports"
	"visit-route-service/pkg/logging"
)

const DefaultTimeout = 10 * time.Second

type Source string

const (
	SourceNative  Source = "native"
	SourceBrowser Source = "browser"
)

// Options configure one acquisition. Start from DefaultOptions; a zero
// Timeout is replaced by DefaultTimeout.
type Options struct {
	Timeout            time.Duration
	EnableHighAccuracy bool
	// UserAgent selects device-specific failure copy.
	UserAgent string
}

func DefaultOptions() Options {
	return Options{Timeout: DefaultTimeout, EnableHighAccuracy: true}
}

// Result is a successful fix. Coordinates are also given as decimal strings.
type Result struct {
	Latitude    string
	Longitude   string
	Coordinates domain.Coordinates
	Source      Source
	// FellBack is set when the native provider was tried and failed.
	FellBack bool
}

type Locator struct {
	Native   Provider
	Browser  Provider
	Notifier ports.Notifier
	Metrics  *metrics.RouteMetrics
	Logger   *logging.Logger
}

func (l *Locator) logger() *logging.Logger {
	if l.Logger == nil {
		return logging.Default()
	}
	return l.Logger
}

// Locate returns the current position or an *Error.
func (l *Locator) Locate(ctx context.Context, opts Options) (_ Result, err error) {
	defer obs.Time(ctx, "location.Locate")(&err)

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if l.Native == nil && l.Browser == nil {
		lerr := &Error{Kind: KindUnknown, Unsupported: true, Title: unsupportedTitle, Message: unsupportedBody}
		l.notify(ctx, domain.Notification{Level: domain.LevelError, Title: lerr.Title, Body: lerr.Message})
		return Result{}, lerr
	}

	req := Request{EnableHighAccuracy: opts.EnableHighAccuracy, Timeout: opts.Timeout}

	var lastErr error
	if l.Native != nil {
		c, err := l.try(ctx, l.Native, SourceNative, req)
		if err == nil {
			return l.succeed(ctx, c, SourceNative, false), nil
		}
		l.logger().Info("native positioning failed, trying browser", "provider", l.Native.Name(), "error", err)
		lastErr = err
	}

	if l.Browser != nil {
		req.MaximumAge = 0
		c, err := l.try(ctx, l.Browser, SourceBrowser, req)
		if err == nil {
			return l.succeed(ctx, c, SourceBrowser, l.Native != nil), nil
		}
		lastErr = err
	}

	kind := Classify(lastErr)
	title, body := Message(kind, DetectDevice(opts.UserAgent))
	lerr := &Error{Kind: kind, Title: title, Message: body, Err: lastErr}
	l.notify(ctx, domain.Notification{Level: domain.LevelError, Title: title, Body: body})
	return Result{}, lerr
}

func (l *Locator) try(ctx context.Context, p Provider, src Source, req Request) (domain.Coordinates, error) {
	tctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	c, err := p.CurrentPosition(tctx, req)
	if err == nil && !c.Valid() {
		err = &PositionError{Code: CodePositionUnavailable, Message: "provider returned invalid coordinates"}
	}
	if err != nil && errors.Is(tctx.Err(), context.DeadlineExceeded) && Classify(err) == KindUnknown {
		err = &PositionError{Code: CodeTimeout, Message: err.Error()}
	}
	l.Metrics.ObserveLocationFix(string(src), err)
	return c, err
}

func (l *Locator) succeed(ctx context.Context, c domain.Coordinates, src Source, fellBack bool) Result {
	l.notify(ctx, domain.Notification{Level: domain.LevelSuccess, Title: successTitle, Body: successBody})
	return Result{
		Latitude:    domain.FormatDegrees(c.Lat),
		Longitude:   domain.FormatDegrees(c.Lon),
		Coordinates: c,
		Source:      src,
		FellBack:    fellBack,
	}
}

func (l *Locator) notify(ctx context.Context, n domain.Notification) {
	if l.Notifier != nil {
		l.Notifier.Notify(ctx, n)
	}
}
