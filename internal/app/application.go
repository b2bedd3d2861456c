package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/raysh454/apicli/internal/banner"
	"github.com/raysh454/apicli/internal/cli"
	"github.com/raysh454/apicli/internal/dispatch"
	"github.com/raysh454/apicli/internal/logging"
	"github.com/raysh454/apicli/internal/model"
	"github.com/raysh454/apicli/internal/output"
	"github.com/raysh454/apicli/internal/prompt"
	"github.com/raysh454/apicli/internal/resolve"
	"github.com/raysh454/apicli/internal/telemetry"
	"github.com/raysh454/apicli/internal/webclient"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// BannerRenderer draws the decorative banner.
type BannerRenderer interface {
	Render(w io.Writer) error
}

// Application runs one resolve -> dispatch -> render cycle. Fields left nil
// are filled with production defaults on Run, so tests inject only what they
// need (streams, prompter, web client, logger).
type Application struct {
	Config *Config
	Logger logging.Logger

	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether the user can be prompted.
	IsTerminal func() bool
	Prompter   prompt.Prompter
	Client     webclient.WebClient
	Banner     BannerRenderer
	Telemetry  *telemetry.Telemetry
}

// NewApplication wires cfg to the process streams.
func NewApplication(cfg *Config) *Application {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Application{
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes a single invocation and returns the process exit code.
// Request-level failures (transport errors, non-2xx responses) are reported
// but still exit 0.
func (a *Application) Run(ctx context.Context, args []string) int {
	if a.Config == nil {
		a.Config = DefaultConfig()
	}
	if a.Stdout == nil {
		a.Stdout = io.Discard
	}
	if a.Stderr == nil {
		a.Stderr = io.Discard
	}

	parsed, err := cli.ParseArgs(args)
	if err != nil {
		return a.usageError(err)
	}
	if parsed.Help {
		cli.PrintUsage(a.Stdout)
		return ExitOK
	}
	if parsed.Version {
		cli.PrintVersion(a.Stdout)
		return ExitOK
	}

	logger, err := a.logger(parsed.Verbose)
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitFailure
	}

	interactive := parsed.Interactive || (!parsed.HasTarget() && a.isTerminal())
	if !interactive && !parsed.HasTarget() {
		return a.usageError(fmt.Errorf("%w: method and url are required", cli.ErrUsage))
	}

	desc, err := a.resolve(parsed, interactive, logger)
	if err != nil {
		if errors.Is(err, cli.ErrUsage) {
			return a.usageError(err)
		}
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitFailure
	}

	if interactive || parsed.Banner {
		a.renderBanner(logger)
	}

	tel := a.Telemetry
	if tel == nil {
		tel = telemetry.Start(a.Config.Telemetry, logger)
		defer tel.Shutdown()
	}

	client := a.Client
	if client == nil {
		nhc, err := webclient.NewNetHTTPClient(webclient.Config{WrapTransport: tel.WrapTransport}, logger, nil)
		if err != nil {
			fmt.Fprintf(a.Stderr, "Error: %v\n", err)
			return ExitFailure
		}
		client = nhc
	}
	defer client.Close()

	res, fail := a.dispatch(ctx, tel, client, desc, logger)

	// A failed save is already reported on stderr and does not change the exit code.
	_ = output.New(a.Stdout, a.Stderr, logger).Render(desc, res, fail)
	return ExitOK
}

func (a *Application) resolve(parsed *cli.CLIArgs, interactive bool, logger logging.Logger) (*model.RequestDescriptor, error) {
	if !interactive {
		return resolve.New(nil, a.Stderr, logger).FromArgs(parsed)
	}
	p := a.Prompter
	if p == nil {
		p = prompt.NewTerminal(readCloser(a.Stdin), nopWriteCloser{a.Stdout})
	}
	return resolve.New(p, a.Stderr, logger).Interactive(parsed)
}

func (a *Application) dispatch(ctx context.Context, tel *telemetry.Telemetry, client webclient.WebClient, desc *model.RequestDescriptor, logger logging.Logger) (*model.ResponseResult, *model.RequestFailure) {
	ctx, end := tel.StartTransaction(ctx, "request", map[string]any{
		"method": desc.Method.String(),
		"url":    desc.URL,
	})
	res, fail := dispatch.New(client, a.Config.UserAgent, logger).Dispatch(ctx, desc)
	if fail != nil {
		end(fail)
	} else {
		end(nil)
	}
	return res, fail
}

// renderBanner never fails the run; the request goes ahead regardless.
func (a *Application) renderBanner(logger logging.Logger) {
	r := a.Banner
	if r == nil {
		r = banner.New(a.Config.BannerText, a.Config.BannerFont)
	}
	if err := r.Render(a.Stdout); err != nil {
		logger.Warn("banner not rendered", logging.Err(err))
	}
}

func (a *Application) usageError(err error) int {
	fmt.Fprintf(a.Stderr, "Error: %v\n", err)
	cli.PrintUsageHint(a.Stderr)
	return ExitFailure
}

func (a *Application) logger(verbose bool) (logging.Logger, error) {
	if a.Logger != nil {
		return a.Logger, nil
	}
	level := a.Config.LogLevel
	if verbose {
		level = "debug"
	}
	opts := logging.Options{Level: level, Format: a.Config.LogFormat}
	if f, ok := a.Stderr.(*os.File); !ok || f != os.Stderr {
		opts.Out = a.Stderr
	}
	l, err := logging.NewZerologLogger(opts)
	if err != nil {
		return nil, err
	}
	a.Logger = l
	return l, nil
}

func (a *Application) isTerminal() bool {
	if a.IsTerminal != nil {
		return a.IsTerminal()
	}
	f, ok := a.Stdin.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// The prompt library closes the streams it is given; the process streams
// must stay open for the response output.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func readCloser(r io.ReadCloser) io.ReadCloser {
	if r == nil {
		return nil
	}
	return io.NopCloser(r)
}
