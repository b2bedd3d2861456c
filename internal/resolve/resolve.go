package resolve

import (
	"fmt"
	"io"
	"net/http"

	"github.com/raysh454/apicli/internal/cli"
	"github.com/raysh454/apicli/internal/logging"
	"github.com/raysh454/apicli/internal/model"
	"github.com/raysh454/apicli/internal/prompt"
)

// Resolver turns parsed arguments, or answers to prompts, into a
// RequestDescriptor.
type Resolver struct {
	prompter prompt.Prompter
	errOut   io.Writer
	logger   logging.Logger
}

// New creates a Resolver. prompter may be nil when interactive mode is not
// available; errOut receives inline validation messages while prompting.
func New(prompter prompt.Prompter, errOut io.Writer, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop{}
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return &Resolver{
		prompter: prompter,
		errOut:   errOut,
		logger:   logger.With(logging.F("component", "resolve")),
	}
}

// FromArgs builds a descriptor from positional arguments. The URL is passed
// through as given; the method and optional JSON literal are validated.
func (r *Resolver) FromArgs(args *cli.CLIArgs) (*model.RequestDescriptor, error) {
	if args == nil || args.Method == "" || args.URL == "" {
		return nil, fmt.Errorf("%w: method and url are required", cli.ErrUsage)
	}

	method, err := model.ParseMethod(args.Method)
	if err != nil {
		return nil, err
	}

	desc := &model.RequestDescriptor{
		Method:     method,
		URL:        args.URL,
		OutputPath: args.OutputPath,
		Headers:    cloneHeader(args.Headers),
	}
	if args.HasData {
		body, err := BodyFor(method, args.Data)
		if err != nil {
			return nil, err
		}
		desc.Body = body
	}

	r.logger.Debug("resolved request from arguments",
		logging.F("method", desc.Method.String()),
		logging.F("url", desc.URL),
		logging.F("has_body", desc.HasBody()))
	return desc, nil
}

// Interactive prompts for method, URL, body (only for methods that allow one)
// and output file. Invalid answers are reported on errOut and asked again.
// An output path or headers already present on args are reused.
func (r *Resolver) Interactive(args *cli.CLIArgs) (*model.RequestDescriptor, error) {
	if r.prompter == nil {
		return nil, fmt.Errorf("%w: no prompter available", prompt.ErrAborted)
	}

	names := make([]string, len(model.Methods))
	for i, m := range model.Methods {
		names[i] = m.String()
	}
	method, err := prompt.Ask(
		func() (string, error) { return r.prompter.Select("Select HTTP method", names) },
		func(raw string) (model.Method, error) { return model.ParseMethod(raw) },
		r.reportInvalid,
	)
	if err != nil {
		return nil, err
	}

	url, err := prompt.Ask(
		func() (string, error) { return r.prompter.Input("Enter URL") },
		ValidateURL,
		r.reportInvalid,
	)
	if err != nil {
		return nil, err
	}

	desc := &model.RequestDescriptor{Method: method, URL: url}

	if method.AllowsBody() {
		body, err := prompt.Ask(
			func() (string, error) { return r.prompter.Input("Enter JSON data (leave empty for none)") },
			ValidateOptionalJSON,
			r.reportInvalid,
		)
		if err != nil {
			return nil, err
		}
		desc.Body = body
	}

	if args != nil && args.OutputPath != "" {
		desc.OutputPath = args.OutputPath
	} else {
		out, err := prompt.Ask(
			func() (string, error) { return r.prompter.Input("Output file (leave empty for none)") },
			ValidateOutputPath,
			r.reportInvalid,
		)
		if err != nil {
			return nil, err
		}
		desc.OutputPath = out
	}

	if args != nil {
		desc.Headers = cloneHeader(args.Headers)
	}

	r.logger.Debug("resolved request interactively",
		logging.F("method", desc.Method.String()),
		logging.F("url", desc.URL),
		logging.F("has_body", desc.HasBody()))
	return desc, nil
}

func (r *Resolver) reportInvalid(err error) {
	fmt.Fprintf(r.errOut, "✗ %v\n", err)
}

func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return nil
	}
	return h.Clone()
}
