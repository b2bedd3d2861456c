package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks a command line that cannot be turned into a request.
var ErrUsage = errors.New("usage error")

// CLIArgs are the command-line arguments for a single run.
type CLIArgs struct {
	// Method and URL are the first two positional tokens. Both empty means
	// nothing was supplied and the caller may fall back to prompting.
	Method string
	URL    string

	// Data is the optional third positional token, still unparsed.
	Data    string
	HasData bool

	// OutputPath comes from --output/-o.
	OutputPath string

	Headers http.Header

	Interactive bool
	Banner      bool
	Verbose     bool
	Help        bool
	Version     bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// HasTarget reports whether method or url was given positionally.
func (a *CLIArgs) HasTarget() bool {
	return a.Method != "" || a.URL != ""
}

// ParseArgs parses a slice of args and returns CLIArgs. It never reads
// os.Args, so tests pass arbitrary slices. Options may appear anywhere.
//
// When --help or --version is present the returned CLIArgs has the flag set
// and positional validation is skipped.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet(ProgramName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	var (
		output      = fs.StringP("output", "o", "", "save a successful response body to this file")
		headers     = fs.StringArrayP("header", "H", nil, `extra request header "Key: Value" (repeatable)`)
		interactive = fs.BoolP("interactive", "i", false, "prompt for method, url, body and output file")
		banner      = fs.Bool("banner", false, "render the banner before sending the request")
		verbose     = fs.BoolP("verbose", "v", false, "debug logging on stderr")
		help        = fs.BoolP("help", "h", false, "show this help")
		version     = fs.Bool("version", false, "print version and exit")
	)

	if err := fs.Parse(negativeDataAsPositional(fs, args)); err != nil {
		if wantsHelp(args) {
			return &CLIArgs{Help: true, RawArgs: args}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	out := &CLIArgs{
		OutputPath:  *output,
		Interactive: *interactive,
		Banner:      *banner,
		Verbose:     *verbose,
		Help:        *help,
		Version:     *version,
		RawArgs:     args,
	}
	if out.Help || out.Version {
		return out, nil
	}

	if fs.Changed("output") && strings.TrimSpace(*output) == "" {
		return nil, fmt.Errorf("%w: --output requires a file name", ErrUsage)
	}

	hdr, err := parseHeaders(*headers)
	if err != nil {
		return nil, err
	}
	out.Headers = hdr

	pos := fs.Args()
	if out.Interactive {
		if len(pos) > 0 {
			return nil, fmt.Errorf("%w: --interactive does not take positional arguments", ErrUsage)
		}
		return out, nil
	}

	switch len(pos) {
	case 0:
		return out, nil
	case 1:
		return nil, fmt.Errorf("%w: missing url", ErrUsage)
	case 2, 3:
		out.Method, out.URL = pos[0], pos[1]
		if strings.TrimSpace(out.Method) == "" || strings.TrimSpace(out.URL) == "" {
			return nil, fmt.Errorf("%w: method and url must not be empty", ErrUsage)
		}
		if len(pos) == 3 {
			out.Data, out.HasData = pos[2], true
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, pos[3])
	}
}

func parseHeaders(raw []string) (http.Header, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	h := http.Header{}
	for _, s := range raw {
		key, value, ok := strings.Cut(s, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf(`%w: header %q must be in "Key: Value" form`, ErrUsage, s)
		}
		h.Add(key, strings.TrimSpace(value))
	}
	return h, nil
}

// wantsHelp reports whether -h or --help appears before any "--".
func wantsHelp(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-h", "--help":
			return true
		}
	}
	return false
}

// isNegativeNumber matches a JSON number literal such as -1 or -2.5e3, which
// pflag would otherwise read as a cluster of shorthand flags.
func isNegativeNumber(s string) bool {
	return len(s) > 1 && s[0] == '-' && s[1] >= '0' && s[1] <= '9' && json.Valid([]byte(s))
}

// negativeDataAsPositional moves options ahead of a "--" and every positional
// token after it, so negative numbers reach fs.Args() as data. args is
// returned unchanged when it holds no negative number.
func negativeDataAsPositional(fs *flag.FlagSet, args []string) []string {
	if !slices.ContainsFunc(args, isNegativeNumber) {
		return args
	}
	var opts, pos []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			pos = append(pos, args[i+1:]...)
			i = len(args)
		case a == "-" || !strings.HasPrefix(a, "-") || isNegativeNumber(a):
			pos = append(pos, a)
		default:
			opts = append(opts, a)
			if takesNextToken(fs, a) && i+1 < len(args) {
				i++
				opts = append(opts, args[i])
			}
		}
	}
	return append(append(opts, "--"), pos...)
}

// takesNextToken reports whether option token a consumes the following
// token as its value.
func takesNextToken(fs *flag.FlagSet, a string) bool {
	if strings.Contains(a, "=") {
		return false
	}
	if name, ok := strings.CutPrefix(a, "--"); ok {
		f := fs.Lookup(name)
		return f != nil && f.NoOptDefVal == ""
	}
	cluster := a[1:]
	for i := 0; i < len(cluster); i++ {
		f := fs.ShorthandLookup(cluster[i : i+1])
		if f == nil {
			return false
		}
		if f.NoOptDefVal == "" {
			// A value flag swallows the rest of the cluster when there is one.
			return i == len(cluster)-1
		}
	}
	return false
}
