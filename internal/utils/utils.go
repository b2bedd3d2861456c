package utils

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyURL          = errors.New("empty url")
	ErrNotAbsolute       = errors.New("url must be absolute (scheme://host/...)")
	ErrUnsupportedScheme = errors.New("url scheme must be http or https")
	ErrMissingHost       = errors.New("missing host")
	ErrInvalidHost       = errors.New("invalid host name")
)

// NormalizeRequestURL checks that raw is a syntactically valid absolute
// http(s) URL and returns it with a lower-cased scheme and an ASCII
// (punycode) host. Path, query and fragment are left untouched.
func NormalizeRequestURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &url.Error{Op: "parse", URL: raw, Err: ErrEmptyURL}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() {
		return "", &url.Error{Op: "parse", URL: raw, Err: ErrNotAbsolute}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &url.Error{Op: "parse", URL: raw, Err: ErrUnsupportedScheme}
	}

	host := u.Hostname()
	if host == "" {
		return "", &url.Error{Op: "parse", URL: raw, Err: ErrMissingHost}
	}

	// IP literals skip IDNA; everything else must be a valid lookup name.
	if net.ParseIP(host) == nil {
		puny, err := idna.Lookup.ToASCII(strings.ToLower(host))
		if err != nil {
			return "", &url.Error{Op: "parse", URL: raw, Err: fmt.Errorf("%w: %v", ErrInvalidHost, err)}
		}
		host = puny
	}

	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		u.Host = "[" + host + "]"
	} else {
		u.Host = host
	}

	return u.String(), nil
}
