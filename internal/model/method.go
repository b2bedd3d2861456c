package model

import (
	"errors"
	"fmt"
	"strings"
)

// Method is an HTTP method the tool knows how to send.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Methods lists the supported methods in menu order.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete}

var ErrUnknownMethod = errors.New("unsupported http method")

// ParseMethod is case-insensitive and normalizes to upper case.
func ParseMethod(raw string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownMethod, raw, MethodNames())
}

// AllowsBody reports whether a JSON payload may be attached to the method.
func (m Method) AllowsBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

func (m Method) String() string { return string(m) }

// MethodNames returns "GET, POST, PUT, DELETE".
func MethodNames() string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
