package cli

import (
	"fmt"
	"io"
)

const ProgramName = "apicli"

// Version is overridden at build time with -ldflags "-X ...".
var Version = "0.1.0"

const usageText = `%[1]s sends a single HTTP request and prints the response.

Usage:
  %[1]s <METHOD> <URL> [<jsonData>] [--output <path>] [-H "Key: Value"]...
  %[1]s [--interactive]
  %[1]s --help | --version

Methods:
  GET, POST, PUT, DELETE (case-insensitive)

Options:
  -o, --output <path>     save a successful response body as indented JSON
  -H, --header <K: V>     extra request header (repeatable)
  -i, --interactive       prompt for method, url, body and output file
      --banner            render the banner before sending the request
  -v, --verbose           debug logging on stderr
  -h, --help              show this help
      --version           print version and exit

Examples:
  %[1]s GET https://api.example.com/items/1
  %[1]s POST https://api.example.com/items '{"name":"x"}' --output item.json
`

// PrintUsage writes the full help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, ProgramName)
}

// PrintUsageHint writes the one-line synopsis shown next to usage errors.
func PrintUsageHint(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <method> <url> [data] [--output <filename>]\n", ProgramName)
	fmt.Fprintf(w, "Run '%s --help' for details.\n", ProgramName)
}

// PrintVersion writes "apicli version X".
func PrintVersion(w io.Writer) {
	fmt.Fprintln(w, ProgramName, "version", Version)
}
