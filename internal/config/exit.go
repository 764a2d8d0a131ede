package config

import (
	"fmt"
	"os"
)

// Exitf writes a "zsignup: " prefixed message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "zsignup: "+format+"\n", args...)
	os.Exit(1)
}
