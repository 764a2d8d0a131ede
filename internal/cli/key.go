package cli

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/zarlcorp/core/pkg/zcrypto"
)

const defaultKeyBytes = 32

// KeyConfig holds settings for SSN key generation.
type KeyConfig struct {
	Bytes int
}

// ParseKeyConfig parses the ssn-key flags.
func ParseKeyConfig(args []string) (KeyConfig, error) {
	fs := flag.NewFlagSet("ssn-key", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := KeyConfig{Bytes: defaultKeyBytes}
	fs.IntVar(&cfg.Bytes, "bytes", cfg.Bytes, "number of random bytes")
	if err := fs.Parse(args); err != nil {
		return KeyConfig{}, err
	}
	return cfg, nil
}

// WriteKey generates a key and writes it to out as an env assignment.
// A nil reader draws from the system CSPRNG.
func WriteKey(cfg KeyConfig, out io.Writer, reader io.Reader) error {
	if cfg.Bytes <= 0 {
		return errors.New("bytes must be greater than zero")
	}
	if out == nil {
		return errors.New("output is required")
	}

	var buf []byte
	if reader == nil {
		b, err := zcrypto.RandBytes(cfg.Bytes)
		if err != nil {
			return fmt.Errorf("generate random bytes: %w", err)
		}
		buf = b
	} else {
		buf = make([]byte, cfg.Bytes)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return fmt.Errorf("generate random bytes: %w", err)
		}
	}
	defer zcrypto.Erase(buf)

	_, err := fmt.Fprintf(out, "SSN_SECRET=%s\n", hex.EncodeToString(buf))
	return err
}
