package dispatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buemura/vtcli/internal/vtapi"
)

var (
	ErrTooManyArgs      = errors.New("the VT Private API only allows a maximum of 25 arguments to be specified in a single query")
	ErrNoArgs           = errors.New("at least one argument is required")
	ErrInvalidOutputDir = errors.New("not a valid output directory")
	ErrInvalidFile      = errors.New("not a readable file")
	ErrInvalidHash      = errors.New("invalid hash")
)

// Validate checks a command's arguments. It runs before any network call.
func Validate(cmd Command) error {
	switch c := cmd.(type) {
	case FileScan:
		return checkFile(c.Path)
	case Rescan:
		return checkBatch(c.Hashes)
	case FileReport:
		return checkBatch(c.Hashes)
	case Behaviour:
		return checkSingle(c.Hash)
	case PCAP:
		if err := checkHash(c.Hash); err != nil {
			return err
		}
		return checkOutputDir(c.OutputDir)
	case Search:
		return checkSingle(c.Query)
	case Download:
		if err := checkHash(c.Hash); err != nil {
			return err
		}
		return checkOutputDir(c.OutputDir)
	case URLScan:
		return checkBatch(c.URLs)
	case URLReport:
		return checkBatch(c.URLs)
	case IPReport:
		return checkSingle(c.IP)
	case DomainReport:
		return checkSingle(c.Domain)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

func checkBatch(items []string) error {
	if len(items) == 0 {
		return ErrNoArgs
	}
	if len(items) > vtapi.MaxBatch {
		return ErrTooManyArgs
	}
	return nil
}

func checkSingle(s string) error {
	if s == "" {
		return ErrNoArgs
	}
	return nil
}

// checkHash rejects hashes that would escape the output directory when used
// as a file name.
func checkHash(hash string) error {
	if hash == "" {
		return ErrNoArgs
	}
	if hash == "." || hash == ".." || filepath.Base(hash) != hash {
		return fmt.Errorf("'%s': %w", hash, ErrInvalidHash)
	}
	return nil
}

func checkOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("'%s' is %w", dir, ErrInvalidOutputDir)
	}
	return nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("'%s' is %w", path, ErrInvalidFile)
	}
	return nil
}
