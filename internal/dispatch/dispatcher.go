package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/buemura/vtcli/internal/logging"
	"github.com/buemura/vtcli/internal/output"
	"github.com/buemura/vtcli/internal/vtapi"
	"github.com/buemura/vtcli/pkg/types"
	"go.uber.org/zap"
)

// Client is the subset of the VirusTotal API the dispatcher delegates to.
// *vtapi.Client implements it.
type Client interface {
	ScanFile(ctx context.Context, path string) (vtapi.Response, error)
	RescanFile(ctx context.Context, hashes []string) (vtapi.Response, error)
	FileReport(ctx context.Context, hashes []string) (vtapi.Response, error)
	FileBehaviour(ctx context.Context, hash string) (vtapi.Response, error)
	NetworkTraffic(ctx context.Context, hash string) (vtapi.Response, error)
	FileSearch(ctx context.Context, query string) (vtapi.Response, error)
	GetFile(ctx context.Context, hash string) (vtapi.Response, error)
	ScanURL(ctx context.Context, urls []string) (vtapi.Response, error)
	URLReport(ctx context.Context, urls []string, scan bool) (vtapi.Response, error)
	IPReport(ctx context.Context, ip string) (vtapi.Response, error)
	DomainReport(ctx context.Context, domain string) (vtapi.Response, error)
}

var _ Client = (*vtapi.Client)(nil)

// Options holds the output settings of a Dispatcher.
type Options struct {
	Formatter output.Formatter
	Stdout    io.Writer
	Logger    *zap.Logger
}

// Dispatcher runs commands against a Client.
type Dispatcher struct {
	client    Client
	formatter output.Formatter
	stdout    io.Writer
	logger    *zap.Logger
}

// New creates a dispatcher. Zero-valued options default to JSON output on
// os.Stdout and a no-op logger.
func New(client Client, opts Options) *Dispatcher {
	d := &Dispatcher{
		client:    client,
		formatter: opts.Formatter,
		stdout:    opts.Stdout,
		logger:    opts.Logger,
	}
	if d.formatter == nil {
		d.formatter = &output.JSONFormatter{}
	}
	if d.stdout == nil {
		d.stdout = os.Stdout
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// Run validates cmd, performs its API call and renders the result.
func (d *Dispatcher) Run(ctx context.Context, cmd Command) error {
	if err := Validate(cmd); err != nil {
		return err
	}
	d.logger.Debug("dispatching", logging.Command(cmd.Name()))

	switch c := cmd.(type) {
	case FileScan:
		return d.print(d.client.ScanFile(ctx, c.Path))
	case Rescan:
		d.logger.Debug("batch", logging.Count(len(c.Hashes)))
		return d.print(d.client.RescanFile(ctx, c.Hashes))
	case FileReport:
		return d.fileReport(ctx, c.Hashes)
	case Behaviour:
		return d.print(d.client.FileBehaviour(ctx, c.Hash))
	case PCAP:
		_, err := d.save(ctx, c.Hash, filepath.Join(c.OutputDir, c.Hash+".pcap"), d.client.NetworkTraffic)
		return err
	case Search:
		return d.print(d.client.FileSearch(ctx, c.Query))
	case Download:
		saved, err := d.save(ctx, c.Hash, filepath.Join(c.OutputDir, c.Hash), d.client.GetFile)
		if err != nil || !saved {
			return err
		}
		return d.fileReport(ctx, []string{c.Hash})
	case URLScan:
		d.logger.Debug("batch", logging.Count(len(c.URLs)))
		return d.print(d.client.ScanURL(ctx, c.URLs))
	case URLReport:
		d.logger.Debug("batch", logging.Count(len(c.URLs)))
		return d.print(d.client.URLReport(ctx, c.URLs, c.Scan))
	case IPReport:
		return d.print(d.client.IPReport(ctx, c.IP))
	case DomainReport:
		return d.print(d.client.DomainReport(ctx, c.Domain))
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

func (d *Dispatcher) fileReport(ctx context.Context, hashes []string) error {
	d.logger.Debug("batch", logging.Count(len(hashes)))
	return d.print(d.client.FileReport(ctx, hashes))
}

// print renders a structured response.
func (d *Dispatcher) print(resp vtapi.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsBytes() {
		return fmt.Errorf("unexpected binary response (%d bytes)", len(resp.Data))
	}
	return d.formatter.Format(d.stdout, resp.Value)
}

// save fetches a binary payload and writes it to path. A structured
// response means the lookup failed: it is printed and nothing is written.
// The returned bool reports whether a file was written.
func (d *Dispatcher) save(ctx context.Context, hash, path string, fetch func(context.Context, string) (vtapi.Response, error)) (bool, error) {
	d.logger.Debug("fetching payload", logging.Resource(hash), zap.String("hash_kind", string(types.KindOfHash(hash))))

	resp, err := fetch(ctx, hash)
	if err != nil {
		return false, err
	}

	if !resp.IsBytes() {
		return false, d.formatter.Format(d.stdout, resp.Value)
	}

	if err := writeFile(path, resp.Data); err != nil {
		return false, err
	}
	d.logger.Info("payload saved", logging.Path(path), logging.Bytes(len(resp.Data)))
	return true, nil
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
