package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/buemura/vtcli/internal/output"
	"github.com/buemura/vtcli/internal/vtapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type call struct {
	method string
	args   []string
}

// fakeClient records every delegated call and returns canned responses.
type fakeClient struct {
	calls     []call
	responses map[string]vtapi.Response
	err       error
}

func newFakeClient() *fakeClient {
	return &fakeClient{responses: map[string]vtapi.Response{}}
}

func (f *fakeClient) record(method string, args ...string) (vtapi.Response, error) {
	f.calls = append(f.calls, call{method: method, args: args})
	if f.err != nil {
		return vtapi.Response{}, f.err
	}
	if resp, ok := f.responses[method]; ok {
		return resp, nil
	}
	return vtapi.Structured(map[string]any{"method": method, "args": args}), nil
}

func (f *fakeClient) ScanFile(_ context.Context, path string) (vtapi.Response, error) {
	return f.record("ScanFile", path)
}
func (f *fakeClient) RescanFile(_ context.Context, hashes []string) (vtapi.Response, error) {
	return f.record("RescanFile", hashes...)
}
func (f *fakeClient) FileReport(_ context.Context, hashes []string) (vtapi.Response, error) {
	return f.record("FileReport", hashes...)
}
func (f *fakeClient) FileBehaviour(_ context.Context, hash string) (vtapi.Response, error) {
	return f.record("FileBehaviour", hash)
}
func (f *fakeClient) NetworkTraffic(_ context.Context, hash string) (vtapi.Response, error) {
	return f.record("NetworkTraffic", hash)
}
func (f *fakeClient) FileSearch(_ context.Context, query string) (vtapi.Response, error) {
	return f.record("FileSearch", query)
}
func (f *fakeClient) GetFile(_ context.Context, hash string) (vtapi.Response, error) {
	return f.record("GetFile", hash)
}
func (f *fakeClient) ScanURL(_ context.Context, urls []string) (vtapi.Response, error) {
	return f.record("ScanURL", urls...)
}
func (f *fakeClient) URLReport(_ context.Context, urls []string, scan bool) (vtapi.Response, error) {
	return f.record("URLReport", append(urls, fmt.Sprint(scan))...)
}
func (f *fakeClient) IPReport(_ context.Context, ip string) (vtapi.Response, error) {
	return f.record("IPReport", ip)
}
func (f *fakeClient) DomainReport(_ context.Context, domain string) (vtapi.Response, error) {
	return f.record("DomainReport", domain)
}

func newTestDispatcher(t *testing.T, client Client) (*Dispatcher, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	d := New(client, Options{
		Formatter: &output.JSONFormatter{},
		Stdout:    &buf,
		Logger:    zaptest.NewLogger(t),
	})
	return d, &buf
}

func hashes(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%032x", i)
	}
	return out
}

func TestRun_SingleDelegatedCall(t *testing.T) {
	sample := filepath.Join(t.TempDir(), "sample.bin")
	require.NoError(t, os.WriteFile(sample, []byte("x"), 0644))

	for _, tc := range []struct {
		cmd    Command
		method string
		args   []string
	}{
		{FileScan{Path: sample}, "ScanFile", []string{sample}},
		{Rescan{Hashes: []string{"a", "b"}}, "RescanFile", []string{"a", "b"}},
		{FileReport{Hashes: []string{"abc123"}}, "FileReport", []string{"abc123"}},
		{Behaviour{Hash: "abc"}, "FileBehaviour", []string{"abc"}},
		{Search{Query: "positives:5+"}, "FileSearch", []string{"positives:5+"}},
		{URLScan{URLs: []string{"http://a", "http://b"}}, "ScanURL", []string{"http://a", "http://b"}},
		{URLReport{URLs: []string{"http://a"}, Scan: true}, "URLReport", []string{"http://a", "true"}},
		{IPReport{IP: "8.8.8.8"}, "IPReport", []string{"8.8.8.8"}},
		{DomainReport{Domain: "example.com"}, "DomainReport", []string{"example.com"}},
	} {
		t.Run(tc.cmd.Name(), func(t *testing.T) {
			client := newFakeClient()
			d, buf := newTestDispatcher(t, client)

			require.NoError(t, d.Run(context.Background(), tc.cmd))

			require.Len(t, client.calls, 1)
			assert.Equal(t, tc.method, client.calls[0].method)
			assert.Equal(t, tc.args, client.calls[0].args)

			var printed map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &printed))
			assert.Equal(t, tc.method, printed["method"])
		})
	}
}

func TestRun_FileReportOutput(t *testing.T) {
	client := newFakeClient()
	client.responses["FileReport"] = vtapi.Structured(map[string]any{
		"response_code": 200,
		"results":       map[string]any{"resource": "abc123", "positives": 0},
	})
	d, buf := newTestDispatcher(t, client)

	require.NoError(t, d.Run(context.Background(), FileReport{Hashes: []string{"abc123"}}))

	want := `{
    "response_code": 200,
    "results": {
        "positives": 0,
        "resource": "abc123"
    }
}
`
	assert.Equal(t, want, buf.String())
}

func TestRun_TooManyArgsFailsBeforeCall(t *testing.T) {
	for _, cmd := range []Command{
		Rescan{Hashes: hashes(26)},
		FileReport{Hashes: hashes(26)},
		URLScan{URLs: hashes(30)},
		URLReport{URLs: hashes(26)},
	} {
		t.Run(cmd.Name(), func(t *testing.T) {
			client := newFakeClient()
			d, buf := newTestDispatcher(t, client)

			err := d.Run(context.Background(), cmd)
			assert.ErrorIs(t, err, ErrTooManyArgs)
			assert.Empty(t, client.calls)
			assert.Empty(t, buf.String())
		})
	}
}

func TestRun_BatchCeilingIsInclusive(t *testing.T) {
	client := newFakeClient()
	d, _ := newTestDispatcher(t, client)

	require.NoError(t, d.Run(context.Background(), FileReport{Hashes: hashes(25)}))
	require.Len(t, client.calls, 1)
	assert.Len(t, client.calls[0].args, 25)
}

func TestRun_EmptyBatch(t *testing.T) {
	client := newFakeClient()
	d, _ := newTestDispatcher(t, client)

	assert.ErrorIs(t, d.Run(context.Background(), URLScan{}), ErrNoArgs)
	assert.Empty(t, client.calls)
}

func TestRun_InvalidOutputDirFailsBeforeCall(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	file := filepath.Join(t.TempDir(), "regular")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	for _, cmd := range []Command{
		PCAP{Hash: "abc", OutputDir: missing},
		Download{Hash: "abc", OutputDir: missing},
		PCAP{Hash: "abc", OutputDir: file},
	} {
		t.Run(cmd.Name(), func(t *testing.T) {
			client := newFakeClient()
			d, _ := newTestDispatcher(t, client)

			err := d.Run(context.Background(), cmd)
			assert.ErrorIs(t, err, ErrInvalidOutputDir)
			assert.Contains(t, err.Error(), "is not a valid output directory")
			assert.Empty(t, client.calls)
		})
	}
}

func TestRun_PathLikeHashRejected(t *testing.T) {
	client := newFakeClient()
	d, _ := newTestDispatcher(t, client)

	err := d.Run(context.Background(), Download{Hash: "../escape", OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrInvalidHash)
	assert.Empty(t, client.calls)
}

func TestRun_FileScanMissingFile(t *testing.T) {
	client := newFakeClient()
	d, _ := newTestDispatcher(t, client)

	err := d.Run(context.Background(), FileScan{Path: filepath.Join(t.TempDir(), "nope")})
	assert.ErrorIs(t, err, ErrInvalidFile)
	assert.Empty(t, client.calls)
}

func TestRun_PCAPWritesFile(t *testing.T) {
	dir := t.TempDir()
	client := newFakeClient()
	client.responses["NetworkTraffic"] = vtapi.Bytes([]byte{0xd4, 0xc3, 0xb2, 0xa1})
	d, buf := newTestDispatcher(t, client)

	require.NoError(t, d.Run(context.Background(), PCAP{Hash: "abc", OutputDir: dir}))

	data, err := os.ReadFile(filepath.Join(dir, "abc.pcap"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xd4, 0xc3, 0xb2, 0xa1}, data)
	assert.Empty(t, buf.String())
	assert.Len(t, client.calls, 1)
}

func TestRun_PCAPStructuredFailureIsPrinted(t *testing.T) {
	dir := t.TempDir()
	client := newFakeClient()
	client.responses["NetworkTraffic"] = vtapi.Structured(map[string]any{"response_code": 404})
	d, buf := newTestDispatcher(t, client)

	require.NoError(t, d.Run(context.Background(), PCAP{Hash: "abc", OutputDir: dir}))

	assert.Equal(t, "{\n    \"response_code\": 404\n}\n", buf.String())
	_, err := os.Stat(filepath.Join(dir, "abc.pcap"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_DownloadWritesFileThenPrintsReport(t *testing.T) {
	dir := t.TempDir()
	client := newFakeClient()
	client.responses["GetFile"] = vtapi.Bytes([]byte("MZ sample"))
	d, buf := newTestDispatcher(t, client)

	require.NoError(t, d.Run(context.Background(), Download{Hash: "abc", OutputDir: dir}))

	data, err := os.ReadFile(filepath.Join(dir, "abc"))
	require.NoError(t, err)
	assert.Equal(t, "MZ sample", string(data))

	require.Len(t, client.calls, 2)
	assert.Equal(t, call{method: "GetFile", args: []string{"abc"}}, client.calls[0])
	assert.Equal(t, call{method: "FileReport", args: []string{"abc"}}, client.calls[1])
	assert.Contains(t, buf.String(), `"method": "FileReport"`)
}

func TestRun_DownloadFailureSkipsReport(t *testing.T) {
	dir := t.TempDir()
	client := newFakeClient()
	client.responses["GetFile"] = vtapi.Structured(map[string]any{"error": "You tried to perform calls to functions for which you require a Private API key."})
	d, buf := newTestDispatcher(t, client)

	require.NoError(t, d.Run(context.Background(), Download{Hash: "abc", OutputDir: dir}))

	require.Len(t, client.calls, 1)
	assert.Contains(t, buf.String(), "Private API key")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_ClientErrorPropagates(t *testing.T) {
	client := newFakeClient()
	client.err = errors.New("boom")
	d, buf := newTestDispatcher(t, client)

	err := d.Run(context.Background(), IPReport{IP: "1.2.3.4"})
	assert.EqualError(t, err, "boom")
	assert.Empty(t, buf.String())
}

func TestRun_UnexpectedBytes(t *testing.T) {
	client := newFakeClient()
	client.responses["DomainReport"] = vtapi.Bytes([]byte("??"))
	d, _ := newTestDispatcher(t, client)

	err := d.Run(context.Background(), DomainReport{Domain: "example.com"})
	assert.Error(t, err)
}

func TestRun_TableFormatter(t *testing.T) {
	client := newFakeClient()
	client.responses["FileReport"] = vtapi.Structured(map[string]any{
		"results": map[string]any{
			"response_code": 1, "resource": "abc", "positives": 1, "total": 2,
			"scans": map[string]any{"EngineA": map[string]any{"detected": true, "result": "Trojan.X"}},
		},
	})
	var buf bytes.Buffer
	d := New(client, Options{Formatter: &output.TableFormatter{}, Stdout: &buf})

	require.NoError(t, d.Run(context.Background(), FileReport{Hashes: []string{"abc"}}))
	assert.Contains(t, buf.String(), "SUSPICIOUS")
	assert.Contains(t, buf.String(), "Trojan.X")
}

func TestNew_Defaults(t *testing.T) {
	d := New(newFakeClient(), Options{})
	assert.IsType(t, &output.JSONFormatter{}, d.formatter)
	assert.Equal(t, os.Stdout, d.stdout)
	assert.NotNil(t, d.logger)
}

func TestCommandNames(t *testing.T) {
	names := []string{}
	for _, cmd := range []Command{
		FileScan{}, Rescan{}, FileReport{}, Behaviour{}, PCAP{}, Search{},
		Download{}, URLScan{}, URLReport{}, IPReport{}, DomainReport{},
	} {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, "file-scan rescan file-report behaviour pcap search download url-scan url-report ip-report domain-report", strings.Join(names, " "))
}
