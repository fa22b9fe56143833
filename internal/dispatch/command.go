// Package dispatch maps a parsed command to exactly one VirusTotal API call
// and renders the result: structured values are printed through a
// formatter, binary payloads are written to disk.
package dispatch

// Command is one of the closed set of CLI commands. Only types in this
// package implement it.
type Command interface {
	// Name returns the CLI verb.
	Name() string
	command()
}

// FileScan submits a local file for scanning.
type FileScan struct {
	Path string
}

// Rescan re-analyses previously uploaded samples.
type Rescan struct {
	Hashes []string
}

// FileReport fetches scan reports for samples.
type FileReport struct {
	Hashes []string
}

// Behaviour fetches the sandbox behaviour report of a sample.
type Behaviour struct {
	Hash string
}

// PCAP saves the network traffic a sample generated in the sandbox as
// <OutputDir>/<Hash>.pcap.
type PCAP struct {
	Hash      string
	OutputDir string
}

// Search runs a file search query. Only the first page of results is
// printed; there is no pagination.
type Search struct {
	Query string
}

// Download saves a sample as <OutputDir>/<Hash> and then prints its report.
type Download struct {
	Hash      string
	OutputDir string
}

// URLScan submits URLs for scanning.
type URLScan struct {
	URLs []string
}

// URLReport fetches scan reports for URLs.
type URLReport struct {
	URLs []string
	Scan bool
}

// IPReport fetches reputation data for an IPv4 address.
type IPReport struct {
	IP string
}

// DomainReport fetches reputation data for a domain.
type DomainReport struct {
	Domain string
}

func (FileScan) Name() string     { return "file-scan" }
func (Rescan) Name() string       { return "rescan" }
func (FileReport) Name() string   { return "file-report" }
func (Behaviour) Name() string    { return "behaviour" }
func (PCAP) Name() string         { return "pcap" }
func (Search) Name() string       { return "search" }
func (Download) Name() string     { return "download" }
func (URLScan) Name() string      { return "url-scan" }
func (URLReport) Name() string    { return "url-report" }
func (IPReport) Name() string     { return "ip-report" }
func (DomainReport) Name() string { return "domain-report" }

func (FileScan) command()     {}
func (Rescan) command()       {}
func (FileReport) command()   {}
func (Behaviour) command()    {}
func (PCAP) command()         {}
func (Search) command()       {}
func (Download) command()     {}
func (URLScan) command()      {}
func (URLReport) command()    {}
func (IPReport) command()     {}
func (DomainReport) command() {}
