package types

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Verdict summarizes how many engines flagged a resource.
type Verdict string

const (
	VerdictMalicious  Verdict = "MALICIOUS"
	VerdictSuspicious Verdict = "SUSPICIOUS"
	VerdictClean      Verdict = "CLEAN"
	VerdictUnknown    Verdict = "UNKNOWN"
)

// MaliciousThreshold is the number of positives at which a resource is
// considered malicious rather than suspicious.
const MaliciousThreshold = 5

// VerdictRank returns a numeric rank for sorting (lower = more severe).
func VerdictRank(v Verdict) int {
	switch v {
	case VerdictMalicious:
		return 0
	case VerdictSuspicious:
		return 1
	case VerdictClean:
		return 2
	case VerdictUnknown:
		return 3
	default:
		return 4
	}
}

// Detection is a single antivirus engine's result for a resource.
type Detection struct {
	Engine   string `json:"engine"`
	Detected bool   `json:"detected"`
	Result   string `json:"result,omitempty"`
	Version  string `json:"version,omitempty"`
	Update   string `json:"update,omitempty"`
}

// ScanReport is the engine breakdown for one file or URL.
type ScanReport struct {
	Resource   string      `json:"resource"`
	Found      bool        `json:"found"`
	Message    string      `json:"message,omitempty"`
	ScanDate   string      `json:"scan_date,omitempty"`
	Permalink  string      `json:"permalink,omitempty"`
	Positives  int         `json:"positives"`
	Total      int         `json:"total"`
	Detections []Detection `json:"detections,omitempty"`
}

// Verdict classifies the report by its positives count.
func (r ScanReport) Verdict() Verdict {
	switch {
	case !r.Found:
		return VerdictUnknown
	case r.Positives >= MaliciousThreshold:
		return VerdictMalicious
	case r.Positives > 0:
		return VerdictSuspicious
	default:
		return VerdictClean
	}
}

// Flagged returns only the engines that detected the resource.
func (r ScanReport) Flagged() []Detection {
	var out []Detection
	for _, d := range r.Detections {
		if d.Detected {
			out = append(out, d)
		}
	}
	return out
}

// ParseReports extracts file/URL scan reports from a decoded API value.
// It accepts the client's {"results": ...} envelope or the bare payload,
// where the payload is a single report object or an array of them (batch
// queries). Values that are not scan reports yield nil.
func ParseReports(v any) []ScanReport {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["results"]; ok {
			v = inner
		}
	}

	var objs []map[string]any
	switch val := v.(type) {
	case map[string]any:
		objs = append(objs, val)
	case []any:
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				objs = append(objs, m)
			}
		}
	}

	var reports []ScanReport
	for _, obj := range objs {
		if r, ok := parseReport(obj); ok {
			reports = append(reports, r)
		}
	}
	return reports
}

func parseReport(obj map[string]any) (ScanReport, bool) {
	_, hasResource := obj["resource"]
	scans, hasScans := obj["scans"].(map[string]any)
	if !hasResource && !hasScans {
		return ScanReport{}, false
	}

	r := ScanReport{
		Resource:  stringField(obj, "resource"),
		Message:   stringField(obj, "verbose_msg"),
		ScanDate:  stringField(obj, "scan_date"),
		Permalink: stringField(obj, "permalink"),
		Positives: intField(obj, "positives"),
		Total:     intField(obj, "total"),
		Found:     intField(obj, "response_code") == 1 || hasScans,
	}
	if r.Resource == "" {
		r.Resource = stringField(obj, "url")
	}

	for engine, raw := range scans {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		detected, _ := entry["detected"].(bool)
		r.Detections = append(r.Detections, Detection{
			Engine:   engine,
			Detected: detected,
			Result:   stringField(entry, "result"),
			Version:  stringField(entry, "version"),
			Update:   stringField(entry, "update"),
		})
	}

	// Detected engines first, then alphabetical.
	sort.Slice(r.Detections, func(i, j int) bool {
		a, b := r.Detections[i], r.Detections[j]
		if a.Detected != b.Detected {
			return a.Detected
		}
		return a.Engine < b.Engine
	})

	return r, true
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
