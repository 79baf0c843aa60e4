// Package analyze infers structured report metadata from document text by
// sending it to a hosted language model and parsing the JSON reply.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/audit-miner/pkg/types"
)

// AIBackend abstracts the model API so tests can supply a mock. Analyze
// sends the document text and returns the model's raw reply text.
type AIBackend interface {
	Analyze(ctx context.Context, docText string) (string, error)
}

// Analyze infers the five metadata fields for one document. Empty text
// short-circuits to the sentinel tuple without calling the backend. Backend
// and parse failures also yield the sentinel tuple; the returned error then
// records why, so callers can count the degradation without unrolling it.
func Analyze(ctx context.Context, backend AIBackend, docText string) (types.ReportMetadata, error) {
	if docText == "" {
		return types.DefaultMetadata(), nil
	}

	reply, err := backend.Analyze(ctx, docText)
	if err != nil {
		return types.DefaultMetadata(), fmt.Errorf("model call: %w", err)
	}

	md, ok := ParseReply(reply)
	if !ok {
		return types.DefaultMetadata(), fmt.Errorf("no JSON object in model reply")
	}
	return md, nil
}

// rawMetadata mirrors the JSON object the model is instructed to return.
// Pointer fields distinguish missing keys from present-but-empty values.
type rawMetadata struct {
	State              *string `json:"state"`
	Location           *string `json:"location"`
	Department         *string `json:"department"`
	AuditConductedYear *string `json:"audit_conducted_year"`
	FinancialYear      *string `json:"financial_year"`
}

// ParseReply decodes a model reply into ReportMetadata. It first attempts a
// strict decode of the whole reply, then falls back to the first
// brace-delimited window for replies that wrap the object in prose. The
// boolean is false when neither attempt yields a JSON object; the metadata
// is then the sentinel tuple.
func ParseReply(reply string) (types.ReportMetadata, bool) {
	var raw rawMetadata
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		window, ok := extractJSONObject(reply)
		if !ok {
			return types.DefaultMetadata(), false
		}
		if err := json.Unmarshal([]byte(window), &raw); err != nil {
			return types.DefaultMetadata(), false
		}
	}

	return types.ReportMetadata{
		State:              fieldOr(raw.State, types.Unknown),
		Location:           CleanLocation(fieldOr(raw.Location, types.Unknown)),
		Department:         fieldOr(raw.Department, types.UnknownDepartment),
		AuditConductedYear: fieldOr(raw.AuditConductedYear, types.Unknown),
		FinancialYear:      fieldOr(raw.FinancialYear, types.Unknown),
	}, true
}

// extractJSONObject returns the substring from the first '{' to the last
// '}' of s, mirroring the greedy brace match of the original parser.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// fieldOr returns the trimmed field value, or def when the key was missing
// or its value blank.
func fieldOr(v *string, def string) string {
	if v == nil {
		return def
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return def
	}
	return t
}

// roadwayPattern matches a roadway keyword and everything after it, so
// "MG Road Extension" reduces to "MG".
var roadwayPattern = regexp.MustCompile(`(?i)\b(highway|road|street|main|lane)\b.*`)

// CleanLocation reduces a full address to a town/city name. A value with
// commas keeps only the text after the last comma; otherwise any trailing
// roadway clause is stripped.
func CleanLocation(location string) string {
	if location == "" {
		return ""
	}
	if strings.Contains(location, ",") {
		parts := strings.Split(location, ",")
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return strings.TrimSpace(roadwayPattern.ReplaceAllString(location, ""))
}
