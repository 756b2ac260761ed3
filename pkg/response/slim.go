// Package response builds the JSON strings returned across the JS bridge.
//
// Record lists that only need text are sent slim: image data URIs are replaced
// by a count so large inline images are not re-serialized on every call.
package response

import (
	"encoding/json"

	"github.com/kittclouds/grudgebook/internal/store"
	"github.com/kittclouds/grudgebook/pkg/search"
)

// Error returns {"error": msg}.
func Error(msg string) string {
	return marshal(map[string]interface{}{"error": msg})
}

// Success returns {"success": msg}.
func Success(msg string) string {
	return marshal(map[string]interface{}{"success": msg})
}

// Data returns the JSON encoding of v, or an error envelope if v cannot be encoded.
func Data(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return Error("encode response: " + err.Error())
	}
	return string(b)
}

// Notice returns {"notice": text} with any extra fields merged in.
func Notice(text string, extra map[string]interface{}) string {
	out := make(map[string]interface{}, len(extra)+1)
	for k, v := range extra {
		out[k] = v
	}
	out["notice"] = text
	return marshal(out)
}

func marshal(v map[string]interface{}) string {
	b, _ := json.Marshal(v) // string-keyed maps of plain values always encode
	return string(b)
}

// SlimRecord is a record without image payloads.
type SlimRecord struct {
	ID         int64  `json:"id" yaml:"id"`
	Text       string `json:"text" yaml:"text"`
	Time       string `json:"time" yaml:"time"`
	Date       string `json:"date" yaml:"date"`
	ImageCount int    `json:"imageCount" yaml:"imageCount"`
}

// FromRecord drops the image payloads of r.
func FromRecord(r store.Record) SlimRecord {
	return SlimRecord{
		ID:         r.ID,
		Text:       r.Text,
		Time:       r.Time,
		Date:       r.Date,
		ImageCount: len(r.Images),
	}
}

// FromRecords converts a record list.
func FromRecords(records []store.Record) []SlimRecord {
	out := make([]SlimRecord, 0, len(records))
	for _, r := range records {
		out = append(out, FromRecord(r))
	}
	return out
}

// SlimHit is one search result.
type SlimHit struct {
	Record SlimRecord    `json:"record"`
	Spans  []search.Span `json:"spans"`
}

// SlimSearchResponse is the search payload for JS.
type SlimSearchResponse struct {
	Terms    []string  `json:"terms"`
	Hits     []SlimHit `json:"hits"`
	TimingUS int64     `json:"timing_us"`
}

// MarshalSlimSearch encodes search hits without image payloads.
func MarshalSlimSearch(terms []string, hits []search.Hit, timingUS int64) ([]byte, error) {
	resp := SlimSearchResponse{
		Terms:    terms,
		Hits:     make([]SlimHit, 0, len(hits)),
		TimingUS: timingUS,
	}
	if resp.Terms == nil {
		resp.Terms = []string{}
	}
	for _, h := range hits {
		resp.Hits = append(resp.Hits, SlimHit{Record: FromRecord(h.Record), Spans: h.Spans})
	}
	return json.Marshal(resp)
}
