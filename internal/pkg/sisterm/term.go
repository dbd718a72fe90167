// Package sisterm normalizes academic-term records coming from the student
// information system. The upstream feed is inconsistent: the active flag and
// the term id each appear under several key names depending on which export
// produced the record. All alias handling lives here, at the ingestion
// boundary, so the rest of the service only ever sees the canonical Term.
package sisterm

import (
	"sort"
	"strconv"
	"time"
)

// Term is the canonical shape of an academic term after normalization.
type Term struct {
	ID        string
	Name      string
	StartDate time.Time
	Active    bool
}

// Alias tables for the known upstream shapes. For ids, names and start
// dates, order matters: earlier keys win when a record carries more than
// one. Status aliases are combined instead; see activeField.
var (
	statusStringKeys = []string{"term_status", "status"}
	statusBoolKeys   = []string{"is_active", "active"}
	idKeys           = []string{"term_id", "id"}
	nameKeys         = []string{"term_name", "name"}
	startKeys        = []string{"start_date", "startDate", "start"}
)

// Date layouts the feed has been observed to use.
var startLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

func stringField(raw map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			// JSON numbers decode as float64; ids are integral in practice.
			return strconv.FormatInt(int64(v), 10), true
		case int:
			return strconv.Itoa(v), true
		case int64:
			return strconv.FormatInt(v, 10), true
		}
	}
	return "", false
}

// activeField reports whether any status alias marks the record active.
// Contradictory records (a closed status next to a true bool flag) count as
// active: different exports disagree about the same term, and the generous
// reading keeps it selectable.
func activeField(raw map[string]any) bool {
	for _, k := range statusStringKeys {
		if v, ok := raw[k].(string); ok && v == "ACTIVE" {
			return true
		}
	}
	for _, k := range statusBoolKeys {
		if v, ok := raw[k].(bool); ok && v {
			return true
		}
	}
	return false
}

func startField(raw map[string]any) time.Time {
	s, ok := stringField(raw, startKeys)
	if !ok {
		return time.Time{}
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Normalize maps one raw feed record onto the canonical Term. It never
// fails; ok is false only when the record carries no usable id, in which
// case the record cannot be referenced and is skipped by callers.
func Normalize(raw map[string]any) (Term, bool) {
	if raw == nil {
		return Term{}, false
	}
	id, ok := stringField(raw, idKeys)
	if !ok {
		return Term{}, false
	}
	name, _ := stringField(raw, nameKeys)
	return Term{
		ID:        id,
		Name:      name,
		StartDate: startField(raw),
		Active:    activeField(raw),
	}, true
}

// PickDefault selects the default term id from a raw feed: the first record
// flagged active in list order, otherwise the record with the most recent
// start date (a missing date sorts oldest). Returns "" when no record yields
// a usable id. The caller's slice is never reordered.
func PickDefault(raws []map[string]any) string {
	if len(raws) == 0 {
		return ""
	}

	terms := make([]Term, 0, len(raws))
	for _, raw := range raws {
		if t, ok := Normalize(raw); ok {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return ""
	}

	for _, t := range terms {
		if t.Active {
			return t.ID
		}
	}

	sorted := make([]Term, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.After(sorted[j].StartDate)
	})
	return sorted[0].ID
}
