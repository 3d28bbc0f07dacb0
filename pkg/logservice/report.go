package logservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Well-known keys inside a conversation report.
const (
	KeySummary        = "summary"
	KeyAssessment     = "assessment"
	KeyPatientInfo    = "patient_info"
	KeyAppointments   = "appointments"
	KeyPatientReports = "patientReports"
	KeyPrescriptions  = "prescriptions"
	KeyMatches        = "matches"
)

// Report is the open-ended report object of a conversation. Keys this
// package does not know about are preserved across read-modify-write.
type Report map[string]any

// UnmarshalJSON accepts the object form and the legacy plain-string form,
// which is kept as the summary.
func (r *Report) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = Report{KeySummary: s}
		return nil
	}

	m := map[string]any{}
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	*r = m
	return nil
}

// Clone returns a shallow copy; nested values are shared.
func (r Report) Clone() Report {
	out := make(Report, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value at key when it is a string.
func (r Report) String(key string) string {
	s, _ := r[key].(string)
	return s
}

type PatientInfo struct {
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// PatientInfo reads report.patient_info, tolerating numeric strings for age.
func (r Report) PatientInfo() PatientInfo {
	raw, ok := r[KeyPatientInfo].(map[string]any)
	if !ok {
		return PatientInfo{}
	}

	info := PatientInfo{}
	switch v := raw["age"].(type) {
	case float64:
		info.Age = int(v)
	case int:
		info.Age = v
	case json.Number:
		n, _ := v.Int64()
		info.Age = int(n)
	case string:
		info.Age, _ = strconv.Atoi(strings.TrimSpace(v))
	}
	info.Gender, _ = raw["gender"].(string)
	return info
}

// SetPatientInfo merges age and gender into report.patient_info, keeping any
// other keys already there.
func (r Report) SetPatientInfo(age int, gender string) {
	merged := map[string]any{}
	if existing, ok := r[KeyPatientInfo].(map[string]any); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	merged["age"] = age
	merged["gender"] = gender
	r[KeyPatientInfo] = merged
}

// Append adds v to the array stored at key, creating it when missing. A
// non-array value at key is replaced.
func (r Report) Append(key string, v any) {
	existing, _ := r[key].([]any)
	next := make([]any, 0, len(existing)+1)
	next = append(next, existing...)
	r[key] = append(next, v)
}

// ReportList decodes the array at key into []T. A missing key yields nil.
func ReportList[T any](r Report, key string) ([]T, error) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return nil, nil
	}
	if _, isList := raw.([]any); !isList {
		if _, isTyped := raw.([]T); !isTyped {
			return nil, fmt.Errorf("report.%s is not a list", key)
		}
	}
	return convert[[]T](raw, key)
}

// ReportMap decodes the object at key into map[string]T.
func ReportMap[T any](r Report, key string) (map[string]T, error) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return nil, nil
	}
	return convert[map[string]T](raw, key)
}

func convert[T any](raw any, key string) (T, error) {
	var out T
	b, err := json.Marshal(raw)
	if err != nil {
		return out, fmt.Errorf("report.%s: %w", key, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("report.%s: %w", key, err)
	}
	return out, nil
}
