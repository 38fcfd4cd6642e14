package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var jsonNull = []byte("null")

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

// decodeField casts raw into out; JSON null leaves out at its zero value.
func decodeField(entity, field string, raw json.RawMessage, out any) error {
	if isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return ValidationError(entity, field, fmt.Sprintf("Cast failed for value %s", string(raw)))
	}
	return nil
}

// BuildLeadPatch maps an update body onto the known lead fields. Unknown keys
// and read-only keys (id, timestamps) are ignored; a value of the wrong JSON
// type is a validation error.
func BuildLeadPatch(body map[string]json.RawMessage) (LeadPatch, error) {
	var p LeadPatch
	str := func(field string) (*string, error) {
		raw, ok := body[field]
		if !ok {
			return nil, nil
		}
		var s string
		if err := decodeField("Lead", field, raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}
	var err error
	if p.Name, err = str("name"); err != nil {
		return p, err
	}
	if p.Email, err = str("email"); err != nil {
		return p, err
	}
	if p.Phone, err = str("phone"); err != nil {
		return p, err
	}
	if p.Interest, err = str("interest"); err != nil {
		return p, err
	}
	if p.Notes, err = str("notes"); err != nil {
		return p, err
	}
	src, err := str("source")
	if err != nil {
		return p, err
	}
	if src != nil {
		v := LeadSource(*src)
		p.Source = &v
	}
	st, err := str("status")
	if err != nil {
		return p, err
	}
	if st != nil {
		v := LeadStatus(*st)
		p.Status = &v
	}
	return p, nil
}

// BuildCampaignPatch maps an update body onto the known campaign fields.
// "status" is accepted here as well as through the action endpoints.
// "scheduledDate": null clears the date.
func BuildCampaignPatch(body map[string]json.RawMessage) (CampaignPatch, error) {
	var p CampaignPatch
	str := func(field string) (*string, error) {
		raw, ok := body[field]
		if !ok {
			return nil, nil
		}
		var s string
		if err := decodeField("Campaign", field, raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}
	var err error
	if p.Name, err = str("name"); err != nil {
		return p, err
	}
	if p.Subject, err = str("subject"); err != nil {
		return p, err
	}
	if p.Content, err = str("content"); err != nil {
		return p, err
	}
	typ, err := str("type")
	if err != nil {
		return p, err
	}
	if typ != nil {
		v := CampaignType(*typ)
		p.Type = &v
	}
	st, err := str("status")
	if err != nil {
		return p, err
	}
	if st != nil {
		v := CampaignStatus(*st)
		p.Status = &v
	}
	if raw, ok := body["scheduledDate"]; ok {
		t, err := DecodeOptionalTime("Campaign", "scheduledDate", raw)
		if err != nil {
			return p, err
		}
		p.ScheduledDate = &t
	}
	return p, nil
}

// DecodeOptionalTime reads a JSON string timestamp; null or "" yields nil.
func DecodeOptionalTime(entity, field string, raw json.RawMessage) (*time.Time, error) {
	if len(raw) == 0 || isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ValidationError(entity, field, fmt.Sprintf("Cast to date failed for value %s", string(raw)))
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, _, err := ParseTime(s)
	if err != nil {
		return nil, ValidationError(entity, field, fmt.Sprintf("Cast to date failed for value %q", s))
	}
	return &t, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTime accepts RFC3339 timestamps or a bare YYYY-MM-DD date (UTC midnight).
// dateOnly reports whether the input was a bare date.
func ParseTime(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d.UTC(), true, nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v.UTC(), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q", s)
}
