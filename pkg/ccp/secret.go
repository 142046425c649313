package ccp

import (
	"encoding/json"
	"strconv"
	"time"
)

// Secret is one retrieved account record. Content holds the secret value
// itself; the remaining typed fields are the account properties CCP models
// explicitly. Anything else the service returns lands in AdditionalFields so
// new server-side properties survive a decode/encode round trip.
type Secret struct {
	Content        string
	UserName       string
	Address        string
	Database       string
	PlatformID     string
	Safe           string
	Folder         string
	Name           string
	PolicyID       string
	LastChange     string // Unix seconds, as served
	NextChange     string // Unix seconds, as served
	CreationMethod string

	// AdditionalFields preserves response properties not modeled above.
	AdditionalFields map[string]interface{}
}

// knownFields maps response keys to the typed fields above.
func (s *Secret) knownFields() map[string]*string {
	return map[string]*string{
		"Content":        &s.Content,
		"UserName":       &s.UserName,
		"Address":        &s.Address,
		"Database":       &s.Database,
		"PlatformID":     &s.PlatformID,
		"Safe":           &s.Safe,
		"Folder":         &s.Folder,
		"Name":           &s.Name,
		"PolicyID":       &s.PolicyID,
		"LastChange":     &s.LastChange,
		"NextChange":     &s.NextChange,
		"CreationMethod": &s.CreationMethod,
	}
}

// UnmarshalJSON decodes the typed fields and keeps every other key in
// AdditionalFields. A known key whose value is not a string (CCP serves
// strings throughout) is preserved in AdditionalFields rather than rejected.
func (s *Secret) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := s.knownFields()
	for key, value := range raw {
		if target, ok := known[key]; ok {
			var str string
			if err := json.Unmarshal(value, &str); err == nil {
				*target = str
				continue
			}
		}
		var v interface{}
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		if s.AdditionalFields == nil {
			s.AdditionalFields = make(map[string]interface{})
		}
		s.AdditionalFields[key] = v
	}
	return nil
}

// MarshalJSON re-merges AdditionalFields with the typed fields so a decoded
// secret re-serializes with everything the service sent. Typed fields that
// are empty are omitted, mirroring how CCP omits absent properties.
func (s Secret) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.AdditionalFields)+12)
	for k, v := range s.AdditionalFields {
		out[k] = v
	}
	for key, value := range map[string]string{
		"Content":        s.Content,
		"UserName":       s.UserName,
		"Address":        s.Address,
		"Database":       s.Database,
		"PlatformID":     s.PlatformID,
		"Safe":           s.Safe,
		"Folder":         s.Folder,
		"Name":           s.Name,
		"PolicyID":       s.PolicyID,
		"LastChange":     s.LastChange,
		"NextChange":     s.NextChange,
		"CreationMethod": s.CreationMethod,
	} {
		if value != "" {
			out[key] = value
		}
	}
	return json.Marshal(out)
}

// LastChangeTime parses LastChange as Unix seconds. The bool is false when
// the field is absent or not numeric.
func (s Secret) LastChangeTime() (time.Time, bool) {
	return parseUnixSeconds(s.LastChange)
}

// NextChangeTime parses NextChange as Unix seconds. The bool is false when
// the field is absent or not numeric.
func (s Secret) NextChangeTime() (time.Time, bool) {
	return parseUnixSeconds(s.NextChange)
}

func parseUnixSeconds(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}
