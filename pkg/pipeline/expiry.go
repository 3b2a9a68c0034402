package pipeline

import "time"

// expiryInputLayout matches the datetime-local form value the staging
// surface collects (minute precision, no zone).
const expiryInputLayout = "2006-01-02T15:04"

// NormalizeExpiry converts a local expiry value into an absolute RFC3339
// timestamp. Empty or unparsable input normalizes to "", which the
// validation step rejects before any network call.
func NormalizeExpiry(value string) string {
	if value == "" {
		return ""
	}
	t, err := time.ParseInLocation(expiryInputLayout, value, time.Local)
	if err != nil {
		// Accept values that already carry a zone.
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return ""
		}
	}
	return t.UTC().Format(time.RFC3339)
}
