package signer

import "time"

// SigningTime is a UTC timestamp with both SigV4 renderings precomputed.
// It is immutable and safe to pass by value.
type SigningTime struct {
	time.Time
	timeFormat      string
	shortTimeFormat string
}

// NewSigningTime creates a new SigningTime from a time.Time.
// The time is converted to UTC and truncated to whole seconds, which is the
// precision X-Amz-Date carries.
func NewSigningTime(t time.Time) SigningTime {
	u := t.UTC().Truncate(time.Second)
	return SigningTime{
		Time:            u,
		timeFormat:      u.Format(TimeFormat),
		shortTimeFormat: u.Format(ShortTimeFormat),
	}
}

// ParseSigningTime parses an X-Amz-Date value.
func ParseSigningTime(s string) (SigningTime, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return SigningTime{}, err
	}
	return NewSigningTime(t), nil
}

// TimeFormat returns the time formatted for X-Amz-Date.
// Format: YYYYMMDDTHHMMSSZ (e.g., 20231201T120000Z)
func (st SigningTime) TimeFormat() string {
	if st.timeFormat == "" {
		return st.Time.UTC().Format(TimeFormat)
	}
	return st.timeFormat
}

// ShortTimeFormat returns the time formatted for credential scope.
// Format: YYYYMMDD (e.g., 20231201)
func (st SigningTime) ShortTimeFormat() string {
	if st.shortTimeFormat == "" {
		return st.Time.UTC().Format(ShortTimeFormat)
	}
	return st.shortTimeFormat
}
