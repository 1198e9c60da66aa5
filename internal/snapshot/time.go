package snapshot

import (
	"fmt"
	"time"
)

// fileTimeEpochDiffNs is the number of 100ns intervals between the
// Windows FILETIME epoch (1601-01-01) and the UNIX epoch (1970-01-01).
const fileTimeEpochDiffNs = 116444736000000000

// FileTimeToUnix converts a Windows FILETIME (100ns intervals since
// 1601-01-01) to UNIX seconds. The sentinel value 0 ("never") maps to 0
// rather than a negative/huge timestamp.
func FileTimeToUnix(t int64) int64 {
	if t == 0 {
		return 0
	}
	return (t - fileTimeEpochDiffNs) / 10000000
}

// systemTime mirrors the Windows SYSTEMTIME struct read out of a UTCTime
// attribute value: 8 little-endian u16 fields.
type systemTime struct {
	year, month, dayOfWeek, day, hour, minute, second, milliseconds uint16
}

func (c *cursor) readSystemTime() (systemTime, error) {
	var st systemTime
	fields := []*uint16{&st.year, &st.month, &st.dayOfWeek, &st.day, &st.hour, &st.minute, &st.second, &st.milliseconds}
	for _, f := range fields {
		v, err := c.readU16()
		if err != nil {
			return systemTime{}, err
		}
		*f = v
	}
	return st, nil
}

// toUnixSeconds converts the SYSTEMTIME to UNIX seconds, failing with
// MalformedInput on a calendrically invalid date.
func (st systemTime) toUnixSeconds() (int64, error) {
	if st.month < 1 || st.month > 12 {
		return 0, wrapMalformed("utc_time", map[string]any{"month": st.month}, fmt.Errorf("invalid month"))
	}
	if st.day < 1 || st.day > 31 {
		return 0, wrapMalformed("utc_time", map[string]any{"day": st.day}, fmt.Errorf("invalid day"))
	}
	if st.hour > 23 || st.minute > 59 || st.second > 60 {
		return 0, wrapMalformed("utc_time", map[string]any{"hour": st.hour, "minute": st.minute, "second": st.second}, fmt.Errorf("invalid time of day"))
	}

	t := time.Date(int(st.year), time.Month(st.month), int(st.day), int(st.hour), int(st.minute), int(st.second), 0, time.UTC)
	if t.Day() != int(st.day) || t.Month() != time.Month(st.month) || t.Year() != int(st.year) {
		return 0, wrapMalformed("utc_time", map[string]any{"year": st.year, "month": st.month, "day": st.day}, fmt.Errorf("date does not exist"))
	}
	return t.Unix(), nil
}
