package rowcodec

import (
	"errors"
	"time"
)

// DateLength is the fixed width of an encoded DATE value.
const DateLength = 7

var errBadDate = errors.New("malformed DATE bytes")

// DecodeDate decodes the fixed 7-byte DATE form: century and
// year-in-century biased by 100, then month, day, and hour, minute,
// second each biased by one.
func DecodeDate(b []byte) (time.Time, error) {
	if len(b) != DateLength {
		return time.Time{}, errBadDate
	}
	century := int(b[0]) - 100
	yearInCentury := int(b[1]) - 100
	month := int(b[2])
	day := int(b[3])
	hour := int(b[4]) - 1
	minute := int(b[5]) - 1
	second := int(b[6]) - 1

	if century < 0 || yearInCentury < 0 || yearInCentury > 99 ||
		month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, errBadDate
	}

	year := century*100 + yearInCentury
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes out-of-range days (e.g. Feb 30); reject those.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, errBadDate
	}
	return t, nil
}
