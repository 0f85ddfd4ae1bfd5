package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// MaxEpochMillis is 9999-12-31T23:59:59.999Z, the latest instant a header may carry
const MaxEpochMillis int64 = 253402300799999

// EpochMillis is a UTC instant encoded as milliseconds since the Unix epoch.
type EpochMillis int64

// MarshalJSON implements json.Marshaler interface
func (m EpochMillis) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(m), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (m *EpochMillis) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("invalid epoch millis: empty value")
	}

	millis, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		// some issuers serialise whole numbers in exponent form
		f, ferr := strconv.ParseFloat(string(b), 64)
		if ferr != nil || f != float64(int64(f)) {
			return fmt.Errorf("invalid epoch millis: %s", b)
		}
		millis = int64(f)
	}

	if millis < 0 || millis > MaxEpochMillis {
		return fmt.Errorf("epoch millis out of range: %d", millis)
	}

	*m = EpochMillis(millis)
	return nil
}
