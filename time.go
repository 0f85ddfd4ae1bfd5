package queuetoken

import (
	"time"

	"github.com/cybergodev/queuetoken/internal/core"
)

// MaxDate is the "no expiry" sentinel, 9999-12-31T23:59:59.999Z. Tokens that
// expire at MaxDate carry no "exp" key.
var MaxDate = time.UnixMilli(core.MaxEpochMillis).UTC()

// truncateMillis normalises t to UTC at millisecond precision, the
// resolution of the wire format.
func truncateMillis(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Millisecond)
}

func fromEpochMillis(m core.EpochMillis) time.Time {
	return time.UnixMilli(int64(m)).UTC()
}

func toEpochMillis(field string, t time.Time) (core.EpochMillis, error) {
	millis := t.UnixMilli()
	if millis < 0 || millis > core.MaxEpochMillis {
		return 0, &ArgumentError{
			Field:   field,
			Message: "outside the range 1970-01-01 to 9999-12-31: " + t.Format(time.RFC3339Nano),
		}
	}
	return core.EpochMillis(millis), nil
}

// expiresToWire maps MaxDate and the zero time to an absent "exp" key.
func expiresToWire(t time.Time) (*core.EpochMillis, error) {
	if t.IsZero() || t.Equal(MaxDate) {
		return nil, nil
	}

	millis, err := toEpochMillis("expires", t)
	if err != nil {
		return nil, err
	}
	return &millis, nil
}

func expiresFromWire(m *core.EpochMillis) time.Time {
	if m == nil {
		return MaxDate
	}
	return fromEpochMillis(*m)
}
