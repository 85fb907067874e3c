// Package normalize turns loosely typed document-store values into the plain
// Go values the report code compares and sums.
package normalize

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateValuer is implemented by wrapper values that know how to convert
// themselves to a native time. ToDate checks it before anything else.
type DateValuer interface {
	ToDate() (time.Time, bool)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToDate normalizes v to a UTC time. The boolean is false when v is absent
// or cannot be interpreted as a point in time.
func ToDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false

	case DateValuer:
		return x.ToDate()

	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.UTC(), true

	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return ToDate(*x)

	case primitive.DateTime:
		return x.Time().UTC(), true

	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC(), true

	case string:
		return parseDateString(x)

	case int64:
		return time.UnixMilli(x).UTC(), true

	case int32:
		return time.UnixMilli(int64(x)).UTC(), true

	case int:
		return time.UnixMilli(int64(x)).UTC(), true

	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(x)).UTC(), true

	case primitive.D:
		return secondsDocument(x.Map())

	case primitive.M:
		return secondsDocument(x)

	case map[string]any:
		return secondsDocument(x)
	}

	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// secondsDocument handles exported timestamp wrappers such as
// {"_seconds": 1706745600, "_nanoseconds": 0}.
func secondsDocument(m map[string]any) (time.Time, bool) {
	secKey, nanoKey := "seconds", "nanoseconds"
	if _, ok := m["_seconds"]; ok {
		secKey, nanoKey = "_seconds", "_nanoseconds"
	}

	secs, ok := toInt64(m[secKey])
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := toInt64(m[nanoKey])

	return time.Unix(secs, nanos).UTC(), true
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int:
		return int64(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

// Date is a document field holding any of the representations ToDate
// understands. The zero Date is absent.
type Date struct {
	t  time.Time
	ok bool
}

func NewDate(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{t: t.UTC(), ok: true}
}

func (d Date) ToDate() (time.Time, bool) {
	return d.t, d.ok
}

func (d Date) IsZero() bool {
	return !d.ok
}

// UnmarshalBSONValue never fails: a value that is not a date decodes as absent.
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*d = Date{}

	var v any
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&v); err != nil {
		return nil
	}

	if tm, ok := ToDate(v); ok {
		*d = Date{t: tm, ok: true}
	}
	return nil
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !d.ok {
		return bson.MarshalValue(nil)
	}
	return bson.MarshalValue(primitive.NewDateTimeFromTime(d.t))
}
