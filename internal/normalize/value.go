package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToAmount converts a stored monetary value to a decimal. Missing and
// non-numeric values count as zero.
func ToAmount(v any) decimal.Decimal {
	switch x := v.(type) {
	case Amount:
		return x.Decimal
	case decimal.Decimal:
		return x
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case primitive.Decimal128:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return d
		}
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// Amount is a document field holding a number or a numeric string.
type Amount struct {
	decimal.Decimal
}

func AmountFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	a.Decimal = decimal.Zero

	var v any
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&v); err != nil {
		return nil
	}
	a.Decimal = ToAmount(v)
	return nil
}

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	f, _ := a.Float64()
	return bson.MarshalValue(f)
}

// ToText renders identifiers and labels that may be stored as strings,
// ObjectIDs or numbers.
func ToText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case Text:
		return string(x)
	case primitive.ObjectID:
		return x.Hex()
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// Text is a string field that tolerates ObjectIDs, numbers and nulls.
type Text string

func (s Text) String() string {
	return string(s)
}

func (s *Text) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*s = ""

	var v any
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&v); err != nil {
		return nil
	}
	*s = Text(ToText(v))
	return nil
}

func (s Text) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(s))
}

// ToFlag reads a stored boolean. Strings such as "true" or "0" and numbers
// are accepted; ok is false when the value is missing or unreadable.
func ToFlag(v any) (value bool, ok bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case Flag:
		return x.value, x.ok
	case int32:
		return x != 0, true
	case int64:
		return x != 0, true
	case int:
		return x != 0, true
	case float64:
		return x != 0, true
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
			return b, true
		}
	}
	return false, false
}

// Flag is an optional boolean field. A missing or unreadable value is
// reported as unset rather than failing the document decode.
type Flag struct {
	value bool
	ok    bool
}

func NewFlag(b bool) Flag {
	return Flag{value: b, ok: true}
}

// Get returns the stored value and whether one was present.
func (f Flag) Get() (bool, bool) {
	return f.value, f.ok
}

func (f *Flag) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*f = Flag{}

	var v any
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&v); err != nil {
		return nil
	}
	f.value, f.ok = ToFlag(v)
	return nil
}

func (f Flag) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !f.ok {
		return bson.MarshalValue(nil)
	}
	return bson.MarshalValue(f.value)
}
