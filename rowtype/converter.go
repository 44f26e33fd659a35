package rowtype

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Converter transforms values between a column's wire-level representation
// and a target property's in-memory representation. FromColumn adapts a
// driver-supplied value for the property; ToColumn adapts a property value
// for a statement parameter. Nil passes through both directions untouched.
type Converter interface {
	FromColumn(src any) (any, error)
	ToColumn(v any) (any, error)
}

// ObjectConverter is the last-resort generic converter: values pass through
// unchanged in both directions. Resolution that exhausts every narrower
// lookup lands here rather than failing the row.
var ObjectConverter Converter = &objectConverter{}

type objectConverter struct{}

func (objectConverter) FromColumn(src any) (any, error) { return src, nil }
func (objectConverter) ToColumn(v any) (any, error)     { return v, nil }

type stringConverter struct{}

func (stringConverter) FromColumn(src any) (any, error) {
	switch s := src.(type) {
	case nil:
		return nil, nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return fmt.Sprint(src), nil
	}
}

func (stringConverter) ToColumn(v any) (any, error) { return v, nil }

type int64Converter struct{}

func (int64Converter) FromColumn(src any) (any, error) {
	switch n := src.(type) {
	case nil:
		return nil, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("cannot convert %v to int64 without losing precision", n)
		}
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return nil, fmt.Errorf("cannot convert %T to int64", src)
	}
}

func (int64Converter) ToColumn(v any) (any, error) { return v, nil }

type float64Converter struct{}

func (float64Converter) FromColumn(src any) (any, error) {
	switch n := src.(type) {
	case nil:
		return nil, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case []byte:
		return strconv.ParseFloat(string(n), 64)
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return nil, fmt.Errorf("cannot convert %T to float64", src)
	}
}

func (float64Converter) ToColumn(v any) (any, error) { return v, nil }

type boolConverter struct{}

func (boolConverter) FromColumn(src any) (any, error) {
	switch b := src.(type) {
	case nil:
		return nil, nil
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	case []byte:
		return strconv.ParseBool(string(b))
	case string:
		return strconv.ParseBool(b)
	default:
		return nil, fmt.Errorf("cannot convert %T to bool", src)
	}
}

func (boolConverter) ToColumn(v any) (any, error) { return v, nil }

// timeLayouts are tried in order for drivers that report temporal columns as
// text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
}

type timeConverter struct{}

func (timeConverter) FromColumn(src any) (any, error) {
	var s string
	switch t := src.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return t, nil
	case []byte:
		s = string(t)
	case string:
		s = t
	default:
		return nil, fmt.Errorf("cannot convert %T to time.Time", src)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse %q as time.Time", s)
}

func (timeConverter) ToColumn(v any) (any, error) { return v, nil }

type bytesConverter struct{}

func (bytesConverter) FromColumn(src any) (any, error) {
	switch b := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to []byte", src)
	}
}

func (bytesConverter) ToColumn(v any) (any, error) { return v, nil }

// jsonConverter decodes JSON and JSONB columns into generic maps and encodes
// map or slice property values back to JSON text.
type jsonConverter struct{}

func (jsonConverter) FromColumn(src any) (any, error) {
	var raw []byte
	switch j := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		raw = j
	case string:
		raw = []byte(j)
	case map[string]any:
		return j, nil
	default:
		return nil, fmt.Errorf("cannot decode %T as json", src)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode json column: %w", err)
	}
	return out, nil
}

func (jsonConverter) ToColumn(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json parameter: %w", err)
	}
	return raw, nil
}

type uuidConverter struct{}

func (uuidConverter) FromColumn(src any) (any, error) {
	switch u := src.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return u, nil
	case [16]byte:
		return uuid.UUID(u), nil
	case []byte:
		if len(u) == 16 {
			return uuid.FromBytes(u)
		}
		return uuid.Parse(string(u))
	case string:
		return uuid.Parse(u)
	default:
		return nil, fmt.Errorf("cannot convert %T to uuid.UUID", src)
	}
}

func (uuidConverter) ToColumn(v any) (any, error) {
	if u, ok := v.(uuid.UUID); ok {
		return u.String(), nil
	}
	return v, nil
}

type ulidConverter struct{}

func (ulidConverter) FromColumn(src any) (any, error) {
	switch u := src.(type) {
	case nil:
		return nil, nil
	case ulid.ULID:
		return u, nil
	case []byte:
		if len(u) == 16 {
			var id ulid.ULID
			copy(id[:], u)
			return id, nil
		}
		return ulid.ParseStrict(strings.ToUpper(string(u)))
	case string:
		return ulid.ParseStrict(strings.ToUpper(u))
	default:
		return nil, fmt.Errorf("cannot convert %T to ulid.ULID", src)
	}
}

func (ulidConverter) ToColumn(v any) (any, error) {
	if u, ok := v.(ulid.ULID); ok {
		return u.String(), nil
	}
	return v, nil
}
