package rowtype

import (
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ConverterSource is the registry contract the Resolver searches. Lookups
// return nil on a miss; Unknown returns the distinguished sentinel a lookup
// may also yield for a registered-but-undetermined pair, which the resolver
// treats the same as a miss. ResolveClass turns a column's reported runtime
// class name into a type; a false return is recovered, never an error.
type ConverterSource interface {
	Lookup(target reflect.Type, sqlType SQLType) Converter
	LookupType(target reflect.Type) Converter
	LookupSQL(sqlType SQLType) Converter
	Unknown() Converter
	ResolveClass(name string) (reflect.Type, bool)
}

// unknownConverter is the sentinel identity; it never converts.
type unknownConverter struct{ objectConverter }

type typeSQLKey struct {
	target  reflect.Type
	sqlType SQLType
}

// Registry is the default ConverterSource: three lookup maps mirroring the
// fallback chain's signals, plus a class-name table for resolving reported
// runtime classes. Safe for concurrent use; registration normally happens
// once at startup.
type Registry struct {
	mu          sync.RWMutex
	byTargetSQL map[typeSQLKey]Converter
	byTarget    map[reflect.Type]Converter
	bySQL       map[SQLType]Converter
	classes     map[string]reflect.Type
	unknown     Converter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byTargetSQL: make(map[typeSQLKey]Converter),
		byTarget:    make(map[reflect.Type]Converter),
		bySQL:       make(map[SQLType]Converter),
		classes:     make(map[string]reflect.Type),
		unknown:     unknownConverter{},
	}
}

// Register binds a converter to a target property type for any column type.
func (r *Registry) Register(target reflect.Type, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTarget[target] = c
}

// RegisterSQL binds a converter to a column type alone.
func (r *Registry) RegisterSQL(sqlType SQLType, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySQL[sqlType] = c
}

// RegisterTargetSQL binds a converter to an exact (target, column type) pair.
func (r *Registry) RegisterTargetSQL(target reflect.Type, sqlType SQLType, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTargetSQL[typeSQLKey{target, sqlType}] = c
}

// RegisterClass binds a reported runtime class name to its type so the
// resolver can use class-based fallback lookups.
func (r *Registry) RegisterClass(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[name] = t
}

func (r *Registry) Lookup(target reflect.Type, sqlType SQLType) Converter {
	if target == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.byTargetSQL[typeSQLKey{target, sqlType}]; ok {
		return c
	}
	return r.byTarget[target]
}

func (r *Registry) LookupType(target reflect.Type) Converter {
	if target == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byTarget[target]
}

func (r *Registry) LookupSQL(sqlType SQLType) Converter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bySQL[sqlType]
}

func (r *Registry) Unknown() Converter { return r.unknown }

func (r *Registry) ResolveClass(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.classes[name]
	return t, ok
}

var (
	stringType  = reflect.TypeOf("")
	int64Type   = reflect.TypeOf(int64(0))
	intType     = reflect.TypeOf(int(0))
	float64Type = reflect.TypeOf(float64(0))
	boolType    = reflect.TypeOf(false)
	timeType    = reflect.TypeOf(time.Time{})
	bytesType   = reflect.TypeOf([]byte(nil))
	mapType     = reflect.TypeOf(map[string]any(nil))
	uuidType    = reflect.TypeOf(uuid.UUID{})
	ulidType    = reflect.TypeOf(ulid.ULID{})
)

// DefaultRegistry builds a registry covering the scalar, temporal, binary,
// JSON, UUID, and ULID converters, bound to their natural column types and
// target types, plus the runtime class names Go drivers report for them.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	str := stringConverter{}
	r.Register(stringType, str)
	for _, st := range []SQLType{Varchar, Char, Text} {
		r.RegisterSQL(st, str)
	}

	i64 := int64Converter{}
	r.Register(int64Type, i64)
	r.Register(intType, i64)
	for _, st := range []SQLType{SmallInt, Integer, BigInt} {
		r.RegisterSQL(st, i64)
	}

	f64 := float64Converter{}
	r.Register(float64Type, f64)
	for _, st := range []SQLType{Real, Double, Numeric} {
		r.RegisterSQL(st, f64)
	}

	b := boolConverter{}
	r.Register(boolType, b)
	r.RegisterSQL(Boolean, b)

	tm := timeConverter{}
	r.Register(timeType, tm)
	for _, st := range []SQLType{Date, Time, Timestamp, TimestampTZ} {
		r.RegisterSQL(st, tm)
	}

	bs := bytesConverter{}
	r.Register(bytesType, bs)
	r.RegisterSQL(Binary, bs)

	js := jsonConverter{}
	r.Register(mapType, js)
	r.RegisterSQL(JSON, js)
	r.RegisterSQL(JSONB, js)

	u := uuidConverter{}
	r.Register(uuidType, u)
	r.RegisterSQL(UUID, u)
	// UUID columns often surface as text; prefer the UUID converter when the
	// target asks for one.
	r.RegisterTargetSQL(uuidType, Varchar, u)
	r.RegisterTargetSQL(uuidType, Text, u)

	ul := ulidConverter{}
	r.Register(ulidType, ul)
	r.RegisterTargetSQL(ulidType, Varchar, ul)
	r.RegisterTargetSQL(ulidType, Text, ul)

	// Runtime class names as drivers report them from scan types.
	r.RegisterClass("string", stringType)
	r.RegisterClass("int16", int64Type)
	r.RegisterClass("int32", int64Type)
	r.RegisterClass("int64", int64Type)
	r.RegisterClass("int", intType)
	r.RegisterClass("float32", float64Type)
	r.RegisterClass("float64", float64Type)
	r.RegisterClass("bool", boolType)
	r.RegisterClass("time.Time", timeType)
	r.RegisterClass("[]uint8", bytesType)
	r.RegisterClass("sql.RawBytes", bytesType)
	r.RegisterClass("sql.NullString", stringType)
	r.RegisterClass("sql.NullInt64", int64Type)
	r.RegisterClass("sql.NullFloat64", float64Type)
	r.RegisterClass("sql.NullBool", boolType)
	r.RegisterClass("sql.NullTime", timeType)
	r.RegisterClass("map[string]interface {}", mapType)
	r.RegisterClass("uuid.UUID", uuidType)
	r.RegisterClass("ulid.ULID", ulidType)

	return r
}
