package accessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================================================
// Test Data Structures
// =========================================================================

type Address struct {
	City string `db:"city"`
	Zip  string `db:"zip"`
}

type OrderLine struct {
	SKU   string  `db:"sku"`
	Total float64 `db:"total"`
}

type Customer struct {
	ID       int64  `db:"id"`
	FullName string `db:"full_name"`
	Address  Address
	Home     *Address
	Orders   []OrderLine
	Attrs    map[string]any
}

// =========================================================================
// Read Path
// =========================================================================

func TestGetValue(t *testing.T) {
	c := &Customer{
		ID:       7,
		FullName: "Ada Lovelace",
		Address:  Address{City: "Oslo", Zip: "0150"},
		Orders:   []OrderLine{{SKU: "A-1", Total: 12.5}, {SKU: "B-2", Total: 99}},
		Attrs:    map[string]any{"tier": "gold"},
	}

	tests := []struct {
		name     string
		path     string
		expected any
	}{
		{name: "TopLevel", path: "fullName", expected: "Ada Lovelace"},
		{name: "TagColumnName", path: "full_name", expected: "Ada Lovelace"},
		{name: "Nested", path: "address.city", expected: "Oslo"},
		{name: "IndexedNested", path: "orders[1].sku", expected: "B-2"},
		{name: "MapValue", path: "attrs[tier]", expected: "gold"},
		{name: "AbsentPointerChain", path: "home.city", expected: nil},
		{name: "AbsentMapKey", path: "attrs[region]", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ForObject(c)
			got, err := m.GetValue(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetValueIdempotent(t *testing.T) {
	c := &Customer{Address: Address{City: "Bergen"}}
	m := ForObject(c)

	first, err := m.GetValue("address.city")
	require.NoError(t, err)
	second, err := m.GetValue("address.city")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Bergen", c.Address.City)
}

func TestGetValueUnknownProperty(t *testing.T) {
	m := ForObject(&Customer{})

	_, err := m.GetValue("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

// =========================================================================
// Write Path
// =========================================================================

func TestSetValueNested(t *testing.T) {
	c := &Customer{}
	m := ForObject(c)

	require.NoError(t, m.SetValue("address.city", "Oslo"))
	assert.Equal(t, "Oslo", c.Address.City)
}

func TestSetValueAutoVivification(t *testing.T) {
	c := &Customer{}
	m := ForObject(c)

	require.NoError(t, m.SetValue("home.city", "Bergen"))

	require.NotNil(t, c.Home)
	assert.Equal(t, "Bergen", c.Home.City)

	got, err := m.GetValue("home.city")
	require.NoError(t, err)
	assert.Equal(t, "Bergen", got)

	// Second write reuses the materialized container.
	home := c.Home
	require.NoError(t, m.SetValue("home.zip", "5003"))
	assert.Same(t, home, c.Home)
	assert.Equal(t, "5003", c.Home.Zip)
}

func TestSetValueNilShortCircuit(t *testing.T) {
	c := &Customer{}
	m := ForObject(c)

	require.NoError(t, m.SetValue("home.city", nil))
	assert.Nil(t, c.Home, "writing nil through an absent intermediate must not instantiate")
}

func TestSetValueIndexedVivification(t *testing.T) {
	c := &Customer{}
	m := ForObject(c)

	require.NoError(t, m.SetValue("orders[0].total", 9.5))
	require.Len(t, c.Orders, 1)
	assert.Equal(t, 9.5, c.Orders[0].Total)

	require.NoError(t, m.SetValue("orders[2].sku", "C-3"))
	require.Len(t, c.Orders, 3)
	assert.Equal(t, 9.5, c.Orders[0].Total, "growing the sequence keeps earlier elements")
	assert.Equal(t, "C-3", c.Orders[2].SKU)
}

func TestSetValueIntoNilMapField(t *testing.T) {
	c := &Customer{}
	m := ForObject(c)

	require.NoError(t, m.SetValue("attrs[tier]", "gold"))

	require.NotNil(t, c.Attrs)
	assert.Equal(t, "gold", c.Attrs["tier"])
}

func TestSetValueNilUnknownProperty(t *testing.T) {
	m := ForObject(&Customer{})

	err := m.SetValue("bogus.x", nil)
	require.Error(t, err, "a nonexistent property must fail even for nil writes")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestSetValueTypeMismatch(t *testing.T) {
	m := ForObject(&Customer{})

	err := m.SetValue("id", "not a number")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSetValueValueBeanNotAddressable(t *testing.T) {
	m := ForObject(Customer{})

	err := m.SetValue("fullName", "Ada")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}

// =========================================================================
// Index Round-Trip
// =========================================================================

type itemHolder struct {
	Items []int
}

func TestIndexRoundTrip(t *testing.T) {
	h := &itemHolder{Items: []int{10, 20, 30}}
	m := ForObject(h)

	require.NoError(t, m.SetValue("items[1]", 99))

	got, err := m.GetValue("items[1]")
	require.NoError(t, err)
	assert.Equal(t, 99, got)
	assert.Equal(t, []int{10, 99, 30}, h.Items)
}

func TestIndexOutOfRange(t *testing.T) {
	m := ForObject(&itemHolder{Items: []int{10, 20, 30}})

	_, err := m.GetValue("items[5]")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestIndexNonNumeric(t *testing.T) {
	m := ForObject(&itemHolder{Items: []int{10}})

	_, err := m.GetValue("items[x]")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

// =========================================================================
// Mapping Targets
// =========================================================================

func TestMapPermissiveness(t *testing.T) {
	m := ForObject(map[string]any{"present": 1})

	assert.True(t, m.HasSetter("present"))
	assert.True(t, m.HasSetter("absent"), "mapping targets accept any key")
	assert.True(t, m.HasGetter("present"))
	assert.False(t, m.HasGetter("absent"))
}

func TestMapNestedVivification(t *testing.T) {
	root := map[string]any{}
	m := ForObject(root)

	require.NoError(t, m.SetValue("user.name", "Ada"))

	got, err := m.GetValue("user.name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)

	child, ok := root["user"].(map[string]any)
	require.True(t, ok, "mapping targets always vivify plain mappings")
	assert.Equal(t, "Ada", child["name"])
}

func TestMapGetterTypeReflectsRuntimeValue(t *testing.T) {
	m := ForObject(map[string]any{"n": 42})

	typ, err := m.GetterType("n")
	require.NoError(t, err)
	assert.Equal(t, "int", typ.String())

	typ, err = m.GetterType("absent")
	require.NoError(t, err)
	assert.Equal(t, interfaceType, typ)
}

// =========================================================================
// Sequence Targets
// =========================================================================

func TestCollectionAdd(t *testing.T) {
	s := []int{1}
	m := ForObject(&s)

	require.True(t, m.IsCollection())
	require.NoError(t, m.Add(2))
	require.NoError(t, m.AddAll([]any{3, 4}))
	assert.Equal(t, []int{1, 2, 3, 4}, s)
}

func TestAddOnNonCollection(t *testing.T) {
	m := ForObject(&Customer{})

	err := m.Add("x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestAddWithoutPointer(t *testing.T) {
	m := ForObject([]int{1})

	err := m.Add(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}

// =========================================================================
// Null Singleton
// =========================================================================

func TestNullSingleton(t *testing.T) {
	m := ForObject(nil)
	require.True(t, m.IsNull())

	got, err := m.GetValue("anything.at.all")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, m.SetValue("anything", 1))
	assert.False(t, m.HasGetter("x"))
	assert.False(t, m.HasSetter("x"))

	var typed *Customer
	assert.True(t, ForObject(typed).IsNull(), "typed nil pointers wrap to the null singleton")
}

// =========================================================================
// Property Canonicalization
// =========================================================================

func TestFindProperty(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		camel    bool
		expected string
	}{
		{name: "CaseInsensitive", input: "FULLNAME", camel: false, expected: "FullName"},
		{name: "TagColumn", input: "full_name", camel: false, expected: "FullName"},
		{name: "UnderscoreToCamel", input: "full_name", camel: true, expected: "FullName"},
		{name: "NestedPath", input: "address.CITY", camel: false, expected: "Address.City"},
		{name: "Unknown", input: "bogus", camel: false, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ForObject(&Customer{})
			assert.Equal(t, tt.expected, m.FindProperty(tt.input, tt.camel))
		})
	}
}

func TestStaticIntrospection(t *testing.T) {
	m := ForObject(&Customer{})

	assert.True(t, m.HasGetter("address.city"))
	assert.True(t, m.HasGetter("orders[0].total"), "static lookup never touches runtime length")
	assert.False(t, m.HasGetter("address.bogus"))
	assert.True(t, m.HasSetter("attrs[anything]"), "map levels are permissive")

	typ, err := m.GetterType("orders[0].total")
	require.NoError(t, err)
	assert.Equal(t, "float64", typ.String())

	typ, err = m.GetterType("home.zip")
	require.NoError(t, err)
	assert.Equal(t, "string", typ.String())
}
