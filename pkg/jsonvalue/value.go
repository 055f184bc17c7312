package jsonvalue

// Type is the classified label of a JSON value.
type Type string

const (
	TypeNull    Type = "null"
	TypeBoolean Type = "boolean"
	TypeNumber  Type = "number"
	TypeString  Type = "string"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind  Type
	b     bool
	n     float64
	s     string
	items []Value
	obj   *Object
}

func Null() Value { return Value{kind: TypeNull} }

func Bool(b bool) Value { return Value{kind: TypeBoolean, b: b} }

func Number(n float64) Value { return Value{kind: TypeNumber, n: n} }

func String(s string) Value { return Value{kind: TypeString, s: s} }

// Array builds an array value. The items slice is copied.
func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: TypeArray, items: cp}
}

// ObjectValue wraps an ordered object. A nil object becomes an empty one.
func ObjectValue(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}
	return Value{kind: TypeObject, obj: obj}
}

// BoolValue returns the boolean payload, false for other types.
func (v Value) BoolValue() bool { return v.b }

// NumberValue returns the numeric payload, 0 for other types.
func (v Value) NumberValue() float64 { return v.n }

// StringValue returns the string payload, "" for other types.
func (v Value) StringValue() string { return v.s }

// Len returns the number of array items or object members.
func (v Value) Len() int {
	switch Classify(v) {
	case TypeArray:
		return len(v.items)
	case TypeObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Index returns the i-th array item.
func (v Value) Index(i int) Value {
	return v.items[i]
}

// Object returns the object payload, nil for other types.
func (v Value) Object() *Object {
	if v.kind != TypeObject {
		return nil
	}
	return v.obj
}

// Object is a string-keyed mapping that remembers insertion order.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set stores value under key. Re-setting a key keeps its original position.
func (o *Object) Set(key string, value Value) *Object {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}
