// Package jsonval provides JSON values whose object members keep their insertion order.
//
// Values are one of nil, bool, json.Number, string, []any or Object. Keeping the order of
// object keys lets example bodies be rendered, flattened and persisted exactly as they were
// written in the original cURL command.
package jsonval

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that remembers the order its keys were first seen in.
type Object []Member

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}

	return nil, false
}

// Set stores value under key. An existing key keeps its position and gets the new value.
func (o *Object) Set(key string, value any) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}

	*o = append(*o, Member{Key: key, Value: value})
}

// Keys returns the object keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, m := range o {
		keys = append(keys, m.Key)
	}

	return keys
}

// MarshalJSON implements json.Marshaler keeping member order.
func (o Object) MarshalJSON() ([]byte, error) {
	return []byte(Compact(o)), nil
}

// IsContainer reports whether v is an Object or an array.
func IsContainer(v any) bool {
	switch v.(type) {
	case Object, []any:
		return true
	default:
		return false
	}
}
