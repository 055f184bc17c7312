package jsonvalue

// WalkFunc is called for every node in pre-order. Returning false skips
// the node's children.
type WalkFunc func(path string, v Value) bool

// Walk visits v and its descendants in pre-order, objects in key order.
func Walk(v Value, fn WalkFunc) {
	walk("", v, fn)
}

func walk(path string, v Value, fn WalkFunc) {
	if !fn(path, v) {
		return
	}
	switch Classify(v) {
	case TypeArray:
		for i, item := range v.items {
			walk(JoinIndex(path, i), item, fn)
		}
	case TypeObject:
		for _, key := range v.obj.keys {
			walk(JoinKey(path, key), v.obj.values[key], fn)
		}
	}
}

// Depth returns the nesting depth of v. Scalars and empty containers
// have depth 1.
func Depth(v Value) int {
	switch Classify(v) {
	case TypeArray:
		deepest := 0
		for _, item := range v.items {
			if d := Depth(item); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	case TypeObject:
		deepest := 0
		for _, key := range v.obj.keys {
			if d := Depth(v.obj.values[key]); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	default:
		return 1
	}
}

// Count returns the number of nodes in v, including v itself.
func Count(v Value) int {
	total := 0
	Walk(v, func(string, Value) bool {
		total++
		return true
	})
	return total
}
