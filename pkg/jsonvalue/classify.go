package jsonvalue

import (
	"strconv"
	"strings"
)

// Classify maps a value to its type label. Numeric precision, string
// content and container sizes are discarded.
func Classify(v Value) Type {
	if v.kind == "" {
		return TypeNull
	}
	return v.kind
}

// JoinKey appends an object key segment to path. Keys that are empty or
// contain '.', '[', ']' or '"' are written as a quoted segment, a["b.c"],
// so a path always names a single location.
func JoinKey(path, key string) string {
	if needsQuoting(key) {
		return path + "[" + strconv.Quote(key) + "]"
	}
	if path == "" {
		return key
	}
	return path + "." + key
}

func needsQuoting(key string) bool {
	return key == "" || strings.ContainsAny(key, `.[]"`)
}

// JoinIndex appends an array index segment to path.
func JoinIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
