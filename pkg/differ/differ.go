package differ

import (
	"github.com/wonderfulspam/shapesmith/pkg/jsonvalue"
)

// Compare walks both documents in lock-step and reports every shape
// divergence. Neither input is modified.
func Compare(oldDoc, newDoc jsonvalue.Value) *DiffReport {
	result := &DiffReport{
		Changes: []Change{},
	}

	compareValue("", oldDoc, newDoc, result)

	result.Summary = Summarize(result.Changes)
	result.HasChanges = len(result.Changes) > 0

	return result
}

func compareValue(path string, oldVal, newVal jsonvalue.Value, result *DiffReport) {
	oldType := jsonvalue.Classify(oldVal)
	newType := jsonvalue.Classify(newVal)

	// A type mismatch makes sub-comparison meaningless, so stop here
	if oldType != newType {
		result.Changes = append(result.Changes, Change{
			Kind:    ChangeTypeChanged,
			Path:    path,
			OldType: oldType,
			NewType: newType,
		})
		return
	}

	switch oldType {
	case jsonvalue.TypeObject:
		compareObjects(path, oldVal.Object(), newVal.Object(), result)
	case jsonvalue.TypeArray:
		compareArrays(path, oldVal, newVal, result)
	}
}

func compareObjects(path string, oldObj, newObj *jsonvalue.Object, result *DiffReport) {
	oldKeys := oldObj.Keys()
	newKeys := newObj.Keys()

	for _, key := range oldKeys {
		if newObj.Has(key) {
			continue
		}
		oldVal, _ := oldObj.Get(key)
		result.Changes = append(result.Changes, Change{
			Kind:    ChangeRemovedField,
			Path:    jsonvalue.JoinKey(path, key),
			OldType: jsonvalue.Classify(oldVal),
		})
	}

	for _, key := range newKeys {
		if oldObj.Has(key) {
			continue
		}
		newVal, _ := newObj.Get(key)
		result.Changes = append(result.Changes, Change{
			Kind:    ChangeAddedField,
			Path:    jsonvalue.JoinKey(path, key),
			NewType: jsonvalue.Classify(newVal),
		})
	}

	for _, key := range oldKeys {
		newVal, exists := newObj.Get(key)
		if !exists {
			continue
		}
		oldVal, _ := oldObj.Get(key)
		compareValue(jsonvalue.JoinKey(path, key), oldVal, newVal, result)
	}
}

// Arrays are compared by position; length differences become trailing
// removals or additions.
func compareArrays(path string, oldArr, newArr jsonvalue.Value, result *DiffReport) {
	oldLen, newLen := oldArr.Len(), newArr.Len()
	shared := min(oldLen, newLen)

	for i := 0; i < shared; i++ {
		compareValue(jsonvalue.JoinIndex(path, i), oldArr.Index(i), newArr.Index(i), result)
	}

	for i := shared; i < oldLen; i++ {
		result.Changes = append(result.Changes, Change{
			Kind:    ChangeRemovedField,
			Path:    jsonvalue.JoinIndex(path, i),
			OldType: jsonvalue.Classify(oldArr.Index(i)),
		})
	}

	for i := shared; i < newLen; i++ {
		result.Changes = append(result.Changes, Change{
			Kind:    ChangeAddedField,
			Path:    jsonvalue.JoinIndex(path, i),
			NewType: jsonvalue.Classify(newArr.Index(i)),
		})
	}
}
