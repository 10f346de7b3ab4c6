package services

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// MergeMatching merges a patch document into a target document in place and
// returns the target. The rules, applied recursively:
//
//   - matching nested objects are descended into;
//   - a scalar key is overwritten only when the target already has the key
//     and both values share the same runtime type;
//   - keys absent from the target are dropped, except that a nested object
//     may be scaffolded so deeper matching keys still land.
//
// Clients therefore cannot invent new scalar fields or change a field's
// type through a partial update.
func MergeMatching(target, patch map[string]any) map[string]any {
	for key, newVal := range patch {
		newMap, newIsMap := asMap(newVal)

		oldVal, exists := target[key]
		if !exists {
			if newIsMap {
				target[key] = MergeMatching(map[string]any{}, newMap)
			}
			continue
		}

		oldMap, oldIsMap := asMap(oldVal)
		switch {
		case oldIsMap && newIsMap:
			target[key] = MergeMatching(oldMap, newMap)
		case oldIsMap || newIsMap:
			// Object/scalar shape mismatch, keep the existing value.
		default:
			if oldVal != nil && newVal != nil && reflect.TypeOf(oldVal) == reflect.TypeOf(newVal) {
				target[key] = newVal
			}
		}
	}
	return target
}

// asMap unwraps the two map shapes documents arrive in: plain JSON maps and
// bson.M from the mongo backend.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case bson.M:
		return map[string]any(m), true
	}
	return nil, false
}
