package services

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMergeMatchingOverwritesSameType(t *testing.T) {
	target := map[string]any{"s": 2670.0, "name": "ana"}
	patch := map[string]any{"s": 1800.0, "name": "bea"}

	got := MergeMatching(target, patch)
	if got["s"] != 1800.0 || got["name"] != "bea" {
		t.Errorf("merged = %+v", got)
	}
}

func TestMergeMatchingRejectsTypeChange(t *testing.T) {
	target := map[string]any{"s": 2670.0}
	patch := map[string]any{"s": "big"}

	got := MergeMatching(target, patch)
	if got["s"] != 2670.0 {
		t.Errorf("type-changing patch applied: %v", got["s"])
	}
}

func TestMergeMatchingDropsNewScalarKeys(t *testing.T) {
	target := map[string]any{"s": 2670.0}
	patch := map[string]any{"s": 1.0, "admin": true}

	got := MergeMatching(target, patch)
	if _, exists := got["admin"]; exists {
		t.Error("new scalar key was accepted")
	}
}

func TestMergeMatchingDescendsNestedObjects(t *testing.T) {
	target := map[string]any{
		"repetition_constants": map[string]any{
			"s": 2670.0,
			"curve_shapes": map[string]any{
				"good": 4.0,
				"easy": 6.0,
			},
		},
	}
	patch := map[string]any{
		"repetition_constants": map[string]any{
			"curve_shapes": map[string]any{
				"good": 5.0,
				"wild": 9.0,
			},
		},
	}

	got := MergeMatching(target, patch)
	constants := got["repetition_constants"].(map[string]any)
	shapes := constants["curve_shapes"].(map[string]any)
	if shapes["good"] != 5.0 {
		t.Errorf("good = %v, want 5", shapes["good"])
	}
	if shapes["easy"] != 6.0 {
		t.Errorf("untouched key easy = %v", shapes["easy"])
	}
	if _, exists := shapes["wild"]; exists {
		t.Error("new nested scalar key was accepted")
	}
	if constants["s"] != 2670.0 {
		t.Errorf("sibling key s = %v", constants["s"])
	}
}

func TestMergeMatchingKeepsValueOnShapeMismatch(t *testing.T) {
	target := map[string]any{"curve_shapes": map[string]any{"good": 4.0}}
	patch := map[string]any{"curve_shapes": "flat"}

	got := MergeMatching(target, patch)
	if !reflect.DeepEqual(got["curve_shapes"], map[string]any{"good": 4.0}) {
		t.Errorf("object replaced by scalar: %v", got["curve_shapes"])
	}
}

func TestMergeMatchingHandlesBsonMaps(t *testing.T) {
	// Documents from the mongo backend arrive as bson.M.
	target := map[string]any{
		"repetition_constants": bson.M{"s": 2670.0},
	}
	patch := map[string]any{
		"repetition_constants": map[string]any{"s": 100.0},
	}

	got := MergeMatching(target, patch)
	merged, ok := asMap(got["repetition_constants"])
	if !ok {
		t.Fatalf("nested value lost map shape: %T", got["repetition_constants"])
	}
	if merged["s"] != 100.0 {
		t.Errorf("s = %v, want 100", merged["s"])
	}
}
