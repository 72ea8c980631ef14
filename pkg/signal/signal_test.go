package signal

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	tree := New(DefaultSchema())
	if err := tree.Ingest("Signal.Vehicle.Speed", json.RawMessage(`42.5`), 1000); err != nil {
		t.Fatal(err)
	}
	if err := tree.Ingest("Signal.Vehicle.VIN", json.RawMessage(`"WVWZZZ"`), 1000); err != nil {
		t.Fatal(err)
	}
	if err := tree.Ingest("Private.Vehicle.BatterySerial", json.RawMessage(`"BAT-1"`), 1000); err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestGet(t *testing.T) {
	tree := newTestTree(t)
	v, err := tree.Get("Signal.Vehicle.Speed", false)
	if err != nil {
		t.Fatal(err)
	}
	if string(v.Data) != "42.5" {
		t.Errorf("value = %s", v.Data)
	}

	if _, err := tree.Get("Signal.Vehicle.Nope", false); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("unknown path: got %v, want ErrInvalidPath", err)
	}
	// branch paths hold no value of their own
	if _, err := tree.Get("Signal.Vehicle", false); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("branch path: got %v, want ErrInvalidPath", err)
	}
}

func TestPrivatePath(t *testing.T) {
	tree := newTestTree(t)
	if _, err := tree.Get("Private.Vehicle.BatterySerial", false); !errors.Is(err, ErrPrivatePath) {
		t.Errorf("unauthorized private get: got %v, want ErrPrivatePath", err)
	}
	if _, err := tree.Get("Private.Vehicle.BatterySerial", true); err != nil {
		t.Errorf("authorized private get: %v", err)
	}
}

func TestSet(t *testing.T) {
	tree := newTestTree(t)
	if err := tree.Set("Signal.Vehicle.Speed", json.RawMessage(`50`), 2000, false); err != nil {
		t.Fatal(err)
	}
	v, err := tree.Get("Signal.Vehicle.Speed", false)
	if err != nil {
		t.Fatal(err)
	}
	if string(v.Data) != "50" || v.Timestamp != 2000 {
		t.Errorf("value = %s @ %d", v.Data, v.Timestamp)
	}

	if err := tree.Set("Signal.Vehicle.VIN", json.RawMessage(`"X"`), 0, false); !errors.Is(err, ErrReadOnly) {
		t.Errorf("read-only set: got %v, want ErrReadOnly", err)
	}
	if err := tree.Set("Signal.Vehicle.Speed", json.RawMessage(`"fast"`), 0, false); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("type mismatch: got %v, want ErrInvalidValue", err)
	}
	if err := tree.Set("Signal.Bogus", json.RawMessage(`1`), 0, false); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("unknown path: got %v, want ErrInvalidPath", err)
	}
}

func TestIngestIgnoresReadOnly(t *testing.T) {
	tree := newTestTree(t)
	if err := tree.Ingest("Signal.Vehicle.VIN", json.RawMessage(`"NEW"`), 3000); err != nil {
		t.Fatalf("feed must write read-only signals: %v", err)
	}
	if err := tree.Ingest("Signal.Unknown", json.RawMessage(`1`), 0); err == nil {
		t.Error("feed must not grow the tree")
	}
}

func TestOnChange(t *testing.T) {
	tree := newTestTree(t)
	var gotPath string
	var gotValue Value
	tree.OnChange(func(path string, v Value) {
		gotPath = path
		gotValue = v
	})
	if err := tree.Set("Signal.Vehicle.Speed", json.RawMessage(`70`), 4000, false); err != nil {
		t.Fatal(err)
	}
	if gotPath != "Signal.Vehicle.Speed" || string(gotValue.Data) != "70" {
		t.Errorf("listener saw %q %s", gotPath, gotValue.Data)
	}
}

func TestSubtreeRedactsPrivate(t *testing.T) {
	tree := newTestTree(t)
	meta, err := tree.Subtree("", false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(meta), "BatterySerial") {
		t.Errorf("private subtree leaked: %s", meta)
	}
	meta, err = tree.Subtree("", true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(meta), "BatterySerial") {
		t.Errorf("authorized metadata missing private subtree")
	}
	if _, err := tree.Subtree("Private", false); !errors.Is(err, ErrPrivatePath) {
		t.Errorf("unauthorized private subtree: got %v", err)
	}
}

func TestIsPrimitive(t *testing.T) {
	tree := newTestTree(t)
	m, ok := tree.Meta("Signal.Vehicle.Speed")
	if !ok || !m.IsPrimitive() {
		t.Error("Speed should be primitive")
	}
	m, ok = tree.Meta("Signal.Vehicle.VIN")
	if !ok || m.IsPrimitive() {
		t.Error("VIN (String) is not filterable")
	}
	m, ok = tree.Meta("Signal.Vehicle")
	if !ok || m.IsPrimitive() {
		t.Error("branch is not primitive")
	}
}
