package protocol

import (
	"encoding/json"
	"testing"
)

func TestIDPreservesWireForm(t *testing.T) {
	var r ReqID
	if err := json.Unmarshal([]byte(`8756`), &r); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "8756" {
		t.Errorf("int form not preserved: %s", out)
	}

	if err := json.Unmarshal([]byte(`"abc-1"`), &r); err != nil {
		t.Fatal(err)
	}
	out, err = json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"abc-1"` {
		t.Errorf("string form not preserved: %s", out)
	}
}

func TestIDRejectsOtherTypes(t *testing.T) {
	var r ReqID
	for _, bad := range []string{`true`, `null`, `1.5`, `{}`, `[]`} {
		if err := json.Unmarshal([]byte(bad), &r); err == nil {
			t.Errorf("unmarshal %s: want error", bad)
		}
	}
}

func TestSubscriptionIDZeroSentinel(t *testing.T) {
	out, err := json.Marshal(SubscriptionIDZero)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "0" {
		t.Errorf("sentinel = %s, want 0", out)
	}
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"action":"get","path":"Signal.Vehicle.Speed","requestId":"8756"}`))
	if err != nil {
		t.Fatal(err)
	}
	if req.Action != ActionGet {
		t.Errorf("action = %q", req.Action)
	}
	if req.Path != "Signal.Vehicle.Speed" {
		t.Errorf("path = %q", req.Path)
	}
	if req.RequestID.String() != "8756" {
		t.Errorf("requestId = %q", req.RequestID.String())
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseRequestRejects(t *testing.T) {
	cases := []string{
		`{not json`,
		`{"path":"Signal.Vehicle.Speed"}`,
		`{"action":"explode","requestId":1}`,
		`{"action":"subscription","requestId":1}`, // server-push only
	}
	for _, c := range cases {
		if _, err := ParseRequest([]byte(c)); err == nil {
			t.Errorf("ParseRequest(%s): want error", c)
		}
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []Request{
		{Action: ActionGet},
		{Action: ActionSet, Path: "Signal.Vehicle.Speed"},
		{Action: ActionSubscribe},
		{Action: ActionUnsubscribe},
		{Action: ActionAuthorize},
		{Action: ActionAuthorize, Tokens: &Tokens{}},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%s %+v): want error", c.Action, c)
		}
	}
	ok := Request{Action: ActionUnsubscribeAll}
	if err := ok.Validate(); err != nil {
		t.Errorf("unsubscribeAll needs no fields: %v", err)
	}
}

func TestFiltersEmpty(t *testing.T) {
	var f *Filters
	if !f.Empty() {
		t.Error("nil filters should be empty")
	}
	min := 0.5
	if (&Filters{MinChange: &min}).Empty() {
		t.Error("minChange filter should not be empty")
	}
}
