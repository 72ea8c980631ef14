package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Goden-Gun/vis-server/pkg/codes"
	"github.com/Goden-Gun/vis-server/pkg/protocol"
)

func TestConstructorActionTags(t *testing.T) {
	reqID := protocol.IntReqID(1)
	subID := protocol.IntSubscriptionID(2)
	cases := []struct {
		envelope ActionError
		want     protocol.Action
	}{
		{NewGetError(reqID, codes.NotFoundInvalidPath), protocol.ActionGet},
		{NewSetError(reqID, codes.UnauthorizedReadOnly), protocol.ActionSet},
		{NewSubscribeError(reqID, codes.BadRequestFilterInvalid), protocol.ActionSubscribe},
		{NewSubscriptionError(reqID, codes.ServiceUnavailable), protocol.ActionSubscription},
		{NewSubscriptionNotificationError(subID, codes.GatewayTimeout), protocol.ActionSubscriptionNotification},
		{NewUnsubscribeError(reqID, subID, codes.NotFoundInvalidSubscriptionID), protocol.ActionUnsubscribe},
		{NewUnsubscribeAllError(reqID, codes.BadRequest), protocol.ActionUnsubscribeAll},
		{NewGetMetadataError(reqID, codes.NotFoundInvalidPath), protocol.ActionGetMetadata},
		{NewAuthorizeError(reqID, codes.UnauthorizedUserTokenExpired), protocol.ActionAuthorize},
	}
	for _, c := range cases {
		if c.envelope.Action != c.want {
			t.Errorf("action = %q, want %q", c.envelope.Action, c.want)
		}
	}
}

func TestTimestampsMonotonic(t *testing.T) {
	reqID := protocol.IntReqID(1)
	var last uint64
	for i := 0; i < 50; i++ {
		e := NewGetError(reqID, codes.NotFoundInvalidPath)
		if e.Timestamp < last {
			t.Fatalf("timestamp went backwards: %d after %d", e.Timestamp, last)
		}
		last = e.Timestamp
		time.Sleep(time.Millisecond)
	}
}

func TestSubscriptionIDOnlyWhereRequired(t *testing.T) {
	reqID := protocol.IntReqID(5)
	subID := protocol.IntSubscriptionID(9)
	withSub := []ActionError{
		NewUnsubscribeError(reqID, subID, codes.NotFoundInvalidSubscriptionID),
		NewSubscriptionNotificationError(subID, codes.ServiceUnavailable),
	}
	withoutSub := []ActionError{
		NewGetError(reqID, codes.NotFoundInvalidPath),
		NewSetError(reqID, codes.UnauthorizedReadOnly),
		NewSubscribeError(reqID, codes.BadRequest),
		NewSubscriptionError(reqID, codes.BadRequest),
		NewUnsubscribeAllError(reqID, codes.BadRequest),
		NewGetMetadataError(reqID, codes.NotFoundInvalidPath),
		NewAuthorizeError(reqID, codes.UnauthorizedUserTokenMissing),
	}
	for _, e := range withSub {
		data, err := json.Marshal(e)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"subscriptionId":9`) {
			t.Errorf("%s: missing subscriptionId: %s", e.Action, data)
		}
	}
	for _, e := range withoutSub {
		data, err := json.Marshal(e)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(data), "subscriptionId") {
			t.Errorf("%s: subscriptionId must be omitted entirely: %s", e.Action, data)
		}
	}
}

func TestAuthorizeErrorWireForm(t *testing.T) {
	e := NewAuthorizeError(protocol.IntReqID(42), codes.UnauthorizedUserTokenExpired)
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf(`{"action":"authorize","requestId":42,"error":{"number":401,"reason":"user_token_expired","message":"User token has expired."},"timestamp":%d}`, e.Timestamp)
	if string(data) != want {
		t.Errorf("wire form:\n got %s\nwant %s", data, want)
	}
}

func TestUnsubscribeErrorWireForm(t *testing.T) {
	e := NewUnsubscribeError(protocol.IntReqID(7), protocol.IntSubscriptionID(99), codes.NotFoundInvalidSubscriptionID)
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, fragment := range []string{`"requestId":7`, `"subscriptionId":99`, `"number":404`, `"reason":"invalid_subscriptionId"`} {
		if !strings.Contains(s, fragment) {
			t.Errorf("missing %s in %s", fragment, s)
		}
	}
}

func TestFromIOErrorFallback(t *testing.T) {
	e := FromIOError(errors.New("broken pipe"))
	if e.Action != protocol.ActionSubscriptionNotification {
		t.Errorf("action = %q, want subscriptionNotification", e.Action)
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"subscriptionId":0`) {
		t.Errorf("sentinel subscription id missing: %s", s)
	}
	if strings.Contains(s, "requestId") {
		t.Errorf("requestId must be absent for subscriptionNotification: %s", s)
	}
	if !strings.Contains(s, `"number":500`) {
		t.Errorf("want number 500: %s", s)
	}
	if strings.Contains(s, "broken pipe") {
		t.Errorf("internal cause leaked: %s", s)
	}
}

func TestStringReqIDPreserved(t *testing.T) {
	e := NewGetError(protocol.StringReqID("req-8756"), codes.NotFoundInvalidPath)
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"requestId":"req-8756"`) {
		t.Errorf("string request id not preserved: %s", data)
	}
}
