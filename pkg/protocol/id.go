package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/google/uuid"
)

// id is the shared int-or-string wire form used by request and subscription
// identifiers. Whichever form the client sent is preserved on the way back
// out.
type id struct {
	str   string
	num   int64
	isNum bool
}

func (v id) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return strconv.AppendInt(nil, v.num, 10), nil
	}
	return json.Marshal(v.str)
}

func (v *id) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty identifier")
	}
	if data[0] == '"' {
		v.isNum = false
		return json.Unmarshal(data, &v.str)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return errors.New("identifier must be an integer or a string")
	}
	v.num = n
	v.isNum = true
	return nil
}

func (v id) String() string {
	if v.isNum {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// ReqID correlates a response to the client request that produced it.
type ReqID struct{ id }

func IntReqID(v int64) ReqID     { return ReqID{id{num: v, isNum: true}} }
func StringReqID(s string) ReqID { return ReqID{id{str: s}} }

// SubscriptionID identifies an active subscription.
type SubscriptionID struct{ id }

func IntSubscriptionID(v int64) SubscriptionID     { return SubscriptionID{id{num: v, isNum: true}} }
func StringSubscriptionID(s string) SubscriptionID { return SubscriptionID{id{str: s}} }

// NewSubscriptionID allocates a fresh server-assigned subscription id.
func NewSubscriptionID() SubscriptionID {
	return StringSubscriptionID(uuid.NewString())
}

// SubscriptionIDZero is the sentinel id used when an envelope must carry a
// subscription reference that does not correspond to a real subscription.
var SubscriptionIDZero = IntSubscriptionID(0)
