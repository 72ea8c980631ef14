package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Request is the decoded form of a client message. A single struct covers
// all client actions; the dispatcher reads only the fields its action uses.
type Request struct {
	Action         Action          `json:"action"`
	RequestID      ReqID           `json:"requestId"`
	Path           string          `json:"path,omitempty"`
	Value          json.RawMessage `json:"value,omitempty"`
	Tokens         *Tokens         `json:"tokens,omitempty"`
	Filters        *Filters        `json:"filters,omitempty"`
	SubscriptionID *SubscriptionID `json:"subscriptionId,omitempty"`
}

// Tokens carries the credentials of an authorize request. The user token
// authorizes access on behalf of a person, the device token on behalf of the
// vehicle unit itself.
type Tokens struct {
	Authorization string `json:"authorization,omitempty"`
	Device        string `json:"device,omitempty"`
}

// ParseRequest decodes a client message. A decode failure here carries no
// VIS error-table row; callers classify it as a bare 400.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if req.Action == "" {
		return nil, errors.New("decode request: action is required")
	}
	for _, a := range ClientActions {
		if req.Action == a {
			return &req, nil
		}
	}
	return nil, fmt.Errorf("decode request: unknown action %q", req.Action)
}

// Validate checks the per-action required fields.
func (r *Request) Validate() error {
	switch r.Action {
	case ActionGet, ActionSubscribe, ActionGetMetadata:
		if strings.TrimSpace(r.Path) == "" {
			return errors.New("path is required")
		}
	case ActionSet:
		if strings.TrimSpace(r.Path) == "" {
			return errors.New("path is required")
		}
		if len(r.Value) == 0 {
			return errors.New("value is required")
		}
	case ActionUnsubscribe:
		if r.SubscriptionID == nil {
			return errors.New("subscriptionId is required")
		}
	case ActionAuthorize:
		if r.Tokens == nil || (r.Tokens.Authorization == "" && r.Tokens.Device == "") {
			return errors.New("tokens are required")
		}
	}
	return nil
}
