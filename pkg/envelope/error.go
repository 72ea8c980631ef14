package envelope

import (
	"fmt"

	"github.com/Goden-Gun/vis-server/pkg/codes"
	"github.com/Goden-Gun/vis-server/pkg/protocol"
)

// ActionError is the error response sent when a client request or a pushed
// notification fails. One value belongs to exactly one action variant,
// chosen by the constructor that built it; the variant is never inferred
// from field contents.
//
// Wire contract (field names are consumed by external clients):
//
//	{
//	  "action": "get" | "set" | ... | "subscriptionNotification",
//	  "requestId": <int|string>,      // absent only for subscriptionNotification
//	  "subscriptionId": <int|string>, // present only for unsubscribe, subscriptionNotification
//	  "error": {"number": ..., "reason": ..., "message": ...},
//	  "timestamp": <uint64 ms since epoch>
//	}
type ActionError struct {
	Action         protocol.Action          `json:"action"`
	RequestID      *protocol.ReqID          `json:"requestId,omitempty"`
	SubscriptionID *protocol.SubscriptionID `json:"subscriptionId,omitempty"`
	Error          codes.ErrorCode          `json:"error"`
	Timestamp      uint64                   `json:"timestamp"`
}

func (e ActionError) String() string {
	return fmt.Sprintf("ActionError:%+v", map[string]any{
		"action": e.Action, "error": e.Error, "timestamp": e.Timestamp,
	})
}

func newRequestError(action protocol.Action, requestID protocol.ReqID, err codes.ErrorCode) ActionError {
	return ActionError{
		Action:    action,
		RequestID: &requestID,
		Error:     err,
		Timestamp: protocol.UnixTimestampMS(),
	}
}

// NewGetError builds the error response for a failed get request.
func NewGetError(requestID protocol.ReqID, err codes.ErrorCode) ActionError {
	return newRequestError(protocol.ActionGet, requestID, err)
}

// NewSetError builds the error response for a failed set request.
func NewSetError(requestID protocol.ReqID, err codes.ErrorCode) ActionError {
	return newRequestError(protocol.ActionSet, requestID, err)
}

// NewSubscribeError builds the error response for a failed subscribe request.
func NewSubscribeError(requestID protocol.ReqID, err codes.ErrorCode) ActionError {
	return newRequestError(protocol.ActionSubscribe, requestID, err)
}

// NewSubscriptionError builds the error response reported against an
// established subscription, correlated by the originating request.
func NewSubscriptionError(requestID protocol.ReqID, err codes.ErrorCode) ActionError {
	return newRequestError(protocol.ActionSubscription, requestID, err)
}

// NewSubscriptionNotificationError builds the error form of a pushed
// notification. It carries no request id; the subscription id is the only
// correlation the client has.
func NewSubscriptionNotificationError(subscriptionID protocol.SubscriptionID, err codes.ErrorCode) ActionError {
	return ActionError{
		Action:         protocol.ActionSubscriptionNotification,
		SubscriptionID: &subscriptionID,
		Error:          err,
		Timestamp:      protocol.UnixTimestampMS(),
	}
}

// NewUnsubscribeError builds the error response for a failed unsubscribe
// request. It echoes the subscription id the client tried to drop.
func NewUnsubscribeError(requestID protocol.ReqID, subscriptionID protocol.SubscriptionID, err codes.ErrorCode) ActionError {
	e := newRequestError(protocol.ActionUnsubscribe, requestID, err)
	e.SubscriptionID = &subscriptionID
	return e
}

// NewUnsubscribeAllError builds the error response for a failed
// unsubscribeAll request.
func NewUnsubscribeAllError(requestID protocol.ReqID, err codes.ErrorCode) ActionError {
	return newRequestError(protocol.ActionUnsubscribeAll, requestID, err)
}

// NewGetMetadataError builds the error response for a failed getMetadata
// request.
func NewGetMetadataError(requestID protocol.ReqID, err codes.ErrorCode) ActionError {
	return newRequestError(protocol.ActionGetMetadata, requestID, err)
}

// NewAuthorizeError builds the error response for a failed authorize request.
func NewAuthorizeError(requestID protocol.ReqID, err codes.ErrorCode) ActionError {
	return newRequestError(protocol.ActionAuthorize, requestID, err)
}

// FromIOError is the defensive fallback for contexts that must produce an
// envelope but no longer know which action faulted, such as recovering from
// a write failure while pushing a notification. It defaults to the
// subscriptionNotification variant with subscription id 0; the zero id is a
// sentinel, not a real subscription reference.
func FromIOError(ioErr error) ActionError {
	return NewSubscriptionNotificationError(protocol.SubscriptionIDZero, codes.FromIOError(ioErr))
}
