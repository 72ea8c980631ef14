package protocol

import "encoding/json"

// Success responses, one type per action. Each constructor stamps the
// current wall-clock time; values are immutable snapshots serialized once.

type GetSuccess struct {
	Action    Action          `json:"action"`
	RequestID ReqID           `json:"requestId"`
	Value     json.RawMessage `json:"value"`
	Timestamp uint64          `json:"timestamp"`
}

func NewGetSuccess(requestID ReqID, value json.RawMessage) GetSuccess {
	return GetSuccess{Action: ActionGet, RequestID: requestID, Value: value, Timestamp: UnixTimestampMS()}
}

type SetSuccess struct {
	Action    Action `json:"action"`
	RequestID ReqID  `json:"requestId"`
	Timestamp uint64 `json:"timestamp"`
}

func NewSetSuccess(requestID ReqID) SetSuccess {
	return SetSuccess{Action: ActionSet, RequestID: requestID, Timestamp: UnixTimestampMS()}
}

type GetMetadataSuccess struct {
	Action    Action          `json:"action"`
	RequestID ReqID           `json:"requestId"`
	Metadata  json.RawMessage `json:"metadata"`
	Timestamp uint64          `json:"timestamp"`
}

func NewGetMetadataSuccess(requestID ReqID, metadata json.RawMessage) GetMetadataSuccess {
	return GetMetadataSuccess{Action: ActionGetMetadata, RequestID: requestID, Metadata: metadata, Timestamp: UnixTimestampMS()}
}

type SubscribeSuccess struct {
	Action         Action         `json:"action"`
	RequestID      ReqID          `json:"requestId"`
	SubscriptionID SubscriptionID `json:"subscriptionId"`
	Timestamp      uint64         `json:"timestamp"`
}

func NewSubscribeSuccess(requestID ReqID, subscriptionID SubscriptionID) SubscribeSuccess {
	return SubscribeSuccess{Action: ActionSubscribe, RequestID: requestID, SubscriptionID: subscriptionID, Timestamp: UnixTimestampMS()}
}

// SubscriptionNotification is the server-push message carrying a changed
// signal value to a subscriber.
type SubscriptionNotification struct {
	Action         Action          `json:"action"`
	SubscriptionID SubscriptionID  `json:"subscriptionId"`
	Value          json.RawMessage `json:"value"`
	Timestamp      uint64          `json:"timestamp"`
}

func NewSubscriptionNotification(subscriptionID SubscriptionID, value json.RawMessage) SubscriptionNotification {
	return SubscriptionNotification{Action: ActionSubscription, SubscriptionID: subscriptionID, Value: value, Timestamp: UnixTimestampMS()}
}

type UnsubscribeSuccess struct {
	Action         Action         `json:"action"`
	RequestID      ReqID          `json:"requestId"`
	SubscriptionID SubscriptionID `json:"subscriptionId"`
	Timestamp      uint64         `json:"timestamp"`
}

func NewUnsubscribeSuccess(requestID ReqID, subscriptionID SubscriptionID) UnsubscribeSuccess {
	return UnsubscribeSuccess{Action: ActionUnsubscribe, RequestID: requestID, SubscriptionID: subscriptionID, Timestamp: UnixTimestampMS()}
}

type UnsubscribeAllSuccess struct {
	Action    Action `json:"action"`
	RequestID ReqID  `json:"requestId"`
	Timestamp uint64 `json:"timestamp"`
}

func NewUnsubscribeAllSuccess(requestID ReqID) UnsubscribeAllSuccess {
	return UnsubscribeAllSuccess{Action: ActionUnsubscribeAll, RequestID: requestID, Timestamp: UnixTimestampMS()}
}

type AuthorizeSuccess struct {
	Action    Action `json:"action"`
	RequestID ReqID  `json:"requestId"`
	// TTL is the number of seconds the granted authorization stays valid.
	TTL       int64  `json:"TTL"`
	Timestamp uint64 `json:"timestamp"`
}

func NewAuthorizeSuccess(requestID ReqID, ttlSeconds int64) AuthorizeSuccess {
	return AuthorizeSuccess{Action: ActionAuthorize, RequestID: requestID, TTL: ttlSeconds, Timestamp: UnixTimestampMS()}
}
