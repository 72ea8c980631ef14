package protocol

// Action names a protocol operation a client can invoke or the server can
// push. The string values are wire tags consumed by external clients and
// must not change.
type Action string

const (
	ActionAuthorize                Action = "authorize"
	ActionGetMetadata              Action = "getMetadata"
	ActionGet                      Action = "get"
	ActionSet                      Action = "set"
	ActionSubscribe                Action = "subscribe"
	ActionSubscription             Action = "subscription"
	ActionSubscriptionNotification Action = "subscriptionNotification"
	ActionUnsubscribe              Action = "unsubscribe"
	ActionUnsubscribeAll           Action = "unsubscribeAll"
)

// ClientActions lists the actions a client may send. Subscription and
// subscriptionNotification are server-push only.
var ClientActions = []Action{
	ActionAuthorize,
	ActionGetMetadata,
	ActionGet,
	ActionSet,
	ActionSubscribe,
	ActionUnsubscribe,
	ActionUnsubscribeAll,
}
