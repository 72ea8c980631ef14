package codes

import "net/http"

// Errors listed in the VIS specification error table, one constant per
// documented row. Entries are read-only for the life of the process.

var (
	// NotModified indicates the server made no changes.
	NotModified = ErrorCode{
		Number:  http.StatusNotModified,
		Reason:  "not_modified",
		Message: "No changes have been made by the server.",
	}

	// BadRequest indicates a malformed client request.
	BadRequest = ErrorCode{
		Number:  http.StatusBadRequest,
		Reason:  "bad_request",
		Message: "The server is unable to fulfill the client request because the request is malformed.",
	}
	// BadRequestFilterInvalid indicates a filter applied to a non-primitive type.
	BadRequestFilterInvalid = ErrorCode{
		Number:  http.StatusBadRequest,
		Reason:  "filter_invalid",
		Message: "Filter requested on non-primitive type.",
	}

	UnauthorizedUserTokenExpired = ErrorCode{
		Number:  http.StatusUnauthorized,
		Reason:  "user_token_expired",
		Message: "User token has expired.",
	}
	UnauthorizedUserTokenInvalid = ErrorCode{
		Number:  http.StatusUnauthorized,
		Reason:  "user_token_invalid",
		Message: "User token is invalid.",
	}
	UnauthorizedUserTokenMissing = ErrorCode{
		Number:  http.StatusUnauthorized,
		Reason:  "user_token_missing",
		Message: "User token is missing.",
	}
	UnauthorizedDeviceTokenExpired = ErrorCode{
		Number:  http.StatusUnauthorized,
		Reason:  "device_token_expired",
		Message: "Device token has expired.",
	}
	UnauthorizedDeviceTokenInvalid = ErrorCode{
		Number:  http.StatusUnauthorized,
		Reason:  "device_token_invalid",
		Message: "Device token is invalid.",
	}
	UnauthorizedDeviceTokenMissing = ErrorCode{
		Number:  http.StatusUnauthorized,
		Reason:  "device_token_missing",
		Message: "Device token is missing.",
	}
	UnauthorizedTooManyAttempts = ErrorCode{
		Number:  http.StatusUnauthorized,
		Reason:  "too_many_attempts",
		Message: "The client has failed to authenticate too many times.",
	}
	// UnauthorizedReadOnly rejects a set on a read-only signal.
	UnauthorizedReadOnly = ErrorCode{
		Number:  http.StatusUnauthorized,
		Reason:  "read_only",
		Message: "The desired signal cannot be set since it is a read only signal.",
	}

	ForbiddenUserForbidden = ErrorCode{
		Number:  http.StatusForbidden,
		Reason:  "user_forbidden",
		Message: "The user is not permitted to access the requested resource. Retrying does not help.",
	}
	ForbiddenUserUnknown = ErrorCode{
		Number:  http.StatusForbidden,
		Reason:  "user_unknown",
		Message: "The user is unknown. Retrying does not help.",
	}
	ForbiddenDeviceForbidden = ErrorCode{
		Number:  http.StatusForbidden,
		Reason:  "device_forbidden",
		Message: "The device is not permitted to access the requested resource. Retrying does not help.",
	}
	ForbiddenDeviceUnknown = ErrorCode{
		Number:  http.StatusForbidden,
		Reason:  "device_unknown",
		Message: "The device is unknown. Retrying does not help.",
	}

	NotFoundInvalidPath = ErrorCode{
		Number:  http.StatusNotFound,
		Reason:  "invalid_path",
		Message: "The specified data path does not exist.",
	}
	NotFoundPrivatePath = ErrorCode{
		Number:  http.StatusNotFound,
		Reason:  "private_path",
		Message: "The specified data path is private and the request is not authorized to access signals on this path.",
	}
	NotFoundInvalidSubscriptionID = ErrorCode{
		Number:  http.StatusNotFound,
		Reason:  "invalid_subscriptionId",
		Message: "The specified subscription was not found.",
	}

	NotAcceptable = ErrorCode{
		Number:  http.StatusNotAcceptable,
		Reason:  "not_acceptable",
		Message: "The server is unable to generate content that is acceptable to the client",
	}

	TooManyRequests = ErrorCode{
		Number:  http.StatusTooManyRequests,
		Reason:  "too_many_requests",
		Message: "The client has sent the server too many requests in a given amount of time.",
	}

	BadGateway = ErrorCode{
		Number:  http.StatusBadGateway,
		Reason:  "bad_gateway",
		Message: "The server was acting as a gateway or proxy and received an invalid response from an upstream server.",
	}
	ServiceUnavailable = ErrorCode{
		Number:  http.StatusServiceUnavailable,
		Reason:  "service_unavailable",
		Message: "The server is currently unable to handle the request due to a temporary overload or scheduled maintenance (which may be alleviated after some delay).",
	}
	GatewayTimeout = ErrorCode{
		Number:  http.StatusGatewayTimeout,
		Reason:  "gateway_timeout",
		Message: "The server did not receive a timely response from an upstream server it needed to access in order to complete the request.",
	}
)

// Registry exposes the full catalog for validation or docs.
var Registry = []ErrorCode{
	NotModified,
	BadRequest,
	BadRequestFilterInvalid,
	UnauthorizedUserTokenExpired,
	UnauthorizedUserTokenInvalid,
	UnauthorizedUserTokenMissing,
	UnauthorizedDeviceTokenExpired,
	UnauthorizedDeviceTokenInvalid,
	UnauthorizedDeviceTokenMissing,
	UnauthorizedTooManyAttempts,
	UnauthorizedReadOnly,
	ForbiddenUserForbidden,
	ForbiddenUserUnknown,
	ForbiddenDeviceForbidden,
	ForbiddenDeviceUnknown,
	NotFoundInvalidPath,
	NotFoundPrivatePath,
	NotFoundInvalidSubscriptionID,
	NotAcceptable,
	TooManyRequests,
	BadGateway,
	ServiceUnavailable,
	GatewayTimeout,
}
