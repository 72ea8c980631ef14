package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Goden-Gun/vis-server/pkg/codes"
	"github.com/Goden-Gun/vis-server/pkg/envelope"
	"github.com/Goden-Gun/vis-server/pkg/protocol"
	"github.com/Goden-Gun/vis-server/pkg/signal"

	log "github.com/Goden-Gun/vis-server/pkg/logger"
)

// dispatch executes one validated request and returns exactly one response
// message, success or error.
func (s *Server) dispatch(ctx context.Context, sess *session, req *protocol.Request) any {
	switch req.Action {
	case protocol.ActionAuthorize:
		grant, err := s.authorizer.Authorize(ctx, *req.Tokens, sess.clientID)
		if err != nil {
			var ec codes.ErrorCode
			if !errors.As(err, &ec) {
				ec = codes.FromIOError(err)
			}
			return envelope.NewAuthorizeError(req.RequestID, ec)
		}
		sess.setGrant(grant)
		return protocol.NewAuthorizeSuccess(req.RequestID, grant.TTLSeconds())

	case protocol.ActionGet:
		v, err := s.tree.Get(req.Path, sess.authorized())
		if err != nil {
			return envelope.NewGetError(req.RequestID, signalError(err))
		}
		return protocol.NewGetSuccess(req.RequestID, v.Data)

	case protocol.ActionGetMetadata:
		meta, err := s.tree.Subtree(req.Path, sess.authorized())
		if err != nil {
			return envelope.NewGetMetadataError(req.RequestID, signalError(err))
		}
		return protocol.NewGetMetadataSuccess(req.RequestID, meta)

	case protocol.ActionSet:
		timestamp := protocol.UnixTimestampMS()
		if err := s.tree.Set(req.Path, req.Value, timestamp, sess.authorized()); err != nil {
			return envelope.NewSetError(req.RequestID, signalError(err))
		}
		if s.egress != nil {
			if err := s.egress.PublishSet(ctx, req.Path, req.Value, timestamp); err != nil {
				log.WithError(err).WithField("path", req.Path).Warn("egress publish failed")
			}
		}
		return protocol.NewSetSuccess(req.RequestID)

	case protocol.ActionSubscribe:
		meta, ok := s.tree.Meta(req.Path)
		if !ok || meta.IsBranch() {
			return envelope.NewSubscribeError(req.RequestID, codes.NotFoundInvalidPath)
		}
		if meta.Private && !sess.authorized() {
			return envelope.NewSubscribeError(req.RequestID, codes.NotFoundPrivatePath)
		}
		if req.Filters != nil && (req.Filters.Range != nil || req.Filters.MinChange != nil) && !meta.IsPrimitive() {
			return envelope.NewSubscribeError(req.RequestID, codes.BadRequestFilterInvalid)
		}
		id := sess.registry.Subscribe(req.Path, req.Filters)
		return protocol.NewSubscribeSuccess(req.RequestID, id)

	case protocol.ActionUnsubscribe:
		id := *req.SubscriptionID
		if err := sess.registry.Unsubscribe(id); err != nil {
			return envelope.NewUnsubscribeError(req.RequestID, id, codes.NotFoundInvalidSubscriptionID)
		}
		return protocol.NewUnsubscribeSuccess(req.RequestID, id)

	case protocol.ActionUnsubscribeAll:
		sess.registry.UnsubscribeAll()
		return protocol.NewUnsubscribeAllSuccess(req.RequestID)
	}

	return requestError(req, codes.BadRequest)
}

// signalError maps a signal classification onto its error-table entry.
// The mapping lives here so the signal package stays policy-free.
func signalError(err error) codes.ErrorCode {
	switch {
	case errors.Is(err, signal.ErrInvalidPath):
		return codes.NotFoundInvalidPath
	case errors.Is(err, signal.ErrPrivatePath):
		return codes.NotFoundPrivatePath
	case errors.Is(err, signal.ErrReadOnly):
		return codes.UnauthorizedReadOnly
	case errors.Is(err, signal.ErrInvalidValue):
		return codes.BadRequest
	}
	return codes.FromIOError(err)
}

// requestError wraps ec in the envelope variant matching the request's action.
func requestError(req *protocol.Request, ec codes.ErrorCode) envelope.ActionError {
	switch req.Action {
	case protocol.ActionGet:
		return envelope.NewGetError(req.RequestID, ec)
	case protocol.ActionSet:
		return envelope.NewSetError(req.RequestID, ec)
	case protocol.ActionGetMetadata:
		return envelope.NewGetMetadataError(req.RequestID, ec)
	case protocol.ActionAuthorize:
		return envelope.NewAuthorizeError(req.RequestID, ec)
	case protocol.ActionSubscribe:
		return envelope.NewSubscribeError(req.RequestID, ec)
	case protocol.ActionUnsubscribe:
		id := protocol.SubscriptionIDZero
		if req.SubscriptionID != nil {
			id = *req.SubscriptionID
		}
		return envelope.NewUnsubscribeError(req.RequestID, id, ec)
	case protocol.ActionUnsubscribeAll:
		return envelope.NewUnsubscribeAllError(req.RequestID, ec)
	}
	return envelope.NewGetError(req.RequestID, ec)
}

// bareError is the reply to a message that could not be decoded far enough
// to name an action. It carries the error object and timestamp only.
type bareError struct {
	Error     codes.ErrorCode `json:"error"`
	Timestamp uint64          `json:"timestamp"`
}

// probeError builds the best-correlated error for a raw message that failed
// before dispatch: if an action and request id can still be recovered the
// reply uses the matching envelope variant, otherwise it degrades to a bare
// error object.
func probeError(raw []byte, ec codes.ErrorCode) any {
	var probe struct {
		Action    protocol.Action `json:"action"`
		RequestID protocol.ReqID  `json:"requestId"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil {
		for _, a := range protocol.ClientActions {
			if probe.Action == a {
				return requestError(&protocol.Request{Action: probe.Action, RequestID: probe.RequestID}, ec)
			}
		}
	}
	return bareError{Error: ec, Timestamp: protocol.UnixTimestampMS()}
}
