// Package server serves the VIS protocol over WebSocket. One connection is
// one session: requests are dispatched in arrival order and each produces
// exactly one response, while subscription notifications are pushed from the
// signal store's change feed.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Goden-Gun/vis-server/pkg/auth"
	"github.com/Goden-Gun/vis-server/pkg/codes"
	"github.com/Goden-Gun/vis-server/pkg/config"
	"github.com/Goden-Gun/vis-server/pkg/envelope"
	"github.com/Goden-Gun/vis-server/pkg/metrics"
	"github.com/Goden-Gun/vis-server/pkg/protocol"
	"github.com/Goden-Gun/vis-server/pkg/signal"
	"github.com/Goden-Gun/vis-server/pkg/tracing"

	log "github.com/Goden-Gun/vis-server/pkg/logger"
)

// Egress mirrors accepted client writes onto an external feed.
// *kafka.Feed satisfies it.
type Egress interface {
	PublishSet(ctx context.Context, path string, value json.RawMessage, timestamp uint64) error
}

// Server owns the WebSocket endpoint and the active sessions.
type Server struct {
	cfg        config.ServerConfig
	tree       *signal.Tree
	authorizer *auth.Authorizer
	upgrader   websocket.Upgrader

	egress Egress
	stat   *metrics.Stat

	sessionMu sync.Mutex
	sessions  map[*session]struct{}
}

// New wires the server onto the signal tree's change feed.
func New(cfg config.ServerConfig, tree *signal.Tree, authorizer *auth.Authorizer) *Server {
	cfg.ApplyDefaults()
	s := &Server{
		cfg:        cfg,
		tree:       tree,
		authorizer: authorizer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[*session]struct{}),
	}
	tree.OnChange(s.broadcast)
	return s
}

// SetEgress installs the feed for mirroring accepted sets. Optional.
func (s *Server) SetEgress(e Egress) { s.egress = e }

// SetStat installs the metrics collectors. Optional.
func (s *Server) SetStat(stat *metrics.Stat) { s.stat = stat }

// broadcast fans one signal change out to every session's registry.
func (s *Server) broadcast(path string, v signal.Value) {
	s.sessionMu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessionMu.Unlock()

	for _, sess := range sessions {
		sent := sess.registry.Notify(path, v.Data, v.Timestamp)
		if s.stat != nil && sent > 0 {
			s.stat.Notifications.Add(float64(sent))
		}
	}
}

// Serve listens on the configured address until ctx is cancelled, then
// closes the listener and every open connection.
func (s *Server) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, s)
	srv := &http.Server{Addr: s.cfg.ListenAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeAll()
	}()

	log.WithFields(log.Fields{"addr": s.cfg.ListenAddr, "path": s.cfg.Path}).Info("vis endpoint listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) closeAll() {
	s.sessionMu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessionMu.Unlock()
	for _, sess := range sessions {
		_ = sess.conn.Close()
	}
}

// ServeHTTP upgrades the connection and runs its read loop to completion.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := tracing.ExtractHeaders(r.Context(), r.Header)

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	clientID := r.RemoteAddr
	if host, _, splitErr := net.SplitHostPort(r.RemoteAddr); splitErr == nil {
		clientID = host
	}

	conn := newSafeConn(wsConn, time.Duration(s.cfg.WriteTimeoutSeconds)*time.Second)
	sess := newSession(conn, clientID, s.cfg.RequestsPerSecond, s.cfg.RequestBurst)

	s.sessionMu.Lock()
	s.sessions[sess] = struct{}{}
	s.sessionMu.Unlock()
	if s.stat != nil {
		s.stat.ActiveConnections.Inc()
	}
	log.WithTrace(ctx).WithField("client", clientID).Info("client connected")

	defer func() {
		s.sessionMu.Lock()
		delete(s.sessions, sess)
		s.sessionMu.Unlock()
		if s.stat != nil {
			s.stat.ActiveConnections.Dec()
		}
		_ = conn.Close()
		log.WithField("client", clientID).Info("client disconnected")
	}()

	wsConn.SetReadLimit(s.cfg.MaxMessageBytes)
	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			return
		}
		s.handleMessage(ctx, sess, data)
	}
}

// handleMessage turns one inbound frame into exactly one outbound message.
func (s *Server) handleMessage(ctx context.Context, sess *session, data []byte) {
	tracer := tracing.Tracer("vis-server")
	ctx, span := tracer.Start(ctx, "vis.request")
	defer span.End()

	if !sess.limiter.Allow() {
		s.write(sess, probeError(data, codes.TooManyRequests))
		return
	}

	req, err := protocol.ParseRequest(data)
	if err != nil {
		log.WithError(err).Debug("request rejected")
		s.write(sess, probeError(data, codes.Deserialization()))
		return
	}
	if s.stat != nil {
		s.stat.Requests.WithLabelValues(string(req.Action)).Inc()
	}

	if err := req.Validate(); err != nil {
		s.write(sess, requestError(req, codes.BadRequest))
		return
	}

	s.write(sess, s.dispatch(ctx, sess, req))
}

func (s *Server) write(sess *session, v any) {
	if ae, ok := v.(envelope.ActionError); ok && s.stat != nil {
		s.stat.Errors.WithLabelValues(string(ae.Action), ae.Error.Reason).Inc()
	}
	if err := sess.conn.WriteJSON(v); err != nil {
		log.WithError(err).WithField("client", sess.clientID).Warn("response write failed")
	}
}
