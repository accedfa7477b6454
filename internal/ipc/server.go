package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"

	"livecap/internal/daemon"
	"livecap/internal/logging"
	"livecap/internal/manager"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Livecap", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func convertSession(info manager.SessionInfo) Session {
	return Session(info)
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.SessionCount = status.SessionCount
	resp.MaxSessions = status.MaxSessions
	resp.RecognizerListening = status.RecognizerListening
	resp.ArchivePath = status.ArchivePath
	resp.LockPath = status.LockPath
	resp.SocketPath = status.SocketPath
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) SessionList(_ SessionListRequest, resp *SessionListResponse) error {
	infos := s.daemon.Sessions()
	resp.Sessions = make([]Session, 0, len(infos))
	for _, info := range infos {
		resp.Sessions = append(resp.Sessions, convertSession(info))
	}
	return nil
}

func (s *service) SessionDescribe(req SessionDescribeRequest, resp *SessionDescribeResponse) error {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return errors.New("session id required")
	}
	info, ok := s.daemon.DescribeSession(id)
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}
	resp.Session = convertSession(info)
	return nil
}

func (s *service) SessionRemove(req SessionRemoveRequest, resp *SessionRemoveResponse) error {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return errors.New("session id required")
	}
	s.log().Debug("session remove requested", logging.String(logging.FieldSessionID, id))
	resp.Removed = s.daemon.RemoveSession(id)
	if resp.Removed {
		s.log().Info("session removed via IPC",
			logging.String(logging.FieldEventType, "session_remove"),
			logging.String(logging.FieldSessionID, id))
	}
	return nil
}

func (s *service) History(req HistoryRequest, resp *HistoryResponse) error {
	entries, err := s.daemon.History(s.ctx, req.SessionID, req.Limit)
	if err != nil {
		return err
	}
	resp.Entries = make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		resp.Entries = append(resp.Entries, HistoryEntry{
			CaptionID:   e.CaptionID,
			SessionID:   e.SessionID,
			MediumLabel: e.MediumLabel,
			Text:        e.Text,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			Confidence:  e.Confidence,
			DisplayedAt: e.DisplayedAt,
		})
	}
	return nil
}

func (s *service) Reports(req ReportsRequest, resp *ReportsResponse) error {
	reports := s.daemon.Reports(req.Limit)
	resp.Reports = make([]Report, 0, len(reports))
	for _, r := range reports {
		resp.Reports = append(resp.Reports, Report{
			Time:      r.Time,
			SessionID: r.SessionID,
			Stage:     r.Stage,
			Message:   r.Message,
		})
	}
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
