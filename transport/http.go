package transport

import (
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"chat-core/auth"
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
	"chat-core/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// Server wires the HTTP API and the websocket endpoint.
type Server struct {
	log      *slog.Logger
	authSvc  services.IAuthService
	chatSvc  services.IChatService
	users    repositories.IUserRepository
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewServer(log *slog.Logger, authSvc services.IAuthService,
	chatSvc services.IChatService, users repositories.IUserRepository, hub *Hub) *Server {
	return &Server{
		log:     log,
		authSvc: authSvc,
		chatSvc: chatSvc,
		users:   users,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/signup", s.handleSignup)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("GET /api/messages", s.handleMessages)
	mux.HandleFunc("GET /api/messages/search", s.handleSearch)
	mux.HandleFunc("/ws", s.handleSocket)
	return mux
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid data")
		return
	}

	user, err := s.authSvc.Signup(req)
	switch {
	case goerrors.Is(err, errors.ErrMalformedData):
		writeError(w, http.StatusBadRequest, "Invalid data")
		return
	case goerrors.Is(err, errors.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, "User already exists")
		return
	case err != nil:
		s.log.Error("Signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Signup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"user": map[string]any{
			"username":    user.Username,
			"displayname": user.Display(),
			"permissions": user.Permissions,
		},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusUnauthorized, "Invalid data")
		return
	}

	token, err := s.authSvc.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"access_token": token,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if _, err := s.usernameFromRequest(r); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Token is valid"})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if _, err := s.usernameFromRequest(r); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	messages, err := s.chatSvc.RecentMessages()
	if err != nil {
		s.log.Error("Failed to load recent messages", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load messages")
		return
	}

	payloads := lo.Map(messages, func(m repositories.StoredMessage, _ int) domain.Payload {
		return domain.Payload{
			Message:   m.Content,
			Author:    m.Author,
			Timestamp: m.At.Format("15:04:05"),
			Type:      m.Type,
		}
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "messages": payloads})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if _, err := s.usernameFromRequest(r); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	terms := r.URL.Query().Get("q")
	if terms == "" {
		writeError(w, http.StatusBadRequest, "Missing query")
		return
	}

	hits, err := s.chatSvc.Search(r.Context(), terms)
	if err != nil {
		s.log.Error("Search failed", "terms", terms, "error", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "results": hits})
}

// handleSocket authenticates the session token, refuses banned accounts,
// and binds the connection into the hub. Messages then flow readPump ->
// chat service -> pipeline for the life of the socket.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(r)
	}
	username, err := s.authSvc.Verify(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := s.users.GetUser(username)
	if err != nil || user.Permissions == domain.PermNone {
		writeError(w, http.StatusForbidden, "Connection refused")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Upgrade failed", "error", err)
		return
	}

	c := &client{
		id:       uuid.NewString(),
		username: user.Username,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		log:      s.log,
	}
	s.hub.register(c)
	go c.writePump()

	s.chatSvc.AnnounceConnect(user)

	go func() {
		defer func() {
			s.hub.unregister(c)
			s.chatSvc.AnnounceDisconnect(c.username)
		}()
		c.readPump(func(text string) {
			s.chatSvc.HandleMessage(c.id, c.username, text)
		})
	}()
}

func (s *Server) usernameFromRequest(r *http.Request) (string, error) {
	return s.authSvc.Verify(bearerToken(r))
}

func bearerToken(r *http.Request) string {
	return strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": message})
}
