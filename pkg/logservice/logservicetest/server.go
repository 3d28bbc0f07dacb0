// Package logservicetest provides an in-memory conversation-log service for
// tests, served over httptest.
package logservicetest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/pulseai/pulsedesk/pkg/logservice"
)

// Operation names used by Calls and Fail.
const (
	OpGet    = "get"
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

type Server struct {
	*httptest.Server

	mu            sync.Mutex
	conversations map[string]logservice.Conversation
	order         []string
	calls         map[string]int
	failures      map[string]int
	lastRequestID string
}

// NewServer starts a fake log service. It is closed by t.Cleanup when the
// caller registers it; otherwise call Close.
func NewServer(seed ...logservice.Conversation) *Server {
	s := &Server{
		conversations: map[string]logservice.Conversation{},
		calls:         map[string]int{},
		failures:      map[string]int{},
	}
	for _, c := range seed {
		s.Put(c)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /log", s.handleList)
	mux.HandleFunc("POST /log", s.handleCreate)
	mux.HandleFunc("GET /log/{id}", s.handleGet)
	mux.HandleFunc("PUT /log/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /log/{id}", s.handleDelete)

	s.Server = httptest.NewServer(mux)
	return s
}

// Config returns a client config pointed at the fake.
func (s *Server) Config() logservice.Config {
	return logservice.Config{BaseURL: s.URL, TimeoutSeconds: 5}
}

// Client returns a real client pointed at the fake.
func (s *Server) Client() *logservice.Client {
	return logservice.New(s.Config())
}

// Put stores c, assigning an id when empty, and returns the id.
func (s *Server) Put(c logservice.Conversation) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(c)
}

func (s *Server) putLocked(c logservice.Conversation) string {
	if c.ID == "" {
		c.ID = newObjectID()
	}
	if c.Timestamp == "" {
		c.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if _, exists := s.conversations[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.conversations[c.ID] = c
	return c.ID
}

// Conversation returns a stored conversation after a JSON round trip, so the
// result looks exactly like what a client would decode.
func (s *Server) Conversation(id string) (logservice.Conversation, bool) {
	s.mu.Lock()
	c, ok := s.conversations[id]
	s.mu.Unlock()
	if !ok {
		return logservice.Conversation{}, false
	}

	var out logservice.Conversation
	b, _ := json.Marshal(c)
	_ = json.Unmarshal(b, &out)
	return out, true
}

// Len returns the number of stored conversations.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// Calls returns how many requests hit op.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Fail makes every following request for op answer with status.
func (s *Server) Fail(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = status
}

// LastRequestID is the X-Request-Id of the most recent request.
func (s *Server) LastRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequestID
}

func (s *Server) begin(w http.ResponseWriter, r *http.Request, op string) bool {
	s.mu.Lock()
	s.calls[op]++
	s.lastRequestID = r.Header.Get("X-Request-Id")
	status := s.failures[op]
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return false
	}
	return true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, OpList) {
		return
	}

	s.mu.Lock()
	out := make([]logservice.Conversation, 0, len(s.order))
	for _, id := range s.order {
		if c, ok := s.conversations[id]; ok {
			out = append(out, c)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, OpGet) {
		return
	}

	s.mu.Lock()
	c, ok := s.conversations[r.PathValue("id")]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Log not found"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, OpCreate) {
		return
	}

	var req logservice.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	userInfo := req.UserInfo
	s.mu.Lock()
	id := s.putLocked(logservice.Conversation{
		Chat:     req.Chat,
		UserInfo: &userInfo,
		Report:   req.Report,
		Matches:  req.Matches,
	})
	saved := s.conversations[id]
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "saved": saved})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, OpUpdate) {
		return
	}

	var req logservice.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	s.mu.Lock()
	c, ok := s.conversations[r.PathValue("id")]
	if ok {
		if req.Chat != nil {
			c.Chat = req.Chat
		}
		if req.UserInfo != nil {
			c.UserInfo = req.UserInfo
		}
		if req.Report != nil {
			c.Report = req.Report
		}
		if req.Matches != nil {
			c.Matches = req.Matches
		}
		s.conversations[c.ID] = c
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Log not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "updated": c})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, OpDelete) {
		return
	}

	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.conversations[id]
	if ok {
		delete(s.conversations, id)
		s.order = removeID(s.order, id)
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Log not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// IDs returns the stored ids in sorted order.
func (s *Server) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.conversations))
	for id := range s.conversations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newObjectID mimics a 24-hex-character document id.
func newObjectID() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
