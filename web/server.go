package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"phishsafe/bridge"
	"phishsafe/manager"
	"phishsafe/query"
)

type Server struct {
	db      *query.Database
	monitor *manager.ScreenMonitor
	channel *bridge.Channel
}

func NewServer(db *query.Database, monitor *manager.ScreenMonitor, channel *bridge.Channel) *Server {
	return &Server{db: db, monitor: monitor, channel: channel}
}

// Handler returns the routes wrapped in the request logger.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/bridge", s.handleBridge)
	mux.HandleFunc("/bridge/ws", s.handleBridgeSocket)

	mux.HandleFunc("/api/detections", s.handleDetections)
	mux.HandleFunc("/api/detections_delete", s.handleDetectionsDelete)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/keywords", s.handleKeywords)
	mux.HandleFunc("/api/unkeyword", s.handleUnkeyword)

	return requestLogger(mux)
}

// StartServer serves in the background on addr.
func StartServer(addr string, s *Server) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Bridge and admin API on http://%v\n", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println("web server error:", err)
		}
	}()
	return srv
}

type bridgeCall struct {
	Channel string `json:"channel"`
	Method  string `json:"method"`
}

func (s *Server) handleBridge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	var body bridgeCall
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	if body.Channel != s.channel.Name() { http.Error(w, "unknown channel", http.StatusNotFound); return }
	writeJSON(w, s.channel.Invoke(strings.TrimSpace(body.Method)))
}

func (s *Server) handleDetections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	if v := strings.TrimSpace(r.URL.Query().Get("id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil { http.Error(w, "bad id", http.StatusBadRequest); return }
		item, err := s.db.GetDetection(id)
		if errors.Is(err, query.ErrNotFound) { http.Error(w, "detection not found", http.StatusNotFound); return }
		if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
		writeJSON(w, item); return
	}
	limit := 100
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 { http.Error(w, "bad limit", http.StatusBadRequest); return }
		limit = n
	}
	items, err := s.db.GetDetections(limit)
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, items)
}

func (s *Server) handleDetectionsDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	type req struct{ IDs []int64 `json:"ids"` }
	var body req
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	if len(body.IDs) == 0 { http.Error(w, "ids empty", http.StatusBadRequest); return }
	deleted, notFound, err := s.db.DeleteDetections(body.IDs)
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]any{"status": "ok", "deleted": deleted, "not_found": notFound})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDetectionStats()
	if err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, stats)
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		set, _ := s.monitor.Probe().Policy().Keywords()
		writeJSON(w, map[string]any{"active": set.Words(), "policy": s.monitor.Probe().Policy().Name()})
		return
	}
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	type req struct{ Name string `json:"name"` }
	var body req
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	name := strings.TrimSpace(body.Name)
	if name == "" { http.Error(w, "name empty", http.StatusBadRequest); return }
	if err := s.monitor.AddKeyword(name); err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]string{"status":"ok"})
}

func (s *Server) handleUnkeyword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost { http.Error(w, "method not allowed", http.StatusMethodNotAllowed); return }
	type req struct{ Name string `json:"name"` }
	var body req
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil { http.Error(w, "bad request", http.StatusBadRequest); return }
	name := strings.TrimSpace(body.Name)
	if name == "" { http.Error(w, "name empty", http.StatusBadRequest); return }
	if err := s.monitor.RemoveKeyword(name); err != nil { http.Error(w, err.Error(), http.StatusInternalServerError); return }
	writeJSON(w, map[string]string{"status":"ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
