package app

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

const defaultHistoryPageSize = 50

// DispatchResponse is the wire form of a dispatch outcome. Error carries the
// failure message when Success is false; the document reflects the state
// after the dispatch either way.
type DispatchResponse struct {
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Document project.Document `json:"document"`
}

type historyResponse struct {
	Events  []historyEvent `json:"events"`
	NextSeq uint64         `json:"nextSeq,omitempty"`
}

type historyEvent struct {
	Seq         uint64           `json:"seq"`
	Topic       string           `json:"topic"`
	Origin      string           `json:"origin"`
	CommandType string           `json:"commandType"`
	Timestamp   time.Time        `json:"timestamp"`
	Document    project.Document `json:"document"`
}

// Handler returns the HTTP surface for the app: project reads, command
// dispatch, undo and redo, the event journal, and the websocket bridge.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/project", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, a.Status())
	})

	mux.HandleFunc("/commands", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req DispatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		result, doc := a.Dispatch(r.Context(), req)
		writeDispatchResponse(w, result.Success, result.Err, doc)
	})

	mux.HandleFunc("/undo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		result, doc := a.Undo(r.Context())
		writeDispatchResponse(w, result.Success, result.Err, doc)
	})

	mux.HandleFunc("/redo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		result, doc := a.Redo(r.Context())
		writeDispatchResponse(w, result.Success, result.Err, doc)
	})

	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		afterSeq, _ := strconv.ParseUint(r.URL.Query().Get("afterSeq"), 10, 64)
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if pageSize <= 0 {
			pageSize = defaultHistoryPageSize
		}
		page, err := a.History(r.Context(), afterSeq, pageSize)
		if err != nil {
			log.Printf("list history: %v", err)
			http.Error(w, "failed to list history", http.StatusInternalServerError)
			return
		}
		response := historyResponse{
			Events:  make([]historyEvent, 0, len(page.Events)),
			NextSeq: page.NextSeq,
		}
		for _, record := range page.Events {
			response.Events = append(response.Events, historyEvent{
				Seq:         record.Seq,
				Topic:       record.Topic,
				Origin:      record.Origin,
				CommandType: record.CommandType,
				Timestamp:   record.Timestamp,
				Document:    record.Document,
			})
		}
		writeJSON(w, http.StatusOK, response)
	})

	mux.HandleFunc("/events", a.hub.Handle)

	return mux
}

func writeDispatchResponse(w http.ResponseWriter, success bool, err error, doc project.Document) {
	response := DispatchResponse{Success: success, Document: doc}
	status := http.StatusOK
	if err != nil {
		response.Error = err.Error()
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("encode response: %v", err)
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
