package sink

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/toanth/monitors/internal/oracle"
)

// event is the JSON shape broadcast to every connected spectator.
type event struct {
	Type   string `json:"type"`
	FEN    string `json:"fen,omitempty"`
	Text   string `json:"text,omitempty"`
	Engine string `json:"engine,omitempty"`
	Result string `json:"result,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Live broadcasts every match event to browser spectators over
// websockets, a feature absent from both the distilled and original
// specifications and supplemented purely to exercise the pack's web
// transport dependencies.
type Live struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewLive constructs a Live sink with no connected spectators. Serve
// Handler() over HTTP (cmd/monitors passes it to http.ListenAndServe) to
// start accepting spectators.
func NewLive(log *zap.Logger) *Live {
	return &Live{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[*websocket.Conn]bool),
	}
}

// Handler returns the mux.Router serving the spectator websocket
// endpoint at /watch.
func (l *Live) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/watch", l.handleWatch)
	return r
}

func (l *Live) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.log.Warn("spectator upgrade failed", zap.Error(err))
		return
	}
	l.mu.Lock()
	l.clients[conn] = true
	l.mu.Unlock()

	go func() {
		defer l.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (l *Live) drop(conn *websocket.Conn) {
	l.mu.Lock()
	delete(l.clients, conn)
	l.mu.Unlock()
	conn.Close()
}

func (l *Live) broadcast(e event) {
	payload, err := json.Marshal(e)
	if err != nil {
		l.log.Error("marshal spectator event", zap.Error(err))
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for conn := range l.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(l.clients, conn)
		}
	}
}

func (l *Live) Show(board oracle.Board) {
	l.broadcast(event{Type: "position", FEN: board.FEN()})
}

func (l *Live) DisplayMessage(message string) {
	l.broadcast(event{Type: "message", Text: message})
}

func (l *Live) UpdateEngineInfo(engineName, line string) {
	l.broadcast(event{Type: "info", Engine: engineName, Text: line})
}

func (l *Live) InformGameOver(result, reason string) {
	l.broadcast(event{Type: "gameover", Result: result, Reason: reason})
}

func (l *Live) WriteUgiInput(engineName, line string) {
	l.broadcast(event{Type: "ugi_in", Engine: engineName, Text: line})
}

func (l *Live) WriteUgiOutput(engineName, line string) {
	l.broadcast(event{Type: "ugi_out", Engine: engineName, Text: line})
}
