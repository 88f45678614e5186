package progress

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize    = 64
	writeWait         = 10 * time.Second
	inactiveThreshold = 2 * time.Hour
)

// Event - 클라이언트로 보내는 진행 상황 메시지
type Event struct {
	Type       string    `json:"type"` // stage | progress | done | failed
	SessionID  string    `json:"sessionId"`
	BatchID    string    `json:"batchId,omitempty"`
	Stage      string    `json:"stage,omitempty"`
	StatusText string    `json:"statusText,omitempty"`
	Progress   int       `json:"progress"`
	Completed  int       `json:"completed,omitempty"`
	Total      int       `json:"total,omitempty"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// 연결된 클라이언트
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// 세션별 구독자 묶음
type room struct {
	id           string
	clients      map[*client]struct{}
	mutex        sync.RWMutex
	createdAt    time.Time
	lastActivity time.Time
}

// Metrics - 허브 상태
type Metrics struct {
	TotalSessions    int       `json:"totalSessions"`
	ActiveSessions   int       `json:"activeSessions"`
	TotalConnections int       `json:"totalConnections"`
	EventsPublished  int       `json:"eventsPublished"`
	StartTime        time.Time `json:"startTime"`
}

// Hub - 세션 ID 기준 진행 상황 브로드캐스트
type Hub struct {
	rooms    map[string]*room
	mutex    sync.RWMutex
	metrics  Metrics
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]*room),
		metrics: Metrics{StartTime: time.Now()},
		upgrader: websocket.Upgrader{
			// 개발용 - 모든 origin 허용
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) getOrCreateRoom(sessionID string) *room {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	rm, exists := h.rooms[sessionID]
	if !exists {
		now := time.Now()
		rm = &room{
			id:           sessionID,
			clients:      make(map[*client]struct{}),
			createdAt:    now,
			lastActivity: now,
		}
		h.rooms[sessionID] = rm
		h.metrics.TotalSessions++
		h.metrics.ActiveSessions++
		log.Printf("✅ [Progress] Created session room: %s (Active: %d)", sessionID, h.metrics.ActiveSessions)
	}
	return rm
}

// ServeWS - GET /ws/progress?session=<id>
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "missing session parameter", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Progress] WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	rm := h.getOrCreateRoom(sessionID)

	rm.mutex.Lock()
	rm.clients[c] = struct{}{}
	rm.lastActivity = time.Now()
	count := len(rm.clients)
	rm.mutex.Unlock()

	h.mutex.Lock()
	h.metrics.TotalConnections++
	h.mutex.Unlock()

	log.Printf("👤 [Progress] Client joined session %s (Clients: %d)", sessionID, count)

	go c.writePump()
	go c.readPump(rm)
}

// Publish - 세션 구독자 전체에 이벤트 전송 (구독자가 없으면 버림)
func (h *Hub) Publish(ev Event) {
	if h == nil || ev.SessionID == "" {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	h.mutex.Lock()
	rm, exists := h.rooms[ev.SessionID]
	h.metrics.EventsPublished++
	h.mutex.Unlock()
	if !exists {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("❌ [Progress] Error marshaling event: %v", err)
		return
	}
	rm.broadcast(data)
}

func (rm *room) broadcast(data []byte) {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	rm.lastActivity = time.Now()
	for c := range rm.clients {
		select {
		case c.send <- data:
		default:
			// 느린 클라이언트는 끊음
			close(c.send)
			delete(rm.clients, c)
		}
	}
}

func (rm *room) remove(c *client) {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	if _, exists := rm.clients[c]; exists {
		close(c.send)
		delete(rm.clients, c)
		rm.lastActivity = time.Now()
		log.Printf("👋 [Progress] Client left session %s (Remaining: %d)", rm.id, len(rm.clients))
	}
}

// 클라이언트 메시지는 무시, 연결 종료 감지용
func (c *client) readPump(rm *room) {
	defer func() {
		rm.remove(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ [Progress] WebSocket error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("⚠️ [Progress] WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// cleanup - 비어있고 오래 쓰이지 않은 세션 정리
func (h *Hub) cleanup(now time.Time, idle time.Duration) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	cleaned := 0
	for id, rm := range h.rooms {
		rm.mutex.RLock()
		stale := len(rm.clients) == 0 && now.Sub(rm.lastActivity) >= idle
		rm.mutex.RUnlock()

		if stale {
			delete(h.rooms, id)
			h.metrics.ActiveSessions--
			cleaned++
		}
	}
	if cleaned > 0 {
		log.Printf("🧹 [Progress] Cleaned up %d idle sessions (Active: %d)", cleaned, h.metrics.ActiveSessions)
	}
	return cleaned
}

// StartCleanupRoutine - 5분마다 빈 세션 정리, ctx 종료 시 중단
func (h *Hub) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				h.cleanup(now, inactiveThreshold)
			}
		}
	}()
	log.Printf("🔄 [Progress] Started session cleanup routine (every 5min)")
}

// Snapshot - 메트릭 복사본
func (h *Hub) Snapshot() Metrics {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.metrics
}

// HandleMetrics - GET /api/progress/metrics
func (h *Hub) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	m := h.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"uptime":  time.Since(m.StartTime).String(),
		"metrics": m,
	})
}
