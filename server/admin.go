package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"xoarena/standings"
)

// StatsSource 对局层指标（由 session.Coordinator 实现）
type StatsSource interface {
	Stats() map[string]any
}

// Admin 只读的管理与监控接口
type Admin struct {
	ledger    *standings.Ledger
	game      StatsSource
	transport *Metrics
}

func NewAdmin(ledger *standings.Ledger, game StatsSource, transport *Metrics) *Admin {
	return &Admin{ledger: ledger, game: game, transport: transport}
}

// HandleStandings 输出排行榜
// GET /standings
func (a *Admin) HandleStandings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"leaderboard": a.ledger.Snapshot()})
}

// HandleMetrics 输出运行指标
// GET /metrics
func (a *Admin) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"game":      a.game.Stats(),
		"transport": a.transport.Snapshot(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// NewRouter 组装 HTTP 路由并加上 CORS
func NewRouter(gw *Gateway, admin *Admin, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", gw.HandleWS).Methods(http.MethodGet)
	r.HandleFunc("/standings", admin.HandleStandings).Methods(http.MethodGet)
	r.HandleFunc("/metrics", admin.HandleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}
