package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"krishilink/internal/db"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for /api/routes.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

type SystemHandler struct {
	DB *sql.DB
}

func (SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "KrishiLink API is running", "time": time.Now().UTC()})
}

func (h SystemHandler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "database is not connected")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "database ping failed")
		return
	}
	var count int
	if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "database query failed")
		return
	}
	tables := make(map[string]bool, len(db.Tables))
	for _, t := range db.Tables {
		tables[t] = db.HasTable(ctx, h.DB, t)
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "users_in_db": count, "tables": tables})
}

func (SystemHandler) Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "unavailable", "router is not ready")
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{"method": rt.Method, "path": rt.Path})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
