package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jefrnc/optionsdash/internal/dashboard"
	"github.com/jefrnc/optionsdash/internal/filter"
	"github.com/jefrnc/optionsdash/internal/lifecycle"
)

// DashboardHandler exposes the view-model over HTTP.
type DashboardHandler struct {
	VM     *dashboard.ViewModel
	Logger *zap.Logger
	// NewLifecycle builds a fresh fetch for POST /refresh. Nil disables refresh.
	NewLifecycle func() *lifecycle.Lifecycle
}

func (h *DashboardHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)

	group := r.Group("/api/dashboard")
	group.GET("/state", h.state)
	group.GET("/overview", h.overview)
	group.GET("/metrics", h.metrics)
	group.GET("/strategy", h.strategy)
	group.GET("/trades", h.trades)
	group.GET("/exit-reasons", h.exitReasons)
	group.GET("/filters", h.getFilters)
	group.PUT("/filters", h.putFilters)
	group.PATCH("/filters", h.patchFilter)
	group.DELETE("/filters", h.resetFilters)
	group.POST("/refresh", h.refresh)
}

type stateResponse struct {
	State   lifecycle.State `json:"state"`
	Message string          `json:"message,omitempty"`
	Trades  int             `json:"trades"`
	Shown   int             `json:"shown"`
}

func (h *DashboardHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DashboardHandler) state(c *gin.Context) {
	st, msg := h.VM.State()
	v := h.VM.View()
	Ok(c, stateResponse{State: st, Message: msg, Trades: v.Total, Shown: v.Shown}, nil)
}

func (h *DashboardHandler) overview(c *gin.Context) {
	ov, err := h.VM.Overview()
	if err != nil {
		h.notReady(c, err)
		return
	}
	Ok(c, ov, nil)
}

func (h *DashboardHandler) metrics(c *gin.Context) {
	m, err := h.VM.Metrics()
	if err != nil {
		h.notReady(c, err)
		return
	}
	Ok(c, m, nil)
}

func (h *DashboardHandler) strategy(c *gin.Context) {
	Ok(c, h.VM.Strategy(), nil)
}

// trades serves the stored filters, with any query parameter overriding
// the matching field for this request only.
func (h *DashboardHandler) trades(c *gin.Context) {
	p := h.VM.Predicates()
	if hasFilterQuery(c) {
		var q filterQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		p = q.merge(p)
		Ok(c, h.VM.Preview(p), nil)
		return
	}
	Ok(c, h.VM.View(), nil)
}

func (h *DashboardHandler) exitReasons(c *gin.Context) {
	Ok(c, h.VM.View().ExitReasons, nil)
}

func (h *DashboardHandler) getFilters(c *gin.Context) {
	Ok(c, h.VM.Predicates(), nil)
}

func (h *DashboardHandler) putFilters(c *gin.Context) {
	var p filter.Predicates
	if err := c.ShouldBindJSON(&p); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	h.VM.SetPredicates(p)
	Ok(c, h.VM.View(), nil)
}

type filterEdit struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *DashboardHandler) patchFilter(c *gin.Context) {
	var edit filterEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.VM.SetFilter(edit.Field, edit.Value); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, h.VM.View(), nil)
}

func (h *DashboardHandler) resetFilters(c *gin.Context) {
	h.VM.ResetFilters()
	Ok(c, h.VM.View(), nil)
}

func (h *DashboardHandler) refresh(c *gin.Context) {
	if h.NewLifecycle == nil {
		Error(c, http.StatusNotImplemented, "refresh disabled", nil)
		return
	}
	lc := h.NewLifecycle()
	h.VM.Replace(lc)
	// The fetch outlives this request.
	lc.Start(context.WithoutCancel(c.Request.Context()))
	h.logger().Info("analytics refresh started")

	st, _ := h.VM.State()
	c.JSON(http.StatusAccepted, apiResponse{Code: 0, Message: "refresh started", Data: stateResponse{State: st}})
}

func (h *DashboardHandler) notReady(c *gin.Context, err error) {
	if !errors.Is(err, lifecycle.ErrNotReady) {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	st, msg := h.VM.State()
	if st == lifecycle.Failed {
		Error(c, http.StatusBadGateway, msg, map[string]any{"state": st})
		return
	}
	Error(c, http.StatusServiceUnavailable, "analytics loading", map[string]any{"state": st})
}

func (h *DashboardHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// filterQuery holds optional overrides; nil means "not given".
type filterQuery struct {
	OptionType   *string `form:"option_type"`
	ExitReason   *string `form:"exit_reason"`
	StrikeSearch *string `form:"strike"`
	MinPnL       *string `form:"min_pnl"`
	MaxPnL       *string `form:"max_pnl"`
}

func (q filterQuery) merge(p filter.Predicates) filter.Predicates {
	if q.OptionType != nil {
		p.OptionType = *q.OptionType
	}
	if q.ExitReason != nil {
		p.ExitReason = *q.ExitReason
	}
	if q.StrikeSearch != nil {
		p.StrikeSearch = *q.StrikeSearch
	}
	if q.MinPnL != nil {
		p.MinPnL = *q.MinPnL
	}
	if q.MaxPnL != nil {
		p.MaxPnL = *q.MaxPnL
	}
	return p
}

func hasFilterQuery(c *gin.Context) bool {
	for _, k := range []string{"option_type", "exit_reason", "strike", "min_pnl", "max_pnl"} {
		if _, ok := c.GetQuery(k); ok {
			return true
		}
	}
	return false
}
