package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/internal/metrics"
	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/internal/transform"
	"github.com/02loveslollipop/guardian-views/internal/views"
	"github.com/02loveslollipop/guardian-views/services/api/db"
)

// writeError maps storage and view errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, db.ErrTableNotFound),
		errors.Is(err, views.ErrViewDisabled),
		errors.Is(err, transform.ErrNoAlerts):
		status = http.StatusNotFound
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("table", c.Param("table")).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// loadView fetches the table config and rows for a view route. It writes
// the error response itself and reports false when the handler should stop.
func (s *Server) loadView(ctx context.Context, c *gin.Context, kind models.ViewKind) (models.ViewConfig, models.TableData, bool) {
	table := c.Param("table")

	cfgs, err := s.configs.FetchConfig(ctx)
	if err != nil {
		writeError(c, err)
		return models.ViewConfig{}, models.TableData{}, false
	}

	vc, ok := cfgs[table]
	if !ok || !vc.Active() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no views configured for table " + table})
		return models.ViewConfig{}, models.TableData{}, false
	}
	if !vc.Enabled(kind) {
		writeError(c, views.ErrViewDisabled)
		return models.ViewConfig{}, models.TableData{}, false
	}

	data, err := s.warehouse.FetchData(ctx, table)
	if err != nil {
		writeError(c, err)
		return models.ViewConfig{}, models.TableData{}, false
	}
	return vc, data, true
}

func observeView(kind string, start time.Time, rows int) {
	metrics.ViewBuildDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.ViewRowsServed.WithLabelValues(kind).Add(float64(rows))
}

// handleData returns the raw rows and column mapping of a table.
// GET /api/:table/data
func (s *Server) handleData(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	data, err := s.warehouse.FetchData(ctx, c.Param("table"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := views.Data(data)
	metrics.ViewRowsServed.WithLabelValues("data").Add(float64(len(resp.Data)))
	c.JSON(http.StatusOK, resp)
}

// GET /api/:table/map
func (s *Server) handleMap(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	vc, data, ok := s.loadView(ctx, c, models.ViewMap)
	if !ok {
		return
	}

	start := time.Now()
	resp, err := views.Map(c.Param("table"), data, vc, s.settings)
	if err != nil {
		writeError(c, err)
		return
	}
	observeView(string(models.ViewMap), start, len(resp.Data))
	c.JSON(http.StatusOK, resp)
}

// GET /api/:table/gallery
func (s *Server) handleGallery(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	vc, data, ok := s.loadView(ctx, c, models.ViewGallery)
	if !ok {
		return
	}

	start := time.Now()
	resp, err := views.Gallery(c.Param("table"), data, vc, s.settings)
	if err != nil {
		writeError(c, err)
		return
	}
	observeView(string(models.ViewGallery), start, len(resp.Data))
	c.JSON(http.StatusOK, resp)
}

// handleAlerts also loads the linked observation table when one is set.
// GET /api/:table/alerts
func (s *Server) handleAlerts(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	vc, data, ok := s.loadView(ctx, c, models.ViewAlerts)
	if !ok {
		return
	}

	var mapeo *models.TableData
	if table, linked := views.MapeoSource(vc); linked {
		md, err := s.warehouse.FetchData(ctx, table)
		if err != nil {
			writeError(c, err)
			return
		}
		mapeo = &md
	}

	start := time.Now()
	resp, err := views.Alerts(c.Param("table"), data, mapeo, vc, s.settings)
	if err != nil {
		writeError(c, err)
		return
	}
	observeView(string(models.ViewAlerts), start,
		len(resp.AlertsData.MostRecentAlerts.Features)+len(resp.AlertsData.PreviousAlerts.Features))
	c.JSON(http.StatusOK, resp)
}
