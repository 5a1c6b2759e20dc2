package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/services/api/db"
)

// handleGetConfig returns the stored configs and the warehouse tables that
// have none yet.
// GET /api/config
func (s *Server) handleGetConfig(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	cfgs, err := s.configs.FetchConfig(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	names, err := s.warehouse.FetchTableNames(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, []any{cfgs, db.Unconfigured(names, cfgs)})
}

// POST /api/config/new_table/:table
func (s *Server) handleNewTable(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	table := c.Param("table")
	if err := s.configs.AddNewTable(ctx, table); err != nil {
		writeError(c, err)
		return
	}

	logging.Ctx(ctx).Info().Str("table", table).Msg("table added to config")
	c.JSON(http.StatusOK, gin.H{"message": "New table added successfully"})
}

// POST /api/config/update_config/:table
func (s *Server) handleUpdateConfig(c *gin.Context) {
	var vc models.ViewConfig
	if err := c.ShouldBindJSON(&vc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config body: " + err.Error()})
		return
	}
	if err := s.validate.Struct(vc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	table := c.Param("table")
	if err := s.configs.UpdateConfig(ctx, table, vc); err != nil {
		writeError(c, err)
		return
	}

	logging.Ctx(ctx).Info().Str("table", table).Msg("config updated")
	c.JSON(http.StatusOK, gin.H{"message": "Configuration updated successfully"})
}

// POST /api/config/delete_table/:table
func (s *Server) handleDeleteTable(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	table := c.Param("table")
	if err := s.configs.RemoveTable(ctx, table); err != nil {
		writeError(c, err)
		return
	}

	logging.Ctx(ctx).Info().Str("table", table).Msg("table removed from config")
	c.JSON(http.StatusOK, gin.H{"message": "Table removed from views configuration."})
}
