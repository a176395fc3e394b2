package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/autocitypro/import-service/internal/clients"
	"github.com/autocitypro/import-service/internal/config"
	"github.com/autocitypro/import-service/internal/events"
	"github.com/autocitypro/import-service/internal/importer"
	"github.com/autocitypro/import-service/internal/mapper"
	"github.com/autocitypro/import-service/internal/models"
	"github.com/autocitypro/import-service/internal/parser"
	"github.com/autocitypro/import-service/internal/sessions"
	"github.com/autocitypro/import-service/internal/validator"
)

// ImportHandler exposes the bulk-import wizard over HTTP: mode selection,
// file upload and parsing, column mapping, validation, and the run itself
// with progress, cancel and retry.
type ImportHandler struct {
	store     *sessions.Store
	catalog   *clients.CatalogClient
	publisher *events.Publisher
	cfg       *config.Config
	log       *logrus.Entry
}

func NewImportHandler(store *sessions.Store, catalog *clients.CatalogClient, publisher *events.Publisher, cfg *config.Config, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		cfg:       cfg,
		log:       logger.WithField("component", "import-handler"),
	}
}

// RegisterRoutes mounts the wizard endpoints.
func (h *ImportHandler) RegisterRoutes(r *gin.RouterGroup) {
	imp := r.Group("/import")
	{
		imp.GET("/template", h.GetTemplate)
		imp.POST("/sessions", h.CreateSession)
		imp.DELETE("/sessions/:id", h.DeleteSession)
		imp.POST("/sessions/:id/file", h.UploadFile)
		imp.GET("/sessions/:id/mapping", h.GetMapping)
		imp.PUT("/sessions/:id/mapping", h.UpdateMapping)
		imp.POST("/sessions/:id/validate", h.ValidateRows)
		imp.PATCH("/sessions/:id/rows/:index/stock", h.UpdateRowStock)
		imp.POST("/sessions/:id/start", h.StartImport)
		imp.GET("/sessions/:id/progress", h.GetProgress)
		imp.POST("/sessions/:id/cancel", h.CancelImport)
		imp.POST("/sessions/:id/retry", h.RetryFailed)
	}
}

type createSessionRequest struct {
	Mode models.ImportMode `json:"mode"`
}

// CreateSession starts a wizard session in the chosen mode.
// POST /api/v1/import/sessions
func (h *ImportHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Mode.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_MODE", "Mode must be 'fast' or 'stock'")
		return
	}

	session := h.store.Create(req.Mode)
	h.log.WithFields(logrus.Fields{"session": session.ID, "mode": session.Mode}).Info("session created")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"session": gin.H{"id": session.ID, "mode": session.Mode},
	})
}

// DeleteSession discards a session. Switching modes goes through here:
// all uploaded, mapped and validated state is dropped.
// DELETE /api/v1/import/sessions/:id
func (h *ImportHandler) DeleteSession(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Import session not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadFile accepts a CSV or Excel file, parses it and proposes a column
// mapping. The file must carry a header row and at least one non-blank
// data row.
// POST /api/v1/import/sessions/:id/file
func (h *ImportHandler) UploadFile(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if imp := session.Import(); imp != nil && imp.Running() {
		respondError(c, http.StatusConflict, "IMPORT_RUNNING", "An import is already running for this session")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload a CSV or Excel file")
		return
	}
	defer file.Close()

	format, err := parser.DetectFormat(header.Filename)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "READ_ERROR", "Could not read the uploaded file")
		return
	}

	sheet, err := parser.Parse(data, format)
	if err != nil {
		code := "PARSE_ERROR"
		if errors.Is(err, parser.ErrEmptyFile) {
			code = "EMPTY_FILE"
		}
		respondError(c, http.StatusBadRequest, code, err.Error())
		return
	}

	mapping := mapper.Propose(sheet.Headers)
	session.SetSheet(sheet, mapping)

	// The known category list lets validation pre-resolve category ids.
	// A failure here is not fatal: unresolved names are auto-created at
	// import time anyway.
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Warn("failed to fetch categories, validation will defer resolution")
		categories = nil
	}
	session.SetCategories(categories)

	h.log.WithFields(logrus.Fields{
		"session": session.ID,
		"file":    header.Filename,
		"rows":    len(sheet.Rows),
	}).Info("file parsed")

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"headers":  sheet.Headers,
		"mapping":  mapping,
		"rowCount": len(sheet.Rows),
	})
}

// GetMapping returns the current column map.
// GET /api/v1/import/sessions/:id/mapping
func (h *ImportHandler) GetMapping(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	sheet := session.Sheet()
	if sheet == nil {
		respondError(c, http.StatusConflict, "NO_FILE", "Upload a file before reading the mapping")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"headers": sheet.Headers,
		"mapping": session.Mapping(),
		"fields":  models.Fields(),
	})
}

type updateMappingRequest struct {
	Mapping map[string]models.Field `json:"mapping"`
}

// UpdateMapping overlays user overrides onto the proposed map and
// discards any previously validated rows.
// PUT /api/v1/import/sessions/:id/mapping
func (h *ImportHandler) UpdateMapping(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if imp := session.Import(); imp != nil && imp.Running() {
		respondError(c, http.StatusConflict, "IMPORT_RUNNING", "An import is already running for this session")
		return
	}
	sheet := session.Sheet()
	if sheet == nil {
		respondError(c, http.StatusConflict, "NO_FILE", "Upload a file before editing the mapping")
		return
	}

	var req updateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "Request body must carry a mapping object")
		return
	}

	mapping, err := mapper.Apply(session.Mapping(), sheet.Headers, req.Mapping)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_MAPPING", err.Error())
		return
	}
	session.SetMapping(mapping)

	c.JSON(http.StatusOK, gin.H{"success": true, "mapping": mapping})
}

// ValidateRows derives the candidate row set from the sheet and the
// current mapping. The gate: at least one column must map to the product
// name.
// POST /api/v1/import/sessions/:id/validate
func (h *ImportHandler) ValidateRows(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if imp := session.Import(); imp != nil && imp.Running() {
		respondError(c, http.StatusConflict, "IMPORT_RUNNING", "An import is already running for this session")
		return
	}
	sheet := session.Sheet()
	if sheet == nil {
		respondError(c, http.StatusConflict, "NO_FILE", "Upload a file before validating")
		return
	}

	mapping := session.Mapping()
	if err := mapper.Validate(mapping, sheet.Headers); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "NAME_NOT_MAPPED", err.Error())
		return
	}

	rows := validator.ValidateSheet(sheet, mapping, session.Categories(), session.Mode.WarningsEnabled())

	sessionID := session.ID
	imp := importer.NewSession(h.catalog, rows, importer.Options{
		RowDelay:    h.cfg.RowDelay,
		SKUPageSize: h.cfg.SKUPageSize,
		SKUPrefix:   h.cfg.SKUPrefix,
		Logger:      h.log.Logger,
		OnRowStatus: func(row models.ImportRow) {
			h.publisher.PublishRowStatus(sessionID, row)
		},
		OnProgress: func(p models.ImportProgress) {
			h.publisher.PublishProgress(sessionID, p)
		},
	})
	session.SetImport(imp)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rows":    imp.Rows(),
		"stats":   imp.Stats(),
	})
}

type updateStockRequest struct {
	CurrentStock float64 `json:"currentStock"`
}

// UpdateRowStock edits CurrentStock inline on one pending row. Stock-Edit
// mode only.
// PATCH /api/v1/import/sessions/:id/rows/:index/stock
func (h *ImportHandler) UpdateRowStock(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if !session.Mode.StockEditable() {
		respondError(c, http.StatusForbidden, "MODE_FORBIDS_EDIT", "Rows are not editable in fast entry mode")
		return
	}
	imp := session.Import()
	if imp == nil {
		respondError(c, http.StatusConflict, "NOT_VALIDATED", "Validate rows before editing")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INDEX", "Row index must be an integer")
		return
	}

	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "Request body must carry currentStock")
		return
	}
	if req.CurrentStock < 0 {
		respondError(c, http.StatusBadRequest, "INVALID_STOCK", "Current stock cannot be negative")
		return
	}

	switch err := imp.SetStock(index, req.CurrentStock); {
	case errors.Is(err, importer.ErrRowNotFound):
		respondError(c, http.StatusNotFound, "ROW_NOT_FOUND", "No row with that index")
	case errors.Is(err, importer.ErrRowNotEditable):
		respondError(c, http.StatusConflict, "ROW_NOT_EDITABLE", "Row has already been imported")
	case errors.Is(err, importer.ErrImportRunning):
		respondError(c, http.StatusConflict, "IMPORT_RUNNING", "Rows cannot be edited while an import is running")
	case err != nil:
		respondError(c, http.StatusInternalServerError, "INTERNAL", err.Error())
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// StartImport launches the sequential driver in the background.
// POST /api/v1/import/sessions/:id/start
func (h *ImportHandler) StartImport(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	imp := session.Import()
	if imp == nil {
		respondError(c, http.StatusConflict, "NOT_VALIDATED", "Validate rows before starting the import")
		return
	}
	if imp.Running() {
		respondError(c, http.StatusConflict, "IMPORT_RUNNING", "An import is already running for this session")
		return
	}

	sessionID := session.ID
	go func() {
		// The run outlives the HTTP request that started it.
		if _, err := imp.Run(context.Background()); err != nil {
			h.log.WithField("session", sessionID).WithError(err).Error("import run failed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

// GetProgress snapshots rows and aggregate counters.
// GET /api/v1/import/sessions/:id/progress
func (h *ImportHandler) GetProgress(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	imp := session.Import()
	if imp == nil {
		respondError(c, http.StatusConflict, "NOT_VALIDATED", "No validated rows in this session")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"progress": imp.Progress(),
		"rows":     imp.Rows(),
		"stats":    imp.Stats(),
	})
}

// CancelImport requests cooperative cancellation; no further rows are
// started and any in-flight catalog request is aborted with the run
// context.
// POST /api/v1/import/sessions/:id/cancel
func (h *ImportHandler) CancelImport(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	imp := session.Import()
	if imp == nil {
		respondError(c, http.StatusConflict, "NOT_VALIDATED", "No validated rows in this session")
		return
	}
	imp.Cancel()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RetryFailed resets error rows to pending and returns the flow to the
// review step. Success and skipped rows are untouched.
// POST /api/v1/import/sessions/:id/retry
func (h *ImportHandler) RetryFailed(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	imp := session.Import()
	if imp == nil {
		respondError(c, http.StatusConflict, "NOT_VALIDATED", "No validated rows in this session")
		return
	}

	reset, err := imp.ResetFailed()
	if err != nil {
		respondError(c, http.StatusConflict, "IMPORT_RUNNING", "Wait for the running import to finish")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reset":   reset,
		"stats":   imp.Stats(),
	})
}

func (h *ImportHandler) session(c *gin.Context) (*sessions.Session, bool) {
	session, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Import session not found")
		return nil, false
	}
	return session, true
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: code, Message: message},
	})
}
