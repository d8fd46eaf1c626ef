package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/licenses/internal/httputil"
	"github.com/allisson/licenses/internal/license/http/dto"
	licenseUseCase "github.com/allisson/licenses/internal/license/usecase"
)

// LicenseHandler serves the loaded license and, when a ledger is configured, the
// issued-license records.
type LicenseHandler struct {
	manager licenseUseCase.LicenseManager
	ledger  licenseUseCase.LedgerUseCase
	now     func() time.Time
	logger  *slog.Logger
}

// NewLicenseHandler creates a license handler. ledger may be nil when the host
// application only verifies licenses.
func NewLicenseHandler(
	manager licenseUseCase.LicenseManager,
	ledger licenseUseCase.LedgerUseCase,
	logger *slog.Logger,
) *LicenseHandler {
	return &LicenseHandler{
		manager: manager,
		ledger:  ledger,
		now:     time.Now,
		logger:  logger,
	}
}

// RegisterRoutes mounts the handlers on r:
//
//	GET /license          current license
//	GET /licenses         ledger page (offset, limit)
//	GET /licenses/:id     ledger record
func (h *LicenseHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/license", h.StatusHandler)
	if h.ledger != nil {
		r.GET("/licenses", h.ListIssuedHandler)
		r.GET("/licenses/:id", h.GetIssuedHandler)
	}
}

// StatusHandler returns the loaded license.
// GET /license - Returns 200 OK, or 503 when no license is loaded.
func (h *LicenseHandler) StatusHandler(c *gin.Context) {
	l, err := h.manager.Current()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response, err := dto.MapLicenseToResponse(l, h.now())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetIssuedHandler retrieves a ledger record by license ID.
// GET /licenses/:id - Returns 200 OK with the record and its signed wire form.
func (h *LicenseHandler) GetIssuedHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid license ID format: must be a valid UUID"),
			h.logger)
		return
	}

	issued, err := h.ledger.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIssuedLicenseToResponse(issued))
}

// ListIssuedHandler lists ledger records, newest first.
// GET /licenses?offset=0&limit=50 - Returns 200 OK with a page of records.
func (h *LicenseHandler) ListIssuedHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	issued, err := h.ledger.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIssuedLicensesToListResponse(issued))
}
