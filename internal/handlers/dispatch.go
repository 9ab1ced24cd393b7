package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"clinic-records-server/internal/dispatch"
	"clinic-records-server/internal/services"
	"clinic-records-server/internal/utils"
)

// DispatchHandler handles the select-companies-and-send workflow.
type DispatchHandler struct {
	Dispatcher *dispatch.Service
	Companies  *services.CompanyService
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(dispatcher *dispatch.Service, companies *services.CompanyService) *DispatchHandler {
	return &DispatchHandler{Dispatcher: dispatcher, Companies: companies}
}

// DispatchRequest represents the staff selection of companies to send to.
type DispatchRequest struct {
	CompanyIDs []string `json:"companyIds" binding:"required"`
}

// Dispatch runs the dispatch workflow for the selected companies. The
// response carries a per-company outcome map; individual delivery
// failures are reported there, not as an HTTP error.
func (h *DispatchHandler) Dispatch(c *gin.Context) {
	var req DispatchRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.Dispatcher.Dispatch(c.Request.Context(), req.CompanyIDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Dispatch completed", result)
}

// GetDispatchCandidates lists companies that have at least one record
// created on the given day (?date=YYYY-MM-DD, default today).
func (h *DispatchHandler) GetDispatchCandidates(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	companies, err := h.Companies.DispatchCandidates(c.Request.Context(), day)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Dispatch candidates fetched successfully", companies)
}
