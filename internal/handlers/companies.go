package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-records-server/internal/services"
	"clinic-records-server/internal/utils"
)

// CompanyHandler handles company-related requests.
type CompanyHandler struct {
	Companies *services.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companies *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{Companies: companies}
}

// CompanyRequest represents the request body for creating or updating a
// company.
type CompanyRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CreateCompany handles creating a new company.
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req CompanyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	company, err := h.Companies.Create(c.Request.Context(), services.CompanyInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Company created successfully", company)
}

// GetCompanies handles listing companies, optionally filtered by a name
// substring (?name=).
func (h *CompanyHandler) GetCompanies(c *gin.Context) {
	companies, err := h.Companies.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Companies fetched successfully", companies)
}

// GetCompanyByID handles fetching a single company.
func (h *CompanyHandler) GetCompanyByID(c *gin.Context) {
	company, err := h.Companies.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Company fetched successfully", company)
}

// UpdateCompany handles updating an existing company.
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req CompanyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	company, err := h.Companies.Update(c.Request.Context(), c.Param("id"), services.CompanyInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Company updated successfully", company)
}

// DeleteCompany handles deleting a company together with its patients and
// their medical records.
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	if err := h.Companies.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Company and all associated patients and records deleted", nil)
}
