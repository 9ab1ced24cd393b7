package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"clinic-records-server/internal/services"
	"clinic-records-server/internal/utils"
)

// PatientHandler handles patient-related requests.
type PatientHandler struct {
	Patients *services.PatientService
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(patients *services.PatientService) *PatientHandler {
	return &PatientHandler{Patients: patients}
}

// PatientRequest represents the request body for creating or updating a
// patient.
type PatientRequest struct {
	CompanyID      string `json:"companyId" binding:"required,uuid"`
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	DateOfBirth    string `json:"dateOfBirth"` // YYYY-MM-DD
	DocumentNumber string `json:"documentNumber"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

func (r *PatientRequest) toInput() (services.PatientInput, error) {
	in := services.PatientInput{
		CompanyID:      r.CompanyID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DocumentNumber: r.DocumentNumber,
		Phone:          r.Phone,
		Email:          r.Email,
	}
	if r.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", r.DateOfBirth)
		if err != nil {
			return in, err
		}
		in.DateOfBirth = &dob
	}
	return in, nil
}

// CreatePatient handles registering a new patient under a company.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		utils.BadRequest(c, "Invalid date of birth, expected YYYY-MM-DD")
		return
	}

	patient, err := h.Patients.Create(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Patient created successfully", patient)
}

// GetPatients handles listing patients, optionally filtered by company
// (?companyId=) or looked up by document number (?documentNumber=).
func (h *PatientHandler) GetPatients(c *gin.Context) {
	if doc := c.Query("documentNumber"); doc != "" {
		patient, err := h.Patients.GetByDocument(c.Request.Context(), doc)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, "Patient fetched successfully", patient)
		return
	}

	patients, err := h.Patients.List(c.Request.Context(), c.Query("companyId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatientByID handles fetching a single patient.
func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.Patients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Patient fetched successfully", patient)
}

// UpdatePatient handles updating an existing patient.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req PatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		utils.BadRequest(c, "Invalid date of birth, expected YYYY-MM-DD")
		return
	}

	patient, err := h.Patients.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Patient updated successfully", patient)
}

// DeletePatient handles deleting a patient together with their medical
// records.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.Patients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Patient and all associated records deleted", nil)
}
