package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"clinic-records-server/internal/dispatch"
	"clinic-records-server/internal/services"
	"clinic-records-server/internal/utils"
)

// MedicalRecordHandler handles medical record related requests. Records
// are append-only: there are no update or delete endpoints.
type MedicalRecordHandler struct {
	Records    *services.MedicalRecordService
	Dispatcher *dispatch.Service
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(records *services.MedicalRecordService, dispatcher *dispatch.Service) *MedicalRecordHandler {
	return &MedicalRecordHandler{Records: records, Dispatcher: dispatcher}
}

// CreateMedicalRecordRequest represents the request body for creating a
// medical record.
type CreateMedicalRecordRequest struct {
	PatientID  string `json:"patientId" binding:"required,uuid"`
	Notes      string `json:"notes" binding:"required"`
	Diagnosis  string `json:"diagnosis"`
	Medication string `json:"medication"`
	VisitDate  string `json:"visitDate"` // YYYY-MM-DD
}

// CreateMedicalRecord handles creating a new medical record.
func (h *MedicalRecordHandler) CreateMedicalRecord(c *gin.Context) {
	var req CreateMedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	in := services.MedicalRecordInput{
		PatientID:  req.PatientID,
		Notes:      req.Notes,
		Diagnosis:  req.Diagnosis,
		Medication: req.Medication,
	}
	if req.VisitDate != "" {
		visit, err := time.Parse("2006-01-02", req.VisitDate)
		if err != nil {
			utils.BadRequest(c, "Invalid visit date, expected YYYY-MM-DD")
			return
		}
		in.VisitDate = &visit
	}

	record, err := h.Records.Create(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Medical record created successfully", record)
}

// GetMedicalRecords handles listing a patient's records (?patientId=).
func (h *MedicalRecordHandler) GetMedicalRecords(c *gin.Context) {
	records, err := h.Records.ListByPatient(c.Request.Context(), c.Query("patientId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Medical records fetched successfully", records)
}

// GetMedicalRecordByID handles fetching a single record.
func (h *MedicalRecordHandler) GetMedicalRecordByID(c *gin.Context) {
	record, err := h.Records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Medical record fetched successfully", record)
}

// SendMedicalRecord emails a single record's summary to the company of
// the record's patient.
func (h *MedicalRecordHandler) SendMedicalRecord(c *gin.Context) {
	record, err := h.Records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.Dispatcher.SendRecord(c.Request.Context(), record); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Medical record emailed to company", nil)
}
