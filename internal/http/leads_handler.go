package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/models"
	"github.com/sagar-developer08/Api-v2-sub001/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const leadNotFound = "Lead not found"

type LeadsHandler struct {
	svc    *service.LeadService
	audit  *service.AuditService
	logger *zap.Logger
}

func NewLeadsHandler(svc *service.LeadService, audit *service.AuditService, logger *zap.Logger) *LeadsHandler {
	return &LeadsHandler{svc: svc, audit: audit, logger: logger}
}

func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.svc.ListLeads(r.Context(), service.ListLeadsRequest{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   models.ParsePageRequest(q.Get("page"), q.Get("limit")),
	})
	if err != nil {
		writeError(w, h.logger, "ListLeads", err, "", "Failed to fetch leads")
		return
	}
	writeJSON(w, http.StatusOK, OkPage(resp.Items, resp.Pagination))
}

func (h *LeadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.svc.GetLead(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, "GetLead", err, leadNotFound, "Failed to fetch lead")
		return
	}
	writeJSON(w, http.StatusOK, Ok(lead))
}

// Create is the public intake form.
func (h *LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLeadRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "CreateLead", err, "", "Failed to create lead")
		return
	}
	lead, err := h.svc.CreateLead(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "CreateLead", err, "", "Failed to create lead")
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage(lead, "Lead submitted successfully"))
}

func (h *LeadsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body map[string]json.RawMessage
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeError(w, h.logger, "UpdateLead", err, "", "Failed to update lead")
		return
	}
	patch, err := domain.BuildLeadPatch(body)
	if err != nil {
		writeError(w, h.logger, "UpdateLead", err, "", "Failed to update lead")
		return
	}
	lead, err := h.svc.UpdateLead(r.Context(), id, patch)
	if err != nil {
		writeError(w, h.logger, "UpdateLead", err, leadNotFound, "Failed to update lead")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "lead.update", "lead", lead.ID))
	writeJSON(w, http.StatusOK, OkMessage(lead, "Lead updated successfully"))
}

func (h *LeadsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.DeleteLead(r.Context(), id); err != nil {
		writeError(w, h.logger, "DeleteLead", err, leadNotFound, "Failed to delete lead")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "lead.delete", "lead", id))
	writeJSON(w, http.StatusOK, OkMessage(nil, "Lead deleted successfully"))
}

type convertLeadRequest struct {
	ConversionType string `json:"conversionType"`
	Notes          string `json:"notes"`
}

// Convert accepts conversionType/notes for client compatibility; they are not stored.
func (h *LeadsHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req convertLeadRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "ConvertLead", err, "", "Failed to convert lead")
		return
	}
	lead, err := h.svc.ConvertLead(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "ConvertLead", err, leadNotFound, "Failed to convert lead")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "lead.convert", "lead", id))
	writeJSON(w, http.StatusOK, OkMessage(lead, "Lead converted successfully"))
}

type addLeadNoteRequest struct {
	Note    *string `json:"note"`
	Content *string `json:"content"` // legacy field name
}

func (h *LeadsHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req addLeadNoteRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "AddLeadNote", err, "", "Failed to add note")
		return
	}
	text := ""
	switch {
	case req.Note != nil:
		text = *req.Note
	case req.Content != nil:
		text = *req.Content
	}
	note, err := h.svc.AddLeadNote(r.Context(), service.AddLeadNoteRequest{
		LeadID:    id,
		Note:      text,
		CreatedBy: identityFrom(r.Context()).UserID,
	})
	if err != nil {
		writeError(w, h.logger, "AddLeadNote", err, "", "Failed to add note")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "lead.note.create", "lead", id))
	writeJSON(w, http.StatusCreated, OkMessage(note, "Note added successfully"))
}

// History GET /leads/{id}/history, newest note first.
func (h *LeadsHandler) History(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListLeadNotes(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, "ListLeadNotes", err, "", "Failed to fetch lead history")
		return
	}
	writeJSON(w, http.StatusOK, Ok(notes))
}

// Export GET /leads/export?status=&search= as an xlsx attachment.
func (h *LeadsHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leads, err := h.svc.ExportLeads(r.Context(), q.Get("status"), q.Get("search"))
	if err != nil {
		writeError(w, h.logger, "ExportLeads", err, "", "Failed to export leads")
		return
	}
	data, err := GenerateLeadExport(leads)
	if err != nil {
		writeError(w, h.logger, "ExportLeads", err, "", "Failed to export leads")
		return
	}
	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
