package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/service"

	"go.uber.org/zap"
)

// PagesHandler the keyed marketing sections (home, about, features, pricing, settings).
type PagesHandler struct {
	svc    *service.PageService
	audit  *service.AuditService
	logger *zap.Logger
}

func NewPagesHandler(svc *service.PageService, audit *service.AuditService, logger *zap.Logger) *PagesHandler {
	return &PagesHandler{svc: svc, audit: audit, logger: logger}
}

func (h *PagesHandler) Get(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := h.svc.GetPage(r.Context(), key)
		if err != nil {
			writeError(w, h.logger, "GetPage", err, "", "Failed to fetch "+key+" content")
			return
		}
		writeJSON(w, http.StatusOK, Ok(content))
	}
}

// Put stores the request body as the page content, replacing what was there.
func (h *PagesHandler) Put(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, h.logger, "UpsertPage", err, "", "Failed to update "+key+" content")
			return
		}
		content := json.RawMessage(bytes.TrimSpace(body))
		if len(content) == 0 {
			content = domain.EmptyContent
		}
		if !json.Valid(content) {
			writeError(w, h.logger, "UpsertPage", errors.New("request body is not valid JSON"), "", "Failed to update "+key+" content")
			return
		}
		page, err := h.svc.UpsertPage(r.Context(), key, content)
		if err != nil {
			writeError(w, h.logger, "UpsertPage", err, "", "Failed to update "+key+" content")
			return
		}
		h.audit.Record(r.Context(), newAuditEntry(r, "page.update", "marketing_page", key))
		writeJSON(w, http.StatusOK, OkMessage(page.Content, "Content updated successfully"))
	}
}

type OnboardingHandler struct {
	svc    *service.OnboardingService
	audit  *service.AuditService
	logger *zap.Logger
}

func NewOnboardingHandler(svc *service.OnboardingService, audit *service.AuditService, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{svc: svc, audit: audit, logger: logger}
}

func (h *OnboardingHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.GetOnboarding(r.Context())
	if err != nil {
		writeError(w, h.logger, "GetOnboarding", err, "", "Failed to fetch onboarding")
		return
	}
	writeJSON(w, http.StatusOK, Ok(doc))
}

func (h *OnboardingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateOnboardingRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "UpdateOnboarding", err, "", "Failed to update onboarding")
		return
	}
	doc, err := h.svc.UpdateOnboarding(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "UpdateOnboarding", err, "", "Failed to update onboarding")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "onboarding.update", "marketing_onboarding", doc.ID))
	writeJSON(w, http.StatusOK, OkMessage(doc, "Onboarding updated successfully"))
}

func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.CompleteOnboarding(r.Context())
	if err != nil {
		writeError(w, h.logger, "CompleteOnboarding", err, "", "Failed to complete onboarding")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "onboarding.complete", "marketing_onboarding", doc.ID))
	writeJSON(w, http.StatusOK, OkMessage(doc, "Onboarding completed"))
}

type SettingsHandler struct {
	svc    *service.SettingsService
	audit  *service.AuditService
	logger *zap.Logger
}

func NewSettingsHandler(svc *service.SettingsService, audit *service.AuditService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, audit: audit, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Get(r.Context())
	if err != nil {
		writeError(w, h.logger, "GetPlatformSettings", err, "", "Failed to fetch platform settings")
		return
	}
	writeJSON(w, http.StatusOK, Ok(s))
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeError(w, h.logger, "UpdatePlatformSettings", err, "", "Failed to update platform settings")
		return
	}
	s, err := h.svc.Update(r.Context(), body)
	if err != nil {
		writeError(w, h.logger, "UpdatePlatformSettings", err, "", "Failed to update platform settings")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "platform_settings.update", "platform_settings", s.ID))
	writeJSON(w, http.StatusOK, OkMessage(s, "Platform settings updated successfully"))
}
