package handlers

import (
	"net/http"

	"github.com/abrezinsky/luckydraw/internal/services"
)

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	baseURL, err := h.Settings.GetBaseURL(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	values, err := h.Settings.AllSettings(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	delete(values, services.SettingBaseURL)
	if values == nil {
		values = map[string]string{}
	}

	respondOK(w, SettingsResponse{BaseURL: baseURL, Values: values})
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.UpdateSettings(r.Context(), services.Settings{
		BaseURL: req.BaseURL,
		Values:  req.Values,
	}); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Settings updated")
}
