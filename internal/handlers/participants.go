package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/abrezinsky/luckydraw/internal/models"
)

func (h *Handlers) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	participants, err := h.Participants.ListParticipants(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	respondOK(w, participants)
}

func (h *Handlers) handleAddParticipants(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ParticipantAddRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.Names != "" {
		added, err := h.Participants.AddParticipants(r.Context(), id, req.Names)
		if err != nil {
			respondError(w, err)
			return
		}
		respondCreated(w, ParticipantsAddedResponse{Added: added})
		return
	}

	p, err := h.Participants.AddParticipant(r.Context(), id, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, ParticipantsAddedResponse{Added: []models.Participant{*p}})
}

func (h *Handlers) handleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	participantID := chi.URLParam(r, "participantID")

	var req ParticipantUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Participants.UpdateWeight(r.Context(), id, participantID, req.Weight); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Participant updated")
}

func (h *Handlers) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Participants.RemoveParticipant(r.Context(), id, chi.URLParam(r, "participantID")); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Exclusions ====================

func (h *Handlers) handleListExclusions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	exclusions, err := h.Participants.ListExclusions(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if exclusions == nil {
		exclusions = []string{}
	}
	respondOK(w, exclusions)
}

func (h *Handlers) handleAddExclusion(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ExclusionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Participants.AddExclusion(r.Context(), id, req.Name); err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, map[string]string{"name": req.Name})
}

func (h *Handlers) handleRemoveExclusion(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		respondError(w, BadRequest("Invalid name parameter"))
		return
	}

	if err := h.Participants.RemoveExclusion(r.Context(), id, name); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}
