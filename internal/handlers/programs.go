package handlers

import (
	"fmt"
	"net/http"

	"github.com/abrezinsky/luckydraw/internal/models"
	"github.com/abrezinsky/luckydraw/internal/services"
)

// maxImportSize bounds an imported program document
const maxImportSize = 1 << 20

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.Hub != nil {
		resp.Clients = h.Hub.ClientCount()
	}
	if h.Games != nil {
		resp.Games = len(h.Games.ActiveGames())
	}
	respondOK(w, resp)
}

// ==================== Programs ====================

func (h *Handlers) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.Programs.ListPrograms(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	// Ensure we return an empty array, not null
	if programs == nil {
		programs = []models.Program{}
	}
	respondOK(w, programs)
}

func (h *Handlers) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Programs.GetProgram(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	participants, err := h.Participants.ListParticipants(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, ProgramResponse{Program: *program, ParticipantCount: len(participants)})
}

func (h *Handlers) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var req ProgramCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Programs.CreateProgram(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, program)
}

func (h *Handlers) handleRenameProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ProgramRenameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Programs.RenameProgram(r.Context(), id, req.Name); err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Programs.GetProgram(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, program)
}

func (h *Handlers) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Programs.DeleteProgram(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	h.Games.Forget(id)

	respondDeleted(w)
}

func (h *Handlers) handleResetProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if _, running := h.Games.Status(id); running {
		respondError(w, services.ErrGameInProgress)
		return
	}
	if err := h.Programs.ResetProgram(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	h.Games.Forget(id)

	respondSuccess(w, "Program reset")
}

func (h *Handlers) handleUpdateProgramSettings(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ProgramSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Programs.UpdateSettings(r.Context(), id, services.SettingsUpdate{
		DrawCount:       req.DrawCount,
		AllowDuplicate:  req.AllowDuplicate,
		SpinSpeed:       req.SpinSpeed,
		RemoveAfterDraw: req.RemoveAfterDraw,
		SkipAnimation:   req.SkipAnimation,
		ShowProbability: req.ShowProbability,
		KeepHistory:     req.KeepHistory,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, program)
}

func (h *Handlers) handleGetLabels(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	labels, err := h.Programs.LadderLabels(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if labels == nil {
		labels = []string{}
	}
	respondOK(w, LabelsResponse{Labels: labels})
}

func (h *Handlers) handleSetLabels(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req LabelsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	labels, err := h.Programs.SetLadderLabels(r.Context(), id, req.Labels)
	if err != nil {
		respondError(w, err)
		return
	}
	if labels == nil {
		labels = []string{}
	}
	respondOK(w, LabelsResponse{Labels: labels})
}

func (h *Handlers) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	history, err := h.Programs.History(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	respondOK(w, history)
}

func (h *Handlers) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Programs.ClearHistory(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Export / Import ====================

func (h *Handlers) handleExportProgram(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	doc, err := h.Programs.Export(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="program-%d.yaml"`, id))
	w.Write(doc)
}

func (h *Handlers) handleImportProgram(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r, maxImportSize)
	if err != nil {
		respondError(w, err)
		return
	}

	program, err := h.Programs.Import(r.Context(), data)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, program)
}

// ==================== Stats ====================

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Programs.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}
