package handlers

import (
	"net/http"
	"strconv"

	"github.com/abrezinsky/luckydraw/internal/services"
)

// ==================== Games ====================

func (h *Handlers) handleDraw(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Games.Draw(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleSpin(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Games.Spin(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleGetLadder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	view, err := h.Games.Ladder(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, view)
}

func (h *Handlers) handleBuildLadder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	view, err := h.Games.BuildLadder(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, view)
}

func (h *Handlers) handleTraceLadder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req TraceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Games.TraceLadder(r.Context(), id, req.Track)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleSkip(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Games.Skip(id); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Skipping to result")
}

func (h *Handlers) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.Programs.GetProgram(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	status, active := h.Games.Status(id)
	respondOK(w, GameResponse{
		ProgramID: id,
		Active:    active,
		Rotation:  h.Games.Rotation(id),
		Status:    status,
	})
}

// ==================== Sharing ====================

func (h *Handlers) handleGetShareURL(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	link, err := h.Share.ProgramURL(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ShareResponse{URL: link})
}

func (h *Handlers) handleGetQRImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	size := services.DefaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		size, err = strconv.Atoi(s)
		if err != nil || size < 64 || size > 1024 {
			respondError(w, BadRequest("Invalid size parameter (64-1024)"))
			return
		}
	}

	png, err := h.Share.ProgramQR(r.Context(), id, size)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
