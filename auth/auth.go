package auth

import (
	"encoding/json"
	"net/http"

	"cardoctor/logger"
	"cardoctor/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	tokens *TokenService
}

func NewHandler(tokens *TokenService) *Handler {
	return &Handler{tokens: tokens}
}

// IssueToken handles POST /jwt. The JSON body is the identity payload, e.g. {"email": "..."}.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.tokens.Issue(payload)
	if err != nil {
		logger.ErrorContext(r.Context(), "token issue failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	logger.InfoContext(r.Context(), "token issued", "email", Claims(payload).Email())
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}
