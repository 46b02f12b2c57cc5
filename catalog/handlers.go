package catalog

import (
	"context"
	"net/http"
	"time"

	"cardoctor/logger"
	"cardoctor/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type Reader interface {
	ListAll(ctx context.Context) ([]bson.M, error)
	GetByID(ctx context.Context, id string) (bson.M, error)
}

type Handler struct {
	reader  Reader
	timeout time.Duration
}

func NewHandler(reader Reader, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{reader: reader, timeout: timeout}
}

// GetServices handles GET /services.
func (h *Handler) GetServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	offerings, err := h.reader.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "list services failed", "error", err)
		utils.RespondWithErr(w, err)
		return
	}
	if offerings == nil {
		offerings = []bson.M{}
	}
	utils.RespondWithJSON(w, http.StatusOK, offerings)
}

// GetService handles GET /services/:id. An unknown id answers 200 with a null body.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := ps.ByName("id")
	offering, err := h.reader.GetByID(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "get service failed", "id", id, "error", err)
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, offering)
}
