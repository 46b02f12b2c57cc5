package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"cardoctor/logger"
	"cardoctor/middleware"
	"cardoctor/models"
	"cardoctor/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const maxBodyBytes = 1 << 20

type Store interface {
	Create(ctx context.Context, payload bson.M) (models.InsertOutcome, error)
	ListByOwner(ctx context.Context, email string, scoped bool) ([]bson.M, error)
	Update(ctx context.Context, id string, fields bson.M) (models.UpdateOutcome, error)
	DeleteByID(ctx context.Context, id string) (models.DeleteOutcome, error)
}

type Options struct {
	Timeout time.Duration
	// Validator, when set, checks create payloads before they reach the store.
	Validator *Validator
	// ScopeUnfiltered lists only the caller's bookings when ?email= is absent.
	ScopeUnfiltered bool
}

type Handler struct {
	store Store
	opts  Options
}

func NewHandler(store Store, opts Options) *Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Handler{store: store, opts: opts}
}

// GetBookings handles GET /bookings?email=. It must sit behind middleware.VerifyOwner.
func (h *Handler) GetBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.Timeout)
	defer cancel()

	q := r.URL.Query()
	email, scoped := q.Get("email"), q.Has("email")
	if !scoped && h.opts.ScopeUnfiltered {
		if claims, ok := middleware.ClaimsFromContext(ctx); ok {
			email, scoped = claims.Email(), true
		}
	}
	if !scoped {
		logger.WarnContext(ctx, "listing bookings for all owners")
	}

	bookings, err := h.store.ListByOwner(ctx, email, scoped)
	if err != nil {
		logger.ErrorContext(ctx, "list bookings failed", "error", err)
		utils.RespondWithErr(w, err)
		return
	}
	if bookings == nil {
		bookings = []bson.M{}
	}
	utils.RespondWithJSON(w, http.StatusOK, bookings)
}

// CreateBooking handles POST /bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.Timeout)
	defer cancel()

	body, payload, ok := readObject(w, r)
	if !ok {
		return
	}
	if h.opts.Validator != nil {
		if err := h.opts.Validator.Check(body); err != nil {
			utils.RespondWithErr(w, err)
			return
		}
	}

	out, err := h.store.Create(ctx, payload)
	if err != nil {
		logger.ErrorContext(ctx, "create booking failed", "error", err)
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// UpdateBooking handles PATCH /bookings/:id.
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.Timeout)
	defer cancel()

	_, fields, ok := readObject(w, r)
	if !ok {
		return
	}

	out, err := h.store.Update(ctx, ps.ByName("id"), fields)
	if err != nil {
		logger.WarnContext(ctx, "update booking failed", "id", ps.ByName("id"), "error", err)
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// DeleteBooking handles DELETE /bookings/:id.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.Timeout)
	defer cancel()

	out, err := h.store.DeleteByID(ctx, ps.ByName("id"))
	if err != nil {
		logger.WarnContext(ctx, "delete booking failed", "id", ps.ByName("id"), "error", err)
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// readObject reads a JSON object body. Numbers keep their integer/float form in the store.
func readObject(w http.ResponseWriter, r *http.Request) ([]byte, bson.M, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, nil, false
		}
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload bson.M
	if err := dec.Decode(&payload); err != nil || payload == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, nil, false
	}
	return body, payload, true
}
