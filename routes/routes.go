package routes

import (
	"fmt"
	"net/http"

	"cardoctor/auth"
	"cardoctor/booking"
	"cardoctor/catalog"
	"cardoctor/logger"
	"cardoctor/middleware"
	"cardoctor/ratelim"
	"cardoctor/utils"

	"github.com/julienschmidt/httprouter"
)

type Deps struct {
	Verifier middleware.TokenVerifier
	Auth     *auth.Handler
	Catalog  *catalog.Handler
	Bookings *booking.Handler
	// Limiter is nil when rate limiting is off.
	Limiter *ratelim.RateLimiter
	// RequireAuthForMutations puts PATCH and DELETE behind the token check.
	RequireAuthForMutations bool
}

// Index answers the liveness probe.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Server is running...")
}

func New(d Deps) *httprouter.Router {
	router := httprouter.New()
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		logger.ErrorContext(r.Context(), "handler panic", "path", r.URL.Path, "panic", fmt.Sprint(v))
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}

	limit := func(h httprouter.Handle) httprouter.Handle {
		if d.Limiter == nil {
			return h
		}
		return d.Limiter.Limit(h)
	}
	mutation := func(h httprouter.Handle) httprouter.Handle {
		if d.RequireAuthForMutations {
			return limit(middleware.VerifyToken(d.Verifier, h))
		}
		return limit(h)
	}

	router.GET("/", Index)
	AddAuthRoutes(router, d, limit)
	AddServiceRoutes(router, d, limit)
	AddBookingRoutes(router, d, limit, mutation)
	return router
}

func AddAuthRoutes(router *httprouter.Router, d Deps, limit func(httprouter.Handle) httprouter.Handle) {
	router.POST("/jwt", limit(d.Auth.IssueToken))
}

func AddServiceRoutes(router *httprouter.Router, d Deps, limit func(httprouter.Handle) httprouter.Handle) {
	router.GET("/services", limit(d.Catalog.GetServices))
	router.GET("/services/:id", limit(d.Catalog.GetService))
}

func AddBookingRoutes(router *httprouter.Router, d Deps, limit, mutation func(httprouter.Handle) httprouter.Handle) {
	router.GET("/bookings", limit(middleware.VerifyOwner(d.Verifier, d.Bookings.GetBookings)))
	router.POST("/bookings", limit(d.Bookings.CreateBooking))
	router.PATCH("/bookings/:id", mutation(d.Bookings.UpdateBooking))
	router.DELETE("/bookings/:id", mutation(d.Bookings.DeleteBooking))
}
