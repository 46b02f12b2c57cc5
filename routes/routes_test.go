package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cardoctor/auth"
	"cardoctor/booking"
	"cardoctor/catalog"
	"cardoctor/models"
	"cardoctor/ratelim"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubReader struct{}

func (stubReader) ListAll(context.Context) ([]bson.M, error) {
	return []bson.M{{"title": "Oil"}}, nil
}

func (stubReader) GetByID(context.Context, string) (bson.M, error) {
	return nil, nil
}

type stubStore struct{}

func (stubStore) Create(context.Context, bson.M) (models.InsertOutcome, error) {
	return models.InsertOutcome{Acknowledged: true, InsertedID: primitive.NewObjectID()}, nil
}

func (stubStore) ListByOwner(context.Context, string, bool) ([]bson.M, error) {
	return nil, nil
}

func (stubStore) Update(context.Context, string, bson.M) (models.UpdateOutcome, error) {
	return models.UpdateOutcome{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (stubStore) DeleteByID(context.Context, string) (models.DeleteOutcome, error) {
	return models.DeleteOutcome{Acknowledged: true, DeletedCount: 1}, nil
}

func newTestRouter(tokens *auth.TokenService, requireAuth bool, limiter *ratelim.RateLimiter) http.Handler {
	return New(Deps{
		Verifier:                tokens,
		Auth:                    auth.NewHandler(tokens),
		Catalog:                 catalog.NewHandler(stubReader{}, time.Second),
		Bookings:                booking.NewHandler(stubStore{}, booking.Options{Timeout: time.Second}),
		Limiter:                 limiter,
		RequireAuthForMutations: requireAuth,
	})
}

func do(h http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := do(newTestRouter(auth.NewTokenService("s", time.Hour), false, nil), http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Server is running..." {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
}

func TestJWTThenBookings(t *testing.T) {
	router := newTestRouter(auth.NewTokenService("s", time.Hour), false, nil)

	rec := do(router, http.MethodPost, "/jwt", `{"email":"a@x.com"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /jwt = %d", rec.Code)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = do(router, http.MethodGet, "/bookings?email=a@x.com", "", body.Token)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("GET /bookings = %d %q, want 200 []", rec.Code, rec.Body.String())
	}

	if rec := do(router, http.MethodGet, "/bookings?email=a@x.com", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /bookings without token = %d, want 401", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/bookings?email=b@x.com", "", body.Token); rec.Code != http.StatusForbidden {
		t.Errorf("GET /bookings other email = %d, want 403", rec.Code)
	}
}

func TestServiceRoutes(t *testing.T) {
	router := newTestRouter(auth.NewTokenService("s", time.Hour), false, nil)

	if rec := do(router, http.MethodGet, "/services", "", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Oil") {
		t.Errorf("GET /services = %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(router, http.MethodGet, "/services/"+primitive.NewObjectID().Hex(), "", ""); strings.TrimSpace(rec.Body.String()) != "null" {
		t.Errorf("GET /services/:id = %d %s", rec.Code, rec.Body.String())
	}
}

func TestMutationsOpenByDefault(t *testing.T) {
	router := newTestRouter(auth.NewTokenService("s", time.Hour), false, nil)
	id := primitive.NewObjectID().Hex()

	if rec := do(router, http.MethodPatch, "/bookings/"+id, `{"status":"confirmed"}`, ""); rec.Code != http.StatusOK {
		t.Errorf("PATCH = %d, want 200", rec.Code)
	}
	if rec := do(router, http.MethodDelete, "/bookings/"+id, "", ""); rec.Code != http.StatusOK {
		t.Errorf("DELETE = %d, want 200", rec.Code)
	}
	if rec := do(router, http.MethodPost, "/bookings", `{"email":"a@x.com"}`, ""); rec.Code != http.StatusOK {
		t.Errorf("POST = %d, want 200", rec.Code)
	}
}

func TestMutationsRequireTokenWhenHardened(t *testing.T) {
	tokens := auth.NewTokenService("s", time.Hour)
	router := newTestRouter(tokens, true, nil)
	id := primitive.NewObjectID().Hex()

	if rec := do(router, http.MethodDelete, "/bookings/"+id, "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("DELETE without token = %d, want 401", rec.Code)
	}
	if rec := do(router, http.MethodPatch, "/bookings/"+id, `{"status":"x"}`, "garbage"); rec.Code != http.StatusForbidden {
		t.Errorf("PATCH bad token = %d, want 403", rec.Code)
	}

	token, err := tokens.Issue(map[string]any{"email": "a@x.com"})
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if rec := do(router, http.MethodDelete, "/bookings/"+id, "", token); rec.Code != http.StatusOK {
		t.Errorf("DELETE with token = %d, want 200", rec.Code)
	}
}

func TestRateLimitWhenEnabled(t *testing.T) {
	router := newTestRouter(auth.NewTokenService("s", time.Hour), false, ratelim.NewRateLimiter(0.001, 1))

	if rec := do(router, http.MethodGet, "/services", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("first = %d, want 200", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/services", "", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second = %d, want 429", rec.Code)
	}
}
