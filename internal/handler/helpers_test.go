package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/summaize/summaize/internal/auth"
	"github.com/summaize/summaize/internal/handler"
	"github.com/summaize/summaize/internal/repository/sqlite"
	"github.com/summaize/summaize/internal/service"
)

// testEnv wires the full stack (handlers → services → in-memory SQLite)
// behind the same route table the server mounts, so tests exercise URL
// parameter extraction and the auth middleware, not just handler bodies.
type testEnv struct {
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-0123456789")
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(4)

	authSvc := service.NewAuthService(db, tokens, passwords, logger)
	setSvc := service.NewCardSetService(db, logger)
	cardSvc := service.NewCardService(db, db, logger)
	imageSvc := service.NewPreviewImageService(db, logger)

	authH := handler.NewAuthHandler(authSvc, logger, false)
	setH := handler.NewCardSetHandler(setSvc, logger, false)
	cardH := handler.NewCardHandler(cardSvc, logger, false)
	imageH := handler.NewPreviewImageHandler(imageSvc, logger, false)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authH.HandleRegister)
		r.Post("/auth/login", authH.HandleLogin)
		r.Post("/auth/logout", authH.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/users/{userID}/card-sets", setH.HandleList)
			r.Post("/users/{userID}/card-sets", setH.HandleCreate)
			r.Get("/users/{userID}/card-sets/{setID}", setH.HandleGet)
			r.Put("/users/{userID}/card-sets/{setID}", setH.HandleUpdate)
			r.Delete("/users/{userID}/card-sets/{setID}", setH.HandleDelete)

			r.Post("/card-sets/{setID}/cards", cardH.HandleCreate)
			r.Put("/cards/{cardID}", cardH.HandleUpdate)
			r.Post("/cards/{cardID}", cardH.HandleUpdate)
			r.Delete("/cards/{cardID}", cardH.HandleDelete)

			r.Post("/card-sets/{setID}/preview-image", imageH.HandleUpload)
			r.Put("/card-sets/{setID}/preview-image", imageH.HandleUpload)
			r.Get("/card-sets/{setID}/preview-image", imageH.HandleGet)
			r.Delete("/card-sets/{setID}/preview-image", imageH.HandleDelete)
		})
	})

	return &testEnv{router: r}
}

// do performs a JSON request against the router. token, when non-empty, is
// sent as a bearer header.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// doMultipart uploads the given bytes as the "image" form field.
func (e *testEnv) doMultipart(t *testing.T, method, path, token string, image []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "upload.png")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write(image); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decodeBody unmarshals a recorded JSON response into a map.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response %q is not valid JSON: %v", rr.Body.String(), err)
	}
	return body
}

// signUp registers and logs in a fresh user, returning the user id and a
// valid bearer token.
func (e *testEnv) signUp(t *testing.T, username string) (int64, string) {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"login":    username,
		"email":    username + "@example.com",
		"password": "hunter22",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("register returned %d: %s", rr.Code, rr.Body.String())
	}

	rr = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"login":    username,
		"password": "hunter22",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(t, rr)
	userID := int64(body["userId"].(float64))
	token := body["token"].(string)
	return userID, token
}

// createSet makes a card set for the user and returns its id.
func (e *testEnv) createSet(t *testing.T, userID int64, token, title string) int64 {
	t.Helper()

	path := fmt.Sprintf("/api/users/%d/card-sets", userID)
	rr := e.do(t, http.MethodPost, path, token, map[string]string{"title": title})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create set returned %d: %s", rr.Code, rr.Body.String())
	}
	return int64(decodeBody(t, rr)["id"].(float64))
}
