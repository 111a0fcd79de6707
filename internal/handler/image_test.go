package handler_test

import (
	"bytes"
	"fmt"
	"image/color"
	"net/http"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
)

// pngBytes renders a small solid-colour PNG for upload tests.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 30, G: 90, B: 200, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestPreviewImageUpload(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signUp(t, "alice")
	setID := env.createSet(t, userID, token, "pictures")
	path := fmt.Sprintf("/api/card-sets/%d/preview-image", setID)

	t.Run("POST stores the image", func(t *testing.T) {
		rr := env.doMultipart(t, http.MethodPost, path, token, pngBytes(t, 64, 48))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, true, body["updated"])
		blob, _ := body["preview_image_blob"].(string)
		assert.True(t, strings.HasPrefix(blob, "data:image/jpeg;base64,"),
			"stored image must come back as a JPEG data URL")
	})

	t.Run("PUT replaces the image", func(t *testing.T) {
		rr := env.doMultipart(t, http.MethodPut, path, token, pngBytes(t, 32, 32))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("non-image payload is 400", func(t *testing.T) {
		rr := env.doMultipart(t, http.MethodPost, path, token, []byte("not an image"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("foreign set is hidden", func(t *testing.T) {
		_, bobToken := env.signUp(t, "bob")
		rr := env.doMultipart(t, http.MethodPost, path, bobToken, pngBytes(t, 8, 8))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("list renders the image as data URL", func(t *testing.T) {
		listPath := fmt.Sprintf("/api/users/%d/card-sets", userID)
		rr := env.do(t, http.MethodGet, listPath, token, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "data:image/jpeg;base64,")
	})
}

func TestPreviewImageGetAndDelete(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signUp(t, "alice")
	setID := env.createSet(t, userID, token, "pictures")
	path := fmt.Sprintf("/api/card-sets/%d/preview-image", setID)

	t.Run("GET before upload is 404", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	rr := env.doMultipart(t, http.MethodPost, path, token, pngBytes(t, 16, 16))
	assert.Equal(t, http.StatusOK, rr.Code)

	t.Run("GET returns the data URL", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		blob, _ := decodeBody(t, rr)["preview_image_blob"].(string)
		assert.True(t, strings.HasPrefix(blob, "data:image/jpeg;base64,"))
	})

	t.Run("DELETE clears it", func(t *testing.T) {
		rr := env.do(t, http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, true, decodeBody(t, rr)["updated"])

		rr = env.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
