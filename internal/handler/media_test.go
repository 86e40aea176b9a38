package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PeterAppleyard/ps-directory/internal/model"
)

// multipartUpload builds a multipart request carrying a small PNG.
func multipartUpload(t *testing.T, filename string) *http.Request {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 25), G: uint8(y * 25), B: 100, A: 255})
		}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if err := png.Encode(part, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestUpload(t *testing.T) {
	h, _ := testHandler(t)

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "porch.png"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		StoragePath  string `json:"storage_path"`
		URL          string `json:"url"`
		OriginalSize int64  `json:"original_size"`
		FinalSize    int64  `json:"final_size"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.HasSuffix(resp.StoragePath, ".jpg") {
		t.Errorf("storage path = %q, want .jpg extension", resp.StoragePath)
	}
	if !strings.HasPrefix(resp.URL, "/media/") {
		t.Errorf("url = %q, want /media/ prefix", resp.URL)
	}
	if resp.OriginalSize == 0 || resp.FinalSize == 0 {
		t.Errorf("sizes = %d/%d, want both reported", resp.OriginalSize, resp.FinalSize)
	}

	// The object exists on disk.
	full := filepath.Join(h.objects.BaseDir(), filepath.FromSlash(resp.StoragePath))
	if _, err := os.Stat(full); err != nil {
		t.Errorf("stored object missing: %v", err)
	}
}

// rawUpload builds a multipart request carrying arbitrary bytes.
func rawUpload(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write(data)
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestUploadRejectsNonImage(t *testing.T) {
	h, _ := testHandler(t)

	rec := httptest.NewRecorder()
	h.Upload(rec, rawUpload(t, "notes.txt", []byte("plain text")))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415 before the decoder runs", rec.Code)
	}
}

func TestUploadRejectsCorruptImage(t *testing.T) {
	h, _ := testHandler(t)

	// A JPEG signature followed by garbage passes the type sniff but
	// fails to decode.
	data := append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0xab}, 64)...)
	rec := httptest.NewRecorder()
	h.Upload(rec, rawUpload(t, "broken.jpg", data))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestAttachImage(t *testing.T) {
	h, q := testHandler(t)
	house := createHouse(t, q, "2 Open Ave", "Ryde", model.StatusPublished)

	attach := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.AttachImage(rec, jsonRequest(http.MethodPost, "/api/images", body))
		return rec
	}

	rec := attach(`{"house_id":"` + house.ID + `","storage_path":"2026-08/a.jpg","is_primary":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec = attach(`{"house_id":"` + house.ID + `","storage_path":"2026-08/b.jpg"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	images, _ := q.ListImagesByHouse(context.Background(), house.ID)
	if len(images) != 2 {
		t.Fatalf("images = %d, want 2", len(images))
	}
	if images[1].SortOrder <= images[0].SortOrder {
		t.Error("second image should append to the sort order")
	}

	// Missing fields and unknown house.
	if rec := attach(`{"storage_path":"x.jpg"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing house_id status = %d, want 400", rec.Code)
	}
	if rec := attach(`{"house_id":"nope","storage_path":"x.jpg"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown house status = %d, want 404", rec.Code)
	}
}

func TestDeleteImageBestEffortStorage(t *testing.T) {
	h, q := testHandler(t)
	su := createUser(t, q, "mod@example.com", "correct-horse-battery", model.RoleSuperuser)
	house := createHouse(t, q, "2 Open Ave", "Ryde", model.StatusPublished)

	// Record points at an object that does not exist on disk.
	rec := httptest.NewRecorder()
	h.AttachImage(rec, jsonRequest(http.MethodPost, "/api/images",
		`{"house_id":"`+house.ID+`","storage_path":"2026-08/gone.jpg"}`))
	var resp struct {
		ID string `json:"id"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)

	rec = httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/x", nil), "id", resp.ID)
	h.DeleteImage(rec, asUser(r, su, model.RoleSuperuser))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, missing file must not block record delete", rec.Code)
	}
	images, _ := q.ListImagesByHouse(context.Background(), house.ID)
	if len(images) != 0 {
		t.Error("image record should be gone")
	}
}
