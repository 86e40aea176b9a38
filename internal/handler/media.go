// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/PeterAppleyard/ps-directory/internal/imaging"
	"github.com/PeterAppleyard/ps-directory/internal/storage"
	"github.com/PeterAppleyard/ps-directory/internal/store"
	"github.com/PeterAppleyard/ps-directory/internal/util"
)

// maxUploadBytes bounds the raw multipart upload before normalization.
const maxUploadBytes = 20 << 20 // 20 MB

// Upload accepts a multipart image, normalizes it, and stores the result.
// The response carries the storage path for a follow-up attach call.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	// Sniff the content type before handing the stream to the decoder.
	sniff := make([]byte, 512)
	n, _ := io.ReadFull(file, sniff)
	if !imaging.IsSupportedMimeType(imaging.DetectMimeType(sniff[:n])) {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Unsupported image type")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.logger.Error("rewinding upload", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	result, err := imaging.Normalize(file, header.Filename)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "Could not process image")
		return
	}

	storagePath, err := h.objects.Save(result.Data, result.Filename)
	if err != nil {
		h.logger.Error("storing upload", "error", err, "filename", result.Filename)
		writeJSONError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	h.logger.Info("image stored", "path", storagePath,
		"original", util.FormatBytes(result.OriginalSize),
		"final", util.FormatBytes(result.FinalSize))

	writeJSON(w, http.StatusCreated, map[string]any{
		"storage_path":  storagePath,
		"url":           storage.PublicURL(storagePath),
		"width":         result.Width,
		"height":        result.Height,
		"original_size": result.OriginalSize,
		"final_size":    result.FinalSize,
	})
}

// attachImageRequest links a stored object to a house.
type attachImageRequest struct {
	HouseID     string `json:"house_id"`
	StoragePath string `json:"storage_path"`
	Caption     string `json:"caption"`
	IsPrimary   bool   `json:"is_primary"`
	SortOrder   *int64 `json:"sort_order"`
}

// AttachImage creates an image record for a previously uploaded object.
// When no sort order is given the image goes to the end of the gallery.
func (h *Handler) AttachImage(w http.ResponseWriter, r *http.Request) {
	var req attachImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.HouseID == "" || req.StoragePath == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	ctx := r.Context()
	if _, err := h.queries.GetHouseByID(ctx, req.HouseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "House not found")
			return
		}
		h.logger.Error("loading house for image attach", "error", err, "house_id", req.HouseID)
		writeJSONError(w, http.StatusInternalServerError, "Failed to attach image")
		return
	}

	sortOrder := int64(0)
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		max, err := h.queries.MaxImageSortOrder(ctx, req.HouseID)
		if err != nil {
			h.logger.Error("resolving image sort order", "error", err, "house_id", req.HouseID)
			writeJSONError(w, http.StatusInternalServerError, "Failed to attach image")
			return
		}
		sortOrder = max + 1
	}

	image, err := h.queries.CreateImage(ctx, store.CreateImageParams{
		ID:          uuid.New().String(),
		HouseID:     req.HouseID,
		StoragePath: req.StoragePath,
		Caption:     util.NullStringFromValue(req.Caption),
		IsPrimary:   req.IsPrimary,
		SortOrder:   sortOrder,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("creating image record", "error", err, "house_id", req.HouseID)
		writeJSONError(w, http.StatusInternalServerError, "Insert failed")
		return
	}

	h.dir.Invalidate(ctx)
	writeJSON(w, http.StatusCreated, map[string]any{"id": image.ID})
}

// DeleteImage removes an image: best-effort object removal first, then the
// record. A missing file never blocks the record delete.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	image, err := h.queries.GetImageByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Image not found")
			return
		}
		h.logger.Error("loading image", "error", err, "image_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to delete image")
		return
	}

	if err := h.objects.Remove(image.StoragePath); err != nil {
		h.logger.Warn("removing stored object failed, deleting record anyway",
			"error", err, "path", image.StoragePath)
	}

	if err := h.queries.DeleteImage(ctx, id); err != nil {
		h.logger.Error("deleting image record", "error", err, "image_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to delete image")
		return
	}

	h.dir.Invalidate(ctx)
	writeJSONSuccess(w, nil)
}
