// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/media"
	"github.com/tomtom215/velora/internal/models"
	"github.com/tomtom215/velora/internal/validation"
)

const (
	galleryDefaultLimit = 12
	defaultPhotoTitle   = "Foto Kehamilan"
)

// PhotoPage is one page of gallery photos.
type PhotoPage struct {
	Photos     []PhotoDTO `json:"photos"`
	Pagination Pagination `json:"pagination"`
}

// WeekPhotos groups the photos of one pregnancy week.
type WeekPhotos struct {
	Week   int        `json:"week"`
	Photos []PhotoDTO `json:"photos"`
	Count  int        `json:"count"`
}

// ListPhotos lists the account's photos, newest first.
//
// @Summary List photos
// @Tags Gallery
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(12)
// @Success 200 {object} APIResponse{data=PhotoPage}
// @Router /gallery/photos [get]
func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	def, maxLimit := h.pageLimits(galleryDefaultLimit)
	page := parsePage(r, def, maxLimit)

	items, total, err := h.photos.ListByUser(r.Context(), acct.ID, page.Limit, page.Offset())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", PhotoPage{
		Photos:     toPhotoDTOs(items),
		Pagination: page.Pagination(total),
	})
}

// GetPhoto returns one photo owned by the account.
//
// @Summary Get a photo
// @Tags Gallery
// @Produce json
// @Security BearerAuth
// @Param id path string true "Photo ID"
// @Success 200 {object} APIResponse{data=PhotoDTO}
// @Failure 404 {object} APIResponse
// @Router /gallery/photos/{id} [get]
func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	p, err := h.photos.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err == nil && p.UserID != acct.ID {
		err = database.ErrNotFound
	}
	if err != nil {
		h.respondStoreError(w, r, err, MsgPhotoNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]PhotoDTO{"photo": toPhotoDTO(p)})
}

// UploadPhoto stores one image from the multipart field "image". The blob is
// written first; if the row insert fails the blob is rolled back.
//
// @Summary Upload a photo
// @Tags Gallery
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image (JPEG, PNG or WebP)"
// @Param title formData string false "Title" default(Foto Kehamilan)
// @Param description formData string false "Description"
// @Param pregnancyWeek formData int false "Pregnancy week (1-42)"
// @Success 201 {object} APIResponse{data=PhotoDTO}
// @Failure 400 {object} APIResponse
// @Router /gallery/upload [post]
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	if !h.parseUpload(w, r, 1) {
		return
	}
	fh, ok := formFile(r, "image")
	if !ok {
		respondError(w, http.StatusBadRequest, MsgNoFile)
		return
	}
	meta, verr := photoMetadata(r)
	if verr != nil {
		respondValidation(w, MsgInvalidData, verr)
		return
	}

	img, err := h.media.Ingest(r.Context(), media.FromFileHeader(fh), h.media.GalleryPrefix())
	if err != nil {
		h.respondMediaError(w, r, err)
		return
	}
	photo, err := h.photos.Create(r.Context(), newPhoto(acct.ID, meta, img))
	if err != nil {
		h.media.Rollback(r.Context(), img)
		h.respondStoreError(w, r, err, MsgPhotoNotFound)
		return
	}
	respondSuccess(w, http.StatusCreated, MsgPhotoUploaded, map[string]PhotoDTO{"photo": toPhotoDTO(photo)})
}

// UploadPhotos stores up to media.max_batch_files images from the multipart
// field "images" with shared metadata. Every file is validated before any is
// stored, and a failed row insert undoes the whole batch.
//
// @Summary Upload several photos
// @Tags Gallery
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param images formData file true "Images"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param pregnancyWeek formData int false "Pregnancy week (1-42)"
// @Success 201 {object} APIResponse{data=[]PhotoDTO}
// @Failure 400 {object} APIResponse
// @Router /gallery/upload-multiple [post]
func (h *Handler) UploadPhotos(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	if h.media == nil {
		h.respondInternal(w, r, errMediaDisabled)
		return
	}
	if !h.parseUpload(w, r, h.media.MaxBatch()) {
		return
	}
	srcs := formFiles(r, "images")
	if len(srcs) == 0 {
		respondError(w, http.StatusBadRequest, MsgNoFile)
		return
	}
	meta, verr := photoMetadata(r)
	if verr != nil {
		respondValidation(w, MsgInvalidData, verr)
		return
	}

	imgs, err := h.media.IngestBatch(r.Context(), srcs, h.media.GalleryPrefix())
	if err != nil {
		h.respondMediaError(w, r, err)
		return
	}

	photos := make([]*models.Photo, 0, len(imgs))
	for _, img := range imgs {
		photo, err := h.photos.Create(r.Context(), newPhoto(acct.ID, meta, img))
		if err != nil {
			h.undoBatch(r.Context(), acct.ID, photos)
			h.media.Rollback(r.Context(), imgs...)
			h.respondStoreError(w, r, err, MsgPhotoNotFound)
			return
		}
		photos = append(photos, photo)
	}
	respondSuccess(w, http.StatusCreated, fmt.Sprintf(MsgPhotosUploaded, len(photos)),
		map[string][]PhotoDTO{"photos": toPhotoDTOs(photos)})
}

// undoBatch deletes rows inserted before a batch failed.
func (h *Handler) undoBatch(ctx context.Context, accountID string, photos []*models.Photo) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range photos {
		if err := h.photos.Delete(ctx, p.ID, accountID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("photo_id", p.ID).Msg("Failed to undo photo row")
		}
	}
}

// UpdatePhoto changes the metadata of a photo owned by the account.
//
// @Summary Update photo metadata
// @Tags Gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Photo ID"
// @Param request body UpdatePhotoRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=PhotoDTO}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /gallery/photos/{id} [put]
func (h *Handler) UpdatePhoto(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	id := chi.URLParam(r, "id")
	var req UpdatePhotoRequest
	if !h.bind(w, r, &req) {
		return
	}

	existing, err := h.photos.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, MsgPhotoNotFound)
		return
	}
	if existing.UserID != acct.ID {
		respondError(w, http.StatusForbidden, MsgPhotoEditDenied)
		return
	}

	upd := models.PhotoUpdate{
		Title:         req.Title,
		Description:   req.Description,
		PregnancyWeek: req.PregnancyWeek,
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		upd.Title = &title
	}
	photo, err := h.photos.Update(r.Context(), id, acct.ID, upd)
	if err != nil {
		h.respondStoreError(w, r, err, MsgPhotoNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, MsgPhotoUpdated, map[string]PhotoDTO{"photo": toPhotoDTO(photo)})
}

// DeletePhoto removes the row, then the blob. A failed blob delete is logged
// and left to the reconciler; the request still succeeds.
//
// @Summary Delete a photo
// @Tags Gallery
// @Produce json
// @Security BearerAuth
// @Param id path string true "Photo ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /gallery/photos/{id} [delete]
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	id := chi.URLParam(r, "id")
	existing, err := h.photos.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, MsgPhotoNotFound)
		return
	}
	if existing.UserID != acct.ID {
		respondError(w, http.StatusForbidden, MsgPhotoDeleteDenied)
		return
	}

	if err := h.photos.Delete(r.Context(), id, acct.ID); err != nil {
		h.respondStoreError(w, r, err, MsgPhotoNotFound)
		return
	}
	if h.media != nil {
		h.media.Remove(r.Context(), existing.StoragePath)
	}
	respondSuccess(w, http.StatusOK, MsgPhotoDeleted, nil)
}

// PhotoStats summarizes the account's gallery.
//
// @Summary Gallery statistics
// @Tags Gallery
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=PhotoStatsDTO}
// @Router /gallery/stats [get]
func (h *Handler) PhotoStats(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	stats, err := h.photos.Stats(r.Context(), acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", toPhotoStatsDTO(stats))
}

// PhotoTimeline groups photos with a pregnancy week by week, ascending.
//
// @Summary Photos by pregnancy week
// @Tags Gallery
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]WeekPhotos}
// @Router /gallery/timeline [get]
func (h *Handler) PhotoTimeline(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	items, err := h.photos.ListAllByUser(r.Context(), acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string][]WeekPhotos{"timeline": groupByWeek(items)})
}

func groupByWeek(items []*models.Photo) []WeekPhotos {
	withWeek := lo.Filter(items, func(p *models.Photo, _ int) bool { return p.PregnancyWeek != nil })
	groups := lo.GroupBy(withWeek, func(p *models.Photo) int { return *p.PregnancyWeek })

	weeks := lo.Keys(groups)
	slices.Sort(weeks)
	return lo.Map(weeks, func(week int, _ int) WeekPhotos {
		photos := groups[week]
		return WeekPhotos{Week: week, Photos: toPhotoDTOs(photos), Count: len(photos)}
	})
}

// photoMetadata reads and validates the upload form fields.
func photoMetadata(r *http.Request) (PhotoMetadata, *validation.RequestValidationError) {
	meta := PhotoMetadata{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if meta.Title == "" {
		meta.Title = defaultPhotoTitle
	}

	var verr *validation.RequestValidationError
	if raw := strings.TrimSpace(r.FormValue("pregnancyWeek")); raw != "" {
		week, err := strconv.Atoi(raw)
		if err != nil {
			verr = validation.NewRequestValidationError(
				validation.FieldErr("pregnancyWeek", "pregnancyWeek harus berupa angka"))
		} else {
			meta.PregnancyWeek = &week
		}
	}
	return meta, verr.Merge(validation.ValidateStruct(meta))
}

func newPhoto(accountID string, meta PhotoMetadata, img *media.StoredImage) *models.Photo {
	p := &models.Photo{
		UserID:        accountID,
		Title:         meta.Title,
		PregnancyWeek: meta.PregnancyWeek,
		ImageURL:      img.URL,
		FileSize:      img.Size,
		FileType:      img.ContentType,
		StoragePath:   img.Path,
		StorageBucket: img.Bucket,
	}
	if meta.Description != "" {
		desc := meta.Description
		p.Description = &desc
	}
	return p
}
