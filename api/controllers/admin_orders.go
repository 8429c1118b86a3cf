package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/veranievas/floralia-backend/api/responses"
	"github.com/veranievas/floralia-backend/api/validators"
	orderssvc "github.com/veranievas/floralia-backend/internal/orders"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
	"github.com/veranievas/floralia-backend/pkg/pagination"
)

const (
	maxPhotoUploadBytes = 10 << 20
	maxPhotosPerRequest = 5
)

// AdminListOrders returns a cursor page of paid orders for the fulfillment
// board, newest first.
func AdminListOrders(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListPaid(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type advanceOrderRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// AdminAdvanceOrder appends the next fulfillment stage event to a paid order.
func AdminAdvanceOrder(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		reference := orderReference(r)
		if reference == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order reference required"))
			return
		}

		var payload advanceOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stage, err := enums.ParseOrderStage(payload.Stage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown fulfillment stage"))
			return
		}

		detail, err := svc.AdvanceStage(r.Context(), reference, stage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// AdminAttachPhotos accepts multipart delivery photos, stores them, and
// appends a photo_added event per stored file.
func AdminAttachPhotos(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		reference := orderReference(r)
		if reference == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order reference required"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes)
		if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "multipart form with photos required"))
			return
		}

		files := r.MultipartForm.File["photos"]
		if len(files) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "at least one photo required"))
			return
		}
		if len(files) > maxPhotosPerRequest {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "too many photos in one request"))
			return
		}

		photos := make([]orderssvc.PhotoUpload, 0, len(files))
		for _, header := range files {
			file, err := header.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open uploaded photo"))
				return
			}
			data, err := io.ReadAll(file)
			if closeErr := file.Close(); closeErr != nil && logg != nil {
				logg.Warn(r.Context(), "admin_orders.close_upload_failed")
			}
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded photo"))
				return
			}
			photos = append(photos, orderssvc.PhotoUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}

		urls, err := svc.AttachPhotos(r.Context(), reference, photos)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"photo_urls": urls})
	}
}
