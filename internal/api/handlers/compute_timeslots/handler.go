package compute_timeslots

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TimeslotService/internal/api/handlers"
	"github.com/m04kA/SMC-TimeslotService/internal/cache"
	computeTimeslots "github.com/m04kA/SMC-TimeslotService/internal/usecase/compute_timeslots"
	"github.com/m04kA/SMC-TimeslotService/pkg/metrics"
)

const (
	msgInvalidLocationID  = "некорректный ID локации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgLocationNotFound   = "локация не найдена"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "сотрудник не найден"
)

type Handler struct {
	useCase  ComputeTimeslotsUseCase
	cache    cache.ResponseCache
	metrics  *metrics.Metrics
	cacheTTL int // секунды, для заголовка Cache-Control
	logger   Logger
}

func NewHandler(useCase ComputeTimeslotsUseCase, responseCache cache.ResponseCache, m *metrics.Metrics, cacheTTLSeconds int, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		cache:    responseCache,
		metrics:  m,
		cacheTTL: cacheTTLSeconds,
		logger:   logger,
	}
}

// Handle POST /api/v1/locations/{locationId}/timeslots
// Ответ снабжается слабым ETag отпечатка запроса и кешируется на короткий TTL:
// поллинг одного и того же запроса в окне TTL не пересчитывает слоты,
// а совпавший If-None-Match отвечает 304 без тела.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	locationID, err := uuid.Parse(vars["locationId"])
	if err != nil {
		h.logger.Warn("POST /locations/{id}/timeslots - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	var req TimeslotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /locations/{id}/timeslots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	etag := cache.Fingerprint(req.Date, locationID, req.FingerprintServices())

	// Свежий кешированный ответ: либо 304, либо готовое тело
	if entry, ok := h.cache.Get(r.Context(), etag); ok {
		h.metrics.TimeslotCacheHitsTotal.WithLabelValues("timeslots").Inc()

		if ifNoneMatchHits(r, entry.ETag) {
			h.writeCacheHeaders(w, entry.ETag)
			w.WriteHeader(http.StatusNotModified)
			return
		}

		h.writeCacheHeaders(w, entry.ETag)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(entry.Body)
		return
	}
	h.metrics.TimeslotCacheMissTotal.WithLabelValues("timeslots").Inc()

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(locationID))
	if err != nil {
		h.metrics.TimeslotsComputedTotal.WithLabelValues("error").Inc()
		switch {
		case errors.Is(err, computeTimeslots.ErrInvalidInput):
			h.logger.Warn("POST /locations/{id}/timeslots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, computeTimeslots.ErrLocationNotFound):
			h.logger.Warn("POST /locations/{id}/timeslots - Location not found: location_id=%s", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, computeTimeslots.ErrServiceNotFound):
			h.logger.Warn("POST /locations/{id}/timeslots - Service not found: location_id=%s, error=%v", locationID, err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, computeTimeslots.ErrStaffNotFound):
			h.logger.Warn("POST /locations/{id}/timeslots - Staff not found: location_id=%s, error=%v", locationID, err)
			handlers.RespondNotFound(w, msgStaffNotFound)

		default:
			h.logger.Error("POST /locations/{id}/timeslots - Failed to compute timeslots: location_id=%s, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.TimeslotsComputedTotal.WithLabelValues("ok").Inc()
	h.metrics.TimeslotsPerRequest.WithLabelValues(result.Strategy).Observe(float64(len(result.Timeslots)))

	body, err := json.Marshal(FromUseCaseResponse(result))
	if err != nil {
		h.logger.Error("POST /locations/{id}/timeslots - Failed to marshal response: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.cache.Set(r.Context(), etag, &cache.Entry{ETag: etag, Body: body})

	h.logger.Info("POST /locations/{id}/timeslots - Timeslots computed: location_id=%s, date=%s, count=%d",
		locationID, req.Date, len(result.Timeslots))

	if ifNoneMatchHits(r, etag) {
		h.writeCacheHeaders(w, etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.writeCacheHeaders(w, etag)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) writeCacheHeaders(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d", h.cacheTTL))
}

// ifNoneMatchHits проверяет заголовок If-None-Match против ETag ответа
func ifNoneMatchHits(r *http.Request, etag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
