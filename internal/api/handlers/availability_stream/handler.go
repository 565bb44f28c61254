package availability_stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	watchAvailability "github.com/m04kA/SMC-ParkingService/internal/usecase/watch_availability"
)

const (
	msgInvalidSpotID        = "некорректный ID парковочного места"
	msgInvalidWindow        = "некорректное окно: ожидается mode=rolling|slot|day|month, date=YYYY-MM-DD, time=HH:MM"
	msgSpotNotFound         = "парковочное место не найдено"
	msgStreamingUnsupported = "потоковая передача не поддерживается"
)

type Handler struct {
	useCase   WatchAvailabilityUseCase
	location  *time.Location
	heartbeat time.Duration
	metrics   Metrics
	logger    Logger
}

// NewHandler создает обработчик потока
// heartbeat <= 0 отключает комментарии-пинги
func NewHandler(
	useCase WatchAvailabilityUseCase,
	location *time.Location,
	heartbeat time.Duration,
	metrics Metrics,
	logger Logger,
) *Handler {
	return &Handler{
		useCase:   useCase,
		location:  location,
		heartbeat: heartbeat,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle GET /api/v1/spots/{spotId}/availability/stream
// Query params: как у /availability
// Ответ: text/event-stream, событие availability на каждое изменение значения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	spotID, err := handlers.ParseSpotID(mux.Vars(r)["spotId"])
	if err != nil {
		h.logger.Warn("GET /spots/{id}/availability/stream - Invalid spot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpotID)
		return
	}

	spec, err := handlers.ParseWindowSpec(r.URL.Query(), h.location)
	if err != nil {
		h.logger.Warn("GET /spots/{id}/availability/stream - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("GET /spots/{id}/availability/stream - ResponseWriter does not support flushing")
		handlers.RespondError(w, http.StatusInternalServerError, msgStreamingUnsupported)
		return
	}

	ctx := r.Context()
	watch, err := h.useCase.Execute(ctx, &watchAvailability.Request{SpotID: spotID, Spec: spec})
	if err != nil {
		switch {
		case errors.Is(err, watchAvailability.ErrSpotNotFound):
			h.logger.Warn("GET /spots/{id}/availability/stream - Spot not found: spot_id=%d", spotID)
			handlers.RespondNotFound(w, msgSpotNotFound)

		case errors.Is(err, watchAvailability.ErrInvalidInput):
			h.logger.Warn("GET /spots/{id}/availability/stream - Invalid input: spot_id=%d, error=%v", spotID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("GET /spots/{id}/availability/stream - Failed to open stream: spot_id=%d, error=%v", spotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}
	defer watch.Close()

	streamID := uuid.New()
	h.metrics.StreamOpened()
	defer h.metrics.StreamClosed()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("X-Stream-ID", streamID.String())
	w.WriteHeader(http.StatusOK)

	h.logger.Info("GET /spots/{id}/availability/stream - Stream opened: stream_id=%s, key=%s", streamID, watch.Key)

	var seq uint64
	send := func(event AvailabilityEvent) error {
		seq++
		if err := writeEvent(w, seq, eventAvailability, event); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := send(NewAvailabilityEvent(watch.SpotID, watch.TotalSlots, watch.Key, watch.Initial)); err != nil {
		h.logger.Warn("GET /spots/{id}/availability/stream - Write failed: stream_id=%s, error=%v", streamID, err)
		return
	}

	var tick <-chan time.Time
	if h.heartbeat > 0 {
		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("GET /spots/{id}/availability/stream - Client disconnected: stream_id=%s, events=%d", streamID, seq)
			return

		case <-tick:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				h.logger.Warn("GET /spots/{id}/availability/stream - Heartbeat failed: stream_id=%s, error=%v", streamID, err)
				return
			}
			flusher.Flush()

		case v, ok := <-watch.Updates:
			if !ok {
				h.logger.Info("GET /spots/{id}/availability/stream - Subscription closed: stream_id=%s, events=%d", streamID, seq)
				return
			}
			if err := send(NewAvailabilityEvent(watch.SpotID, watch.TotalSlots, watch.Key, v)); err != nil {
				h.logger.Warn("GET /spots/{id}/availability/stream - Write failed: stream_id=%s, error=%v", streamID, err)
				return
			}
		}
	}
}

// writeEvent пишет одно событие в формате Server-Sent Events
func writeEvent(w io.Writer, id uint64, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, event, data)
	return err
}
