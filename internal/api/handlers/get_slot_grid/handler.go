package get_slot_grid

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	getSlotGrid "github.com/m04kA/SMC-ParkingService/internal/usecase/get_slot_grid"
)

const (
	msgInvalidSpotID = "некорректный ID парковочного места"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPastDate      = "дата уже прошла"
	msgSpotNotFound  = "парковочное место не найдено"
)

type Handler struct {
	useCase  GetSlotGridUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetSlotGridUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/spots/{spotId}/slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	spotID, err := handlers.ParseSpotID(mux.Vars(r)["spotId"])
	if err != nil {
		h.logger.Warn("GET /spots/{id}/slots - Invalid spot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpotID)
		return
	}

	date, err := handlers.ParseDate(r.URL.Query().Get("date"), h.location)
	if err != nil {
		h.logger.Warn("GET /spots/{id}/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlotGrid.Request{SpotID: spotID, Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getSlotGrid.ErrSpotNotFound):
			h.logger.Warn("GET /spots/{id}/slots - Spot not found: spot_id=%d", spotID)
			handlers.RespondNotFound(w, msgSpotNotFound)

		case errors.Is(err, getSlotGrid.ErrInvalidDate):
			h.logger.Warn("GET /spots/{id}/slots - Past date: spot_id=%d, date=%s", spotID, r.URL.Query().Get("date"))
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getSlotGrid.ErrInvalidInput):
			h.logger.Warn("GET /spots/{id}/slots - Invalid input: spot_id=%d, error=%v", spotID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /spots/{id}/slots - Failed to get slots: spot_id=%d, error=%v", spotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /spots/{id}/slots - Slots retrieved successfully: spot_id=%d, slots_count=%d",
		spotID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
