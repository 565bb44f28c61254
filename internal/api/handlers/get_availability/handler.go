package get_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-ParkingService/internal/usecase/get_availability"
)

const (
	msgInvalidSpotID = "некорректный ID парковочного места"
	msgInvalidWindow = "некорректное окно: ожидается mode=rolling|slot|day|month, date=YYYY-MM-DD, time=HH:MM"
	msgSpotNotFound  = "парковочное место не найдено"
)

type Handler struct {
	useCase  GetAvailabilityUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/spots/{spotId}/availability
// Query params: mode (rolling по умолчанию), horizon, date, time
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	spotID, err := handlers.ParseSpotID(mux.Vars(r)["spotId"])
	if err != nil {
		h.logger.Warn("GET /spots/{id}/availability - Invalid spot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpotID)
		return
	}

	spec, err := handlers.ParseWindowSpec(r.URL.Query(), h.location)
	if err != nil {
		h.logger.Warn("GET /spots/{id}/availability - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(spotID, spec))
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrSpotNotFound):
			h.logger.Warn("GET /spots/{id}/availability - Spot not found: spot_id=%d", spotID)
			handlers.RespondNotFound(w, msgSpotNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /spots/{id}/availability - Invalid input: spot_id=%d, error=%v", spotID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("GET /spots/{id}/availability - Failed to get availability: spot_id=%d, error=%v", spotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /spots/{id}/availability - Availability retrieved: spot_id=%d, mode=%s, available=%d/%d",
		spotID, result.Mode, result.AvailableSlots, result.TotalSlots)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
