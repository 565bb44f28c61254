package get_calendar

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	getCalendar "github.com/m04kA/SMC-ParkingService/internal/usecase/get_calendar"
)

const (
	msgInvalidSpotID = "некорректный ID парковочного места"
	msgInvalidParams = "некорректные параметры, ожидается month=YYYY-MM и type=daily|monthly"
	msgPastMonth     = "месяц уже прошел"
	msgSpotNotFound  = "парковочное место не найдено"
)

type Handler struct {
	useCase  GetCalendarUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetCalendarUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/spots/{spotId}/calendar
// Query params: month (required, YYYY-MM), type (daily по умолчанию, daily|monthly)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	spotID, err := handlers.ParseSpotID(mux.Vars(r)["spotId"])
	if err != nil {
		h.logger.Warn("GET /spots/{id}/calendar - Invalid spot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpotID)
		return
	}

	typeStr := r.URL.Query().Get("type")
	if typeStr == "" {
		typeStr = "daily"
	}

	useCaseReq, err := ToUseCaseRequest(spotID, r.URL.Query().Get("month"), typeStr, h.location)
	if err != nil {
		h.logger.Warn("GET /spots/{id}/calendar - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getCalendar.ErrSpotNotFound):
			h.logger.Warn("GET /spots/{id}/calendar - Spot not found: spot_id=%d", spotID)
			handlers.RespondNotFound(w, msgSpotNotFound)

		case errors.Is(err, getCalendar.ErrInvalidDate):
			h.logger.Warn("GET /spots/{id}/calendar - Past month: spot_id=%d, month=%s", spotID, r.URL.Query().Get("month"))
			handlers.RespondBadRequest(w, msgPastMonth)

		case errors.Is(err, getCalendar.ErrInvalidInput):
			h.logger.Warn("GET /spots/{id}/calendar - Invalid input: spot_id=%d, error=%v", spotID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /spots/{id}/calendar - Failed to get calendar: spot_id=%d, error=%v", spotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /spots/{id}/calendar - Calendar retrieved successfully: spot_id=%d, type=%s, days=%d",
		spotID, result.Type, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
