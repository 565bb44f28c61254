package check_eligibility

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	checkEligibility "github.com/m04kA/SMC-ParkingService/internal/usecase/check_eligibility"
)

const (
	msgInvalidSpotID = "некорректный ID парковочного места"
	msgInvalidParams = "некорректные параметры, ожидается type=hourly|daily|monthly, date=YYYY-MM-DD, time=HH:MM"
	msgSpotNotFound  = "парковочное место не найдено"
)

type Handler struct {
	useCase  CheckEligibilityUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CheckEligibilityUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/spots/{spotId}/eligibility
// Query params: type (required), date (required), time (required для hourly)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	spotID, err := handlers.ParseSpotID(mux.Vars(r)["spotId"])
	if err != nil {
		h.logger.Warn("GET /spots/{id}/eligibility - Invalid spot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpotID)
		return
	}

	q := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(spotID, q.Get("type"), q.Get("date"), q.Get("time"), h.location)
	if err != nil {
		h.logger.Warn("GET /spots/{id}/eligibility - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkEligibility.ErrSpotNotFound):
			h.logger.Warn("GET /spots/{id}/eligibility - Spot not found: spot_id=%d", spotID)
			handlers.RespondNotFound(w, msgSpotNotFound)

		case errors.Is(err, checkEligibility.ErrInvalidInput):
			h.logger.Warn("GET /spots/{id}/eligibility - Invalid input: spot_id=%d, error=%v", spotID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /spots/{id}/eligibility - Failed to check eligibility: spot_id=%d, error=%v", spotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /spots/{id}/eligibility - Eligibility checked: spot_id=%d, type=%s, status=%s",
		spotID, result.Type, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
