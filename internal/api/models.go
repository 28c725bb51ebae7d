package api

import "promoboard-engine/internal/models"

type recommendationsRequest struct {
	Roster    []models.Promoter `json:"roster"`
	WeekDays  []string          `json:"weekDays"`
	WorkSlots []models.WorkSlot `json:"workSlots"`
}

type recommendationsResponse struct {
	SessionID       string                                      `json:"sessionId"`
	Progress        int                                         `json:"progress"`
	Recommendations map[string]map[string]models.Recommendation `json:"recommendations"`
}

type daySummaryRequest struct {
	Day        string                `json:"day"`
	Selections models.SelectionState `json:"selections"`
}

type daySummaryResponse struct {
	Summary models.DaySummary `json:"summary"`
}

type actualsRequest struct {
	Dates []string `json:"dates"`
}

type actualsResponse struct {
	Actuals map[string]models.ActualOutcome `json:"actuals"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
