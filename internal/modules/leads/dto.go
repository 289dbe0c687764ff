package leads

import "leadtracker/internal/domain"

type stageRequest struct {
	Stage domain.Stage `json:"stage" binding:"required"`
}

type activityRequest struct {
	Kind    domain.ActivityKind `json:"kind" binding:"required"`
	Payload string              `json:"payload"`
}

type listResponse struct {
	Leads []domain.Lead `json:"leads"`
	Count int           `json:"count"`
}
