package handshake_handler

import (
	"context"

	"github.com/silsin/VPN-Backend/internal/dto"
)

// интерфейс бизнес-логики Phase 1
type Service interface {
	Bootstrap(ctx context.Context, appAuthHeader, payloadB64 string) (dto.Envelope, error)
}

type HSHandler struct {
	svc Service
}

func NewHSHandler(svc Service) *HSHandler {
	return &HSHandler{svc: svc}
}
