package mobile_handler

import (
	"context"

	"github.com/silsin/VPN-Backend/internal/domain"
)

// хранилище каталога серверов, нужное мобильной стороне
type CatalogStore interface {
	FindAvailable(ctx context.Context) ([]domain.VpnServer, error)
}

// учёт подключений устройств к серверам
type ConnectionStore interface {
	Connect(ctx context.Context, deviceID, serverID, clientIP string) (domain.Connection, error)
	Disconnect(ctx context.Context, connectionID, deviceID string) error
}

// живые счётчики подключений в Redis; значения советующие, истина - в БД
type ConnCounter interface {
	Incr(ctx context.Context, serverID string) error
	Decr(ctx context.Context, serverID string) error
	Get(ctx context.Context, serverID string) (int, error)
}

type DialogStore interface {
	FindActive(ctx context.Context, platform string) ([]domain.Dialog, error)
	TrackClick(ctx context.Context, dialogID string) error
}

type AdStore interface {
	FindActive(ctx context.Context, adType string) ([]domain.Ad, error)
}

type MobileHandler struct {
	catalog     CatalogStore
	connections ConnectionStore
	counter     ConnCounter
	dialogs     DialogStore
	ads         AdStore
}

func NewMobileHandler(catalog CatalogStore, connections ConnectionStore, counter ConnCounter, dialogs DialogStore, ads AdStore) *MobileHandler {
	return &MobileHandler{
		catalog:     catalog,
		connections: connections,
		counter:     counter,
		dialogs:     dialogs,
		ads:         ads,
	}
}
