package admin_handler

import (
	"context"

	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/dto"
)

// административная сторона каталога серверов
type CatalogStore interface {
	Create(ctx context.Context, server *domain.VpnServer) error
	List(ctx context.Context, location string) ([]domain.VpnServer, error)
	Update(ctx context.Context, id string, upd dto.UpdateServerReq) (domain.VpnServer, error)
	Delete(ctx context.Context, id string) error
}

type DialogStore interface {
	CreateDialog(ctx context.Context, dialog *domain.Dialog) error
}

type AdStore interface {
	CreateAd(ctx context.Context, ad *domain.Ad) error
}

type AdminHandler struct {
	catalog CatalogStore
	dialogs DialogStore
	ads     AdStore
}

func NewAdminHandler(catalog CatalogStore, dialogs DialogStore, ads AdStore) *AdminHandler {
	return &AdminHandler{
		catalog: catalog,
		dialogs: dialogs,
		ads:     ads,
	}
}
