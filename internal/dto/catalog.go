package dto

// CreateServerReq описывает создание VPN-сервера админом.
// swagger:model CreateServerReq
type CreateServerReq struct {
	Name           string `json:"name" binding:"required"`
	Hostname       string `json:"hostname" binding:"required"`
	IPAddress      string `json:"ipAddress" binding:"required,ip"`
	Port           int    `json:"port" binding:"required,min=1,max=65535"`
	Location       string `json:"location" binding:"required"`
	Protocol       string `json:"protocol" binding:"required"`
	MaxConnections int    `json:"maxConnections" binding:"required,min=1"`
	Config         string `json:"config"`
}

// UpdateServerReq — частичное обновление; nil-поля не трогаются.
// swagger:model UpdateServerReq
type UpdateServerReq struct {
	Status         *string `json:"status" binding:"omitempty,oneof=online offline maintenance"`
	MaxConnections *int    `json:"maxConnections" binding:"omitempty,min=1"`
	Config         *string `json:"config"`
}

// CreateDialogReq описывает создание in-app диалога.
// swagger:model CreateDialogReq
type CreateDialogReq struct {
	Title     string `json:"title" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Target    string `json:"target" binding:"required,oneof=all android ios"`
	ButtonURL string `json:"buttonUrl" binding:"omitempty,url"`
}

// CreateAdReq описывает создание рекламного блока.
// swagger:model CreateAdReq
type CreateAdReq struct {
	Title     string `json:"title" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=banner interstitial rewarded native"`
	AdUnitID  string `json:"adUnitId" binding:"required"`
	AdNetwork string `json:"adNetwork"`
	ImageURL  string `json:"imageUrl" binding:"omitempty,url"`
	TargetURL string `json:"targetUrl" binding:"omitempty,url"`
}
