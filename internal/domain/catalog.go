package domain

import (
	"database/sql"
	"time"
)

// статусы VPN-сервера
const (
	ServerOnline      = "online"
	ServerOffline     = "offline"
	ServerMaintenance = "maintenance"
)

type VpnServer struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Hostname           string    `json:"hostname"`
	IPAddress          string    `json:"ipAddress"`
	Port               int       `json:"port"`
	Location           string    `json:"location"`
	Status             string    `json:"status"`
	Protocol           string    `json:"protocol"`
	CurrentConnections int       `json:"currentConnections"`
	MaxConnections     int       `json:"maxConnections"`
	Config             string    `json:"config,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// статусы подключения устройства к серверу
const (
	ConnConnecting   = "connecting"
	ConnConnected    = "connected"
	ConnDisconnected = "disconnected"
)

type Connection struct {
	ID             string       `json:"id"`
	DeviceID       string       `json:"deviceId"`
	ServerID       string       `json:"serverId"`
	ClientIP       string       `json:"clientIp"`
	Status         string       `json:"status"`
	ConnectedAt    time.Time    `json:"connectedAt"`
	DisconnectedAt sql.NullTime `json:"-"`
}

// Dialog — in-app диалог, который мобильный клиент показывает пользователю.
type Dialog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Target    string    `json:"target"` // all | android | ios
	Status    string    `json:"status"` // draft | scheduled | sent | cancelled
	ButtonURL string    `json:"buttonUrl,omitempty"`
	Clicks    int       `json:"clicks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Ad struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`   // banner | interstitial | rewarded | native
	Status    string    `json:"status"` // active | inactive | paused
	AdUnitID  string    `json:"adUnitId"`
	AdNetwork string    `json:"adNetwork,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	TargetURL string    `json:"targetUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
