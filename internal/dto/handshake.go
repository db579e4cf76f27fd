package dto

// HandshakeReq описывает запрос Phase 1 (bootstrap).
// swagger:model HandshakeReq
// @description payload - Base64(Layer-1 шифртекст JSON {deviceId, timestamp})
type HandshakeReq struct {
	Payload string `json:"payload" binding:"required"`
}

// Envelope — протокольный конверт {ok, data, timestamp}.
// Для Phase 1 data - Base64(Layer-1 шифртекст), для Phase 2 - Base64(Layer-2 шифртекст).
// Протокольные отказы Phase 1 уходят этим же конвертом с ok:false и HTTP 200,
// чтобы код ответа ничего не говорил о том, какая проверка не прошла.
// swagger:model Envelope
type Envelope struct {
	OK        bool  `json:"ok"`
	Data      any   `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// SecureReq описывает тело любого Phase-2 запроса.
// swagger:model SecureReq
// @description payload - Base64(Layer-2 шифртекст JSON тела с полями timestamp и nonce)
type SecureReq struct {
	Payload string `json:"payload" binding:"required"`
}
