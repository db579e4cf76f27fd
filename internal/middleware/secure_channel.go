package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/service/handshake_service"
	"github.com/sirupsen/logrus"
)

// ключи контекста gin для защищённых маршрутов
const (
	CtxSession = "handshakeSession"
	CtxBody    = "decodedBody"
	CtxResult  = "secureResult"
)

// SecureChannel — часть handshake-сервиса, нужная охране Phase-2 маршрутов.
type SecureChannel interface {
	Authenticate(ctx context.Context, xAuth string) (domain.DeviceSession, error)
	DecryptBody(ctx context.Context, session domain.DeviceSession, payloadB64 string) (map[string]any, error)
	EncryptResponse(session domain.DeviceSession, result any) (dto.Envelope, error)
}

// SecureChannelGuard выполняется перед бизнес-хендлером каждого Phase-2
// маршрута: снимает Layer-1 с заголовка X-Auth, находит сессию, проверяет
// свежесть и оба replay-трека, снимает Layer-2 с тела и кладёт открытый JSON
// в контекст. Хендлер ниже по цепочке про криптографию не знает.
func SecureChannelGuard(svc SecureChannel) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "location internal.middleware.SecureChannelGuard"

		xAuth := c.GetHeader("X-Auth")
		if xAuth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.UnauthorizedErr{Error: "missing auth"})
			return
		}

		session, err := svc.Authenticate(c.Request.Context(), xAuth)
		if err != nil {
			writeSecureError(c, err)
			return
		}

		var req dto.SecureReq
		if err := c.ShouldBindJSON(&req); err != nil {
			logrus.Debugf("%s: %v", op, err)
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestErr{Error: "missing payload"})
			return
		}

		body, err := svc.DecryptBody(c.Request.Context(), session, req.Payload)
		if err != nil {
			writeSecureError(c, err)
			return
		}

		c.Set(CtxSession, session)
		c.Set(CtxBody, body)
		c.Next()
	}
}

// writeSecureError сводит ошибки протокола к двум классам ответа.
// Детали (какой шаг расшифровки, какой ключ) наружу не уходят.
func writeSecureError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, handshake_service.ErrInvalidPayload),
		errors.Is(err, handshake_service.ErrInvalidTimestamp),
		errors.Is(err, handshake_service.ErrStaleTimestamp),
		errors.Is(err, handshake_service.ErrMissingPayload):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestErr{Error: "invalid request"})
	case errors.Is(err, handshake_service.ErrInvalidAuth),
		errors.Is(err, handshake_service.ErrInvalidSession),
		errors.Is(err, handshake_service.ErrSessionExpired),
		errors.Is(err, handshake_service.ErrReplayDetected):
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.UnauthorizedErr{Error: "unauthorized"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
	}
}

// ResponseEncryptor зеркально закрывает защищённый маршрут с ответной
// стороны: берёт результат хендлера из контекста, заворачивает в конверт
// {ok, data, timestamp} и шифрует Layer-2 теми же сессионными ключами.
// Если guard на маршруте не стоял и сессии в контексте нет — результат
// уходит как есть.
func ResponseEncryptor(svc SecureChannel) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "location internal.middleware.ResponseEncryptor"

		c.Next()

		if c.IsAborted() || c.Writer.Written() {
			return
		}

		result, ok := c.Get(CtxResult)
		if !ok {
			return
		}

		sessVal, ok := c.Get(CtxSession)
		if !ok {
			c.JSON(http.StatusOK, result)
			return
		}
		session := sessVal.(domain.DeviceSession)

		envelope, err := svc.EncryptResponse(session, result)
		if err != nil {
			logrus.Errorf("%s: %v", op, err)
			c.JSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
			return
		}

		c.JSON(http.StatusOK, envelope)
	}
}
