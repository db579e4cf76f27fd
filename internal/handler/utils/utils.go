package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/middleware"
	"github.com/sirupsen/logrus"
)

var ErrNoSession = errors.New("no session in context")

// GetSession достаёт сессию устройства, положенную guard-ом в контекст.
func GetSession(c *gin.Context) (domain.DeviceSession, error) {
	v, ok := c.Get(middleware.CtxSession)
	if !ok {
		return domain.DeviceSession{}, ErrNoSession
	}
	session, ok := v.(domain.DeviceSession)
	if !ok {
		return domain.DeviceSession{}, ErrNoSession
	}
	return session, nil
}

// GetDecodedBody достаёт расшифрованное тело Phase-2 запроса.
func GetDecodedBody(c *gin.Context) map[string]any {
	v, ok := c.Get(middleware.CtxBody)
	if !ok {
		return map[string]any{}
	}
	body, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return body
}

// Respond отдаёт результат хендлера на шифрование ResponseEncryptor-у.
// Сам хендлер в тело ответа не пишет.
func Respond(c *gin.Context, result any) {
	c.Set(middleware.CtxResult, result)
}

// BodyString достаёт строковое поле из расшифрованного тела.
func BodyString(body map[string]any, key string) string {
	if v, ok := body[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func HandleBindError(c *gin.Context, err error) {

	if verrs, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(verrs))

		for _, fe := range verrs {
			out[fe.Field()] = fmt.Sprintf("must satisfy %s", fe.Tag())
		}

		logrus.WithError(err).Warn(out)
		c.JSON(http.StatusBadRequest, gin.H{"errors": out})
		return
	}

	logrus.WithError(err).Warn("invalid request data")
	c.JSON(http.StatusBadRequest, dto.BadRequestErr{Error: "invalid request data"})
}
