package handshake_handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/handler/utils"
	"github.com/silsin/VPN-Backend/internal/service/handshake_service"
	"github.com/sirupsen/logrus"
)

// @Summary     Bootstrap (First Req)
// @Description ЗАПРОС ОТ КЛИЕНТА:
// @Description Заголовок X-App-Auth несёт статический секрет приложения.
// @Description payload - Base64(Layer-1 шифртекст JSON {deviceId, timestamp}).
// @Description
// @Description ОТВЕТ ОТ СЕРВЕРА:
// @Description Всегда конверт {ok, data, timestamp}. При ok:true data расшифровывается
// @Description Layer-1 в массив values из 11 слотов: индекс 1 - aes2Iv, 4 - apiAuthToken,
// @Description 6 - xor3Key, 8 - aes2Key, остальные слоты - случайный наполнитель.
// @Description Содержательные отказы (неверный app-токен, нечитаемый payload, пустой
// @Description deviceId) приходят с HTTP 200 и ok:false; только просроченный timestamp
// @Description отклоняется кодом 400.
// @Tags        handshake
// @Accept      json
// @Produce     json
// @Param       X-App-Auth  header    string            true  "Статический секрет приложения"
// @Param       input       body      dto.HandshakeReq  true  "Зашифрованный bootstrap-запрос"
// @Success     200         {object}  dto.Envelope          "Конверт с Layer-1 шифртекстом"
// @Failure     400         {object}  dto.BadRequestErr     "Некорректный JSON или просроченный timestamp"
// @Failure     429         {object}  dto.BadRequestErr     "Слишком много неудачных попыток"
// @Failure     500         {object}  dto.InternalServerErr "Внутренняя ошибка сервера"
// @Router      /handshake [post]
func (h *HSHandler) Bootstrap(c *gin.Context) {
	const op = "location internal.handler.handshake_handler.Bootstrap"

	var req dto.HandshakeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Set("failed_handshake", true)
		utils.HandleBindError(c, err)
		return
	}

	envelope, err := h.svc.Bootstrap(c.Request.Context(), c.GetHeader("X-App-Auth"), req.Payload)
	if err != nil {
		// единственный клиентский отказ с отдельным статусом - окно timestamp
		if errors.Is(err, handshake_service.ErrInvalidTimestamp) || errors.Is(err, handshake_service.ErrStaleTimestamp) {
			c.Set("failed_handshake", true)
			c.JSON(http.StatusBadRequest, dto.BadRequestErr{Error: err.Error()})
			return
		}
		logrus.Errorf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	if !envelope.OK {
		c.Set("failed_handshake", true)
	}

	c.JSON(http.StatusOK, envelope)
}
