package mobile_handler

import (
	"github.com/gin-gonic/gin"
	"github.com/silsin/VPN-Backend/internal/handler/utils"
)

// @Summary     Phase 2 тестовый маршрут (Second Req) - возвращает расшифрованное тело
// @Description Проверка защищённого канала: guard снимает Layer-2 с тела запроса,
// @Description хендлер отдаёт его как есть, ResponseEncryptor шифрует ответ обратно.
// @Tags        secure
// @Accept      json
// @Produce     json
// @Param       X-Auth  header    string         true  "Base64(Layer-1 шифртекст {apiAuthToken, timestamp, nonce})"
// @Param       input   body      dto.SecureReq  true  "Layer-2 шифртекст тела"
// @Success     200     {object}  dto.Envelope
// @Failure     400     {object}  dto.BadRequestErr
// @Failure     401     {object}  dto.UnauthorizedErr
// @Router      /mobile/secure-echo [post]
func (h *MobileHandler) SecureEcho(c *gin.Context) {
	utils.Respond(c, utils.GetDecodedBody(c))
}
