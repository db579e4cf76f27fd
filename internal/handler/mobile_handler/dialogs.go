package mobile_handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/handler/utils"
	"github.com/sirupsen/logrus"
)

// @Summary     Активные in-app диалоги
// @Description Фильтр по платформе берётся из расшифрованного тела (поле platform,
// @Description android|ios); без фильтра отдаются диалоги для всех платформ.
// @Tags        secure
// @Accept      json
// @Produce     json
// @Param       X-Auth  header    string         true  "Base64(Layer-1 шифртекст auth-токена)"
// @Param       input   body      dto.SecureReq  true  "Layer-2 шифртекст тела"
// @Success     200     {object}  dto.Envelope
// @Failure     401     {object}  dto.UnauthorizedErr
// @Router      /mobile/dialogs [post]
func (h *MobileHandler) ActiveDialogs(c *gin.Context) {
	const op = "location internal.handler.mobile_handler.ActiveDialogs"

	body := utils.GetDecodedBody(c)
	platform := utils.BodyString(body, "platform")

	dialogs, err := h.dialogs.FindActive(c.Request.Context(), platform)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	utils.Respond(c, gin.H{"dialogs": dialogs})
}

// @Summary     Отметка клика по диалогу
// @Tags        secure
// @Accept      json
// @Produce     json
// @Param       X-Auth  header    string         true  "Base64(Layer-1 шифртекст auth-токена)"
// @Param       input   body      dto.SecureReq  true  "Layer-2 шифртекст тела {dialogId, timestamp, nonce}"
// @Success     200     {object}  dto.Envelope
// @Failure     400     {object}  dto.BadRequestErr
// @Failure     401     {object}  dto.UnauthorizedErr
// @Router      /mobile/dialogs/click [post]
func (h *MobileHandler) DialogClick(c *gin.Context) {
	const op = "location internal.handler.mobile_handler.DialogClick"

	body := utils.GetDecodedBody(c)
	dialogID := utils.BodyString(body, "dialogId")
	if dialogID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestErr{Error: "missing dialogId"})
		return
	}

	if err := h.dialogs.TrackClick(c.Request.Context(), dialogID); err != nil {
		logrus.Errorf("%s: %v", op, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestErr{Error: "unknown dialog"})
		return
	}

	utils.Respond(c, gin.H{"tracked": true})
}
