package mobile_handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/handler/utils"
	"github.com/sirupsen/logrus"
)

// @Summary     Активные рекламные блоки
// @Description Фильтр по типу размещения берётся из расшифрованного тела
// @Description (поле type: banner|interstitial|rewarded|native).
// @Tags        secure
// @Accept      json
// @Produce     json
// @Param       X-Auth  header    string         true  "Base64(Layer-1 шифртекст auth-токена)"
// @Param       input   body      dto.SecureReq  true  "Layer-2 шифртекст тела"
// @Success     200     {object}  dto.Envelope
// @Failure     401     {object}  dto.UnauthorizedErr
// @Router      /mobile/ads [post]
func (h *MobileHandler) ActiveAds(c *gin.Context) {
	const op = "location internal.handler.mobile_handler.ActiveAds"

	body := utils.GetDecodedBody(c)
	adType := utils.BodyString(body, "type")

	ads, err := h.ads.FindActive(c.Request.Context(), adType)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	utils.Respond(c, gin.H{"ads": ads})
}
