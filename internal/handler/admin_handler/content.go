package admin_handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/handler/utils"
	"github.com/sirupsen/logrus"
)

// @Summary     Создание in-app диалога (админ)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header    string               true  "Bearer {token}"
// @Param       input          body      dto.CreateDialogReq  true  "Параметры диалога"
// @Success     200            {object}  domain.Dialog
// @Failure     400            {object}  dto.BadRequestErr
// @Router      /admin/dialogs [post]
func (h *AdminHandler) CreateDialog(c *gin.Context) {
	const op = "location internal.handler.admin_handler.CreateDialog"

	var req dto.CreateDialogReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleBindError(c, err)
		return
	}

	dialog := &domain.Dialog{
		Title:     req.Title,
		Message:   req.Message,
		Target:    req.Target,
		Status:    "scheduled",
		ButtonURL: req.ButtonURL,
	}

	if err := h.dialogs.CreateDialog(c.Request.Context(), dialog); err != nil {
		logrus.Errorf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dialog)
}

// @Summary     Создание рекламного блока (админ)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header    string           true  "Bearer {token}"
// @Param       input          body      dto.CreateAdReq  true  "Параметры блока"
// @Success     200            {object}  domain.Ad
// @Failure     400            {object}  dto.BadRequestErr
// @Router      /admin/ads [post]
func (h *AdminHandler) CreateAd(c *gin.Context) {
	const op = "location internal.handler.admin_handler.CreateAd"

	var req dto.CreateAdReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleBindError(c, err)
		return
	}

	ad := &domain.Ad{
		Title:     req.Title,
		Type:      req.Type,
		Status:    "active",
		AdUnitID:  req.AdUnitID,
		AdNetwork: req.AdNetwork,
		ImageURL:  req.ImageURL,
		TargetURL: req.TargetURL,
	}

	if err := h.ads.CreateAd(c.Request.Context(), ad); err != nil {
		logrus.Errorf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, ad)
}
