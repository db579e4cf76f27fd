package admin_handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/handler/utils"
	"github.com/silsin/VPN-Backend/internal/repository/catalog_store"
	"github.com/sirupsen/logrus"
)

// @Summary     Создание VPN-сервера (админ)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header    string               true  "Bearer {token}"
// @Param       input          body      dto.CreateServerReq  true  "Параметры сервера"
// @Success     200            {object}  domain.VpnServer
// @Failure     400            {object}  dto.BadRequestErr
// @Failure     401            {object}  dto.UnauthorizedErr
// @Router      /admin/servers [post]
func (h *AdminHandler) CreateServer(c *gin.Context) {
	const op = "location internal.handler.admin_handler.CreateServer"

	var req dto.CreateServerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleBindError(c, err)
		return
	}

	server := &domain.VpnServer{
		Name:           req.Name,
		Hostname:       req.Hostname,
		IPAddress:      req.IPAddress,
		Port:           req.Port,
		Location:       req.Location,
		Protocol:       req.Protocol,
		Status:         domain.ServerOffline,
		MaxConnections: req.MaxConnections,
		Config:         req.Config,
	}

	if err := h.catalog.Create(c.Request.Context(), server); err != nil {
		if errors.Is(err, catalog_store.ErrServerExists) {
			c.JSON(http.StatusBadRequest, dto.BadRequestErr{Error: "server name already exists"})
			return
		}
		logrus.Errorf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, server)
}

// @Summary     Список VPN-серверов (админ)
// @Tags        admin
// @Produce     json
// @Param       Authorization  header    string  true   "Bearer {token}"
// @Param       location       query     string  false  "Фильтр по локации"
// @Success     200            {array}   domain.VpnServer
// @Failure     401            {object}  dto.UnauthorizedErr
// @Router      /admin/servers [get]
func (h *AdminHandler) ListServers(c *gin.Context) {
	const op = "location internal.handler.admin_handler.ListServers"

	servers, err := h.catalog.List(c.Request.Context(), c.Query("location"))
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, servers)
}

// @Summary     Обновление VPN-сервера (админ)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       Authorization  header    string               true  "Bearer {token}"
// @Param       id             path      string               true  "ID сервера"
// @Param       input          body      dto.UpdateServerReq  true  "Обновляемые поля"
// @Success     200            {object}  domain.VpnServer
// @Failure     404            {object}  dto.NotFoundErr
// @Router      /admin/servers/{id} [patch]
func (h *AdminHandler) UpdateServer(c *gin.Context) {
	const op = "location internal.handler.admin_handler.UpdateServer"

	var req dto.UpdateServerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleBindError(c, err)
		return
	}

	server, err := h.catalog.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, catalog_store.ErrServerNotFound) {
			c.JSON(http.StatusNotFound, dto.NotFoundErr{Error: "server not found"})
			return
		}
		logrus.Errorf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, server)
}

// @Summary     Удаление VPN-сервера (админ)
// @Tags        admin
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer {token}"
// @Param       id             path    string  true  "ID сервера"
// @Success     204
// @Failure     404  {object}  dto.NotFoundErr
// @Router      /admin/servers/{id} [delete]
func (h *AdminHandler) DeleteServer(c *gin.Context) {
	const op = "location internal.handler.admin_handler.DeleteServer"

	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, catalog_store.ErrServerNotFound) {
			c.JSON(http.StatusNotFound, dto.NotFoundErr{Error: "server not found"})
			return
		}
		logrus.Errorf("%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
