package mobile_handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/handler/utils"
	"github.com/sirupsen/logrus"
)

// @Summary     Доступные VPN-серверы
// @Description Отдаёт online-серверы со свободной ёмкостью. Текущая нагрузка
// @Description уточняется живым счётчиком из Redis, если он есть.
// @Tags        secure
// @Accept      json
// @Produce     json
// @Param       X-Auth  header    string         true  "Base64(Layer-1 шифртекст auth-токена)"
// @Param       input   body      dto.SecureReq  true  "Layer-2 шифртекст тела"
// @Success     200     {object}  dto.Envelope
// @Failure     401     {object}  dto.UnauthorizedErr
// @Router      /mobile/servers/available [post]
func (h *MobileHandler) AvailableServers(c *gin.Context) {
	const op = "location internal.handler.mobile_handler.AvailableServers"

	servers, err := h.catalog.FindAvailable(c.Request.Context())
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.InternalServerErr{Error: "internal error"})
		return
	}

	// живые счётчики советующие: при ошибке Redis остаёмся на данных из БД
	for i := range servers {
		if live, err := h.counter.Get(c.Request.Context(), servers[i].ID); err == nil && live > servers[i].CurrentConnections {
			servers[i].CurrentConnections = live
		}
	}

	utils.Respond(c, gin.H{"servers": servers})
}

// @Summary     Подключение устройства к серверу
// @Description Тело после расшифровки должно содержать serverId. Создаёт запись
// @Description подключения и инкрементирует счётчик нагрузки сервера.
// @Tags        secure
// @Accept      json
// @Produce     json
// @Param       X-Auth  header    string         true  "Base64(Layer-1 шифртекст auth-токена)"
// @Param       input   body      dto.SecureReq  true  "Layer-2 шифртекст тела {serverId, timestamp, nonce}"
// @Success     200     {object}  dto.Envelope
// @Failure     400     {object}  dto.BadRequestErr
// @Failure     401     {object}  dto.UnauthorizedErr
// @Router      /mobile/connect [post]
func (h *MobileHandler) Connect(c *gin.Context) {
	const op = "location internal.handler.mobile_handler.Connect"

	session, err := utils.GetSession(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.UnauthorizedErr{Error: "unauthorized"})
		return
	}

	body := utils.GetDecodedBody(c)
	serverID := utils.BodyString(body, "serverId")
	if serverID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestErr{Error: "missing serverId"})
		return
	}

	conn, err := h.connections.Connect(c.Request.Context(), session.DeviceID, serverID, c.ClientIP())
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestErr{Error: "cannot connect"})
		return
	}

	if err := h.counter.Incr(c.Request.Context(), serverID); err != nil {
		logrus.Errorf("%s: conn counter incr: %v", op, err)
	}

	utils.Respond(c, conn)
}

// @Summary     Отключение устройства от сервера
// @Tags        secure
// @Accept      json
// @Produce     json
// @Param       X-Auth  header    string         true  "Base64(Layer-1 шифртекст auth-токена)"
// @Param       input   body      dto.SecureReq  true  "Layer-2 шифртекст тела {connectionId, timestamp, nonce}"
// @Success     200     {object}  dto.Envelope
// @Failure     400     {object}  dto.BadRequestErr
// @Failure     401     {object}  dto.UnauthorizedErr
// @Router      /mobile/disconnect [post]
func (h *MobileHandler) Disconnect(c *gin.Context) {
	const op = "location internal.handler.mobile_handler.Disconnect"

	session, err := utils.GetSession(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.UnauthorizedErr{Error: "unauthorized"})
		return
	}

	body := utils.GetDecodedBody(c)
	connectionID := utils.BodyString(body, "connectionId")
	serverID := utils.BodyString(body, "serverId")
	if connectionID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestErr{Error: "missing connectionId"})
		return
	}

	if err := h.connections.Disconnect(c.Request.Context(), connectionID, session.DeviceID); err != nil {
		logrus.Errorf("%s: %v", op, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestErr{Error: "cannot disconnect"})
		return
	}

	if serverID != "" {
		if err := h.counter.Decr(c.Request.Context(), serverID); err != nil {
			logrus.Errorf("%s: conn counter decr: %v", op, err)
		}
	}

	utils.Respond(c, gin.H{"disconnected": true})
}
