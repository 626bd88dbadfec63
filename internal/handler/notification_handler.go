package handler

import (
	"os"

	"research-link-be/internal/dto"
	"research-link-be/internal/model"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/pkg/logger"
	"research-link-be/internal/pkg/serverutils"
	"research-link-be/internal/service"
	internalWS "research-link-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service *service.NotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(service *service.NotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs authenticates the handshake and hands the connection to the hub.
// Browsers cannot set headers on WebSocket upgrades, hence the query token.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		tokenStr = c.Cookies(serverutils.SessionCookieName)
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// GetNotifications returns the user's inbox, newest first.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userID := serverutils.LocalUUID(c, "user_id")

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	notifications, total, err := h.service.GetNotifications(c.UserContext(), userID, limit, offset)
	if err != nil {
		return apperror.Internal(err)
	}
	unread, err := h.service.GetUnreadCount(c.UserContext(), userID)
	if err != nil {
		return apperror.Internal(err)
	}

	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, toNotificationResponse(n))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data": &dto.NotificationListResponse{
			Notifications: items,
			Total:         total,
			UnreadCount:   unread,
		},
	})
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID := serverutils.LocalUUID(c, "user_id")

	count, err := h.service.GetUnreadCount(c.UserContext(), userID)
	if err != nil {
		return apperror.Internal(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    fiber.Map{"count": count},
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperror.InvalidRequest("INVALID_NOTIFICATION_ID", "Notification id must be a valid UUID")
	}
	userID := serverutils.LocalUUID(c, "user_id")

	if err := h.service.MarkAsRead(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Notification marked as read",
		"data":    nil,
	})
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID := serverutils.LocalUUID(c, "user_id")

	if err := h.service.MarkAllAsRead(c.UserContext(), userID); err != nil {
		return apperror.Internal(err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "All notifications marked as read",
		"data":    nil,
	})
}

func toNotificationResponse(n model.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		Id:        n.ID,
		TypeCode:  n.TypeCode,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Use(serverutils.JwtMiddleware)
	notif.Get("/", h.GetNotifications)
	notif.Get("/unread-count", h.GetUnreadCount)
	notif.Post("/read-all", h.MarkAllAsRead)
	notif.Post("/:id/read", h.MarkAsRead)

	// WebSocket
	router.Get("/ws", h.ServeWs)
}
