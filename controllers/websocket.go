package controllers

import (
	"net/http"

	"unifiedweb_go/config"
	"unifiedweb_go/database"
	"unifiedweb_go/models"
	"unifiedweb_go/services/events"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// WebSocketController upgrades authenticated connections onto the
// events hub so grade submissions, import completions and
// notifications reach open dashboards live.
type WebSocketController struct {
	hub *events.Hub
}

func NewWebSocketController(hub *events.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

type wsClaims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// validateJWT validates a JWT token and returns the active user
func (wsc *WebSocketController) validateJWT(tokenString string) (*models.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &wsClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*wsClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrInvalidKey
	}

	var user models.User
	if err := database.DB.Where("id = ? AND status = ?", claims.UserID, "active").First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// WebSocketHandler returns a Fiber WebSocket handler that validates the
// JWT from the token query parameter and attaches the client to the hub.
func (wsc *WebSocketController) WebSocketHandler() fiber.Handler {
	return fiberws.New(func(c *fiberws.Conn) {
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("WebSocket handler panic: %v", r)
			}
		}()

		token := c.Query("token")
		if token == "" {
			c.WriteMessage(fiberws.CloseMessage, []byte("Missing token"))
			c.Close()
			return
		}

		user, err := wsc.validateJWT(token)
		if err != nil {
			logrus.WithError(err).Warn("WebSocket connection rejected: invalid token")
			c.WriteMessage(fiberws.CloseMessage, []byte("Invalid token"))
			c.Close()
			return
		}

		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
		}).Info("WebSocket connection established")

		wsc.hub.ServeFiberWS(c, user.ID)
	})
}

// HTTPUpgradeHandler serves the websocket upgrade over plain net/http
// for clients outside the fiber stack; main mounts it on the bridge
// listener. Auth mirrors WebSocketHandler: JWT in the token query
// parameter, user must be active.
func (wsc *WebSocketController) HTTPUpgradeHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		user, err := wsc.validateJWT(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		wsc.hub.ServeWS(w, r, user.ID)
	})
}

// GetWebSocketStats returns WebSocket connection statistics (admin only)
func (wsc *WebSocketController) GetWebSocketStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected_clients": wsc.hub.GetClientCount(),
		"status":            "active",
	})
}
