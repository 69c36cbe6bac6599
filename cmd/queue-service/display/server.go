package display

import (
	"net/http"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// in-store boards are served from the shop network
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades a display board connection
// GET /ws/display?board=dine_in (board defaults to all)
func (h *Hub) HandleWebSocket(c echo.Context) error {
	board := c.QueryParam("board")
	if board == "" {
		board = AllBoards
	}
	if board != AllBoards {
		if _, err := models.ParseQueueType(board); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":   "invalid_request",
				"message": err.Error(),
			})
		}
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	client := NewClient(h, conn, board)
	if !h.add(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return nil
	}

	h.log.Info("new display connection", "board", board, "remote", c.RealIP())

	go client.writePump()
	go client.readPump()
	return nil
}
