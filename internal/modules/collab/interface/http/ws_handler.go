package http

import (
	"net/http"
	"time"

	"OpsLink/pkg/util/myjwt"
	"OpsLink/pkg/ws"
	"OpsLink/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WsHandler 会议事件推送通道
//
// 服务端只做推送，客户端入站消息丢弃；连接存活靠ReadPump感知
type WsHandler struct {
	hub *ws.Hub
}

func NewWsHandler(hub *ws.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connect 建立WebSocket连接
//
// 路由: GET /wss?token=xxx
// 浏览器原生WebSocket不支持自定义Header，token走URL参数，握手时手动校验
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := myjwt.ParseToken(token)
	if err != nil || claims == nil || claims.Uuid == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Error(err.Error())
		return
	}

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	client := ws.NewClient(claims.Uuid, conn)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump(func(cl *ws.Client) {
		h.hub.Unregister(cl)
	})
}
