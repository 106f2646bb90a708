package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	WebSocketServerPingInterval = 25 * time.Second
	WebSocketServerPingWait     = 40 * time.Second
)

type WebsocketServerConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
}

// WebsocketClient 存储每个 WebSocket 连接及其会话
type WebsocketClient struct {
	conn      *gws.Conn
	done      chan struct{}
	closeOnce sync.Once
	User      *UserEntity
	TraceID   string
}

func (c *WebsocketClient) stop() {
	c.closeOnce.Do(func() { close(c.done) })
}

// PingLoop 定期发送 Ping 消息
func (c *WebsocketClient) PingLoop(interval time.Duration, lg *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				lg.Warn("websocket ping failed", zap.String("uid", c.User.UID), zap.Error(err))
				return
			}
		}
	}
}

// ConnStorage 连接到客户端的映射
type ConnStorage = map[*gws.Conn]*WebsocketClient

// WebsocketServer keeps authenticated connections grouped by user uuid so
// that a change made by one session can be pushed to the user's other sessions.
// WebsocketServer 按用户分组保存已认证连接，用于向同一用户的其他会话推送变更
type WebsocketServer struct {
	logger      *zap.Logger
	clients     ConnStorage
	userClients map[string]ConnStorage
	mu          sync.RWMutex
	up          *gws.Upgrader
	config      *WebsocketServerConfig
}

func NewWebsocketServer(c WebsocketServerConfig, lg *zap.Logger) *WebsocketServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	w := &WebsocketServer{
		logger:      lg,
		clients:     make(ConnStorage),
		userClients: make(map[string]ConnStorage),
		config:      &c,
	}
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
	return w
}

// Run 返回升级连接的 gin 处理函数，要求请求已经过用户认证中间件
func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			c.AbortWithStatus(401)
			return
		}

		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Error("websocket upgrade failed", zap.Error(err))
			return
		}

		traceID, _ := c.Get("trace_id")
		client := &WebsocketClient{conn: socket, done: make(chan struct{}), User: user}
		if s, ok := traceID.(string); ok {
			client.TraceID = s
		}
		w.AddClient(client)

		w.logger.Info("websocket user enters",
			zap.String("uid", user.UID),
			zap.String("sessionUuid", user.SessionUUID),
			zap.Int("count", w.UserClientCount(user.UID)))

		go client.PingLoop(w.config.PingInterval, w.logger)
		go socket.ReadLoop()
	}
}

// ClientCount 当前在线连接总数
func (w *WebsocketServer) ClientCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.clients)
}

func (w *WebsocketServer) AddClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[c.conn] = c
	if w.userClients[c.User.UID] == nil {
		w.userClients[c.User.UID] = make(ConnStorage)
	}
	w.userClients[c.User.UID][c.conn] = c
}

func (w *WebsocketServer) RemoveClient(conn *gws.Conn) *WebsocketClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.clients[conn]
	if !ok {
		return nil
	}
	delete(w.clients, conn)
	if uc := w.userClients[c.User.UID]; uc != nil {
		delete(uc, conn)
		if len(uc) == 0 {
			delete(w.userClients, c.User.UID)
		}
	}
	return c
}

// UserClientCount 用户当前在线连接数
func (w *WebsocketServer) UserClientCount(userUUID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.userClients[userUUID])
}

// SendToUser pushes `action|json(content)` to every connection of userUUID
// except the ones opened by exceptSession. It returns the number of
// connections written to.
// SendToUser 向用户的所有连接（排除 exceptSession）推送消息，返回发送的连接数
func (w *WebsocketServer) SendToUser(userUUID, exceptSession, action string, content any) (int, error) {
	body, err := sonic.Marshal(content)
	if err != nil {
		return 0, err
	}
	payload := []byte(fmt.Sprintf("%s|%s", action, body))

	w.mu.RLock()
	targets := make([]*gws.Conn, 0, len(w.userClients[userUUID]))
	for conn, c := range w.userClients[userUUID] {
		if exceptSession != "" && c.User.SessionUUID == exceptSession {
			continue
		}
		targets = append(targets, conn)
	}
	w.mu.RUnlock()

	if len(targets) == 0 {
		return 0, nil
	}

	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()

	sent := 0
	for _, conn := range targets {
		if err := b.Broadcast(conn); err != nil {
			w.logger.Warn("websocket broadcast failed", zap.String("uid", userUUID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	c := w.RemoveClient(conn)
	if c == nil {
		return
	}
	c.stop()
	w.logger.Info("websocket user leave", zap.String("uid", c.User.UID), zap.NamedError("reason", err))
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
}

// OnMessage 推送通道只接受客户端的 close 指令，其他消息仅刷新超时
func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
	if message.Opcode == gws.OpcodeText && message.Data.String() == "close" {
		_ = conn.WriteClose(1000, []byte("ClientClose"))
	}
}

// Shutdown 关闭所有连接
func (w *WebsocketServer) Shutdown() {
	w.mu.RLock()
	conns := make([]*gws.Conn, 0, len(w.clients))
	for conn := range w.clients {
		conns = append(conns, conn)
	}
	w.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.WriteClose(1001, []byte("ServerShutdown"))
	}
}

var _ gws.Event = (*WebsocketServer)(nil)
