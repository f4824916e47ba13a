/******************************************************************************
 *
 *  Description :
 *
 *    Handler of websocket connections.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nestwire/nestwire/server/logs"
	"github.com/nestwire/nestwire/server/store/types"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = idleSessionTimeout

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

func (sess *Session) closeWS() {
	sess.ws.Close()
}

func (sess *Session) readLoop() {
	defer func() {
		sess.closeWS()
		sess.cleanUp()
	}()

	sess.ws.SetReadLimit(globals.maxMessageSize)
	sess.ws.SetReadDeadline(time.Now().Add(pongWait))
	sess.ws.SetPongHandler(func(string) error {
		sess.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Read a ClientComMessage.
		_, raw, err := sess.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				logs.Err.Println("ws: readLoop", sess.sid, err)
			}
			return
		}
		statsInc("IncomingMessagesWebsockTotal", 1)
		sess.dispatchRaw(raw)
	}
}

func (sess *Session) sendMessage(msg any) bool {
	if len(sess.send) > sendQueueLimit {
		logs.Err.Println("ws: outbound queue limit exceeded", sess.sid)
		return false
	}

	statsInc("OutgoingMessagesWebsockTotal", 1)
	if err := wsWrite(sess.ws, websocket.TextMessage, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			logs.Err.Println("ws: writeLoop", sess.sid, err)
		}
		return false
	}
	return true
}

func (sess *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		// Break readLoop.
		sess.closeWS()
	}()

	for {
		select {
		case msg, ok := <-sess.send:
			if !ok {
				// Channel closed.
				return
			}
			if !sess.sendMessage(msg) {
				return
			}

		case msg := <-sess.stop:
			// Shutdown requested, don't care if the message is delivered.
			if msg != nil {
				if data, err := json.Marshal(msg); err == nil {
					wsWrite(sess.ws, websocket.TextMessage, data)
				}
			}
			return

		case <-ticker.C:
			if err := wsWrite(sess.ws, websocket.PingMessage, nil); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
					websocket.CloseNormalClosure) {
					logs.Err.Println("ws: writeLoop ping", sess.sid, err)
				}
				return
			}
		}
	}
}

// Writes a message with the given message type (mt) and payload.
func wsWrite(ws *websocket.Conn, mt int, msg any) error {
	var bits []byte
	if msg != nil {
		bits = msg.([]byte)
	}
	ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteMessage(mt, bits)
}

// Handles websocket requests from peers.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow connections from any Origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func serveWebSocket(wrt http.ResponseWriter, req *http.Request) {
	now := types.TimeNow()

	if req.Method != http.MethodGet {
		wrt.WriteHeader(http.StatusMethodNotAllowed)
		writeHTTPMessage(wrt, ErrMalformed("", "", now))
		logs.Err.Println("ws: invalid HTTP method", req.Method)
		return
	}

	remoteAddr := clientIPAddr(req)
	if banned, err := globals.store.Users.IsIPBanned(remoteAddr); err != nil {
		logs.Err.Println("ws: IP ban check failed", err)
	} else if banned {
		wrt.WriteHeader(http.StatusForbidden)
		writeHTTPMessage(wrt, ErrPermissionDenied("", "", now))
		logs.Warn.Println("ws: rejected banned IP", remoteAddr)
		return
	}

	ws, err := upgrader.Upgrade(wrt, req, nil)
	if _, ok := err.(websocket.HandshakeError); ok {
		logs.Err.Println("ws: not a websocket handshake")
		return
	} else if err != nil {
		logs.Err.Println("ws: failed to Upgrade ", err)
		return
	}

	sess := globals.sessionStore.NewSession(ws, remoteAddr)

	logs.Info.Println("ws: session started", sess.sid, sess.remoteAddr)

	// Do work in goroutines to return from serveWebSocket() to release file pointers.
	// Otherwise "too many open files" will happen.
	go sess.writeLoop()
	go sess.readLoop()
}

// clientIPAddr returns the IP address of the client, preferring
// X-Forwarded-For when the server is behind a reverse proxy.
func clientIPAddr(req *http.Request) string {
	if globals.useXForwardedFor {
		if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
			addr := strings.TrimSpace(strings.Split(fwd, ",")[0])
			if ip := net.ParseIP(addr); ip != nil {
				return addr
			}
		}
	}

	addr := req.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	return addr
}
