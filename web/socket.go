package web

import (
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"phishsafe/bridge"
)

var upgrader = websocket.Upgrader{
	// the UI layer runs on this machine; anything else is refused
	CheckOrigin: func(r *http.Request) bool {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return false
		}
		ip := net.ParseIP(host)
		return ip != nil && ip.IsLoopback()
	},
}

// socketCall is one method call frame sent by the UI layer.
type socketCall struct {
	ID     string `json:"id"`
	Method string `json:"method"`
}

type socketReply struct {
	ID     string        `json:"id"`
	Status bridge.Status `json:"status"`
	Value  any           `json:"result,omitempty"`
}

// handleBridgeSocket serves the channel over a websocket. Calls are answered
// in order, one at a time.
func (s *Server) handleBridgeSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("bridge socket upgrade failed:", err)
		return
	}
	defer conn.Close()

	for {
		var call socketCall
		if err := conn.ReadJSON(&call); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("bridge socket read:", err)
			}
			return
		}
		res := s.channel.Invoke(strings.TrimSpace(call.Method))
		reply := socketReply{ID: call.ID, Status: res.Status, Value: res.Value}
		if err := conn.WriteJSON(reply); err != nil {
			log.Println("bridge socket write:", err)
			return
		}
	}
}
