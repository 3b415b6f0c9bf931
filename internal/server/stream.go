package server

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"dartscorer/internal/boards"
	"dartscorer/internal/engine"
	"dartscorer/internal/wshub"
)

// updateSnapshot is the first message on every stream so late joiners can
// render without waiting for the next throw.
const updateSnapshot = "snapshot"

func snapshot(b *boards.Board) []byte {
	data, err := json.Marshal(engine.Update{Kind: updateSnapshot, Session: b.Controller.ActiveSession()})
	if err != nil {
		log.Error().Err(err).Str("board", b.Code).Msg("marshal snapshot")
		return nil
	}
	return data
}

func (s *Server) handleEvents(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	msgChan := b.Broadcaster.Subscribe()
	defer b.Broadcaster.Unsubscribe(msgChan)

	c.SSEvent(updateSnapshot, string(snapshot(b)))
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-msgChan:
			if !ok {
				return false
			}
			c.SSEvent(msg.Event, msg.Data)
			return true
		}
	})
}

func (s *Server) handleWS(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Warn().Err(err).Str("board", b.Code).Msg("ws accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	client := &wshub.Client{
		ID:   uuid.NewString(),
		Name: c.Query("name"),
		Conn: conn,
		Send: make(chan []byte, 32),
	}
	b.Hub.Register(client)
	defer b.Hub.Unregister(client.ID)
	go client.WritePump(ctx)

	b.Hub.SendTo(client.ID, wshub.ServerMessage{Type: wshub.TypeState, Data: snapshot(b)})

	err = client.ReadPump(ctx, func(msg wshub.ClientMessage) {
		b.Touch(time.Now())
		var reply any
		switch msg.Type {
		case wshub.TypeThrow, wshub.TypeHits:
			reply = b.Controller.Submit(msg.Input())
		case wshub.TypeUndo:
			reply = gin.H{"undone": b.Controller.Undo()}
		default:
			log.Debug().Str("type", msg.Type).Str("client", client.ID).Msg("unknown ws message")
			return
		}
		data, err := json.Marshal(reply)
		if err != nil {
			log.Error().Err(err).Msg("marshal ws reply")
			return
		}
		b.Hub.SendTo(client.ID, wshub.ServerMessage{Type: wshub.TypeResult, Data: data})
	})
	if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
		log.Debug().Err(err).Str("client", client.ID).Msg("ws closed")
	}
}
