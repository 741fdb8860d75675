package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/neuroalign/neuroalign/engine/biorhythm"
	"github.com/neuroalign/neuroalign/engine/fatigue"
	"github.com/neuroalign/neuroalign/engine/signal"
	"github.com/neuroalign/neuroalign/server/auth"
	"github.com/neuroalign/neuroalign/server/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser clients connect from the app origin; token auth is the
	// actual gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Monitor upgrades the connection and streams analysis results back for
// each inbound monitoring event.
func (s *APIV1Service) Monitor(c echo.Context) error {
	claims := auth.GetClaims(c)
	sess := s.sessionFor(c)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := websocket.NewClient(s.Hub, conn, claims.UserID, sess.ID, s.handleMonitorMessage)
	client.Register()
	go client.WritePump()
	go client.ReadPump()

	client.Reply("connected", map[string]string{"session_id": sess.ID})
	return nil
}

// handleMonitorMessage dispatches one inbound websocket message.
func (s *APIV1Service) handleMonitorMessage(client *websocket.Client, msg websocket.InboundMessage) *websocket.Envelope {
	sess, ok := s.Registry.Get(client.SessionID)
	if !ok {
		return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": "session expired"}}
	}

	switch msg.Type {
	case "webcam_frame":
		if !sess.AllowFrame() {
			s.Metrics.RecordRejection("rate_limited")
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": "frame rate limit exceeded"}}
		}
		payload := &signal.FramePayload{}
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": "malformed frame payload"}}
		}
		sample, err := signal.NormalizeFrame(payload)
		if err != nil {
			s.Metrics.RecordRejection("invalid_frame")
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": err.Error()}}
		}
		started := time.Now()
		var metrics fatigue.FrameMetrics
		sess.WithDetector(func(d *fatigue.Detector) {
			metrics = d.ProcessFrame(sample)
		})
		s.Metrics.RecordFrame(sample.FaceDetected, time.Since(started))
		return &websocket.Envelope{Type: "fatigue_update", Payload: metrics}

	case "typing_data":
		if !sess.AllowEvent() {
			s.Metrics.RecordRejection("rate_limited")
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": "event rate limit exceeded"}}
		}
		payload := &signal.TypingBatch{}
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": "malformed typing payload"}}
		}
		batch, err := signal.NormalizeTyping(payload)
		if err != nil {
			s.Metrics.RecordRejection("invalid_typing")
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": err.Error()}}
		}
		started := time.Now()
		var sample fatigue.TypingSample
		sess.WithDetector(func(d *fatigue.Detector) {
			sample = d.ProcessTypingBatch(batch)
		})
		s.Metrics.RecordTypingBatch(time.Since(started))
		return &websocket.Envelope{Type: "typing_update", Payload: sample}

	case "biosignal":
		if !sess.AllowEvent() {
			s.Metrics.RecordRejection("rate_limited")
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": "event rate limit exceeded"}}
		}
		payload := &signal.BiosignalPayload{}
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": "malformed biosignal payload"}}
		}
		sample, err := signal.NormalizeBiosignal(payload)
		if err != nil {
			s.Metrics.RecordRejection("invalid_biosignal")
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": err.Error()}}
		}
		started := time.Now()
		var pred biorhythm.Prediction
		sess.WithAnalyzer(func(a *biorhythm.Analyzer) {
			pred = a.PredictEnergy(sample)
		})
		s.Metrics.RecordBiosignal(time.Since(started))
		s.Metrics.SetEnergyLevel(pred.CurrentEnergy)
		return &websocket.Envelope{Type: "energy_update", Payload: pred}

	case "get_overall_score":
		ctx := context.Background()
		assessment, err := s.assessAndPersist(ctx, client.UserID, sess)
		if err != nil {
			s.logger.Error("websocket assessment failed", "session_id", client.SessionID, "err", err)
			return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": "assessment failed"}}
		}
		return &websocket.Envelope{Type: "overall_score", Payload: assessment}

	default:
		return &websocket.Envelope{Type: "error", Payload: map[string]string{"message": "unknown message type"}}
	}
}
