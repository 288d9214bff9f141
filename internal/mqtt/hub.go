// Package mqtt bridges voice terminals to the assistant. Terminals run their
// own speech-to-text and publish recognized utterances; the hub feeds them
// through the turn handler and pushes the reply back to the terminal's
// speech output.
package mqtt

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"

	"asistan/internal/domain"
	"asistan/internal/speech"
)

var _ speech.Speaker = (*Hub)(nil)

type HubConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// TurnHandler resolves one utterance into a spoken reply.
type TurnHandler interface {
	HandleUtterance(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error)
}

type Hub struct {
	cfg      HubConfig
	client   paho.Client
	presence *Presence
	handler  TurnHandler
	logger   *slog.Logger

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

func NewHub(cfg HubConfig, presence *Presence, handler TurnHandler, logger *slog.Logger) *Hub {
	return &Hub{
		cfg:      cfg,
		presence: presence,
		handler:  handler,
		logger:   logger,
	}
}

func (h *Hub) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(h.cfg.BrokerURL).
		SetClientID(h.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if h.cfg.Username != "" {
		opts.SetUsername(h.cfg.Username)
		opts.SetPassword(h.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		h.logger.Error("mqtt connection lost", "error", err)
	})

	h.client = paho.NewClient(opts)
	if token := h.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	if err := h.subscribeHandlers(); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		// Stop the message flow, then refuse new turn goroutines before
		// waiting, so no Add races the Wait.
		token := h.client.Unsubscribe(
			TopicTerminalUtterance(h.cfg.TopicPrefix),
			TopicTerminalOnline(h.cfg.TopicPrefix),
			TopicTerminalHeartbeat(h.cfg.TopicPrefix),
		)
		token.Wait()
		h.mu.Lock()
		h.closing = true
		h.mu.Unlock()
		h.wg.Wait()
		h.client.Disconnect(100)
	}()

	return nil
}

func (h *Hub) subscribeHandlers() error {
	if token := h.client.Subscribe(TopicTerminalUtterance(h.cfg.TopicPrefix), 1, h.handleUtterance); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicTerminalOnline(h.cfg.TopicPrefix), 1, h.handleOnline); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicTerminalHeartbeat(h.cfg.TopicPrefix), 1, h.handleHeartbeat); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (h *Hub) handleUtterance(_ paho.Client, msg paho.Message) {
	terminalID, err := ParseTerminalID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid utterance topic", "topic", msg.Topic(), "error", err)
		return
	}

	var report domain.UtteranceReport
	if err := json.Unmarshal(msg.Payload(), &report); err != nil {
		h.logger.Warn("invalid utterance payload", "terminal_id", terminalID, "error", err)
		return
	}
	if report.TerminalID == "" {
		report.TerminalID = terminalID
	}
	if report.TerminalID != terminalID {
		h.logger.Warn("utterance terminal mismatch", "topic_terminal", terminalID, "payload_terminal", report.TerminalID)
		return
	}

	h.presence.SetOnline(terminalID, true)

	h.mu.Lock()
	if h.closing {
		h.mu.Unlock()
		return
	}
	h.wg.Add(1)
	h.mu.Unlock()
	go func() {
		defer h.wg.Done()

		resp, err := h.handler.HandleUtterance(context.Background(), domain.ChatRequest{
			SessionID:  report.SessionID,
			TerminalID: terminalID,
			Text:       report.Text,
		})
		if err != nil {
			h.logger.Error("utterance handling failed", "terminal_id", terminalID, "error", err)
			return
		}

		h.presence.SetSession(terminalID, resp.SessionID)
		h.publishSpeak(terminalID, domain.SpeakPayload{SessionID: resp.SessionID, Text: resp.Reply})
	}()
}

func (h *Hub) handleOnline(_ paho.Client, msg paho.Message) {
	terminalID, err := ParseTerminalID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid online topic", "topic", msg.Topic(), "error", err)
		return
	}

	payload := strings.TrimSpace(strings.ToLower(string(msg.Payload())))
	online := payload == "1" || payload == "true" || payload == "online"
	h.presence.SetOnline(terminalID, online)
	h.logger.Info("terminal online status", "terminal_id", terminalID, "online", online)
}

func (h *Hub) handleHeartbeat(_ paho.Client, msg paho.Message) {
	terminalID, err := ParseTerminalID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid heartbeat topic", "topic", msg.Topic(), "error", err)
		return
	}
	h.presence.SetOnline(terminalID, true)
}

// Speak pushes text to a terminal's speech output. Failures are logged, not
// returned.
func (h *Hub) Speak(ctx context.Context, terminalID, text string) {
	h.publishSpeak(terminalID, domain.SpeakPayload{Text: text})
}

func (h *Hub) publishSpeak(terminalID string, payload domain.SpeakPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal speak payload", "terminal_id", terminalID, "error", err)
		return
	}
	topic := TopicSpeak(h.cfg.TopicPrefix, terminalID)
	if token := h.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		h.logger.Error("publish speak failed", "terminal_id", terminalID, "error", token.Error())
	}
}
