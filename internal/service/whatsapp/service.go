package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ruanmelo/chopptrailer/internal/config"
	"github.com/ruanmelo/chopptrailer/internal/domain/models"
	client "github.com/ruanmelo/chopptrailer/pkg/clients/whatsapp"
)

// Interpreter turns one inbound chat message into reply text.
type Interpreter interface {
	Interpret(ctx context.Context, text string) string
}

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Service answers inbound WhatsApp messages with report replies. It holds no
// conversation state: every message is interpreted on its own.
type Service struct {
	cfg         config.WhatsAppConfig
	client      client.Client
	interpreter Interpreter
	logger      *zap.Logger
}

// NewService wires the messaging service.
func NewService(cfg config.WhatsAppConfig, cl client.Client, interpreter Interpreter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, client: cl, interpreter: interpreter, logger: logger}
}

// VerifyWebhookToken answers Meta's subscription handshake.
func (s *Service) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}
	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}
	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

// HandleWebhook walks the callback payload and answers every text-bearing
// message. One failed message does not stop the rest; the first error is
// reported after the batch.
func (s *Service) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.answer(ctx, msg); err != nil {
					s.logger.Error("failed answering message",
						zap.String("message_id", msg.ID),
						zap.Error(err))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}
	return firstErr
}

func (s *Service) answer(ctx context.Context, msg models.InboundMessage) error {
	text := messageText(msg)
	if text == "" {
		// Media and unsupported message types are skipped quietly.
		return nil
	}

	reply := s.interpreter.Interpret(ctx, text)

	s.logger.Info("answering command",
		zap.String("from", msg.From),
		zap.Int("reply_len", len(reply)))

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendText(sendCtx, client.SendTextRequest{To: msg.From, Body: reply})
	return err
}

// SendOutbound pushes a manually triggered notification.
func (s *Service) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendText(sendCtx, client.SendTextRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}

func messageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}
	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}
	return ""
}
