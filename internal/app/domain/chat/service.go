package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/japasea/japasea-server/internal/app/models"
	"github.com/japasea/japasea-server/internal/app/observability/metrics"
)

// catalogSampleLimit caps how many catalog places are embedded into a prompt.
const catalogSampleLimit = 10

// historyContextTurns caps how many stored turns feed back into the prompt
// as conversation context.
const historyContextTurns = 6

// CatalogProvider is the read-only place catalog collaborator.
type CatalogProvider interface {
	CatalogSample(ctx context.Context, limit int) ([]models.PlaceRecord, error)
}

// Service runs the chat recommendation pipeline:
// classify → prompt → generate → parse (or fall back) → normalize → persist.
type Service struct {
	client  GenerativeClient
	catalog CatalogProvider
	repo    Repository
	logger  *zap.Logger
}

func NewService(client GenerativeClient, catalog CatalogProvider, repo Repository, logger *zap.Logger) *Service {
	return &Service{
		client:  client,
		catalog: catalog,
		repo:    repo,
		logger:  logger,
	}
}

// Respond answers one chat message. userID is uuid.Nil for anonymous callers,
// in which case the exchange is not persisted. Persistence failures never
// change the outcome; only validation and upstream failures return an error.
func (s *Service) Respond(ctx context.Context, userID uuid.UUID, req models.ChatRequest) (*models.ChatResponse, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "Respond", trace.WithAttributes(
		attribute.Int("message.length", len(req.Message)),
	))
	defer span.End()

	if strings.TrimSpace(req.Message) == "" {
		span.SetStatus(codes.Error, "Empty message")
		return nil, models.ErrValidation
	}

	intent := DetectIntent(req.Message)
	span.SetAttributes(attribute.String("chat.intent", string(intent)))

	sample, conversationContext := s.gatherContext(ctx, userID, req)

	prompt := BuildPrompt(intent, req.Message, conversationContext, sample)
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	start := time.Now()
	raw, err := s.client.Generate(ctx, prompt)
	if m := metrics.Get(); m != nil {
		m.UpstreamDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("intent", string(intent))))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generative call failed")
		s.countRequest(ctx, intent, "upstream_error")
		return nil, err
	}

	response, err := ExtractJSON(raw)
	if err != nil {
		// Malformed model output is recovered locally, never surfaced.
		s.logger.Warn("Model output unparseable, serving fallback",
			zap.String("intent", string(intent)),
			zap.Error(err))
		if m := metrics.Get(); m != nil {
			m.ChatFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("intent", string(intent))))
		}
		fallback := BuildFallbackResponse(intent, req.Message, sample)
		response = &fallback
	}

	normalized := NormalizeResponse(response)
	if intent == IntentSimpleRecommendation {
		flattenRecommendation(&normalized)
	}

	normalized.SessionID = req.SessionID
	if normalized.SessionID == "" {
		normalized.SessionID = fmt.Sprintf("session-%d", time.Now().UnixMilli())
	}

	if userID != uuid.Nil {
		s.persistExchange(ctx, userID, req, &normalized)
	}

	s.countRequest(ctx, intent, "ok")
	span.SetStatus(codes.Ok, "Chat response built")
	return &normalized, nil
}

// History returns the stored turns of one of the caller's sessions.
func (s *Service) History(ctx context.Context, userID uuid.UUID, sessionID string) ([]models.ChatMessage, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.GetSessionMessages(ctx, userID, sessionID)
}

// gatherContext loads the catalog sample and, for authenticated callers with
// an existing session, recent stored turns. Both reads are best-effort and
// run concurrently; a failed read degrades the prompt, not the request.
func (s *Service) gatherContext(ctx context.Context, userID uuid.UUID, req models.ChatRequest) ([]models.PlaceRecord, string) {
	var (
		sample  []models.PlaceRecord
		history []models.ChatMessage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.catalog.CatalogSample(gctx, catalogSampleLimit)
		if err != nil {
			s.logger.Warn("Place catalog unavailable, prompting without sample", zap.Error(err))
			return nil
		}
		sample = records
		return nil
	})
	if userID != uuid.Nil && req.SessionID != "" {
		g.Go(func() error {
			msgs, err := s.repo.GetSessionMessages(gctx, userID, req.SessionID)
			if err != nil {
				s.logger.Warn("Could not load session history for context", zap.Error(err))
				return nil
			}
			history = msgs
			return nil
		})
	}
	_ = g.Wait()

	return sample, buildConversationContext(req.Context, history)
}

// buildConversationContext merges the caller-supplied context with the tail
// of the stored session transcript.
func buildConversationContext(callerContext string, history []models.ChatMessage) string {
	if len(history) > historyContextTurns {
		history = history[len(history)-historyContextTurns:]
	}

	var b strings.Builder
	if callerContext != "" {
		b.WriteString(callerContext)
	}
	for _, msg := range history {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(msg.Sender)
		b.WriteString(": ")
		b.WriteString(msg.Text)
	}
	return b.String()
}

// flattenRecommendation converts the degenerate one-day plan the model (and
// the fallback) produce for simple recommendations into the flat places list,
// the canonical shape for that intent.
func flattenRecommendation(r *models.ChatResponse) {
	if r.TravelPlan == nil || len(r.Places) > 0 {
		return
	}
	var places []models.PlaceRecord
	for _, day := range r.TravelPlan.Days {
		for _, act := range day.Activities {
			places = append(places, act.Place)
		}
	}
	if len(places) > 0 {
		r.Places = places
		r.TravelPlan = nil
	}
}

// persistExchange appends the user turn and the bot turn to the session
// history. Best-effort: failures are logged and swallowed.
func (s *Service) persistExchange(ctx context.Context, userID uuid.UUID, req models.ChatRequest, resp *models.ChatResponse) {
	now := time.Now().UTC()

	userMsg := models.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: resp.SessionID,
		Sender:    models.SenderUser,
		Text:      req.Message,
		Context:   req.Context,
		CreatedAt: now,
	}
	botMsg := models.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: resp.SessionID,
		Sender:    models.SenderBot,
		Text:      resp.Message,
		Response:  resp,
		CreatedAt: now.Add(time.Millisecond),
	}

	for _, msg := range []models.ChatMessage{userMsg, botMsg} {
		if err := s.repo.SaveMessage(ctx, msg); err != nil {
			s.logger.Error("Failed to persist chat message",
				zap.String("session_id", msg.SessionID),
				zap.String("sender", msg.Sender),
				zap.Error(err))
			if m := metrics.Get(); m != nil {
				m.HistoryWriteErrors.Add(ctx, 1)
			}
			return
		}
	}
}

func (s *Service) countRequest(ctx context.Context, intent Intent, outcome string) {
	if m := metrics.Get(); m != nil {
		m.ChatRequestsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("intent", string(intent)),
			attribute.String("outcome", outcome),
		))
	}
}
