package chat

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/japasea/japasea-server/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists chat history per user and session.
type Repository interface {
	SaveMessage(ctx context.Context, msg models.ChatMessage) error
	GetSessionMessages(ctx context.Context, userID uuid.UUID, sessionID string) ([]models.ChatMessage, error)
}

// PGXPool is the slice of pgxpool.Pool the repository needs.
type PGXPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool PGXPool
}

func NewRepository(pgpool PGXPool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) SaveMessage(ctx context.Context, msg models.ChatMessage) error {
	ctx, span := otel.Tracer("ChatRepository").Start(ctx, "SaveMessage", trace.WithAttributes(
		attribute.String("session.id", msg.SessionID),
		attribute.String("message.sender", msg.Sender),
	))
	defer span.End()

	var responseJSON []byte
	if msg.Response != nil {
		var err error
		responseJSON, err = json.Marshal(msg.Response)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to marshal response")
			return errors.Wrap(err, "failed to marshal chat response")
		}
	}

	query := `
        INSERT INTO chat_messages (id, user_id, session_id, sender, text, context, response, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	if _, err := r.pgpool.Exec(ctx, query,
		msg.ID, msg.UserID, msg.SessionID, msg.Sender, msg.Text, msg.Context, responseJSON, msg.CreatedAt,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert chat message")
		return errors.Wrap(err, "failed to insert chat message")
	}

	span.SetStatus(codes.Ok, "Chat message saved")
	return nil
}

func (r *RepositoryImpl) GetSessionMessages(ctx context.Context, userID uuid.UUID, sessionID string) ([]models.ChatMessage, error) {
	ctx, span := otel.Tracer("ChatRepository").Start(ctx, "GetSessionMessages", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	query := `
        SELECT id, user_id, session_id, sender, text, context, response, created_at
        FROM chat_messages
        WHERE user_id = $1 AND session_id = $2
        ORDER BY created_at
    `
	rows, err := r.pgpool.Query(ctx, query, userID, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query chat messages")
		return nil, errors.Wrap(err, "failed to query chat messages")
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var responseJSON []byte
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.SessionID, &msg.Sender, &msg.Text, &msg.Context, &responseJSON, &msg.CreatedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to scan chat message")
			return nil, errors.Wrap(err, "failed to scan chat message")
		}
		if len(responseJSON) > 0 {
			var resp models.ChatResponse
			if err := json.Unmarshal(responseJSON, &resp); err != nil {
				r.logger.Warn("Skipping unreadable stored response",
					zap.String("message_id", msg.ID.String()),
					zap.Error(err))
			} else {
				msg.Response = &resp
			}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, errors.Wrap(err, "failed to read chat messages")
	}

	span.SetAttributes(attribute.Int("messages.count", len(messages)))
	span.SetStatus(codes.Ok, "Session messages loaded")
	return messages, nil
}
