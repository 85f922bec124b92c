package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/japasea/japasea-server/internal/app/models"
)

func TestRepositorySaveMessage(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, zap.NewNop())

	msg := models.ChatMessage{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		SessionID: "s-1",
		Sender:    models.SenderBot,
		Text:      "tu plan",
		Response:  &models.ChatResponse{Message: "tu plan"},
		CreatedAt: time.Now().UTC(),
	}

	mockPool.ExpectExec("INSERT INTO chat_messages").
		WithArgs(msg.ID, msg.UserID, msg.SessionID, msg.Sender, msg.Text, msg.Context, pgxmock.AnyArg(), msg.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.SaveMessage(context.Background(), msg)

	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositorySaveMessageExecError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, zap.NewNop())

	mockPool.ExpectExec("INSERT INTO chat_messages").
		WillReturnError(assert.AnError)

	err = repo.SaveMessage(context.Background(), models.ChatMessage{ID: uuid.New(), UserID: uuid.New()})
	require.Error(t, err)
}

func TestRepositoryGetSessionMessages(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, zap.NewNop())

	userID := uuid.New()
	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "user_id", "session_id", "sender", "text", "context", "response", "created_at"}).
		AddRow(uuid.New(), userID, "s-1", models.SenderUser, "hola", "", []byte(nil), now).
		AddRow(uuid.New(), userID, "s-1", models.SenderBot, "buenas!", "", []byte(`{"message": "buenas!"}`), now.Add(time.Millisecond))

	mockPool.ExpectQuery("SELECT id, user_id, session_id, sender, text, context, response, created_at").
		WithArgs(userID, "s-1").
		WillReturnRows(rows)

	messages, err := repo.GetSessionMessages(context.Background(), userID, "s-1")

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, models.SenderUser, messages[0].Sender)
	assert.Nil(t, messages[0].Response)
	require.NotNil(t, messages[1].Response)
	assert.Equal(t, "buenas!", messages[1].Response.Message)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryGetSessionMessagesSkipsUnreadableResponse(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, zap.NewNop())

	userID := uuid.New()
	rows := pgxmock.NewRows([]string{"id", "user_id", "session_id", "sender", "text", "context", "response", "created_at"}).
		AddRow(uuid.New(), userID, "s-1", models.SenderBot, "buenas!", "", []byte(`{corrupted`), time.Now().UTC())

	mockPool.ExpectQuery("SELECT id, user_id, session_id, sender, text, context, response, created_at").
		WithArgs(userID, "s-1").
		WillReturnRows(rows)

	messages, err := repo.GetSessionMessages(context.Background(), userID, "s-1")

	require.NoError(t, err, "a corrupt stored response drops the payload, not the row")
	require.Len(t, messages, 1)
	assert.Nil(t, messages[0].Response)
}
