package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	reply string
	err   error
	calls int
	last  []*schema.Message
}

func (f *fakeChat) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	f.last = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChat) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func testConfig() Config {
	return Config{APIKey: "key", RPM: 60000}
}

func TestNewServiceWithoutKeyIsUnconfigured(t *testing.T) {
	svc, err := NewService(context.Background(), Config{})
	require.NoError(t, err)

	assert.False(t, svc.Configured())
	assert.Equal(t, "gemini-2.5-flash", svc.Model())

	_, err = svc.Reply(context.Background(), "sys", "oi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestReplySendsSystemAndUserMessages(t *testing.T) {
	chat := &fakeChat{reply: "resposta"}
	svc := NewServiceWithModel(testConfig(), chat)

	reply, err := svc.Reply(context.Background(), "instruções", "qual o total?")
	require.NoError(t, err)

	assert.Equal(t, "resposta", reply)
	require.Len(t, chat.last, 2)
	assert.Equal(t, schema.System, chat.last[0].Role)
	assert.Equal(t, "instruções", chat.last[0].Content)
	assert.Equal(t, schema.User, chat.last[1].Role)
	assert.Equal(t, "Usuário: qual o total?", chat.last[1].Content)
}

func TestReplyReturnsModelErrorWithoutRetry(t *testing.T) {
	chat := &fakeChat{err: errors.New("quota exceeded")}
	svc := NewServiceWithModel(testConfig(), chat)

	_, err := svc.Reply(context.Background(), "sys", "oi")

	assert.EqualError(t, err, "quota exceeded")
	assert.Equal(t, 1, chat.calls)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	chat := &fakeChat{err: errors.New("unavailable")}
	svc := NewServiceWithModel(testConfig(), chat)

	for i := 0; i < 5; i++ {
		_, err := svc.Reply(context.Background(), "sys", "oi")
		require.Error(t, err)
	}

	_, err := svc.Reply(context.Background(), "sys", "oi")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, chat.calls)
}

func TestReplyHonoursCancelledContext(t *testing.T) {
	chat := &fakeChat{reply: "x"}
	svc := NewServiceWithModel(Config{APIKey: "key", RPM: 1}, chat)
	// drain the single token
	_, err := svc.Reply(context.Background(), "sys", "oi")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Reply(ctx, "sys", "oi")

	assert.Error(t, err)
	assert.Equal(t, 1, chat.calls)
}
