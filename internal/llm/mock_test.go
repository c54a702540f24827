package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chat-summary-api/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_SequenceAndCalls(t *testing.T) {
	boom := errors.New("boom")
	m := llm.NewMockProvider(
		llm.MockResponse{Content: "first", Usage: llm.Usage{InputTokens: 3, OutputTokens: 4}},
		llm.MockResponse{Err: boom},
	)

	resp, err := m.Complete(context.Background(), llm.Request{Prompt: "a"})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)
	assert.Equal(t, 7, resp.Usage.Total())

	_, err = m.Complete(context.Background(), llm.Request{Prompt: "b"})
	assert.ErrorIs(t, err, boom)

	// Last response repeats once exhausted.
	_, err = m.Complete(context.Background(), llm.Request{Prompt: "c"})
	assert.ErrorIs(t, err, boom)

	calls := m.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "b", calls[1].Prompt)
}

func TestMockProvider_CancelledContext(t *testing.T) {
	m := llm.NewMockProvider(llm.MockResponse{Content: "never"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, llm.Request{Prompt: "a"})
	assert.ErrorIs(t, err, llm.ErrUpstream)
	assert.ErrorIs(t, err, context.Canceled)
}
