package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chat-summary-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestJSON = `{"statistics": {"total_messages": 3}, "chat_title": "Тест", "hours": 2}`

func TestReadRequest_Stdin(t *testing.T) {
	req, err := readRequest(strings.NewReader(requestJSON), nil)

	require.NoError(t, err)
	require.NotNil(t, req.Statistics)
	assert.Equal(t, 3, req.Statistics.TotalMessages)
	assert.Equal(t, "Тест", req.ChatTitle)
	assert.Equal(t, 2, req.Hours)
}

func TestReadRequest_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(requestJSON), 0o600))

	req, err := readRequest(strings.NewReader("ignored"), []string{path})

	require.NoError(t, err)
	assert.Equal(t, "Тест", req.ChatTitle)
}

func TestReadRequest_Errors(t *testing.T) {
	_, err := readRequest(strings.NewReader("{"), nil)
	assert.ErrorContains(t, err, "failed to decode request")

	_, err = readRequest(nil, []string{filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "cannot open")
}

func TestWriteResponse(t *testing.T) {
	resp := &models.SummaryResponse{Summary: "Сводка <дня>", TokensUsed: 42}

	var plain bytes.Buffer
	require.NoError(t, writeResponse(&plain, resp, false))
	assert.Equal(t, "Сводка <дня>\n", plain.String())

	var js bytes.Buffer
	require.NoError(t, writeResponse(&js, resp, true))
	assert.JSONEq(t, `{"summary":"Сводка <дня>","tokens_used":42}`, js.String())
	assert.Contains(t, js.String(), "<дня>")
}
