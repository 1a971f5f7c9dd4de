package masaihandler

import (
	masaimodels "ai-interview-backend/models/api/masai"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadAndSubmit(t *testing.T) {
	var uploaded string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			file, _, err := r.FormFile("files")
			require.Nil(t, err)
			body, _ := io.ReadAll(file)
			uploaded = string(body)
			_ = json.NewEncoder(w).Encode([]string{"/tmp/gradio/answer.mp4"})
		case "/call/event_handler_submit":
			var payload map[string]interface{}
			require.Nil(t, json.NewDecoder(r.Body).Decode(&payload))
			_ = json.NewEncoder(w).Encode(map[string]string{"event_id": "ev-1"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	h := NewHandler(server.URL)
	ctx := context.TODO()

	t.Run(`upload check`, func(t *testing.T) {
		path, err := h.uploadVideo(ctx, strings.NewReader("video-data"), "answer.mp4")
		require.Nil(t, err)
		require.Equal(t, "/tmp/gradio/answer.mp4", path)
		require.Equal(t, "video-data", uploaded)
	})

	t.Run(`submit check`, func(t *testing.T) {
		eventID, err := h.submitJob(ctx, "/tmp/gradio/answer.mp4")
		require.Nil(t, err)
		require.Equal(t, "ev-1", eventID)
	})

	t.Run(`availability check`, func(t *testing.T) {
		require.True(t, h.IsVideoAiAvailable())
	})
}

func TestConvertResponse(t *testing.T) {
	plot := func(body string) json.RawMessage {
		v, _ := json.Marshal(masaimodels.PlotValue{
			Type: "matplotlib",
			Plot: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(body)),
		})
		return v
	}
	text, _ := json.Marshal("Я работаю инженером")
	response := masaimodels.GradioResponse{
		Elements: []masaimodels.GradioUpdate{
			{Info: "Recognized text", Value: text},
			{Value: plot("amplitude")},
			{Value: plot("frames")},
			{Value: plot("emotion")},
			{Value: json.RawMessage(`null`)},
			{Value: plot("extra")},
		},
	}

	result := ConvertResponse(response)
	require.Equal(t, "Я работаю инженером", result.RecognizedText)
	require.Len(t, result.Attachments, 3)
	require.Equal(t, []byte("emotion"), result.Attachments["emotion"].Body)
	require.Equal(t, "image/png", result.Attachments["voice_amplitude"].ContentType)
	_, ok := result.Attachments["sentiment"]
	require.False(t, ok)
}
