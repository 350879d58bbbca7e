// Package assemblyai is a small REST client for the AssemblyAI transcription
// API: upload, submit, poll.
package assemblyai

import (
	"context"
	"fmt"
	"os"
	"time"

	"YTM4A/internal/domain/models"
	dsvc "YTM4A/internal/domain/service"
	"YTM4A/pkg/http"
	"YTM4A/pkg/logger"
)

const (
	statusCompleted = "completed"
	statusError     = "error"
)

// Client implements service.Transcriber.
type Client struct {
	pollInterval time.Duration
	timeout      time.Duration
	http         *http.Client
	log          *logger.Logger
}

// New creates a Client. baseURL is normally https://api.assemblyai.com.
func New(apiKey, baseURL string, pollInterval, timeout time.Duration, l *logger.Logger) *Client {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	hc := http.NewClient(
		http.WithBaseURL(baseURL),
		http.WithHeader("Authorization", apiKey),
		http.WithTimeout(10*time.Minute),
		http.WithRetry(3, time.Second),
	)
	return &Client{
		http:         hc,
		pollInterval: pollInterval,
		timeout:      timeout,
		log:          l.Component("assemblyai"),
	}
}

var _ dsvc.Transcriber = (*Client)(nil)

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL          string `json:"audio_url"`
	SpeakerLabels     bool   `json:"speaker_labels"`
	EntityDetection   bool   `json:"entity_detection"`
	AutoChapters      bool   `json:"auto_chapters"`
	SentimentAnalysis bool   `json:"sentiment_analysis"`
	FormatText        bool   `json:"format_text"`
}

type transcriptResponse struct {
	models.Transcript
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Transcribe uploads the audio file, requests a transcript with speaker
// labels, entities, chapters and sentiment, and waits for it.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*models.Transcript, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	uploadURL, err := c.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	id, err := c.submit(ctx, uploadURL)
	if err != nil {
		return nil, err
	}
	c.log.Info("transcript submitted", logger.String("transcript_id", id))

	return c.wait(ctx, id)
}

func (c *Client) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var out uploadResponse
	err = c.http.SendAndParse(ctx, &http.RequestOptions{
		Method:  http.MethodPost,
		URL:     "/v2/upload",
		Headers: map[string]string{"Content-Type": "application/octet-stream"},
		Body:    f,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("upload audio: empty upload_url")
	}
	return out.UploadURL, nil
}

func (c *Client) submit(ctx context.Context, audioURL string) (string, error) {
	body := transcriptRequest{
		AudioURL:          audioURL,
		SpeakerLabels:     true,
		EntityDetection:   true,
		AutoChapters:      true,
		SentimentAnalysis: true,
		FormatText:        true,
	}
	var out transcriptResponse
	err := c.http.SendAndParse(ctx, &http.RequestOptions{
		Method: http.MethodPost,
		URL:    "/v2/transcript",
		Body:   body,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("submit transcript: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("submit transcript: empty id")
	}
	return out.ID, nil
}

func (c *Client) wait(ctx context.Context, id string) (*models.Transcript, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var out transcriptResponse
		err := c.http.SendAndParse(ctx, &http.RequestOptions{
			Method: http.MethodGet,
			URL:    "/v2/transcript/" + id,
		}, &out)
		if err != nil {
			return nil, fmt.Errorf("poll transcript %s: %w", id, err)
		}

		switch out.Status {
		case statusCompleted:
			t := out.Transcript
			return &t, nil
		case statusError:
			return nil, fmt.Errorf("transcription failed: %s", out.Error)
		}
		c.log.Debug("transcript pending", logger.String("transcript_id", id), logger.String("status", out.Status))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("poll transcript %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}
