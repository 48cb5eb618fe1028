// Package quote fetches random quotes from a quote service over HTTP.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ankurkotwal/quotecard/qc/common"
)

// Largest response body accepted from the quote service
const maxBodyBytes = 1 << 20

// Client fetches quotes from a fixed endpoint. It never retries.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient returns a client for the configured quote endpoint
func NewClient(config *common.Config) *Client {
	return &Client{
		URL:        config.QuoteURL,
		HTTPClient: &http.Client{Timeout: config.QuoteTimeout},
	}
}

// FetchQuote retrieves one random quote. All failures are *common.FetchError.
func (c *Client) FetchQuote(ctx context.Context) (common.Quote, error) {
	var quote common.Quote
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return quote, &common.FetchError{Reason: "bad request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return quote, &common.FetchError{Reason: classify(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return quote, &common.FetchError{
			Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return quote, &common.FetchError{Reason: classify(ctx, err), Err: err}
	}
	if err := decodeQuote(body, &quote); err != nil {
		return common.Quote{}, &common.FetchError{Reason: "malformed response", Err: err}
	}
	return quote, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// decodeQuote requires every field of the quote record to be present
func decodeQuote(body []byte, quote *common.Quote) error {
	var raw struct {
		Content   *string `json:"content"`
		SeasonID  *int    `json:"season_id"`
		EpisodeID *int    `json:"episode_id"`
		SpeakerID *int    `json:"speaker_id"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return err
	}
	switch {
	case raw.Content == nil:
		return errors.New("missing content")
	case raw.SeasonID == nil:
		return errors.New("missing season_id")
	case raw.EpisodeID == nil:
		return errors.New("missing episode_id")
	}
	quote.Content = *raw.Content
	quote.SeasonID = *raw.SeasonID
	quote.EpisodeID = *raw.EpisodeID
	// Narration lines have no speaker
	if raw.SpeakerID != nil {
		quote.SpeakerID = *raw.SpeakerID
	}
	return nil
}

func classify(ctx context.Context, err error) string {
	var netErr interface{ Timeout() bool }
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return "network failure"
}
