// Package webhook implements the Notifier port as a form-encoded POST to a
// spreadsheet webhook. Delivery is best-effort by design: the response body
// is ignored, failures are only logged by the caller, and nothing is retried.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"geostation-service/internal/domain"
)

const requestTimeout = 15 * time.Second

// Notifier posts saved records to a configured webhook URL.
type Notifier struct {
	session *http.Client
}

func NewNotifier() *Notifier {
	return &Notifier{session: &http.Client{Timeout: requestTimeout}}
}

// Notify sends the record's fields as application/x-www-form-urlencoded.
// Images are not transmitted, only their count.
func (n *Notifier) Notify(ctx context.Context, endpoint string, rec domain.Record) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return errors.New("webhook notify: endpoint is empty")
	}

	form := url.Values{}
	form.Set("id", rec.ID)
	form.Set("name", rec.Name)
	form.Set("address", rec.Address)
	form.Set("lat", strconv.FormatFloat(rec.Position.Lat, 'f', -1, 64))
	form.Set("lng", strconv.FormatFloat(rec.Position.Lng, 'f', -1, 64))
	form.Set("description", rec.Description)
	form.Set("image_count", strconv.Itoa(len(rec.Images)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("webhook notify: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.session.Do(req)
	if err != nil {
		return fmt.Errorf("webhook notify: post %q: %w", endpoint, err)
	}
	defer resp.Body.Close()
	// The response body is unobservable by design; drain it for connection reuse.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook notify: %q returned status %d", endpoint, resp.StatusCode)
	}

	return nil
}
