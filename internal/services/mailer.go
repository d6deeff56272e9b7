package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Email struct {
	To      string
	Subject string
	Text    string
}

// Mailer sends transactional notifications.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type httpMailer struct {
	apiKey  string
	from    string
	baseURL string
	http    *http.Client
}

// NewHTTPMailer talks to a Resend-compatible /emails endpoint.
func NewHTTPMailer(baseURL, apiKey, from string) Mailer {
	return &httpMailer{
		apiKey:  apiKey,
		from:    from,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (m *httpMailer) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(sendEmailRequest{
		From:    m.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Text:    email.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

type logMailer struct {
	log logrus.FieldLogger
}

// NewLogMailer only logs outgoing mail. Used when no provider key is configured.
func NewLogMailer(log logrus.FieldLogger) Mailer {
	return &logMailer{log: log.WithField("component", "mailer")}
}

func (m *logMailer) Send(_ context.Context, email Email) error {
	m.log.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
	}).Info("email not sent, no provider configured")
	return nil
}
