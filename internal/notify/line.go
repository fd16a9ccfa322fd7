package notify

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultLineEndpoint = "https://api.line.me/v2/bot/message/push"

// LineConfig configuration of the LINE push client
type LineConfig struct {
	Token    string
	UserID   string
	Endpoint string
	Timeout  time.Duration
}

// LineClient pushes text messages through the LINE Messaging API.
type LineClient struct {
	config LineConfig
	client *http.Client
}

type lineTextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type linePushRequest struct {
	To       string            `json:"to"`
	Messages []lineTextMessage `json:"messages"`
}

// NewLineClient creates a new LINE push client
func NewLineClient(c LineConfig) (*LineClient, error) {
	if c.Token == "" {
		return nil, errors.Wrap(ErrUnauthorized, "missing LINE channel access token")
	}
	if c.UserID == "" {
		return nil, errors.New("missing LINE user id")
	}
	if c.Endpoint == "" {
		c.Endpoint = defaultLineEndpoint
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}

	return &LineClient{
		config: c,
		client: &http.Client{Timeout: c.Timeout},
	}, nil
}

func (c *LineClient) Name() string {
	return "line"
}

// Send pushes one text message to the configured LINE user.
func (c *LineClient) Send(message string) error {
	payload := linePushRequest{
		To:       c.config.UserID,
		Messages: []lineTextMessage{{Type: "text", Text: message}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "could not encode LINE push payload")
	}

	req, err := http.NewRequest(http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "could not build LINE push request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "LINE push request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.Wrapf(ErrUnauthorized, "LINE API returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.Errorf("LINE API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	log.Debugf("pushed LINE message to %s", c.config.UserID)
	return nil
}
