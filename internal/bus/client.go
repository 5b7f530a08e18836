// Package bus wraps the NATS connection used for outbound alerting.
package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectRiskAlert carries churn-risk alerts for tenants whose latest
// assessment came back high or critical.
const SubjectRiskAlert = "pulse.risk.alert"

// SubjectRegistered announces service startup.
const SubjectRegistered = "pulse.agent.pulseboard.registered"

// RiskAlert is the payload published on SubjectRiskAlert. Downstream
// notification formatters (Slack, email) consume it; this service only
// emits the signal.
type RiskAlert struct {
	TenantID             string    `json:"tenant_id"`
	RiskScore            float64   `json:"risk_score"`
	RiskLevel            string    `json:"risk_level"`
	RetentionProbability float64   `json:"retention_probability"`
	FactorTypes          []string  `json:"factor_types"`
	TimeRange            string    `json:"time_range"`
	AnalysisDate         time.Time `json:"analysis_date"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
