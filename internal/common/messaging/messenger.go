// Package messaging delivers short text messages to a citizen's phone.
package messaging

import (
	"context"
	"fmt"

	"bharat-seva/internal/common/aws"
	"bharat-seva/internal/common/config"
	httpclient "bharat-seva/internal/common/http"
	"bharat-seva/internal/common/logger"
)

const (
	ProviderTwilio = "twilio"
	ProviderSNS    = "sns"
)

// Receipt identifies an accepted message at the provider.
type Receipt struct {
	ID      string `json:"sid"`
	Channel string `json:"channel"`
	Status  string `json:"status,omitempty"`
}

// Messenger sends one message per call. to is E.164.
type Messenger interface {
	Send(ctx context.Context, to, body string) (*Receipt, error)
	Channel() string
}

// NewFromConfig returns the messenger selected by cfg.Messaging.Provider.
func NewFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (Messenger, error) {
	switch cfg.Messaging.Provider {
	case ProviderTwilio, "":
		tw := cfg.Messaging.Twilio
		if tw.AccountSID == "" || tw.AuthToken == "" || tw.WhatsAppFrom == "" {
			log.Warn("twilio credentials incomplete, WhatsApp delivery will fail", map[string]interface{}{
				"hasAccountSid": tw.AccountSID != "",
				"hasFrom":       tw.WhatsAppFrom != "",
			})
		}
		outbound := httpclient.NewClient(config.GetDuration(cfg.Messaging.Timeout))
		return NewTwilioMessenger(NewTwilioClient(tw.AccountSID, tw.AuthToken, outbound.Standard()), tw.WhatsAppFrom, log), nil

	case ProviderSNS:
		awsCfg, err := aws.LoadConfig(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return NewSNSMessenger(aws.NewSNSClient(awsCfg), cfg.Messaging.SNS.SenderID, log), nil

	default:
		return nil, fmt.Errorf("unknown messaging provider %q", cfg.Messaging.Provider)
	}
}
