package messaging

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsappPrefix = "whatsapp:"

// TwilioMessageAPI is the subset of the Twilio REST API used for sending.
type TwilioMessageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// NewTwilioClient sends through httpClient, whose Timeout bounds every call.
func NewTwilioClient(accountSID, authToken string, httpClient *http.Client) TwilioMessageAPI {
	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(accountSID, authToken),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(accountSID)

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
		Client:   base,
	})
	return client.Api
}

// TwilioMessenger sends WhatsApp messages through Twilio.
type TwilioMessenger struct {
	api    TwilioMessageAPI
	from   string
	logger logger.Logger
}

func NewTwilioMessenger(api TwilioMessageAPI, from string, log logger.Logger) *TwilioMessenger {
	return &TwilioMessenger{
		api:    api,
		from:   withWhatsAppPrefix(from),
		logger: log.WithFields(map[string]interface{}{"channel": "whatsapp"}),
	}
}

func (m *TwilioMessenger) Channel() string { return "whatsapp" }

func withWhatsAppPrefix(number string) string {
	if number == "" || strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}

func (m *TwilioMessenger) Send(ctx context.Context, to, body string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewMessagingError(err)
	}
	if m.from == "" {
		return nil, apperrors.NewMessagingError(errors.New("twilio sender number not configured"))
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(withWhatsAppPrefix(to))
	params.SetFrom(m.from)
	params.SetBody(body)

	// The Twilio SDK takes no context. The call runs aside so a cancelled
	// request returns at once; the HTTP client timeout ends the call itself.
	type result struct {
		msg *twilioApi.ApiV2010Message
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := m.api.CreateMessage(params)
		done <- result{msg: msg, err: err}
	}()

	var (
		resp *twilioApi.ApiV2010Message
		err  error
	)
	select {
	case <-ctx.Done():
		m.logger.WithError(ctx.Err()).Warn("twilio send abandoned", map[string]interface{}{"to": maskPhone(to)})
		return nil, apperrors.NewMessagingError(ctx.Err())
	case r := <-done:
		resp, err = r.msg, r.err
	}
	if err != nil {
		fields := map[string]interface{}{"to": maskPhone(to)}
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			fields["twilioCode"] = restErr.Code
			fields["twilioStatus"] = restErr.Status
		}
		m.logger.WithError(err).Error("twilio send failed", fields)
		return nil, apperrors.NewMessagingError(err)
	}

	receipt := &Receipt{Channel: m.Channel()}
	if resp.Sid != nil {
		receipt.ID = *resp.Sid
	}
	if resp.Status != nil {
		receipt.Status = *resp.Status
	}

	m.logger.Info("whatsapp message queued", map[string]interface{}{
		"sid": receipt.ID,
		"to":  maskPhone(to),
	})

	return receipt, nil
}

// maskPhone keeps the last four digits.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
