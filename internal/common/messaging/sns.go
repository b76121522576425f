package messaging

import (
	"context"

	"bharat-seva/internal/common/aws"
	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSMessenger sends plain SMS through Amazon SNS.
type SNSMessenger struct {
	sns      aws.SNSService
	senderID string
	logger   logger.Logger
}

func NewSNSMessenger(client aws.SNSService, senderID string, log logger.Logger) *SNSMessenger {
	return &SNSMessenger{
		sns:      client,
		senderID: senderID,
		logger:   log.WithFields(map[string]interface{}{"channel": "sms"}),
	}
}

func (m *SNSMessenger) Channel() string { return "sms" }

func (m *SNSMessenger) Send(ctx context.Context, to, body string) (*Receipt, error) {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String("Transactional"),
		},
	}
	if m.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String(m.senderID),
		}
	}

	out, err := m.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       awssdk.String(to),
		Message:           awssdk.String(body),
		MessageAttributes: attrs,
	})
	if err != nil {
		m.logger.WithError(err).Error("sns publish failed", map[string]interface{}{"to": maskPhone(to)})
		return nil, apperrors.NewMessagingError(err)
	}

	receipt := &Receipt{ID: awssdk.ToString(out.MessageId), Channel: m.Channel()}
	m.logger.Info("sms published", map[string]interface{}{
		"messageId": receipt.ID,
		"to":        maskPhone(to),
	})
	return receipt, nil
}
