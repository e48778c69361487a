// internal/notify/notifier.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"

	"attrition-insights/internal/common/config"
	"attrition-insights/internal/common/errors"
	"attrition-insights/internal/common/logger"
	"attrition-insights/internal/models"
)

// Interfaces over the AWS clients so tests can substitute mocks.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// AlertIndexer is the audit sink: every dispatched alert is indexed as one
// document for later search.
type AlertIndexer interface {
	IndexDocument(ctx context.Context, index, id string, body []byte) error
}

// Notifier delivers triggered alerts to HR. Delivery is best-effort: a sink
// failure is logged and counted, never propagated into the pipeline.
type Notifier struct {
	config     config.NotificationConfig
	sesClient  SESService
	snsClient  SNSService
	indexer    AlertIndexer
	alertIndex string
	logger     logger.Logger
}

func New(ctx context.Context, cfg config.NotificationConfig, indexer AlertIndexer, alertIndex string, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Notifier{
		config:     cfg,
		sesClient:  ses.NewFromConfig(awsCfg),
		snsClient:  sns.NewFromConfig(awsCfg),
		indexer:    indexer,
		alertIndex: alertIndex,
		logger:     log.WithFields(map[string]interface{}{"component": "notifier"}),
	}, nil
}

// NewWithClients wires explicit clients, used by tests.
func NewWithClients(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, indexer AlertIndexer, alertIndex string, log logger.Logger) *Notifier {
	return &Notifier{
		config:     cfg,
		sesClient:  sesClient,
		snsClient:  snsClient,
		indexer:    indexer,
		alertIndex: alertIndex,
		logger:     log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// DispatchAlerts sends one digest email, one topic publish, and one audit
// document per alert. Returns the number of sinks that failed.
func (n *Notifier) DispatchAlerts(ctx context.Context, alerts []models.Alert) int {
	if !n.config.Enabled || len(alerts) == 0 {
		return 0
	}

	failures := 0

	if err := n.sendDigestEmail(ctx, alerts); err != nil {
		n.logger.WithError(err).Error("alert digest email failed", map[string]interface{}{
			"alerts": len(alerts),
		})
		failures++
	}

	if err := n.publishTopic(ctx, alerts); err != nil {
		n.logger.WithError(err).Error("alert topic publish failed", map[string]interface{}{
			"alerts": len(alerts),
		})
		failures++
	}

	if n.indexer != nil {
		for _, alert := range alerts {
			if err := n.indexAlert(ctx, alert); err != nil {
				n.logger.WithError(err).Warn("alert audit index failed", map[string]interface{}{
					"dimension": alert.Dimension,
					"group":     alert.Group,
				})
				failures++
			}
		}
	}

	return failures
}

func (n *Notifier) sendDigestEmail(ctx context.Context, alerts []models.Alert) error {
	if n.sesClient == nil || len(n.config.RecipientIDs) == 0 {
		return nil
	}

	var body strings.Builder
	body.WriteString("The following survey groups crossed alert thresholds:\n\n")
	for _, alert := range alerts {
		body.WriteString("  - ")
		body.WriteString(alert.Message)
		body.WriteString("\n")
	}

	subject := fmt.Sprintf("[Attrition Insights] %d alert(s) triggered", len(alerts))

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.config.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: n.config.RecipientIDs,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body.String())},
			},
		},
	})
	if err != nil {
		return errors.NewNotificationSendFailedError("ses", err)
	}
	return nil
}

func (n *Notifier) publishTopic(ctx context.Context, alerts []models.Alert) error {
	if n.snsClient == nil || n.config.SNSTopicARN == "" {
		return nil
	}

	payload, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("marshal alerts: %w", err)
	}

	_, err = n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.SNSTopicARN),
		Subject:  aws.String("attrition-alerts"),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		return errors.NewNotificationSendFailedError("sns", err)
	}
	return nil
}

func (n *Notifier) indexAlert(ctx context.Context, alert models.Alert) error {
	doc := struct {
		models.Alert
		DispatchedAt time.Time `json:"dispatchedAt"`
	}{Alert: alert, DispatchedAt: time.Now().UTC()}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	return n.indexer.IndexDocument(ctx, n.alertIndex, uuid.New().String(), body)
}
