// internal/workers/labor/notify-shortlist/handler.go
package notifyshortlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	awsclient "crew-match-workers/internal/common/aws"
	"crew-match-workers/internal/common/errors"
	"crew-match-workers/internal/common/logger"
	"crew-match-workers/internal/common/metrics"
	"crew-match-workers/internal/common/observability"
	"crew-match-workers/internal/matching"
)

const (
	TaskType = "notify-shortlist"
)

const selectPhonesSQL = `SELECT id, phone FROM candidates WHERE id = ANY($1) AND phone IS NOT NULL AND phone <> ''`

type Handler struct {
	config       *Config
	db           *sql.DB
	sesClient    awsclient.SESService
	snsClient    awsclient.SNSService
	obs          *observability.Observability
	logger       logger.Logger
	sender       errors.CommandSender
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, sesClient awsclient.SESService, snsClient awsclient.SNSService, sender errors.CommandSender, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		sesClient:    sesClient,
		snsClient:    snsClient,
		obs:          obs,
		logger:       l,
		sender:       sender,
		errorHandler: errors.NewErrorHandler(l, sender),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	start := time.Now()
	done := metrics.JobStarted(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	err := json.Unmarshal([]byte(job.Variables), &input)
	if err != nil {
		err = errors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err))
	}

	var output *Output
	if err == nil {
		output, err = h.execute(ctx, &input)
	}
	if err != nil {
		stdErr := errors.Normalize(err)
		done(string(stdErr.Code))
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	h.completeJob(client, job, output)
	done("")
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidRequestError("input cannot be nil")
	}
	if strings.TrimSpace(input.MatchID) == "" {
		return nil, errors.NewInvalidRequestError("matchId is required")
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	emailAttempted := h.config.EmailEnabled && input.Requester.Email != ""
	if emailAttempted {
		err := h.sendEmail(ctx, input.Requester.Email, summarySubject(input), summaryBody(input))
		if err != nil {
			// Nothing has been sent yet, so the broker can safely retry the job.
			metrics.NotificationsSent.WithLabelValues("email", "failed").Inc()
			return nil, errors.NewNotificationSendFailedError("email", err)
		}
		metrics.NotificationsSent.WithLabelValues("email", "sent").Inc()
		output.EmailSent = true
	}

	smsAttempted := 0
	if h.config.SMSEnabled && len(input.Shortlist) > 0 {
		phones, err := h.phones(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, s := range input.Shortlist {
			phone := phones[s.CandidateID]
			if phone == "" {
				continue
			}
			smsAttempted++
			if err := h.sendSMS(ctx, phone, smsMessage(input.Trade, s.Rank)); err != nil {
				metrics.NotificationsSent.WithLabelValues("sms", "failed").Inc()
				h.logger.Warn("SMS send failed", map[string]interface{}{
					"error":       err,
					"candidateId": s.CandidateID,
				})
				output.SMSFailed++
				continue
			}
			metrics.NotificationsSent.WithLabelValues("sms", "sent").Inc()
			output.SMSSent++
		}
	}

	switch {
	case !emailAttempted && smsAttempted == 0:
		output.Status = StatusDisabled
	case output.SMSFailed == 0:
		output.Status = StatusSent
	case output.EmailSent || output.SMSSent > 0:
		output.Status = StatusPartial
	default:
		output.Status = StatusFailed
	}

	h.logger.Info("shortlist notified", map[string]interface{}{
		"matchId":   input.MatchID,
		"status":    output.Status,
		"emailSent": output.EmailSent,
		"smsSent":   output.SMSSent,
		"smsFailed": output.SMSFailed,
	})
	return output, nil
}

// phones maps candidate id to phone number for the shortlisted candidates.
func (h *Handler) phones(ctx context.Context, input *Input) (map[string]string, error) {
	out := make(map[string]string, len(input.Shortlist))
	if input.Candidates != nil {
		for _, c := range input.Candidates {
			if c.Phone != "" {
				out[c.ID] = c.Phone
			}
		}
		return out, nil
	}
	if h.db == nil {
		return out, nil
	}

	ids := make([]string, len(input.Shortlist))
	for i, s := range input.Shortlist {
		ids[i] = s.CandidateID
	}

	rows, err := h.db.QueryContext(ctx, selectPhonesSQL, pq.Array(ids))
	if err != nil {
		return nil, errors.NewCandidateFetchFailedError("internal_db", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, phone string
		if err := rows.Scan(&id, &phone); err != nil {
			return nil, errors.NewCandidateFetchFailedError("internal_db", err)
		}
		out[id] = phone
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewCandidateFetchFailedError("internal_db", err)
	}
	return out, nil
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(to),
		Message:           aws.String(message),
		MessageAttributes: awsclient.SMSAttributes(h.config.SenderID),
	})
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	err = errors.SendCommand(context.Background(), h.sender, "complete-job", func(ctx context.Context) (interface{}, error) {
		return cmd.Send(ctx)
	})
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func tradeTitle(trade string) string {
	return cases.Title(language.English).String(strings.TrimSpace(trade))
}

func summarySubject(input *Input) string {
	return fmt.Sprintf("%s shortlist ready: %d candidates", tradeTitle(input.Trade), len(input.Shortlist))
}

func summaryBody(input *Input) string {
	var b strings.Builder
	greeting := "Hello"
	if input.Requester.Name != "" {
		greeting += " " + input.Requester.Name
	}
	fmt.Fprintf(&b, "%s,\n\n", greeting)

	if len(input.Shortlist) == 0 {
		fmt.Fprintf(&b, "No %s candidates matched request %s.\n", tradeTitle(input.Trade), input.MatchID)
		return b.String()
	}

	fmt.Fprintf(&b, "Top %s candidates for request %s:\n\n", tradeTitle(input.Trade), input.MatchID)
	for _, s := range input.Shortlist {
		fmt.Fprintf(&b, "%d. %s (score %d): %s\n", s.Rank, candidateLabel(s), s.TotalScore, s.Rationale)
	}
	return b.String()
}

func candidateLabel(s matching.CandidateScore) string {
	if s.DisplayName == "" {
		return s.CandidateID
	}
	return s.DisplayName
}

func smsMessage(trade string, rank int) string {
	return fmt.Sprintf("You have been shortlisted (#%d) for a %s job. Watch for a call from the site lead.", rank, strings.ToLower(strings.TrimSpace(trade)))
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
