package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"bandmate-api/core/config"
	"bandmate-api/core/constants"
	"bandmate-api/core/logger"
	"bandmate-api/core/utils"

	"github.com/hibiken/asynq"
)

// EmailTaskPayload is the body of an email:send task
type EmailTaskPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	IsHTML  bool   `json:"is_html"`
}

// Mailer enqueues outgoing email onto the asynq mailer queue. Delivery is
// best-effort: a failed enqueue is reported to the caller, a failed delivery
// is retried by the worker.
type Mailer struct {
	client *asynq.Client
}

type MailerInterface interface {
	Enqueue(ctx context.Context, payload EmailTaskPayload) error
	Close() error
}

func New(cfg config.RedisConfig) *Mailer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Mailer{client: client}
}

func (m *Mailer) Enqueue(ctx context.Context, payload EmailTaskPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	task := asynq.NewTask(constants.TaskTypeEmailSend, data)
	info, err := m.client.EnqueueContext(ctx, task,
		asynq.Queue(constants.MailerQueue),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}

	logger.Debug("Mailer:Enqueue", "task_id", info.ID, "to", payload.To)
	return nil
}

func (m *Mailer) Close() error {
	return m.client.Close()
}

// NewWorker builds the asynq server that drains the mailer queue.
func NewWorker(cfg config.RedisConfig) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{constants.MailerQueue: 1},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskTypeEmailSend, HandleEmailTask)
	return srv, mux
}

// HandleEmailTask delivers one queued email over SMTP
func HandleEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal email payload: %w", err)
	}

	conf := utils.GetEmailConfig()
	err := utils.SendEmailTLS(*conf, utils.EmailMessage{
		To:      []string{payload.To},
		Subject: payload.Subject,
		Body:    payload.Body,
		IsHTML:  payload.IsHTML,
	})
	if err != nil {
		logger.Error("Mailer:HandleEmailTask", "to", payload.To, "error", err)
		return err
	}

	logger.Info("Mailer:HandleEmailTask:Sent", "to", payload.To, "subject", payload.Subject)
	return nil
}
