package jobs

import (
	"log"

	"github.com/hibiken/asynq"

	"Backend-Inspectrack/src/config"
	"Backend-Inspectrack/src/services/notify"
)

// RegisterHandlers binds every task type to its handler.
func RegisterHandlers(mux *asynq.ServeMux, cfg config.Config, sender notify.MailSender) {
	inspectionURL := func(id string) string {
		return cfg.AppBaseURL + "/inspections/" + id
	}
	mux.HandleFunc(TypeNotifyIssuesOpened, HandleNotifyIssuesOpened(sender, cfg.NotifyTo, inspectionURL))
}

// RunWorker blocks processing tasks until the process receives a signal.
func RunWorker(cfg config.Config) error {
	sender, err := notify.NewSMTPSender(cfg)
	if err != nil {
		return err
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisURI},
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{"default": 1},
		},
	)
	mux := asynq.NewServeMux()
	RegisterHandlers(mux, cfg, sender)

	log.Println("🚀 Asynq worker started")
	return srv.Run(mux)
}
