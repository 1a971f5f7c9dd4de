package initializers

import (
	"ai-interview-backend/config"
	interviewnotify "ai-interview-backend/lib/interview/notify"
	"ai-interview-backend/lib/smtp"
)

var FinishNotifier *interviewnotify.Notifier

func InitSmtp() {
	err := smtp.Connect(config.Conf.Smtp.User, config.Conf.Smtp.Password,
		config.Conf.Smtp.Host, config.Conf.Smtp.Port, *config.Conf.Smtp.TLSEnabled)
	if err != nil {
		panic(err.Error())
	}
	FinishNotifier = interviewnotify.NewNotifier(smtp.Instance, config.Conf.Notify.FinishedEmailTo)
}
