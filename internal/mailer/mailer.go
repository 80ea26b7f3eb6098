package mailer

import (
	"context"

	"go-leave/internal/shared/metrics"

	"go.uber.org/zap"
)

type Service struct {
	renderer *Renderer
	sender   Sender
	logger   *zap.Logger
}

func NewService(renderer *Renderer, sender Sender, logger ...*zap.Logger) *Service {
	l := zap.L().Named("mailer.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mailer.service")
	}
	return &Service{renderer: renderer, sender: sender, logger: l}
}

func (s *Service) SendTemplate(ctx context.Context, template string, to []string, subject string, data map[string]any) error {
	body, err := s.renderer.Render(template, data)
	if err != nil {
		metrics.RecordEmail(template, err)
		return err
	}

	err = s.sender.Send(ctx, Email{To: to, Subject: subject, HTMLBody: body})
	metrics.RecordEmail(template, err)
	if err != nil {
		s.logger.Error("send email failed",
			zap.String("template", template),
			zap.Strings("to", to),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("email sent", zap.String("template", template), zap.Strings("to", to))
	return nil
}
