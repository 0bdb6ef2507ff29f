package service

import (
	"context"
	"fmt"

	"eadmin/internal/apierr"
	"eadmin/internal/domain"
	"eadmin/internal/events"
	"eadmin/internal/permissions"
	"eadmin/internal/querycache"

	"github.com/rs/zerolog"
)

// notifier is embedded by every service: it publishes events and toasts and
// invalidates cached queries after a successful mutation.
type notifier struct {
	eventBus domain.EventPublisher
	cache    *querycache.Cache
	logger   *zerolog.Logger
}

func newNotifier(eventBus domain.EventPublisher, cache *querycache.Cache, logger *zerolog.Logger) notifier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return notifier{eventBus: eventBus, cache: cache, logger: logger}
}

func (n notifier) publishEvent(eventType string, payload interface{}) {
	if n.eventBus == nil {
		return
	}
	if err := n.eventBus.PublishJSON(eventType, payload); err != nil {
		n.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

func (n notifier) toast(level events.ToastLevel, message string) {
	n.publishEvent(events.EventToast, events.Toast{Level: level, Message: message})
}

func (n notifier) success(message string) {
	n.toast(events.ToastSuccess, message)
}

// fail reports err with the message of the action and returns it.
func (n notifier) fail(messages apierr.ActionMessages, err error) error {
	n.logger.Warn().Err(err).Str("code", string(apierr.CodeOf(err))).Msg("Action failed")
	n.toast(events.ToastError, messages.For(err))
	return err
}

// authorize checks the advisory ability before any request is sent. what
// completes the denial message, e.g. "criar um espaço acadêmico".
func (n notifier) authorize(ctx context.Context, abilities AbilitySource, action permissions.Action, subject permissions.Subject, what string) error {
	ability, err := abilities.Ability(ctx)
	if err != nil {
		return err
	}
	if ability.Can(action, subject) {
		return nil
	}

	n.logger.Info().Str("action", string(action)).Str("subject", string(subject.Type)).Msg("Action denied")
	n.toast(events.ToastError, "Você não tem permissão para "+what)
	return fmt.Errorf("%w: %s %s", apierr.ErrForbiddenAction, action, subject.Type)
}

func (n notifier) invalidate(ctx context.Context, fragments ...string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Invalidate(ctx, fragments...); err != nil {
		n.logger.Warn().Err(err).Strs("fragments", fragments).Msg("Cache invalidation failed")
	}
}
