// Package jobs управляет фоновыми задачами (cron): напоминания о событиях
// каждую минуту и ночная очистка старых событий.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Reminder отправляет напоминания о ближайших событиях.
type Reminder interface {
	SendReminders(ctx context.Context, send func(chatID int64, text string)) error
	Cleanup(ctx context.Context) (int64, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron      *cron.Cron
	loc       *time.Location
	reminder  Reminder
	sendFunc  func(chatID int64, text string)
	reminders bool
}

// NewScheduler создаёт планировщик в поясе приложения.
// reminders == false отключает ежеминутные напоминания (очистка работает всегда).
func NewScheduler(loc *time.Location, reminder Reminder, sendFunc func(chatID int64, text string), reminders bool) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		loc:       loc,
		reminder:  reminder,
		sendFunc:  sendFunc,
		reminders: reminders,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	if s.reminders {
		if _, err := s.cron.AddFunc("* * * * *", func() {
			if err := s.reminder.SendReminders(ctx, s.sendFunc); err != nil {
				log.WithError(err).Error("[CRON] Ошибка напоминаний")
			}
		}); err != nil {
			log.WithError(err).Error("[CRON] Не удалось добавить задачу напоминаний")
		}
	}

	// Ночная очистка в 03:30
	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		log.Info("[CRON] Очистка старых событий")
		if _, err := s.reminder.Cleanup(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка очистки")
		}
	}); err != nil {
		log.WithError(err).Error("[CRON] Не удалось добавить задачу очистки")
	}

	s.cron.Start()
	log.WithField("location", s.loc.String()).Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
