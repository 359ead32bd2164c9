package editor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/codeportfolio/backend/internal/logger"
	"github.com/codeportfolio/backend/internal/models"
)

// ProfileSaver — то, чем автосейв коммитит накопленные правки.
type ProfileSaver interface {
	UpdateProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.ProfileFields) error
}

// FailureNotifier получает неблокирующее уведомление о неудачном коммите.
type FailureNotifier interface {
	NotifySaveFailed(ownerID, portfolioID uuid.UUID, cause error)
}

// Autosaver — дебаунс-коммит правок профиля. Каждая правка сбрасывает
// таймер; коммит уходит только после паузы в delay с последней правки,
// серия быстрых правок схлопывается в один коммит (свежее значение
// каждого поля побеждает). Отдельный отменяемый таймер на портфолио.
type Autosaver struct {
	saver    ProfileSaver
	notifier FailureNotifier
	delay    time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingSave
	stopped bool
}

type pendingSave struct {
	timer   *time.Timer
	ownerID uuid.UUID
	fields  models.ProfileFields
}

// NewAutosaver создаёт контроллер автосохранения.
func NewAutosaver(saver ProfileSaver, notifier FailureNotifier, delay time.Duration) *Autosaver {
	return &Autosaver{
		saver:    saver,
		notifier: notifier,
		delay:    delay,
		pending:  make(map[uuid.UUID]*pendingSave),
	}
}

// Schedule накапливает правку и перезапускает таймер портфолио.
// Выданный коммит отменить уже нельзя — более поздние правки просто
// планируют следующий.
func (a *Autosaver) Schedule(portfolioID, ownerID uuid.UUID, fields models.ProfileFields) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}

	if p, ok := a.pending[portfolioID]; ok {
		p.timer.Stop()
		p.fields.Merge(fields)
		p.ownerID = ownerID
		p.timer = a.newTimer(portfolioID)
		return
	}

	a.pending[portfolioID] = &pendingSave{
		ownerID: ownerID,
		fields:  fields,
		timer:   a.newTimer(portfolioID),
	}
}

// Cancel снимает отложенный коммит портфолио без записи: закрытие
// редактора не доливает черновик (flush-on-unmount отсутствует намеренно).
func (a *Autosaver) Cancel(portfolioID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if p, ok := a.pending[portfolioID]; ok {
		p.timer.Stop()
		delete(a.pending, portfolioID)
	}
}

// Stop отменяет все отложенные коммиты и запрещает новые.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	for id, p := range a.pending {
		p.timer.Stop()
		delete(a.pending, id)
	}
}

func (a *Autosaver) newTimer(portfolioID uuid.UUID) *time.Timer {
	return time.AfterFunc(a.delay, func() {
		a.commit(portfolioID)
	})
}

// commit забирает накопленный набор полей и пишет его одним частичным
// обновлением. Полностью пустой набор пропускается: пустая запись при
// первом открытии редактора не создаётся. Ошибка коммита логируется и
// уходит уведомлением; набранные пользователем значения не откатываются,
// отстаёт только персистентная копия.
func (a *Autosaver) commit(portfolioID uuid.UUID) {
	a.mu.Lock()
	p, ok := a.pending[portfolioID]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.pending, portfolioID)
	a.mu.Unlock()

	if p.fields.IsEmpty() {
		return
	}

	if err := a.saver.UpdateProfile(context.Background(), portfolioID, p.ownerID, p.fields); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"portfolio_id": portfolioID,
				"error":        err.Error(),
			}).Warn("автосохранение не удалось")
		}
		if a.notifier != nil {
			a.notifier.NotifySaveFailed(p.ownerID, portfolioID, err)
		}
		return
	}

	if a.notifier != nil {
		if n, ok := a.notifier.(SuccessNotifier); ok {
			n.NotifySaved(p.ownerID, portfolioID)
		}
	}
}

// SuccessNotifier опционально получает подтверждение успешного коммита
// (другие вкладки пользователя узнают о сохранении).
type SuccessNotifier interface {
	NotifySaved(ownerID, portfolioID uuid.UUID)
}
