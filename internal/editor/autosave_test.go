package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeportfolio/backend/internal/models"
)

// recordingSaver запоминает каждый коммит автосейва.
type recordingSaver struct {
	mu    sync.Mutex
	saves []models.ProfileFields
	err   error
}

func (r *recordingSaver) UpdateProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.ProfileFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saves = append(r.saves, fields)
	return nil
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recordingSaver) last() models.ProfileFields {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves[len(r.saves)-1]
}

// recordingNotifier собирает уведомления об исходе коммитов.
type recordingNotifier struct {
	mu       sync.Mutex
	failures int
	saved    int
}

func (r *recordingNotifier) NotifySaveFailed(ownerID, portfolioID uuid.UUID, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *recordingNotifier) NotifySaved(ownerID, portfolioID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved++
}

func (r *recordingNotifier) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved, r.failures
}

func TestAutosaver_CollapsesBurstIntoOneCommit(t *testing.T) {
	saver := &recordingSaver{}
	notifier := &recordingNotifier{}
	a := NewAutosaver(saver, notifier, 30*time.Millisecond)
	defer a.Stop()

	portfolioID, ownerID := uuid.New(), uuid.New()

	// Серия быстрых правок: каждая сбрасывает таймер.
	a.Schedule(portfolioID, ownerID, models.ProfileFields{DisplayName: strPtr("J")})
	a.Schedule(portfolioID, ownerID, models.ProfileFields{DisplayName: strPtr("Ja")})
	a.Schedule(portfolioID, ownerID, models.ProfileFields{
		DisplayName: strPtr("Jane"),
		Tagline:     strPtr("dev"),
	})

	require.Eventually(t, func() bool {
		return saver.count() == 1
	}, time.Second, 5*time.Millisecond)

	// Свежее значение каждого поля победило, поля из ранних правок остались.
	last := saver.last()
	require.NotNil(t, last.DisplayName)
	assert.Equal(t, "Jane", *last.DisplayName)
	require.NotNil(t, last.Tagline)
	assert.Equal(t, "dev", *last.Tagline)

	// Больше коммитов не приходит.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, saver.count())

	saved, failures := notifier.counts()
	assert.Equal(t, 1, saved)
	assert.Equal(t, 0, failures)
}

func TestAutosaver_SkipsAllEmptyDraft(t *testing.T) {
	saver := &recordingSaver{}
	a := NewAutosaver(saver, nil, 10*time.Millisecond)
	defer a.Stop()

	// Пустой черновик при первом открытии редактора не пишется.
	a.Schedule(uuid.New(), uuid.New(), models.ProfileFields{
		DisplayName: strPtr(""),
		Tagline:     strPtr(""),
	})

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, saver.count())
}

func TestAutosaver_CancelDropsPendingWithoutFlush(t *testing.T) {
	saver := &recordingSaver{}
	a := NewAutosaver(saver, nil, 20*time.Millisecond)
	defer a.Stop()

	portfolioID := uuid.New()
	a.Schedule(portfolioID, uuid.New(), models.ProfileFields{DisplayName: strPtr("Jane")})
	a.Cancel(portfolioID)

	// Закрытие редактора не доливает черновик.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, saver.count())
}

func TestAutosaver_IndependentTimersPerPortfolio(t *testing.T) {
	saver := &recordingSaver{}
	a := NewAutosaver(saver, nil, 20*time.Millisecond)
	defer a.Stop()

	first, second := uuid.New(), uuid.New()
	owner := uuid.New()
	a.Schedule(first, owner, models.ProfileFields{DisplayName: strPtr("один")})
	a.Schedule(second, owner, models.ProfileFields{DisplayName: strPtr("два")})
	a.Cancel(second)

	require.Eventually(t, func() bool {
		return saver.count() == 1
	}, time.Second, 5*time.Millisecond)

	last := saver.last()
	require.NotNil(t, last.DisplayName)
	assert.Equal(t, "один", *last.DisplayName)
}

func TestAutosaver_FailureNotifiesWithoutRollback(t *testing.T) {
	saver := &recordingSaver{err: errors.New("timeout")}
	notifier := &recordingNotifier{}
	a := NewAutosaver(saver, notifier, 10*time.Millisecond)
	defer a.Stop()

	a.Schedule(uuid.New(), uuid.New(), models.ProfileFields{DisplayName: strPtr("Jane")})

	require.Eventually(t, func() bool {
		_, failures := notifier.counts()
		return failures == 1
	}, time.Second, 5*time.Millisecond)

	saved, _ := notifier.counts()
	assert.Equal(t, 0, saved)
}

func TestAutosaver_StopRejectsNewWork(t *testing.T) {
	saver := &recordingSaver{}
	a := NewAutosaver(saver, nil, 10*time.Millisecond)

	a.Stop()
	a.Schedule(uuid.New(), uuid.New(), models.ProfileFields{DisplayName: strPtr("Jane")})

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, saver.count())
}
