package ws

import (
	"github.com/google/uuid"
)

// EditorNotifier транслирует события автосейва и публикации в хаб,
// чтобы остальные вкладки пользователя узнали об изменениях.
type EditorNotifier struct {
	hub *Hub
}

// NewEditorNotifier создаёт адаптер.
func NewEditorNotifier(hub *Hub) *EditorNotifier {
	return &EditorNotifier{hub: hub}
}

// NotifySaved сообщает об успешном автосохранении.
func (n *EditorNotifier) NotifySaved(ownerID, portfolioID uuid.UUID) {
	_ = n.hub.BroadcastToUser(ownerID, EventProfileSaved, map[string]any{
		"portfolio_id": portfolioID,
	})
}

// NotifySaveFailed сообщает о неудачном автосохранении. Уведомление
// неблокирующее: набранный текст во вкладке не откатывается.
func (n *EditorNotifier) NotifySaveFailed(ownerID, portfolioID uuid.UUID, cause error) {
	_ = n.hub.BroadcastToUser(ownerID, EventProfileSaveFailed, map[string]any{
		"portfolio_id": portfolioID,
		"error":        cause.Error(),
	})
}

// NotifyPublishChanged сообщает о переключении публикации.
func (n *EditorNotifier) NotifyPublishChanged(ownerID, portfolioID uuid.UUID, published bool) {
	_ = n.hub.BroadcastToUser(ownerID, EventPublishChanged, map[string]any{
		"portfolio_id": portfolioID,
		"is_published": published,
	})
}

// NotifyProjectsReordered сообщает о новом порядке проектов.
func (n *EditorNotifier) NotifyProjectsReordered(ownerID, portfolioID uuid.UUID, orderedIDs []uuid.UUID) {
	_ = n.hub.BroadcastToUser(ownerID, EventProjectsReordered, map[string]any{
		"portfolio_id": portfolioID,
		"project_ids":  orderedIDs,
	})
}
