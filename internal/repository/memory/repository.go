package memory

import (
	"context"
	"errors"
	"sync"

	"outreachpilot/internal/model"
)

type InMemoryUserRepository struct {
	users map[string]*model.User
	mutex sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*model.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.users[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (r *InMemoryUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, user := range r.users {
		if user.GoogleID == googleID {
			return user, nil
		}
	}
	return nil, errors.New("user not found")
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, exists := r.users[user.ID]
	if !exists {
		return errors.New("user not found")
	}
	r.users[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.users, id)
	return nil
}

// Recipient repository implementation
type InMemoryRecipientRepository struct {
	recipients map[string]*model.Recipient
	mutex      sync.RWMutex
}

func NewInMemoryRecipientRepository() *InMemoryRecipientRepository {
	return &InMemoryRecipientRepository{
		recipients: make(map[string]*model.Recipient),
	}
}

func (r *InMemoryRecipientRepository) Create(ctx context.Context, recipient *model.Recipient) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.recipients[recipient.ID] = recipient
	return nil
}

func (r *InMemoryRecipientRepository) FindByID(ctx context.Context, id string) (*model.Recipient, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	recipient, exists := r.recipients[id]
	if !exists {
		return nil, errors.New("recipient not found")
	}
	return recipient, nil
}

func (r *InMemoryRecipientRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Recipient, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.Recipient
	for _, recipient := range r.recipients {
		if recipient.UserID == userID {
			result = append(result, recipient)
		}
	}
	return result, nil
}

func (r *InMemoryRecipientRepository) Update(ctx context.Context, recipient *model.Recipient) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, exists := r.recipients[recipient.ID]
	if !exists {
		return errors.New("recipient not found")
	}
	r.recipients[recipient.ID] = recipient
	return nil
}

func (r *InMemoryRecipientRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.recipients, id)
	return nil
}

// Draft repository implementation
type InMemoryDraftRepository struct {
	drafts map[string]*model.Draft
	mutex  sync.RWMutex
}

func NewInMemoryDraftRepository() *InMemoryDraftRepository {
	return &InMemoryDraftRepository{
		drafts: make(map[string]*model.Draft),
	}
}

func (r *InMemoryDraftRepository) Create(ctx context.Context, draft *model.Draft) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.drafts[draft.ID] = draft
	return nil
}

func (r *InMemoryDraftRepository) FindByID(ctx context.Context, id string) (*model.Draft, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	draft, exists := r.drafts[id]
	if !exists {
		return nil, errors.New("draft not found")
	}
	return draft, nil
}

func (r *InMemoryDraftRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Draft, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.Draft
	for _, draft := range r.drafts {
		if draft.UserID == userID {
			result = append(result, draft)
		}
	}
	return result, nil
}

func (r *InMemoryDraftRepository) FindByTrackingID(ctx context.Context, trackingID string) (*model.Draft, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, draft := range r.drafts {
		if draft.TrackingID != "" && draft.TrackingID == trackingID {
			return draft, nil
		}
	}
	return nil, errors.New("draft not found")
}

func (r *InMemoryDraftRepository) Update(ctx context.Context, draft *model.Draft) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, exists := r.drafts[draft.ID]
	if !exists {
		return errors.New("draft not found")
	}
	r.drafts[draft.ID] = draft
	return nil
}

func (r *InMemoryDraftRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.drafts, id)
	return nil
}

// Document repository implementation
type InMemoryDocumentRepository struct {
	documents map[string]*model.Document
	mutex     sync.RWMutex
}

func NewInMemoryDocumentRepository() *InMemoryDocumentRepository {
	return &InMemoryDocumentRepository{
		documents: make(map[string]*model.Document),
	}
}

func (r *InMemoryDocumentRepository) Create(ctx context.Context, document *model.Document) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.documents[document.ID] = document
	return nil
}

func (r *InMemoryDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	document, exists := r.documents[id]
	if !exists {
		return nil, errors.New("document not found")
	}
	return document, nil
}

func (r *InMemoryDocumentRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Document, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.Document
	for _, document := range r.documents {
		if document.UserID == userID {
			result = append(result, document)
		}
	}
	return result, nil
}

func (r *InMemoryDocumentRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.documents, id)
	return nil
}

// Connection repository implementation, keyed by user (one per user)
type InMemoryConnectionRepository struct {
	connections map[string]*model.MailboxConnection
	mutex       sync.RWMutex
}

func NewInMemoryConnectionRepository() *InMemoryConnectionRepository {
	return &InMemoryConnectionRepository{
		connections: make(map[string]*model.MailboxConnection),
	}
}

func (r *InMemoryConnectionRepository) Save(ctx context.Context, conn *model.MailboxConnection) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.connections[conn.UserID] = conn
	return nil
}

func (r *InMemoryConnectionRepository) FindByUserID(ctx context.Context, userID string) (*model.MailboxConnection, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	conn, exists := r.connections[userID]
	if !exists {
		return nil, errors.New("mailbox connection not found")
	}
	return conn, nil
}

func (r *InMemoryConnectionRepository) Delete(ctx context.Context, userID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.connections, userID)
	return nil
}

// Event repository implementation, append-only
type InMemoryEventRepository struct {
	opens  []*model.OpenEvent
	clicks []*model.ClickEvent
	mutex  sync.RWMutex
}

func NewInMemoryEventRepository() *InMemoryEventRepository {
	return &InMemoryEventRepository{}
}

func (r *InMemoryEventRepository) CreateOpen(ctx context.Context, event *model.OpenEvent) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.opens = append(r.opens, event)
	return nil
}

func (r *InMemoryEventRepository) CreateClick(ctx context.Context, event *model.ClickEvent) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.clicks = append(r.clicks, event)
	return nil
}

func (r *InMemoryEventRepository) FindOpensByDraftID(ctx context.Context, draftID string) ([]*model.OpenEvent, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.OpenEvent
	for _, event := range r.opens {
		if event.DraftID == draftID {
			result = append(result, event)
		}
	}
	return result, nil
}

func (r *InMemoryEventRepository) FindClicksByDraftID(ctx context.Context, draftID string) ([]*model.ClickEvent, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.ClickEvent
	for _, event := range r.clicks {
		if event.DraftID == draftID {
			result = append(result, event)
		}
	}
	return result, nil
}

// Usage repository implementation
type InMemoryUsageRepository struct {
	records []*model.UsageRecord
	mutex   sync.RWMutex
}

func NewInMemoryUsageRepository() *InMemoryUsageRepository {
	return &InMemoryUsageRepository{}
}

func (r *InMemoryUsageRepository) Create(ctx context.Context, record *model.UsageRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.records = append(r.records, record)
	return nil
}

func (r *InMemoryUsageRepository) FindByUserID(ctx context.Context, userID string) ([]*model.UsageRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*model.UsageRecord
	for _, record := range r.records {
		if record.UserID == userID {
			result = append(result, record)
		}
	}
	return result, nil
}
