package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"cmcs-backend/internal/model"
	"cmcs-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Mock TransactionManager ──

// mockTxManager serializes transactions with a mutex, emulating the row
// locking the real repository gets from SELECT ... FOR UPDATE.
type mockTxManager struct {
	mu sync.Mutex
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// ── Mock ClaimRepository ──

type mockClaimRepo struct {
	mu     sync.Mutex
	claims map[uuid.UUID]*model.Claim
}

func newMockClaimRepo() *mockClaimRepo {
	return &mockClaimRepo{claims: make(map[uuid.UUID]*model.Claim)}
}

func (m *mockClaimRepo) put(c *model.Claim) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.claims[c.ID] = &cp
}

func (m *mockClaimRepo) get(id uuid.UUID) *model.Claim {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.claims[id]; ok {
		cp := *c
		return &cp
	}
	return nil
}

func (m *mockClaimRepo) Create(_ context.Context, claim *model.Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	cp := *claim
	m.claims[claim.ID] = &cp
	return nil
}

func (m *mockClaimRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Claim, error) {
	if c := m.get(id); c != nil {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClaimRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	return m.FindByID(ctx, id)
}

func (m *mockClaimRepo) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	return m.FindByID(ctx, id)
}

func (m *mockClaimRepo) Update(_ context.Context, claim *model.Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *claim
	m.claims[claim.ID] = &cp
	return nil
}

func (m *mockClaimRepo) List(_ context.Context, filter repository.ClaimFilter) ([]model.Claim, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Claim
	for _, c := range m.claims {
		if filter.LecturerID != nil && c.LecturerID != *filter.LecturerID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Period != "" && c.ClaimPeriod != filter.Period {
			continue
		}
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (m *mockClaimRepo) CountByStatus(_ context.Context, status model.ClaimStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, c := range m.claims {
		if c.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockClaimRepo) CountByStatusSubmittedBefore(_ context.Context, status model.ClaimStatus, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, c := range m.claims {
		if c.Status == status && c.SubmittedAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (m *mockClaimRepo) SumApprovedSince(_ context.Context, since time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, c := range m.claims {
		if c.Status == model.ClaimStatusApproved && c.LastModified != nil && !c.LastModified.Before(since) {
			total = total.Add(c.TotalAmount)
		}
	}
	return total, nil
}

// ── Mock HistoryRepository ──

type mockHistoryRepo struct {
	mu      sync.Mutex
	entries []model.ClaimStatusHistory
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{}
}

func (m *mockHistoryRepo) Append(_ context.Context, entry *model.ClaimStatusHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockHistoryRepo) ListByClaim(_ context.Context, claimID uuid.UUID) ([]model.ClaimStatusHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ClaimStatusHistory
	for _, e := range m.entries {
		if e.ClaimID == claimID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockHistoryRepo) List(_ context.Context, _, _ int) ([]model.ClaimStatusHistory, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ClaimStatusHistory(nil), m.entries...), int64(len(m.entries)), nil
}

func (m *mockHistoryRepo) forClaim(claimID uuid.UUID) []model.ClaimStatusHistory {
	entries, _ := m.ListByClaim(context.Background(), claimID)
	return entries
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	m.users[user.ID.String()] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role string, _, _ int) ([]model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID.String()] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

// ── Mock RefreshTokenRepository ──

type mockRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.RefreshToken
}

func newMockRefreshTokenRepo() *mockRefreshTokenRepo {
	return &mockRefreshTokenRepo{tokens: make(map[string]*model.RefreshToken)}
}

func (m *mockRefreshTokenRepo) Create(_ context.Context, token *model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *mockRefreshTokenRepo) GetByToken(_ context.Context, token string) (*model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRefreshTokenRepo) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

func (m *mockRefreshTokenRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, t := range m.tokens {
		if t.UserID == userID {
			delete(m.tokens, k)
		}
	}
	return nil
}

func (m *mockRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, t := range m.tokens {
		if time.Now().After(t.ExpiresAt) {
			delete(m.tokens, k)
		}
	}
	return nil
}

// ── Mock ModuleRepository ──

type mockModuleRepo struct {
	mu      sync.Mutex
	modules map[uuid.UUID]*model.Module
}

func newMockModuleRepo() *mockModuleRepo {
	return &mockModuleRepo{modules: make(map[uuid.UUID]*model.Module)}
}

func (m *mockModuleRepo) Create(_ context.Context, mod *model.Module) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mod.ID == uuid.Nil {
		mod.ID = uuid.New()
	}
	cp := *mod
	m.modules[mod.ID] = &cp
	return nil
}

func (m *mockModuleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mod, ok := m.modules[id]; ok {
		cp := *mod
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleRepo) FindByCode(_ context.Context, code string) (*model.Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mod := range m.modules {
		if mod.Code == code {
			cp := *mod
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleRepo) List(_ context.Context, _, _ int) ([]model.Module, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Module
	for _, mod := range m.modules {
		result = append(result, *mod)
	}
	return result, int64(len(result)), nil
}

func (m *mockModuleRepo) Update(_ context.Context, mod *model.Module) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mod
	m.modules[mod.ID] = &cp
	return nil
}

// ── Mock DocumentRepository ──

type mockDocumentRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*model.SupportingDocument
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[uuid.UUID]*model.SupportingDocument)}
}

func (m *mockDocumentRepo) Create(_ context.Context, doc *model.SupportingDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *mockDocumentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SupportingDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc, ok := m.docs[id]; ok {
		cp := *doc
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDocumentRepo) ListByClaim(_ context.Context, claimID uuid.UUID) ([]model.SupportingDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.SupportingDocument
	for _, doc := range m.docs {
		if doc.ClaimID == claimID {
			result = append(result, *doc)
		}
	}
	return result, nil
}

// ── Mock FileStore ──

type mockFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: make(map[string][]byte)}
}

func (m *mockFileStore) Save(claimID uuid.UUID, fileName string, src io.Reader) (string, int64, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", 0, err
	}
	path := claimID.String() + "/" + uuid.NewString() + "_" + fileName
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return path, int64(len(data)), nil
}

func (m *mockFileStore) Open(storedPath string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[storedPath]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ── Mock EventPublisher ──

type mockPublisher struct {
	mu     sync.Mutex
	events [][]byte
}

func (m *mockPublisher) Publish(event []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
