package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// mockStore is a minimal in-memory SessionStore used to validate the contract
// suite itself. Adapter packages run the same suite against real backends.
type mockStore struct {
	data map[domain.UserID]*domain.Session
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[domain.UserID]*domain.Session)}
}

func (m *mockStore) Put(ctx context.Context, session *domain.Session) error {
	// Clone to simulate serialization.
	m.data[session.User] = session.Clone()
	return nil
}

func (m *mockStore) Get(ctx context.Context, user domain.UserID) (*domain.Session, error) {
	session, ok := m.data[user]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (m *mockStore) Delete(ctx context.Context, user domain.UserID) error {
	delete(m.data, user)
	return nil
}

func (m *mockStore) List(ctx context.Context) ([]domain.UserID, error) {
	users := make([]domain.UserID, 0, len(m.data))
	for user := range m.data {
		users = append(users, user)
	}
	return users, nil
}

func TestSessionStoreContract(t *testing.T) {
	ports.RunSessionStoreContract(t, newMockStore())
}
