package milestone

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskhub/internal/model"
)

type stubMilestoneStore struct {
	milestones map[int]*model.Milestone
	nextID     int
}

func newStubMilestoneStore() *stubMilestoneStore {
	return &stubMilestoneStore{milestones: map[int]*model.Milestone{}, nextID: 1}
}

func (s *stubMilestoneStore) Insert(ctx context.Context, m *model.Milestone) error {
	m.ID = s.nextID
	s.nextID++
	cp := *m
	s.milestones[m.ID] = &cp
	return nil
}

func (s *stubMilestoneStore) List(ctx context.Context, userID int, projectID *int) ([]model.Milestone, error) {
	var out []model.Milestone
	for _, m := range s.milestones {
		if m.UserID != userID {
			continue
		}
		if projectID != nil && m.ProjectID != *projectID {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (s *stubMilestoneStore) FindByID(ctx context.Context, id, userID int) (*model.Milestone, error) {
	m, ok := s.milestones[id]
	if !ok || m.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	cp := *m
	return &cp, nil
}

func (s *stubMilestoneStore) Update(ctx context.Context, m *model.Milestone) error {
	if _, ok := s.milestones[m.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *m
	s.milestones[m.ID] = &cp
	return nil
}

func (s *stubMilestoneStore) Delete(ctx context.Context, id, userID int) error {
	m, ok := s.milestones[id]
	if !ok || m.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(s.milestones, id)
	return nil
}

type stubProjectStore struct {
	owned map[int]int // project id -> owner id
}

func (s *stubProjectStore) FindByID(ctx context.Context, id, userID int) (*model.Project, error) {
	if owner, ok := s.owned[id]; ok && owner == userID {
		return &model.Project{ID: id, UserID: userID}, nil
	}
	return nil, pgx.ErrNoRows
}

func newTestService() (*Service, *stubMilestoneStore, *stubProjectStore) {
	milestones := newStubMilestoneStore()
	projects := &stubProjectStore{owned: map[int]int{}}
	return NewService(milestones, projects, zap.NewNop()), milestones, projects
}

func rawPayload(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload
}

func TestCreateRequiresProjectAndName(t *testing.T) {
	s, _, projects := newTestService()
	projects.owned[1] = 1

	one := 1
	_, err := s.Create(context.Background(), 1, CreateRequest{Name: "v1 launch"})
	assert.ErrorIs(t, err, ErrFieldsRequired)

	_, err = s.Create(context.Background(), 1, CreateRequest{Project: &one})
	assert.ErrorIs(t, err, ErrFieldsRequired)

	_, err = s.Create(context.Background(), 1, CreateRequest{Project: &one, Name: "v1 launch"})
	assert.NoError(t, err)
}

func TestCreateRejectsForeignProject(t *testing.T) {
	s, _, projects := newTestService()
	projects.owned[9] = 2

	nine := 9
	_, err := s.Create(context.Background(), 1, CreateRequest{Project: &nine, Name: "v1"})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestListFiltersByProject(t *testing.T) {
	s, _, projects := newTestService()
	projects.owned[1] = 1
	projects.owned[2] = 1

	one, two := 1, 2
	_, err := s.Create(context.Background(), 1, CreateRequest{Project: &one, Name: "alpha"})
	require.NoError(t, err)
	_, err = s.Create(context.Background(), 1, CreateRequest{Project: &two, Name: "beta"})
	require.NoError(t, err)

	all, err := s.List(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := s.List(context.Background(), 1, &one)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "alpha", scoped[0].Name)
}

func TestUpdatePartial(t *testing.T) {
	s, _, projects := newTestService()
	projects.owned[1] = 1

	one := 1
	created, err := s.Create(context.Background(), 1, CreateRequest{Project: &one, Name: "v1", Description: "first cut"})
	require.NoError(t, err)

	updated, err := s.Update(context.Background(), 1, created.ID, rawPayload(t, `{"name": "v1.1"}`))
	require.NoError(t, err)
	assert.Equal(t, "v1.1", updated.Name)
	assert.Equal(t, "first cut", updated.Description)
	assert.Equal(t, 1, updated.ProjectID)
}

func TestUpdateRepointChecksOwnership(t *testing.T) {
	s, _, projects := newTestService()
	projects.owned[1] = 1
	projects.owned[9] = 2

	one := 1
	created, err := s.Create(context.Background(), 1, CreateRequest{Project: &one, Name: "v1"})
	require.NoError(t, err)

	_, err = s.Update(context.Background(), 1, created.ID, rawPayload(t, `{"project": 9}`))
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	s, _, projects := newTestService()
	projects.owned[1] = 1

	one := 1
	created, err := s.Create(context.Background(), 1, CreateRequest{Project: &one, Name: "v1"})
	require.NoError(t, err)

	_, err = s.Update(context.Background(), 1, created.ID, rawPayload(t, `{"name": ""}`))
	assert.ErrorIs(t, err, ErrFieldsRequired)
}

func TestDeleteForeignMilestoneReadsAsNotFound(t *testing.T) {
	s, _, projects := newTestService()
	projects.owned[1] = 1

	one := 1
	created, err := s.Create(context.Background(), 1, CreateRequest{Project: &one, Name: "v1"})
	require.NoError(t, err)

	err = s.Delete(context.Background(), 2, created.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	require.NoError(t, s.Delete(context.Background(), 1, created.ID))
}
