package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// fakeComplaintRepo keeps complaints and their response threads in memory.
// AppendResponse takes the lock for the whole append so concurrent callers
// behave like single-row inserts do in Postgres.
type fakeComplaintRepo struct {
	mu         sync.Mutex
	seq        int
	complaints map[string]*domain.Complaint
	responses  map[string][]domain.Response
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{
		complaints: make(map[string]*domain.Complaint),
		responses:  make(map[string][]domain.Response),
	}
}

func (r *fakeComplaintRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%04d", prefix, r.seq)
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint.ID = r.nextID("complaint")
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = complaint.CreatedAt
	clone := *complaint
	r.complaints[complaint.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *complaint
	r.complaints[complaint.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	clone.Responses = append([]domain.Response(nil), r.responses[id]...)
	return &clone, nil
}

func (r *fakeComplaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Complaint
	for _, complaint := range r.complaints {
		if filter.CreatedBy != nil && complaint.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.Department != nil && complaint.Department != *filter.Department {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, complaint.Status) {
			continue
		}
		out = append(out, *complaint)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeComplaintRepo) AppendResponse(_ context.Context, response *domain.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[response.ComplaintID]; !ok {
		return pgx.ErrNoRows
	}
	response.ID = r.nextID("response")
	response.CreatedAt = time.Now()
	r.responses[response.ComplaintID] = append(r.responses[response.ComplaintID], *response)
	return nil
}

func (r *fakeComplaintRepo) ListResponses(_ context.Context, complaintID string) ([]domain.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Response(nil), r.responses[complaintID]...), nil
}

func (r *fakeComplaintRepo) Breakdown(_ context.Context) (*repository.StatusBreakdown, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	breakdown := &repository.StatusBreakdown{
		ByStatus:   make(map[domain.ComplaintStatus]int64),
		ByCategory: make(map[domain.ComplaintCategory]int64),
	}
	for _, complaint := range r.complaints {
		breakdown.Total++
		breakdown.ByStatus[complaint.Status]++
		breakdown.ByCategory[complaint.Category]++
	}
	return breakdown, nil
}

func containsStatus(statuses []domain.ComplaintStatus, status domain.ComplaintStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		clone := *user
		repo.users[user.ID] = &clone
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%04d", len(r.users)+1)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Department != nil && (user.Department == nil || *user.Department != *filter.Department) {
			continue
		}
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func newFakeDepartmentRepo(departments ...*domain.Department) *fakeDepartmentRepo {
	repo := &fakeDepartmentRepo{departments: make(map[string]*domain.Department)}
	for _, dept := range departments {
		clone := *dept
		repo.departments[dept.Name] = &clone
	}
	return repo
}

func (r *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	clone := *dept
	r.departments[dept.Name] = &clone
	return nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	for _, dept := range r.departments {
		if dept.ID == id {
			clone := *dept
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDepartmentRepo) GetByName(_ context.Context, name string) (*domain.Department, error) {
	dept, ok := r.departments[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *dept
	return &clone, nil
}

func (r *fakeDepartmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	var out []domain.Department
	for _, dept := range r.departments {
		if dept.IsActive {
			out = append(out, *dept)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.ComplaintHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.ComplaintHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = fmt.Sprintf("history-%04d", len(r.entries)+1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByComplaint(_ context.Context, complaintID string, _, _ int) ([]domain.ComplaintHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ComplaintHistory
	for _, entry := range r.entries {
		if entry.ComplaintID == complaintID {
			out = append(out, entry)
		}
	}
	return out, nil
}
