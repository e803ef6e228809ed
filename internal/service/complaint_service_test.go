package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

func newComplaintService(repo *fakeComplaintRepo) *ComplaintService {
	deps := ComplaintDependencies{
		ComplaintRepo: repo,
		DepartmentRepo: newFakeDepartmentRepo(&domain.Department{
			ID: "dept-eng", Name: "engineering", Code: "ENG", ContactEmail: "eng@campus.edu", IsActive: true,
		}, &domain.Department{
			ID: "dept-old", Name: "archives", Code: "ARC", ContactEmail: "arc@campus.edu", IsActive: false,
		}),
		HistoryRepo: &fakeHistoryRepo{},
	}
	return NewComplaintService(deps)
}

func studentPrincipal(id string) domain.Principal {
	return domain.Principal{ID: id, Role: domain.RoleStudent}
}

func staffPrincipal(id, dept string) domain.Principal {
	return domain.Principal{ID: id, Role: domain.RoleStaff, Department: &dept}
}

func adminPrincipal(id string) domain.Principal {
	return domain.Principal{ID: id, Role: domain.RoleAdmin}
}

func validInput() ComplaintCreateInput {
	return ComplaintCreateInput{
		Title:       "Broken projector",
		Description: "Projector in room 204 does not power on.",
		Category:    domain.CategoryInfrastructure,
		Department:  "engineering",
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	student := studentPrincipal("student-1")

	created, err := svc.Create(context.Background(), student, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, domain.ComplaintStatusPending, created.Status)
	assert.Equal(t, domain.ComplaintPriorityMedium, created.Priority)
	assert.Equal(t, "student-1", created.CreatedBy)

	fetched, err := svc.Get(context.Background(), student, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Title, fetched.Title)
}

func TestCreateRejectsUnknownDepartment(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	input := validInput()
	input.Department = "astrology"

	_, err := svc.Create(context.Background(), studentPrincipal("student-1"), input)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 400, domainErr.HTTPStatus)
}

func TestCreateRejectsInactiveDepartment(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	input := validInput()
	input.Department = "archives"

	_, err := svc.Create(context.Background(), studentPrincipal("student-1"), input)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestGetMissingComplaintIsNotFoundForEveryRole(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())

	for _, p := range []domain.Principal{
		studentPrincipal("student-1"),
		staffPrincipal("staff-1", "engineering"),
		adminPrincipal("admin-1"),
	} {
		_, err := svc.Get(context.Background(), p, "no-such-id")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err), "role %s", p.Role)
	}
}

func TestGetDeniesOtherStudentsComplaint(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	created, err := svc.Create(context.Background(), studentPrincipal("student-1"), validInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), studentPrincipal("student-2"), created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.False(t, apperrors.IsNotFound(err))
}

func TestStaffVisibilityFollowsDepartment(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	created, err := svc.Create(context.Background(), studentPrincipal("student-1"), validInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), staffPrincipal("staff-1", "engineering"), created.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), staffPrincipal("staff-2", "finance"), created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestListScopesByRole(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := newComplaintService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, studentPrincipal("student-1"), validInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, studentPrincipal("student-2"), validInput())
	require.NoError(t, err)

	mine, err := svc.List(ctx, studentPrincipal("student-1"), ComplaintListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "student-1", mine[0].CreatedBy)

	deptView, err := svc.List(ctx, staffPrincipal("staff-1", "engineering"), ComplaintListFilter{})
	require.NoError(t, err)
	assert.Len(t, deptView, 2)

	otherDept, err := svc.List(ctx, staffPrincipal("staff-2", "finance"), ComplaintListFilter{})
	require.NoError(t, err)
	assert.Empty(t, otherDept)

	all, err := svc.List(ctx, adminPrincipal("admin-1"), ComplaintListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateStatusDeniedForStudents(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	student := studentPrincipal("student-1")
	created, err := svc.Create(context.Background(), student, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), student, created.ID, domain.ComplaintStatusResolved, "done")
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))

	unchanged, err := svc.Get(context.Background(), student, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusPending, unchanged.Status)
}

func TestUpdateStatusDeniedAcrossDepartments(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	ctx := context.Background()
	created, err := svc.Create(ctx, studentPrincipal("student-1"), validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, staffPrincipal("staff-2", "library"), created.ID, domain.ComplaintStatusInProgress, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestUpdateStatusStampsResolution(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	ctx := context.Background()
	created, err := svc.Create(ctx, studentPrincipal("student-1"), validInput())
	require.NoError(t, err)

	staff := staffPrincipal("staff-1", "engineering")
	resolved, err := svc.UpdateStatus(ctx, staff, created.ID, domain.ComplaintStatusResolved, "replaced the bulb")
	require.NoError(t, err)
	require.NotNil(t, resolved.Resolution)
	assert.Equal(t, "staff-1", resolved.Resolution.ResolvedBy)
	assert.Equal(t, "replaced the bulb", resolved.Resolution.ResolutionNote)
	assert.False(t, resolved.Resolution.ResolvedAt.IsZero())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	ctx := context.Background()
	created, err := svc.Create(ctx, studentPrincipal("student-1"), validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, adminPrincipal("admin-1"), created.ID, "escalated", "")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	unchanged, err := svc.Get(ctx, adminPrincipal("admin-1"), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusPending, unchanged.Status)
}

func TestAddResponseAppendsAndReturnsThread(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	ctx := context.Background()
	student := studentPrincipal("student-1")
	created, err := svc.Create(ctx, student, validInput())
	require.NoError(t, err)

	first, err := svc.AddResponse(ctx, student, created.ID, "any update on this?")
	require.NoError(t, err)
	require.Len(t, first, 1)

	staff := staffPrincipal("staff-1", "engineering")
	second, err := svc.AddResponse(ctx, staff, created.ID, "technician scheduled for tomorrow")
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "any update on this?", second[0].Message)
	assert.Equal(t, "technician scheduled for tomorrow", second[1].Message)
}

func TestAddResponseRejectsEmptyMessage(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	ctx := context.Background()
	created, err := svc.Create(ctx, studentPrincipal("student-1"), validInput())
	require.NoError(t, err)

	_, err = svc.AddResponse(ctx, studentPrincipal("student-1"), created.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestConcurrentResponsesAllSurvive(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	ctx := context.Background()
	student := studentPrincipal("student-1")
	created, err := svc.Create(ctx, student, validInput())
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := svc.AddResponse(ctx, student, created.ID, fmt.Sprintf("update %d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	final, err := svc.Get(ctx, student, created.ID)
	require.NoError(t, err)
	assert.Len(t, final.Responses, writers)
}

func TestHistoryForbiddenForStudents(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	ctx := context.Background()
	student := studentPrincipal("student-1")
	created, err := svc.Create(ctx, student, validInput())
	require.NoError(t, err)

	_, err = svc.History(ctx, student, created.ID, 50, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestHistoryRecordsStatusChanges(t *testing.T) {
	svc := newComplaintService(newFakeComplaintRepo())
	ctx := context.Background()
	created, err := svc.Create(ctx, studentPrincipal("student-1"), validInput())
	require.NoError(t, err)

	admin := adminPrincipal("admin-1")
	_, err = svc.UpdateStatus(ctx, admin, created.ID, domain.ComplaintStatusInProgress, "")
	require.NoError(t, err)

	entries, err := svc.History(ctx, admin, created.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ChangeTypeStatus, entries[0].ChangeType)
	assert.Equal(t, "admin-1", entries[0].ChangedBy)
}

func TestStatsResolutionRate(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := newComplaintService(repo)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		created, err := svc.Create(ctx, studentPrincipal("student-1"), validInput())
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	admin := adminPrincipal("admin-1")
	_, err := svc.UpdateStatus(ctx, admin, ids[0], domain.ComplaintStatusResolved, "fixed")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus[domain.ComplaintStatusResolved])
	assert.InDelta(t, 25.0, stats.ResolutionRate, 0.001)
}
