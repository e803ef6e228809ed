package policy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/policy"
)

func sample() []domain.Complaint {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []domain.Complaint{
		{ID: "c1", Department: "library", CreatedBy: "stu-1", CreatedAt: base},
		{ID: "c2", Department: "hostel", CreatedBy: "stu-1", CreatedAt: base.Add(time.Hour)},
		{ID: "c3", Department: "library", CreatedBy: "stu-2", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "c4", Department: "hostel", CreatedBy: "stu-2", CreatedAt: base.Add(3 * time.Hour)},
	}
}

func TestListForStudent(t *testing.T) {
	visible := policy.ListFor(student("stu-1"), sample())

	require.Len(t, visible, 2)
	// Most recent first.
	assert.Equal(t, "c2", visible[0].ID)
	assert.Equal(t, "c1", visible[1].ID)
}

func TestListForStaffExactlyDepartment(t *testing.T) {
	visible := policy.ListFor(staff("stf-1", "hostel"), sample())

	require.Len(t, visible, 2)
	for _, c := range visible {
		assert.Equal(t, "hostel", c.Department)
	}
	assert.Equal(t, "c4", visible[0].ID)
	assert.Equal(t, "c2", visible[1].ID)
}

func TestListForAdminUnfiltered(t *testing.T) {
	visible := policy.ListFor(admin("adm-1"), sample())

	require.Len(t, visible, 4)
	assert.Equal(t, "c4", visible[0].ID)
	assert.Equal(t, "c1", visible[3].ID)
}

func TestListForStaffWithoutDepartment(t *testing.T) {
	p := domain.Principal{ID: "stf-9", Role: domain.RoleStaff}
	assert.Empty(t, policy.ListFor(p, sample()))
}

func TestListForStableTieBreak(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	all := []domain.Complaint{
		{ID: "a", Department: "library", CreatedBy: "stu-1", CreatedAt: ts},
		{ID: "b", Department: "library", CreatedBy: "stu-1", CreatedAt: ts},
		{ID: "c", Department: "library", CreatedBy: "stu-1", CreatedAt: ts},
	}

	visible := policy.ListFor(student("stu-1"), all)
	require.Len(t, visible, 3)
	assert.Equal(t, "a", visible[0].ID)
	assert.Equal(t, "b", visible[1].ID)
	assert.Equal(t, "c", visible[2].ID)
}

// A principal must never be able to list a complaint they could not read
// directly, and vice versa.
func TestListAndReadAgree(t *testing.T) {
	all := sample()
	principals := []domain.Principal{
		student("stu-1"),
		student("stu-2"),
		student("stu-3"),
		staff("stf-1", "library"),
		staff("stf-2", "hostel"),
		staff("stf-3", "canteen"),
		{ID: "stf-4", Role: domain.RoleStaff},
		admin("adm-1"),
	}

	for _, p := range principals {
		listed := make(map[string]bool)
		for _, c := range policy.ListFor(p, all) {
			listed[c.ID] = true
		}
		for i := range all {
			readable := policy.CanAccess(p, &all[i], policy.ActionRead)
			assert.Equal(t, readable, listed[all[i].ID],
				"principal %s/%s vs complaint %s", p.Role, p.ID, all[i].ID)
		}
	}
}
