package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUniqueAssignmentsKeepsFirst(t *testing.T) {
	in := []Assignment{
		{EmployeeID: 1, ProjectID: 2, Role: "Lead"},
		{EmployeeID: 1, ProjectID: 3, Role: "Analyst"},
		{EmployeeID: 1, ProjectID: 2, Role: "Manager"},
		{EmployeeID: 2, ProjectID: 2, Role: "Developer"},
	}

	got := UniqueAssignments(in)
	assert.Equal(t, []Assignment{in[0], in[1], in[3]}, got)
}

func TestAssignmentSetAdd(t *testing.T) {
	s := AssignmentSet{}
	a := Assignment{EmployeeID: 4, ProjectID: 5, Role: "Lead"}

	assert.True(t, s.Add(a))
	a.Role = "Consultant"
	assert.False(t, s.Add(a), "role is not part of the key")
	assert.Len(t, s, 1)
}

func TestSalaryRecordActive(t *testing.T) {
	s := SalaryRecord{ID: 1, EmployeeID: 1, Amount: 3000}
	assert.True(t, s.Active())

	end := time.Now()
	s.ToDate = &end
	assert.False(t, s.Active())
}
