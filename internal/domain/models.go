package domain

import "time"

// Department represents the departments table
type Department struct {
	ID   int    `json:"dept_id" db:"dept_id" datastore:"ID"`
	Name string `json:"dept_name" db:"dept_name" datastore:"Name"`
}

// Employee represents the employees table
type Employee struct {
	ID           int       `json:"emp_id" db:"emp_id" datastore:"ID"`
	Name         string    `json:"name" db:"name" datastore:"Name"`
	DepartmentID int       `json:"dept_id" db:"dept_id" datastore:"DepartmentID"`
	HireDate     time.Time `json:"hire_date" db:"hire_date" datastore:"HireDate"`
}

// SalaryRecord represents the salaries table.
// A nil ToDate marks the record as currently active.
type SalaryRecord struct {
	ID         int        `json:"salary_id" db:"salary_id" datastore:"ID"`
	EmployeeID int        `json:"emp_id" db:"emp_id" datastore:"EmployeeID"`
	Amount     int        `json:"salary" db:"salary" datastore:"Amount"`
	FromDate   time.Time  `json:"from_date" db:"from_date" datastore:"FromDate"`
	ToDate     *time.Time `json:"to_date" db:"to_date" datastore:"-"`
}

// Active reports whether the salary record is still in effect.
func (s SalaryRecord) Active() bool {
	return s.ToDate == nil
}

// Project represents the projects table
type Project struct {
	ID     int    `json:"project_id" db:"project_id" datastore:"ID"`
	Name   string `json:"project_name" db:"project_name" datastore:"Name"`
	Budget int    `json:"budget" db:"budget" datastore:"Budget"`
}

// Assignment represents the employee_projects junction table
type Assignment struct {
	EmployeeID int    `json:"emp_id" db:"emp_id" datastore:"EmployeeID"`
	ProjectID  int    `json:"project_id" db:"project_id" datastore:"ProjectID"`
	Role       string `json:"role" db:"role" datastore:"Role"`
}

// AssignmentKey is the composite primary key of an Assignment.
type AssignmentKey struct {
	EmployeeID int
	ProjectID  int
}

// Key returns the composite key of the assignment.
func (a Assignment) Key() AssignmentKey {
	return AssignmentKey{EmployeeID: a.EmployeeID, ProjectID: a.ProjectID}
}

// Dataset is the full output of one generation run.
type Dataset struct {
	Departments []Department
	Employees   []Employee
	Salaries    []SalaryRecord
	Projects    []Project
	Assignments []Assignment
}

// Table names shared by every sink.
const (
	TableDepartments = "departments"
	TableEmployees   = "employees"
	TableSalaries    = "salaries"
	TableProjects    = "projects"
	TableAssignments = "employee_projects"
)

// Tables lists the tables parent-first, the order they are created and filled in.
var Tables = []string{TableDepartments, TableEmployees, TableSalaries, TableProjects, TableAssignments}

// AssignmentSet tracks assignment keys that were already emitted.
type AssignmentSet map[AssignmentKey]struct{}

// Add records the key of a and reports whether it was new.
func (s AssignmentSet) Add(a Assignment) bool {
	k := a.Key()
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

// UniqueAssignments keeps the first occurrence of every key, preserving order.
func UniqueAssignments(in []Assignment) []Assignment {
	seen := make(AssignmentSet, len(in))
	out := make([]Assignment, 0, len(in))
	for _, a := range in {
		if seen.Add(a) {
			out = append(out, a)
		}
	}
	return out
}
