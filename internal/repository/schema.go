package repository

import (
	"fmt"

	"github.com/locvowork/companygen/internal/domain"
)

// dropOrder lists tables children first so foreign keys never block a drop.
var dropOrder = []string{
	domain.TableAssignments,
	domain.TableSalaries,
	domain.TableEmployees,
	domain.TableProjects,
	domain.TableDepartments,
}

func dropStatements() []string {
	stmts := make([]string, len(dropOrder))
	for i, table := range dropOrder {
		stmts[i] = fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
	}
	return stmts
}

func createStatements(d Dialect) []string {
	text := d.textType()
	return []string{
		fmt.Sprintf(`CREATE TABLE %s (
	dept_id INTEGER PRIMARY KEY,
	dept_name %s NOT NULL
)`, domain.TableDepartments, text),
		fmt.Sprintf(`CREATE TABLE %s (
	emp_id INTEGER PRIMARY KEY,
	name %s NOT NULL,
	dept_id INTEGER NOT NULL,
	hire_date DATE NOT NULL,
	FOREIGN KEY (dept_id) REFERENCES %s(dept_id)
)`, domain.TableEmployees, text, domain.TableDepartments),
		fmt.Sprintf(`CREATE TABLE %s (
	salary_id INTEGER PRIMARY KEY,
	emp_id INTEGER NOT NULL,
	salary INTEGER NOT NULL,
	from_date DATE NOT NULL,
	to_date DATE,
	FOREIGN KEY (emp_id) REFERENCES %s(emp_id)
)`, domain.TableSalaries, domain.TableEmployees),
		fmt.Sprintf(`CREATE TABLE %s (
	project_id INTEGER PRIMARY KEY,
	project_name %s NOT NULL,
	budget INTEGER NOT NULL
)`, domain.TableProjects, text),
		fmt.Sprintf(`CREATE TABLE %s (
	emp_id INTEGER NOT NULL,
	project_id INTEGER NOT NULL,
	role %s NOT NULL,
	PRIMARY KEY (emp_id, project_id),
	FOREIGN KEY (emp_id) REFERENCES %s(emp_id),
	FOREIGN KEY (project_id) REFERENCES %s(project_id)
)`, domain.TableAssignments, text, domain.TableEmployees, domain.TableProjects),
	}
}
