package builder_test

import (
	"fmt"

	"github.com/locvowork/companygen/internal/repository/builder"
)

// Example_batchInsert demonstrates a multi-row insert that skips duplicate keys
func Example_batchInsert() {
	qb := builder.NewSQLBuilder().
		Insert("employee_projects", "emp_id", "project_id", "role").
		Values(1, 4, "Lead").
		Values(1, 9, "Analyst").
		Suffix("ON CONFLICT DO NOTHING")

	sql, args := qb.Build()
	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: INSERT INTO employee_projects (emp_id, project_id, role) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT DO NOTHING
	// Args: [1 4 Lead 1 9 Analyst]
}

// Example_mysqlIgnore demonstrates the MySQL form of the same statement
func Example_mysqlIgnore() {
	qb := builder.NewSQLBuilder().
		Placeholders(builder.Question).
		Insert("employee_projects", "emp_id", "project_id", "role").
		Modifier("IGNORE").
		Values(2, 1, "Consultant")

	sql, _ := qb.Build()
	fmt.Println("SQL:", sql)

	// Output:
	// SQL: INSERT IGNORE INTO employee_projects (emp_id, project_id, role) VALUES (?, ?, ?)
}

// Example_count demonstrates a per-table row count
func Example_count() {
	sql, args := builder.NewSQLBuilder().
		Select("COUNT(*)").
		From("salaries").
		Build()

	fmt.Println("SQL:", sql)
	fmt.Printf("Number of args: %d\n", len(args))

	// Output:
	// SQL: SELECT COUNT(*) FROM salaries
	// Number of args: 0
}
