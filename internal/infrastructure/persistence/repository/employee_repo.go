package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	"github.com/EmmaDeil/steps-ops-backend/pkg/database"
)

// EmployeeRepository implements port.EmployeeRepository over SQLite.
type EmployeeRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *database.DB, logger *zap.Logger) port.EmployeeRepository {
	return &EmployeeRepository{db: db, logger: logger}
}

// GetByID retrieves an employee by id.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	query := `SELECT id, name, email, role, manager_id, department, created_at FROM employees WHERE id = ?`
	emp, err := scanEmployee(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get employee", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ListByRole lists employees holding the given role.
func (r *EmployeeRepository) ListByRole(ctx context.Context, role string) ([]*entity.Employee, error) {
	query := `SELECT id, name, email, role, manager_id, department, created_at FROM employees WHERE role = ? ORDER BY id ASC`
	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*entity.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(row rowScanner) (*entity.Employee, error) {
	var emp entity.Employee
	var managerID, department sql.NullString

	err := row.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.Role,
		&managerID, &department, &emp.CreatedAt)
	if err != nil {
		return nil, err
	}

	emp.ManagerID = managerID.String
	emp.Department = department.String
	return &emp, nil
}

var _ port.EmployeeRepository = (*EmployeeRepository)(nil)
