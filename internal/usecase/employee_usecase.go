package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"competency-hub/internal/domain/employee"
	"competency-hub/internal/repository"
)

const msgNationalIDTaken = "an employee with this national ID already exists"

type EmployeeInput struct {
	FirstName   string    `json:"first_name" validate:"required,max=100"`
	LastName    string    `json:"last_name" validate:"required,max=100"`
	NationalID  string    `json:"national_id" validate:"required,national_id"`
	DateOfBirth time.Time `json:"date_of_birth" validate:"required"`
	PhoneNumber string    `json:"phone_number" validate:"required,max=20"`
	Email       *string   `json:"email" validate:"omitempty,email,max=100"`
}

func (in EmployeeInput) normalized() EmployeeInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.NationalID = strings.TrimSpace(in.NationalID)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.Email != nil {
		e := strings.TrimSpace(*in.Email)
		if e == "" {
			in.Email = nil
		} else {
			in.Email = &e
		}
	}
	return in
}

func (in EmployeeInput) entity(id int64) employee.Employee {
	return employee.Employee{
		ID:          id,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		NationalID:  in.NationalID,
		DateOfBirth: in.DateOfBirth,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
	}
}

type EmployeeUsecase interface {
	List(ctx context.Context) ([]employee.Employee, error)
	Get(ctx context.Context, id int64) (employee.Employee, error)
	Create(ctx context.Context, in EmployeeInput) (employee.Employee, error)
	Update(ctx context.Context, id int64, in EmployeeInput) (employee.Employee, error)
	Delete(ctx context.Context, id int64) error
}

type Employees struct {
	repo repository.EmployeeRepository
}

func NewEmployeeUsecase(repo repository.EmployeeRepository) *Employees {
	return &Employees{repo: repo}
}

func (u *Employees) List(ctx context.Context) ([]employee.Employee, error) {
	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Employees) Get(ctx context.Context, id int64) (employee.Employee, error) {
	e, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return employee.Employee{}, ErrNotFound
		}
		return employee.Employee{}, ErrInternal
	}
	return e, nil
}

func (u *Employees) Create(ctx context.Context, in EmployeeInput) (employee.Employee, error) {
	in = in.normalized()
	if err := validateInput(in); err != nil {
		return employee.Employee{}, err
	}

	taken, err := u.repo.NationalIDTaken(ctx, in.NationalID, 0)
	if err != nil {
		return employee.Employee{}, ErrInternal
	}
	if taken {
		return employee.Employee{}, NewValidationError("national_id", msgNationalIDTaken)
	}

	created, err := u.repo.Create(ctx, in.entity(0))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, NewValidationError("national_id", msgNationalIDTaken)
		}
		return employee.Employee{}, ErrInternal
	}
	created.Competencies = []employee.Competency{}
	return created, nil
}

func (u *Employees) Update(ctx context.Context, id int64, in EmployeeInput) (employee.Employee, error) {
	in = in.normalized()
	if err := validateInput(in); err != nil {
		return employee.Employee{}, err
	}

	taken, err := u.repo.NationalIDTaken(ctx, in.NationalID, id)
	if err != nil {
		return employee.Employee{}, ErrInternal
	}
	if taken {
		return employee.Employee{}, NewValidationError("national_id", msgNationalIDTaken)
	}

	if err := u.repo.Update(ctx, in.entity(id)); err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, NewValidationError("national_id", msgNationalIDTaken)
		}
		return employee.Employee{}, resolveStale(ctx, err, id, u.repo.Exists)
	}
	return u.Get(ctx, id)
}

func (u *Employees) Delete(ctx context.Context, id int64) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return NewValidationError(FormKey, "the employee manages a project and cannot be deleted")
		}
		return ErrInternal
	}
	return nil
}

// resolveStale maps a failed write to ErrNotFound when its target is gone.
// Any other failure, including a conflict on a row that still exists, is internal.
func resolveStale(ctx context.Context, err error, id int64, exists func(context.Context, int64) (bool, error)) error {
	if !errors.Is(err, repository.ErrNoRowsAffected) && !errors.Is(err, repository.ErrNotFound) {
		return ErrInternal
	}
	ok, exErr := exists(ctx, id)
	if exErr != nil {
		return ErrInternal
	}
	if !ok {
		return ErrNotFound
	}
	return ErrInternal
}
