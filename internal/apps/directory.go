package apps

import (
	"fmt"
	"sort"

	"github.com/worldbox/worldbox/internal/query"
	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
)

// FindEmployee looks up employees whose name approximately matches the
// given name, best match first.
func FindEmployee(name string) ([]Employee, error) {
	rows := employeeRows()
	matched, err := query.Apply(rows, []query.Criterion{
		{Column: "name", Value: name, Filter: fuzzyFilter},
	})
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, &store.NotFoundError{
			Namespace: schema.Employees,
			Detail:    fmt.Sprintf("no employee matching name %q", name),
		}
	}
	return employeesFromRows(matched), nil
}

// GetEmployeeProfile returns the employee with the given identifier.
func GetEmployeeProfile(employeeID string) (Employee, error) {
	matched, err := query.Apply(employeeRows(), []query.Criterion{
		{Column: "employee_id", Value: employeeID, Filter: query.ExactMatch},
	})
	if err != nil {
		return Employee{}, err
	}
	if len(matched) == 0 {
		return Employee{}, &store.NotFoundError{
			Namespace: schema.Employees,
			Detail:    fmt.Sprintf("no employee with id %q", employeeID),
		}
	}
	return employeeFromRow(matched[0]), nil
}

// GetCurrentUser returns the employee marked as the sandbox user.
func GetCurrentUser() (Employee, error) {
	matched, err := query.Apply(employeeRows(), []query.Criterion{
		{Column: "is_user", Value: true, Filter: query.ExactMatch},
	})
	if err != nil {
		return Employee{}, err
	}
	if len(matched) == 0 {
		return Employee{}, &store.NotFoundError{
			Namespace: schema.Employees,
			Detail:    "no employee is marked as the user",
		}
	}
	return employeeFromRow(matched[0]), nil
}

// GetAllEmployees returns the whole directory sorted by name.
func GetAllEmployees() []Employee {
	employees := employeesFromRows(employeeRows())
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].Name < employees[j].Name
	})
	return employees
}

// FindTeamOf returns the members of an employee's team, excluding
// assistants, sorted by name. Assistants attend their leader's team for
// scheduling but are never listed as ordinary members.
func FindTeamOf(employeeID string) ([]Employee, error) {
	employee, err := GetEmployeeProfile(employeeID)
	if err != nil {
		return nil, err
	}
	matched, err := query.Apply(employeeRows(), []query.Criterion{
		{Column: "team", Value: employee.Team, Filter: query.ExactMatch},
	})
	if err != nil {
		return nil, err
	}
	team := make([]Employee, 0, len(matched))
	for _, row := range matched {
		member := employeeFromRow(row)
		if member.Team == "assistants" {
			continue
		}
		team = append(team, member)
	}
	sort.Slice(team, func(i, j int) bool { return team[i].Name < team[j].Name })
	return team, nil
}

// FindReportsOf returns the direct reports of an employee, sorted by name.
func FindReportsOf(employeeID string) ([]Employee, error) {
	employee, err := GetEmployeeProfile(employeeID)
	if err != nil {
		return nil, err
	}
	reports := make([]Employee, 0, len(employee.Reports))
	for _, id := range employee.Reports {
		report, err := GetEmployeeProfile(id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve report %q: %w", id, err)
		}
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })
	return reports, nil
}

// FindManagerOf returns the manager of an employee. The top of the
// hierarchy has no manager, which surfaces as a not-found error.
func FindManagerOf(employeeID string) (Employee, error) {
	employee, err := GetEmployeeProfile(employeeID)
	if err != nil {
		return Employee{}, err
	}
	if employee.Manager == "" {
		return Employee{}, &store.NotFoundError{
			Namespace: schema.Employees,
			Detail:    fmt.Sprintf("employee %q has no manager", employeeID),
		}
	}
	return GetEmployeeProfile(employee.Manager)
}

// GetAssistant returns the assistant of an employee, if one exists.
func GetAssistant(employeeID string) (Employee, error) {
	employee, err := GetEmployeeProfile(employeeID)
	if err != nil {
		return Employee{}, err
	}
	if employee.Assistant == "" {
		return Employee{}, &store.NotFoundError{
			Namespace: schema.Employees,
			Detail:    fmt.Sprintf("employee %q has no assistant", employeeID),
		}
	}
	return GetEmployeeProfile(employee.Assistant)
}

// GetVacationSchedule returns an employee's planned absences sorted by
// start time.
func GetVacationSchedule(employeeID string) ([]Vacation, error) {
	if _, err := GetEmployeeProfile(employeeID); err != nil {
		return nil, err
	}
	matched, err := query.Apply(currentRows(schema.EmployeeVacations), []query.Criterion{
		{Column: "employee_id", Value: employeeID, Filter: query.ExactMatch},
	})
	if err != nil {
		return nil, err
	}
	vacations := make([]Vacation, 0, len(matched))
	for _, row := range matched {
		vacations = append(vacations, vacationFromRow(row))
	}
	sort.Slice(vacations, func(i, j int) bool {
		return vacations[i].Starts.Before(vacations[j].Starts)
	})
	return vacations, nil
}
