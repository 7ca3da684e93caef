package apps

import (
	"github.com/worldbox/worldbox/internal/schema"
	"github.com/worldbox/worldbox/internal/store"
	"github.com/worldbox/worldbox/internal/world"
)

func currentRows(ns schema.Namespace) []store.Row {
	return world.Current().GetDatabase(ns)
}

func employeeRows() []store.Row {
	return currentRows(schema.Employees)
}

func employeesFromRows(rows []store.Row) []Employee {
	employees := make([]Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, employeeFromRow(row))
	}
	return employees
}
