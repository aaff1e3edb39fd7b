package reports

import "time"

type SummaryRow struct {
	DepartmentID   string `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	Headcount      int    `json:"headcount"`
	Present        int    `json:"present"`
	Completed      int    `json:"completed"`
	Absent         int    `json:"absent"`
}

type DetailRow struct {
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	DepartmentName string     `json:"departmentName"`
	Date           time.Time  `json:"date"`
	TimeIn         *time.Time `json:"timeIn,omitempty"`
	TimeOut        *time.Time `json:"timeOut,omitempty"`
	Status         string     `json:"status"`
	WorkedHours    string     `json:"workedHours,omitempty"`
}
