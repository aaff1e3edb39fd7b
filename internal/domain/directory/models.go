package directory

import "time"

type Department struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	HeadUserID string    `json:"headUserId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Employee struct {
	ID             string    `json:"id"`
	EmployeeNumber string    `json:"employeeNumber"`
	Username       string    `json:"username"`
	Role           string    `json:"role"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DepartmentID   string    `json:"departmentId,omitempty"`
	DepartmentName string    `json:"departmentName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
