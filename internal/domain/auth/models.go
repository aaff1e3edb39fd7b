package auth

import "time"

type User struct {
	ID             string     `json:"id"`
	EmployeeNumber string     `json:"employeeNumber"`
	Username       string     `json:"username"`
	Role           string     `json:"role"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Address        string     `json:"address"`
	Gender         string     `json:"gender"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	TINNumber      string     `json:"tinNumber,omitempty"`
	GSISNumber     string     `json:"gsisNumber,omitempty"`
	PagibigNumber  string     `json:"pagibigNumber,omitempty"`
	DepartmentID   string     `json:"departmentId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type Credential struct {
	UserID       string
	Username     string
	Role         string
	PasswordHash string
}

type NewAccount struct {
	Username      string
	PasswordHash  string
	Role          string
	FirstName     string
	LastName      string
	Address       string
	Gender        string
	Birthday      time.Time
	TINNumber     string
	GSISNumber    string
	PagibigNumber string
	DepartmentID  string
}
