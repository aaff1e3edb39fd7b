package directory

import "context"

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.Store.ListDepartments(ctx)
}

func (s *Service) ListEmployees(ctx context.Context, departmentID string, limit, offset int) ([]Employee, error) {
	return s.Store.ListEmployees(ctx, departmentID, limit, offset)
}

func (s *Service) DepartmentHeadedBy(ctx context.Context, userID string) (Department, error) {
	return s.Store.DepartmentHeadedBy(ctx, userID)
}
