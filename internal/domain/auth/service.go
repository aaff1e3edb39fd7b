package auth

import "context"

type StoreAPI interface {
	FindCredentialByUsername(ctx context.Context, username string) (Credential, error)
	CreateUser(ctx context.Context, account NewAccount) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// VerifyCredentials checks the submitted password against the stored bcrypt
// hash. It distinguishes an unknown username from a wrong password so the
// sign-in route can answer 404 versus 401.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (Credential, error) {
	cred, err := s.Store.FindCredentialByUsername(ctx, username)
	if err != nil {
		return Credential{}, err
	}
	if err := CheckPassword(cred.PasswordHash, password); err != nil {
		return Credential{}, ErrInvalidCredentials
	}
	return cred, nil
}

func (s *Service) CreateUser(ctx context.Context, account NewAccount) (User, error) {
	return s.Store.CreateUser(ctx, account)
}

func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	return s.Store.GetUser(ctx, userID)
}
