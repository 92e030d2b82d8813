package accounts

import (
	"errors"
	"fmt"

	"github.com/up2ynab/up2ynab/internal/model"
)

var (
	// ErrNotFound matches a ResolutionError with no candidates.
	ErrNotFound = errors.New("account not found")
	// ErrAmbiguous matches a ResolutionError with more than one candidate.
	ErrAmbiguous = errors.New("account is ambiguous")
)

// ResolutionError reports that a lookup required exactly one account and
// found a different number.
type ResolutionError struct {
	Criterion string // e.g. `YNAB account named "Up Spending"`
	Matches   int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("found %d %s, should be 1", e.Matches, e.Criterion)
}

// Is lets errors.Is match ErrNotFound and ErrAmbiguous.
func (e *ResolutionError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Matches == 0
	case ErrAmbiguous:
		return e.Matches > 1
	}
	return false
}

// Service provides in-memory lookup over a fetched account list.
// Deleted accounts are dropped on construction.
type Service struct {
	accounts []model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	active := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		if !a.Deleted {
			active = append(active, a)
		}
	}
	return &Service{accounts: active}
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// ByName returns all accounts whose name equals name exactly.
func (s *Service) ByName(name string) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Name == name {
			result = append(result, a)
		}
	}
	return result
}

// UniqueByType resolves the single account of accountType.
func (s *Service) UniqueByType(accountType model.AccountType) (model.Account, error) {
	return unique(fmt.Sprintf("%s accounts", accountType), s.ByType(accountType))
}

// UniqueByName resolves the single account called name.
func (s *Service) UniqueByName(name string) (model.Account, error) {
	return unique(fmt.Sprintf("accounts named %q", name), s.ByName(name))
}

func unique(criterion string, matches []model.Account) (model.Account, error) {
	if len(matches) != 1 {
		return model.Account{}, &ResolutionError{Criterion: criterion, Matches: len(matches)}
	}
	return matches[0], nil
}
