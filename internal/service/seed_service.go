package service

import (
	"context"
	"errors"
	"fmt"

	"ecopark/internal/model"
	"ecopark/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoAccount is a seeded login for one portal role.
type DemoAccount struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	ParkName  string
}

// DemoAccounts covers every role so each workflow can be tried end to end.
var DemoAccounts = []DemoAccount{
	{Email: "admin@ecopark.com", FirstName: "Admin", LastName: "User", Role: model.RoleAdmin},
	{Email: "parkstaff@ecopark.com", FirstName: "Park", LastName: "Staff", Role: model.RoleParkStaff, ParkName: "Yellowstone"},
	{Email: "finance@ecopark.com", FirstName: "Finance", LastName: "Officer", Role: model.RoleFinance},
	{Email: "government@ecopark.com", FirstName: "Government", LastName: "Officer", Role: model.RoleGovernment},
	{Email: "auditor@ecopark.com", FirstName: "Audit", LastName: "Officer", Role: model.RoleAuditor},
	{Email: "visitor@ecopark.com", FirstName: "Park", LastName: "Visitor", Role: model.RoleVisitor},
}

// SeedDemoUsers creates the demo accounts that do not exist yet, all sharing
// password. It returns how many were created.
func SeedDemoUsers(ctx context.Context, repo repository.UserRepository, password string) (int, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	created := 0
	for _, acct := range DemoAccounts {
		_, err := repo.GetByEmail(ctx, acct.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("failed to look up '%s': %w", acct.Email, err)
		}

		user := &model.User{
			FirstName: acct.FirstName,
			LastName:  acct.LastName,
			Email:     acct.Email,
			Password:  string(hashed),
			Role:      acct.Role,
			ParkName:  acct.ParkName,
		}
		if err := repo.Create(ctx, user); err != nil {
			return created, fmt.Errorf("failed to seed user '%s': %w", acct.Email, err)
		}
		created++
	}
	return created, nil
}
