package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice-service/internal/models"
)

// UserService is the user directory. Wallets for agents and leaders
// are opened at user creation; the ledger also creates them lazily on
// first credit for users migrated in without one.
type UserService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{DB: db, Log: log}
}

type CreateUserDTO struct {
	Username string
	Role     string
	LeaderId *int
	Phone    string
}

func (s *UserService) CreateUser(data CreateUserDTO) (models.User, error) {
	role, err := models.ParseRole(data.Role)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username: data.Username,
		Role:     role,
		LeaderId: data.LeaderId,
		Phone:    data.Phone,
		Status:   1,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if role.HasWallet() {
			wallet := models.Wallet{UserId: user.ID, Balance: decimal.Zero}
			if err := tx.Create(&wallet).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.Log.Info("user created",
		zap.Int("user_id", user.ID),
		zap.String("role", string(role)))
	return user, nil
}

// GetAgent returns the user when it exists and holds the agent role.
func (s *UserService) GetAgent(userId int) (models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userId).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUnknownUser
		}
		return models.User{}, err
	}
	if user.Role != models.RoleAgent {
		return models.User{}, fmt.Errorf("%w: user %d is not an agent", ErrRoleNotPermitted, userId)
	}
	return user, nil
}

func (s *UserService) GetUser(userId int) (models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userId).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUnknownUser
		}
		return models.User{}, err
	}
	return user, nil
}
