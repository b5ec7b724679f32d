package repository

import (
	"errors"
	"log"

	"github.com/cliptube/user_service/internal/domain"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	FindUserById(userID uint) (*domain.User, error)
	FindUserByUserName(userName string) (*domain.User, error)
	// FindUserByUserNameOrEmail matches either column; callers pass the
	// same value twice when only one identifier is known.
	FindUserByUserNameOrEmail(userName, email string) (*domain.User, error)
	SaveUser(user *domain.User) error
	// UpdateRefreshToken writes only the refresh_token column, skipping
	// model hooks and validation of the other fields.
	UpdateRefreshToken(userID uint, token string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	if err := r.db.Create(user).Error; err != nil {
		log.Printf("create user error: %v", err)
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserById(userID uint) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("find user by id error: %v", err)
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByUserName(userName string) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, "user_name = ?", userName).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("find user by username error: %v", err)
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByUserNameOrEmail(userName, email string) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.Where("user_name = ? OR email = ?", userName, email).First(user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("find user by username/email error: %v", err)
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		return err
	}
	return nil
}

func (r *userRepository) UpdateRefreshToken(userID uint, token string) error {
	res := r.db.Model(&domain.User{}).Where("id = ?", userID).Update("refresh_token", token)
	if res.Error != nil {
		log.Printf("update refresh token error: %v", res.Error)
		return res.Error
	}
	return nil
}
