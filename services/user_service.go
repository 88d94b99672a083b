package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Demo server seeded for local runs.
const (
	DemoServerFirstName  = "William"
	DemoServerLastName   = "Woodhouse"
	DemoServerEmail      = "woodhouse@gmail.com"
	DemoServerPassword   = "12345"
	DemoServerRestaurant = "1234 Restaurant St."
)

// RegisterInput is a new account as submitted to the API.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService is the identity store: accounts, credentials and the server work roster.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a customer account with a hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := newAccount(in)
	if err != nil {
		return nil, err
	}
	if err := s.insertAccount(ctx, user); err != nil {
		return nil, storeError("register user", err)
	}

	utils.InfoLogger.Printf("New user registered: %s (id=%d)", user.Email, user.ID)
	return user, nil
}

func newAccount(in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.FirstName) == "" {
		return nil, validationError("first_name, email and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &models.User{
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Email:           email,
		Password:        string(hashed),
		ActiveTableID:   models.NoActiveTable,
		CurrentServerID: NoServerID,
	}, nil
}

// insertAccount writes the whole account row at once; ErrEmailTaken when the email is in use.
func (s *UserService) insertAccount(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrEmailTaken
		}
		err := tx.Create(user).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	})
}

// Authenticate checks credentials without revealing which half was wrong.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, storeError("find user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return &user, nil
}

// Get loads one user.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, storeError("get user", err)
	}
	return &user, nil
}

// List returns all users in creation order.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// SetWorking clocks a server in at a restaurant, or out.
func (s *UserService) SetWorking(ctx context.Context, userID uint, restaurantAddress string, working bool) (*models.User, error) {
	if working && strings.TrimSpace(restaurantAddress) == "" {
		return nil, validationError("restaurant_address is required to start working")
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if !user.IsServer {
			return ErrNotAServer
		}

		changes := map[string]interface{}{"is_working": working}
		if working {
			changes["working_restaurant"] = restaurantAddress
		}
		if err := tx.Model(&user).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&user, userID).Error
	})
	if err != nil {
		return nil, storeError("set working", err)
	}

	utils.InfoLogger.Printf("Server %d working=%t at %q", user.ID, user.IsWorking, user.WorkingRestaurant)
	return &user, nil
}

// CreateDemoServer registers the demo server already clocked in at the demo
// restaurant. The account is written in one insert, so it never exists as a
// plain customer.
func (s *UserService) CreateDemoServer(ctx context.Context) (*models.User, error) {
	user, err := newAccount(RegisterInput{
		FirstName: DemoServerFirstName,
		LastName:  DemoServerLastName,
		Email:     DemoServerEmail,
		Password:  DemoServerPassword,
	})
	if err != nil {
		return nil, err
	}
	user.IsServer = true
	user.IsWorking = true
	user.WorkingRestaurant = DemoServerRestaurant

	if err := s.insertAccount(ctx, user); err != nil {
		return nil, storeError("create demo server", err)
	}

	utils.InfoLogger.Printf("Demo server created: %s (id=%d)", user.Email, user.ID)
	return user, nil
}
