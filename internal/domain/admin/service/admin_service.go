package service

import (
	"errors"
	"strings"
	"time"

	"senpai_store/internal/domain/admin/model"
	"senpai_store/internal/domain/admin/repository"
	"senpai_store/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers unknown email, deactivated account, and wrong
// password alike: login failures are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminService authenticates dashboard operators and serves their stats.
type AdminService interface {
	Login(email, password string) (*model.Admin, string, *time.Time, error)
	Verify(adminID string) (*model.Admin, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type adminService struct {
	repo  repository.AdminRepository
	stats repository.StatsRepository
}

func NewAdminService(repo repository.AdminRepository, stats repository.StatsRepository) AdminService {
	return &adminService{repo: repo, stats: stats}
}

// Login checks credentials and issues the session token for the cookie.
func (s *adminService) Login(email, password string) (*model.Admin, string, *time.Time, error) {
	admin, err := s.repo.GetByEmail(strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", nil, ErrInvalidCredentials
		}
		return nil, "", nil, err
	}

	if !admin.IsActive {
		return nil, "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, "", nil, ErrInvalidCredentials
	}

	token, expireAt, err := utils.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return nil, "", nil, err
	}

	return admin, token, expireAt, nil
}

// Verify confirms the admin behind a valid token still exists and is active.
func (s *adminService) Verify(adminID string) (*model.Admin, error) {
	admin, err := s.repo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

func (s *adminService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.stats.GetDashboardStats()
}
