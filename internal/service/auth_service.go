package service

import (
	"context"
	"time"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository"
)

type authService struct {
	userRepo repository.UserRepository
	logger   *logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, logger *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *authService) GetOrCreateUser(ctx context.Context, googleID, email, name string) (*model.User, error) {
	user, err := s.userRepo.FindByGoogleID(ctx, googleID)
	if err == nil {
		// Keep the profile fresh on every sign-in
		user.Email = email
		user.Name = name
		user.UpdatedAt = time.Now()
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to update user on sign-in:", err)
			return nil, err
		}
		return user, nil
	}

	user = model.NewUser(googleID, email, name)
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user:", err)
		return nil, err
	}
	s.logger.Info("Created user:", user.ID)
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID, name, title, company, about, skills string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	user.Title = title
	user.Company = company
	user.About = about
	user.Skills = skills
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile:", err)
		return nil, err
	}
	s.logger.Info("Updated profile:", user.ID)
	return user, nil
}
