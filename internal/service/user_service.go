package service

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/ademaro/linka/internal/entity"
	"github.com/ademaro/linka/internal/repository"
	"github.com/ademaro/linka/pkg/errcode"
)

// UserService handles user-related business logic
type UserService struct {
	userRepo *repository.UserRepo
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repository.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUserInfo gets user info by id
func (s *UserService) GetUserInfo(ctx context.Context, userId int64) (*entity.UserInfo, error) {
	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxDebug(ctx, "get user failed: user_id=%d, error=%v", userId, err)
		return nil, errcode.ErrUserNotFound
	}
	return user.ToUserInfo(), nil
}

// ListUsers lists every user except the requester, with presence fields,
// ordered by username.
func (s *UserService) ListUsers(ctx context.Context, requesterId int64) ([]*entity.UserInfo, error) {
	users, err := s.userRepo.ListOthers(ctx, requesterId)
	if err != nil {
		log.CtxError(ctx, "list users failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	infos := make([]*entity.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, user.ToUserInfo())
	}
	return infos, nil
}

// UpdateUserRequest represents user update request
type UpdateUserRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// UpdateUserInfo updates profile fields
func (s *UserService) UpdateUserInfo(ctx context.Context, userId int64, req *UpdateUserRequest) (*entity.UserInfo, error) {
	exists, err := s.userRepo.Exists(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "check user exists failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !exists {
		return nil, errcode.ErrUserNotFound
	}

	updates := make(map[string]interface{})
	if req.DisplayName != "" {
		updates["display_name"] = req.DisplayName
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}

	if len(updates) > 0 {
		if err := s.userRepo.UpdateProfile(ctx, userId, updates); err != nil {
			log.CtxError(ctx, "update user failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
	}

	return s.GetUserInfo(ctx, userId)
}
