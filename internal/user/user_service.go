package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-campus/internal/domain"
	"go-campus/internal/events"
	"go-campus/internal/messaging/kafka"
	"go-campus/internal/shared/apperror"
	"go-campus/internal/shared/contextutil"
	usererrors "go-campus/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, filter ListUsersFilter, page, pageSize int) ([]UserResponse, int64, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	ListActiveByScope(ctx context.Context, userType, department string) ([]UserResponse, error)
	ToggleStatus(ctx context.Context, id string, isActive bool) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create user requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("user_type", req.UserType),
		zap.String("department", req.Department),
	)

	if !domain.ValidUserType(req.UserType) {
		return UserResponse{}, usererrors.ErrInvalidUserType
	}
	role := req.Role
	if role == "" {
		role = defaultRole(req.UserType)
	}
	if !domain.ValidRole(role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create user begin tx failed", zap.Error(err))
		return UserResponse{}, apperror.MapPersistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("create user email check failed", zap.Error(err))
		return UserResponse{}, apperror.MapPersistence(err)
	}
	if exists {
		return UserResponse{}, usererrors.ErrUserAlreadyExists
	}

	u := &User{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		UserType:   req.UserType,
		Role:       role,
		Department: strings.ToUpper(strings.TrimSpace(req.Department)),
		IsActive:   true,
	}

	if err := qtx.Create(ctx, u); err != nil {
		if apperror.IsUniqueViolation(err, "uq_users_email") {
			return UserResponse{}, usererrors.ErrUserAlreadyExists
		}
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, apperror.MapPersistence(err)
	}

	if s.outbox != nil {
		event, err := kafka.NewEvent(rid, "user", u.ID.String(), events.UserCreatedEventType, events.UserLifecycleTopic,
			events.UserCreatedEvent{
				EventType:  events.UserCreatedEventType,
				RequestID:  rid,
				UserID:     u.ID.String(),
				UserType:   u.UserType,
				Department: u.Department,
				OccurredAt: time.Now().UTC(),
			})
		if err != nil {
			return UserResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("create user outbox persist failed",
				zap.String("user_id", u.ID.String()),
				zap.Error(err),
			)
			return UserResponse{}, apperror.MapPersistence(err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create user commit failed", zap.Error(err))
		return UserResponse{}, apperror.MapPersistence(err)
	}

	s.logger.Info("create user success",
		zap.String("request_id", rid),
		zap.String("user_id", u.ID.String()),
	)
	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context, filter ListUsersFilter, page, pageSize int) ([]UserResponse, int64, error) {
	users, total, err := s.repo.FindAll(ctx, filter, page, pageSize)
	if err != nil {
		s.logger.Error("get all users failed", zap.Error(err))
		return nil, 0, apperror.MapPersistence(err)
	}
	return mapToListResponse(users), total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, apperror.MapPersistence(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) ListActiveByScope(ctx context.Context, userType, department string) ([]UserResponse, error) {
	users, err := s.repo.FindActiveByScope(ctx, userType, department)
	if err != nil {
		return nil, apperror.MapPersistence(err)
	}
	return mapToListResponse(users), nil
}

func (s *service) ToggleStatus(ctx context.Context, id string, isActive bool) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	affected, err := s.repo.UpdateStatus(ctx, id, isActive)
	if err != nil {
		l.Error("update user status failed", zap.String("user_id", id), zap.Error(err))
		return apperror.MapPersistence(err)
	}
	if affected == 0 {
		return usererrors.ErrUserNotFound
	}

	l.Info("user status updated", zap.String("user_id", id), zap.Bool("is_active", isActive))
	return nil
}

func defaultRole(userType string) string {
	switch userType {
	case domain.UserTypeTeacher:
		return domain.RoleTeacher
	case domain.UserTypeStaff:
		return domain.RoleStaff
	default:
		return domain.RoleStudent
	}
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		UserType:   u.UserType,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
