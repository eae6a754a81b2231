package user

import (
	"context"
	"errors"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
	"github.com/split/backend/internal/domain/user"
)

// UserService handles user, friendship and credential operations
type UserService struct {
	userRepo user.Repository
	relRepo  user.RelationshipRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(userRepo user.Repository, relRepo user.RelationshipRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		relRepo:  relRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Create creates a new user. Repeating a create with identical attributes
// returns the existing user unchanged; a create that collides on id with
// different attributes or reuses another user's phone number fails.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	id, err := valueobject.NewUserID(req.ID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	phone, err := valueobject.NewPhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PHONE_NUMBER", err.Error())
	}

	existing, err := s.userRepo.FindByIDIncludingRemoved(ctx, id)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if !existing.IsRemoved() && existing.HasSameContent(req.DisplayName, phone) {
			resp := ToUserResponse(existing)
			return &resp, nil
		}
		return nil, user.NewUserAlreadyExistsError(id)
	}

	owner, err := s.userRepo.FindByPhoneNumber(ctx, phone)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if owner != nil {
		return nil, user.NewPhoneNumberInUseError(phone)
	}

	u, err := user.NewUser(id, req.DisplayName, phone, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	resp := ToUserResponse(u)
	return &resp, nil
}

// GetByID retrieves an active user by id
func (s *UserService) GetByID(ctx context.Context, rawID string) (*UserResponse, error) {
	id, err := valueobject.NewUserID(rawID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// GetByPhoneNumber retrieves an active user by phone number
func (s *UserService) GetByPhoneNumber(ctx context.Context, rawPhone string) (*UserResponse, error) {
	phone, err := valueobject.NewPhoneNumber(rawPhone)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PHONE_NUMBER", err.Error())
	}
	u, err := s.userRepo.FindByPhoneNumber(ctx, phone)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// Remove soft deletes a user. Removing an absent or already removed user
// is a no-op.
func (s *UserService) Remove(ctx context.Context, rawID string) error {
	id, err := valueobject.NewUserID(rawID)
	if err != nil {
		return shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	u, err := s.userRepo.FindByIDIncludingRemoved(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	u.Remove(s.now())
	return s.userRepo.Save(ctx, u)
}

// CreateFriendship establishes a friendship between two users. Both users
// must exist. The two sides live on separate aggregates and are saved
// sequentially; if the second save fails the graph is left asymmetric
// until a retry heals it.
func (s *UserService) CreateFriendship(ctx context.Context, rawUserID, rawFriendID string) error {
	a, b, err := s.loadPair(ctx, rawUserID, rawFriendID)
	if err != nil {
		return err
	}
	if err := a.CreateFriendship(b, s.now()); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, a); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, b); err != nil {
		s.logger.Error("friendship saved on one side only",
			zap.String("user_id", a.ID().String()),
			zap.String("friend_id", b.ID().String()),
			zap.Error(err))
		return err
	}
	return nil
}

// RemoveFriendship revokes a friendship between two users. It never fails
// on missing state: an absent user or friendship makes it a no-op.
func (s *UserService) RemoveFriendship(ctx context.Context, rawUserID, rawFriendID string) error {
	a, b, err := s.loadPair(ctx, rawUserID, rawFriendID)
	if err != nil {
		var derr *shared.DomainError
		if errors.As(err, &derr) && derr.Code == "USER_NOT_FOUND" {
			return nil
		}
		return err
	}
	a.RemoveFriendship(b, s.now())
	if err := s.userRepo.Save(ctx, a); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, b); err != nil {
		s.logger.Error("friendship removal saved on one side only",
			zap.String("user_id", a.ID().String()),
			zap.String("friend_id", b.ID().String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *UserService) loadPair(ctx context.Context, rawUserID, rawFriendID string) (*user.User, *user.User, error) {
	userID, err := valueobject.NewUserID(rawUserID)
	if err != nil {
		return nil, nil, shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	friendID, err := valueobject.NewUserID(rawFriendID)
	if err != nil {
		return nil, nil, shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	a, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil, user.NewUserNotFoundError(userID)
	}
	if err != nil {
		return nil, nil, err
	}
	b, err := s.userRepo.FindByID(ctx, friendID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil, user.NewUserNotFoundError(friendID)
	}
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// GetFriends lazily yields the user's active friends. A friendship edge
// whose target cannot be resolved is logged and skipped, never surfaced
// as an error.
func (s *UserService) GetFriends(ctx context.Context, rawID string) iter.Seq2[UserResponse, error] {
	return func(yield func(UserResponse, error) bool) {
		id, err := valueobject.NewUserID(rawID)
		if err != nil {
			yield(UserResponse{}, shared.NewDomainError("INVALID_USER_ID", err.Error()))
			return
		}
		u, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			yield(UserResponse{}, err)
			return
		}
		for _, f := range u.Friendships() {
			friend, err := s.userRepo.FindByID(ctx, f.FriendID())
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("skipping unresolvable friend",
					zap.String("user_id", id.String()),
					zap.String("friend_id", f.FriendID().String()))
				continue
			}
			if err != nil {
				yield(UserResponse{}, err)
				return
			}
			if !yield(ToUserResponse(friend), nil) {
				return
			}
		}
	}
}

// GetRelatedUsers lazily yields the users this user has transacted with,
// most recent interaction first.
func (s *UserService) GetRelatedUsers(ctx context.Context, rawID string) iter.Seq2[UserResponse, error] {
	return func(yield func(UserResponse, error) bool) {
		id, err := valueobject.NewUserID(rawID)
		if err != nil {
			yield(UserResponse{}, shared.NewDomainError("INVALID_USER_ID", err.Error()))
			return
		}
		for related, err := range s.relRepo.StreamRelatedUsers(ctx, id) {
			if err != nil {
				yield(UserResponse{}, err)
				return
			}
			if !yield(ToUserResponse(related), nil) {
				return
			}
		}
	}
}

// RegisterAuthKey attaches a new credential to a user
func (s *UserService) RegisterAuthKey(ctx context.Context, rawID string, req RegisterAuthKeyRequest) error {
	id, err := valueobject.NewUserID(rawID)
	if err != nil {
		return shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	keyID, err := valueobject.NewAuthKeyID(req.AuthKeyID)
	if err != nil {
		return shared.NewDomainError("INVALID_AUTH_KEY_ID", err.Error())
	}
	u, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return user.NewUserNotFoundError(id)
	}
	if err != nil {
		return err
	}
	if err := u.RegisterAuthKey(keyID, req.PublicKey, req.SignCount, s.now()); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, u)
}

// IncreaseSignCount advances a credential's sign counter after a
// successful authentication. The counter must advance by exactly one.
func (s *UserService) IncreaseSignCount(ctx context.Context, rawID string, req IncreaseSignCountRequest) error {
	id, err := valueobject.NewUserID(rawID)
	if err != nil {
		return shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	keyID, err := valueobject.NewAuthKeyID(req.AuthKeyID)
	if err != nil {
		return shared.NewDomainError("INVALID_AUTH_KEY_ID", err.Error())
	}
	u, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return user.NewUserNotFoundError(id)
	}
	if err != nil {
		return err
	}
	if err := u.IncreaseSignCount(keyID, req.SignCount); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, u)
}

// ListAuthKeys returns the user's registered credentials
func (s *UserService) ListAuthKeys(ctx context.Context, rawID string) ([]AuthKeyResponse, error) {
	id, err := valueobject.NewUserID(rawID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToAuthKeyResponses(u.AuthKeys()), nil
}
