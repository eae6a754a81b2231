package ledger

import (
	"context"
	"errors"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/split/backend/internal/domain/ledger"
	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
	"github.com/split/backend/internal/domain/user"
)

// TransactionService handles ledger entries and balance queries
type TransactionService struct {
	txRepo   ledger.Repository
	userRepo user.Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(txRepo ledger.Repository, userRepo user.Repository, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		txRepo:   txRepo,
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Create records a shared expense. The sender must exist and every
// recipient must be the sender or an existing active friend of the
// sender; all offending recipients are reported at once.
func (s *TransactionService) Create(ctx context.Context, rawSenderID string, req CreateTransactionRequest) (*TransactionResponse, error) {
	senderID, err := valueobject.NewUserID(rawSenderID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	currency, err := valueobject.NewCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	amount, err := valueobject.NewMoneyFromString(req.Amount, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}
	if len(req.RecipientIDs) == 0 {
		return nil, ledger.ErrNoRecipients
	}
	recipientIDs := make([]valueobject.UserID, len(req.RecipientIDs))
	for i, raw := range req.RecipientIDs {
		id, err := valueobject.NewUserID(raw)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_USER_ID", err.Error())
		}
		recipientIDs[i] = id
	}

	sender, err := s.userRepo.FindByID(ctx, senderID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ledger.NewSenderNotFoundError(senderID)
	}
	if err != nil {
		return nil, err
	}

	found, err := s.userRepo.FindByIDs(ctx, recipientIDs)
	if err != nil {
		return nil, err
	}
	var missing []valueobject.UserID
	var strangers []valueobject.UserID
	for _, id := range recipientIDs {
		if id == senderID {
			continue
		}
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
			continue
		}
		if !sender.IsFriendOf(id) {
			strangers = append(strangers, id)
		}
	}
	if len(missing) > 0 {
		return nil, ledger.NewRecipientsNotFoundError(missing)
	}
	if len(strangers) > 0 {
		return nil, ledger.NewSendingToNonFriendsError(senderID, strangers)
	}

	t, err := ledger.NewTransaction(req.Description, amount, senderID, recipientIDs, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("transaction recorded",
		zap.String("transaction_id", t.ID().String()),
		zap.String("sender_id", senderID.String()),
		zap.String("amount", amount.String()))

	resp := ToTransactionResponse(t)
	return &resp, nil
}

// GetByID retrieves an active transaction by id
func (s *TransactionService) GetByID(ctx context.Context, rawID string) (*TransactionResponse, error) {
	id, err := valueobject.ParseTransactionID(rawID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_ID", err.Error())
	}
	t, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(t)
	return &resp, nil
}

// Remove soft deletes a transaction. Removing an absent or already
// removed transaction is a no-op.
func (s *TransactionService) Remove(ctx context.Context, rawID string) error {
	id, err := valueobject.ParseTransactionID(rawID)
	if err != nil {
		return shared.NewDomainError("INVALID_TRANSACTION_ID", err.Error())
	}
	t, err := s.txRepo.FindByIDIncludingRemoved(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	t.Remove(s.now())
	return s.txRepo.Save(ctx, t)
}

// ListInvolvingUser lazily yields the active transactions where the user
// is the sender or a recipient.
func (s *TransactionService) ListInvolvingUser(ctx context.Context, rawID string) iter.Seq2[TransactionResponse, error] {
	return func(yield func(TransactionResponse, error) bool) {
		id, err := valueobject.NewUserID(rawID)
		if err != nil {
			yield(TransactionResponse{}, shared.NewDomainError("INVALID_USER_ID", err.Error()))
			return
		}
		for t, err := range s.txRepo.StreamInvolvingUser(ctx, id) {
			if err != nil {
				yield(TransactionResponse{}, err)
				return
			}
			if !yield(ToTransactionResponse(t), nil) {
				return
			}
		}
	}
}

// GetBalances nets the user's transaction history into at most one
// balance per counterparty and currency. The history is streamed through
// the netting fold in a single pass.
func (s *TransactionService) GetBalances(ctx context.Context, rawID string) ([]BalanceResponse, error) {
	id, err := valueobject.NewUserID(rawID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", err.Error())
	}
	balances, err := ledger.NetBalances(id, s.txRepo.StreamInvolvingUser(ctx, id))
	if err != nil {
		return nil, err
	}
	return ToBalanceResponses(balances), nil
}
