package ledger

import (
	"fmt"
	"strings"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
)

// ErrNoRecipients rejects a transaction with an empty recipient set
var ErrNoRecipients = shared.NewDomainError("NO_RECIPIENTS",
	"transaction requires at least one recipient")

// NewSenderNotFoundError indicates the sending user does not exist
func NewSenderNotFoundError(id valueobject.UserID) *shared.DomainError {
	return shared.NewDomainError("SENDER_NOT_FOUND",
		fmt.Sprintf("sender %s not found", id))
}

// NewTransactionNotFoundError indicates the transaction does not exist
func NewTransactionNotFoundError(id valueobject.TransactionID) *shared.DomainError {
	return shared.NewDomainError("TRANSACTION_NOT_FOUND",
		fmt.Sprintf("transaction %s not found", id))
}

// NewRecipientsNotFoundError names every recipient that does not exist
func NewRecipientsNotFoundError(missing []valueobject.UserID) *shared.DomainError {
	return shared.NewDomainError("RECIPIENTS_NOT_FOUND",
		fmt.Sprintf("recipients not found: %s", joinIDs(missing)))
}

// NewSendingToNonFriendsError names every recipient the sender is not
// friends with. Carrying the full offending set keeps one failed request
// from turning into a fix-one-retry loop.
func NewSendingToNonFriendsError(senderID valueobject.UserID, strangers []valueobject.UserID) *shared.DomainError {
	return shared.NewDomainError("SENDING_TO_NON_FRIENDS",
		fmt.Sprintf("user %s is not friends with: %s", senderID, joinIDs(strangers)))
}

func joinIDs(ids []valueobject.UserID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
