package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	ledgerapp "github.com/split/backend/internal/application/ledger"
	userapp "github.com/split/backend/internal/application/user"
	"github.com/split/backend/internal/infrastructure/persistence/models"
	"github.com/split/backend/internal/interfaces/http/dto"
	"github.com/split/backend/internal/interfaces/http/middleware"
	"github.com/split/backend/internal/interfaces/http/router"

	"github.com/split/backend/internal/infrastructure/persistence"
)

// newTestServer wires the full HTTP stack against an in-memory sqlite
// database, mirroring the production wiring minus the outbox.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.FriendshipModel{},
		&models.AuthKeyModel{},
		&models.TransactionModel{},
		&models.TransactionRecipientModel{},
	))

	log := zap.NewNop()
	userRepo := persistence.NewGormUserRepository(db)
	txRepo := persistence.NewGormTransactionRepository(db)
	relRepo := persistence.NewGormRelationshipRepository(db)

	userService := userapp.NewUserService(userRepo, relRepo, log)
	txService := ledgerapp.NewTransactionService(txRepo, userRepo, log)

	middleware.SetupValidator()

	engine := gin.New()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(NewUserHandler(userService)).
		Register(NewTransactionHandler(txService))
	r.Setup()

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func createTestUser(t *testing.T, engine *gin.Engine, id, name string, phoneSuffix int) {
	t.Helper()

	w := doJSON(t, engine, "POST", "/api/v1/users", map[string]any{
		"id":           id,
		"display_name": name,
		"phone_number": fmt.Sprintf("+4670000%04d", phoneSuffix),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func befriend(t *testing.T, engine *gin.Engine, userID, friendID string) {
	t.Helper()

	w := doJSON(t, engine, "POST", "/api/v1/users/"+userID+"/friendships", map[string]any{
		"friend_id": friendID,
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}

func TestUserLifecycle(t *testing.T) {
	engine := newTestServer(t)

	createTestUser(t, engine, "alice", "Alice", 1)

	w := doJSON(t, engine, "GET", "/api/v1/users/alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	w = doJSON(t, engine, "DELETE", "/api/v1/users/alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, "GET", "/api/v1/users/alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUser_NotFound(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, "GET", "/api/v1/users/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestCreateUser_DuplicatePhoneConflicts(t *testing.T) {
	engine := newTestServer(t)

	createTestUser(t, engine, "alice", "Alice", 1)

	w := doJSON(t, engine, "POST", "/api/v1/users", map[string]any{
		"id":           "bob",
		"display_name": "Bob",
		"phone_number": "+46700000001",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PHONE_NUMBER_IN_USE", resp.Error.Code)
}

func TestCreateUser_IdenticalRetryIsIdempotent(t *testing.T) {
	engine := newTestServer(t)

	body := map[string]any{
		"id":           "alice",
		"display_name": "Alice",
		"phone_number": "+46700000001",
	}
	w := doJSON(t, engine, "POST", "/api/v1/users", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, engine, "POST", "/api/v1/users", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestFriendshipFlow(t *testing.T) {
	engine := newTestServer(t)

	createTestUser(t, engine, "alice", "Alice", 1)
	createTestUser(t, engine, "bob", "Bob", 2)
	befriend(t, engine, "alice", "bob")

	w := doJSON(t, engine, "GET", "/api/v1/users/alice/friends", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Data    []userapp.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "bob", resp.Data[0].ID)

	// Friendship is symmetric
	w = doJSON(t, engine, "GET", "/api/v1/users/bob/friends", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "alice", resp.Data[0].ID)

	w = doJSON(t, engine, "DELETE", "/api/v1/users/alice/friendships/bob", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, "GET", "/api/v1/users/alice/friends", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestCreateFriendship_WithSelfRejected(t *testing.T) {
	engine := newTestServer(t)

	createTestUser(t, engine, "alice", "Alice", 1)

	w := doJSON(t, engine, "POST", "/api/v1/users/alice/friendships", map[string]any{
		"friend_id": "alice",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "AUTO_FRIENDSHIP", resp.Error.Code)
}

func TestCreateTransaction_RequiresFriendship(t *testing.T) {
	engine := newTestServer(t)

	createTestUser(t, engine, "alice", "Alice", 1)
	createTestUser(t, engine, "bob", "Bob", 2)

	w := doJSON(t, engine, "POST", "/api/v1/users/alice/transactions", map[string]any{
		"description":   "dinner",
		"amount":        "100.00",
		"currency":      "SEK",
		"recipient_ids": []string{"bob"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SENDING_TO_NON_FRIENDS", resp.Error.Code)
}

func TestTransactionAndBalances(t *testing.T) {
	engine := newTestServer(t)

	createTestUser(t, engine, "alice", "Alice", 1)
	createTestUser(t, engine, "bob", "Bob", 2)
	befriend(t, engine, "alice", "bob")

	w := doJSON(t, engine, "POST", "/api/v1/users/alice/transactions", map[string]any{
		"description":   "dinner",
		"amount":        "100.00",
		"currency":      "SEK",
		"recipient_ids": []string{"bob"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data ledgerapp.TransactionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.Data.SenderID)
	assert.Equal(t, []string{"bob"}, created.Data.RecipientIDs)

	// Bob owes Alice the full amount
	w = doJSON(t, engine, "GET", "/api/v1/users/alice/balances", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var balances struct {
		Data []ledgerapp.BalanceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balances))
	require.Len(t, balances.Data, 1)
	assert.Equal(t, "bob", balances.Data[0].From)
	assert.Equal(t, "alice", balances.Data[0].To)
	assert.Equal(t, "SEK", balances.Data[0].Currency)

	// Both sides see the transaction
	w = doJSON(t, engine, "GET", "/api/v1/users/bob/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Data []ledgerapp.TransactionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 1)

	// Removing the transaction clears the balance
	w = doJSON(t, engine, "DELETE", "/api/v1/transactions/"+created.Data.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, "GET", "/api/v1/users/alice/balances", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balances))
	assert.Empty(t, balances.Data)
}

func TestAuthKeyFlow(t *testing.T) {
	engine := newTestServer(t)

	createTestUser(t, engine, "alice", "Alice", 1)

	w := doJSON(t, engine, "POST", "/api/v1/users/alice/auth-keys", map[string]any{
		"auth_key_id": "key-1",
		"public_key":  []byte("public-key-bytes"),
		"sign_count":  3,
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// The counter must advance by exactly one
	w = doJSON(t, engine, "PUT", "/api/v1/users/alice/auth-keys/sign-count", map[string]any{
		"auth_key_id": "key-1",
		"sign_count":  10,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SIGN_COUNT_VIOLATION", resp.Error.Code)

	w = doJSON(t, engine, "PUT", "/api/v1/users/alice/auth-keys/sign-count", map[string]any{
		"auth_key_id": "key-1",
		"sign_count":  4,
	})
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = doJSON(t, engine, "GET", "/api/v1/users/alice/auth-keys", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var keys struct {
		Data []userapp.AuthKeyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &keys))
	require.Len(t, keys.Data, 1)
	assert.Equal(t, uint32(4), keys.Data[0].SignCount)
}
