package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/bikeghor/server/internal/checkout"
	"github.com/bikeghor/server/internal/middleware/auth"
	"github.com/bikeghor/server/internal/models"
	"github.com/bikeghor/server/internal/payment"
	"github.com/bikeghor/server/internal/store"
	"github.com/bikeghor/server/internal/token"
)

// stubIntents satisfies payment.IntentCreator without a gateway.
type stubIntents struct {
	lastAmount   int64
	lastCurrency string
}

func (s *stubIntents) CreateIntent(ctx context.Context, amount int64, currency string) (*payment.Intent, error) {
	s.lastAmount = amount
	s.lastCurrency = currency
	id := "pi_" + uuid.NewString()
	return &payment.Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

// recordingPublisher captures events instead of writing to kafka.
type recordingPublisher struct {
	mu     sync.Mutex
	events []map[string]any
}

func (r *recordingPublisher) Publish(ctx context.Context, key string, event map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	Store     *store.Memory
	Tokens    *token.Service
	Guard     *auth.Guard
	Users     *UserHandler
	Products  *ProductHandler
	Advertise *AdvertiseHandler
	Wishlist  *WishlistHandler
	Orders    *OrderHandler
	Payments  *PaymentHandler
	Intents   *stubIntents
	Published *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	s := store.NewMemory()
	tokens := token.NewService([]byte("test_secret"))
	pub := &recordingPublisher{}
	intents := &stubIntents{}

	return &testEnv{
		T:         t,
		E:         echo.New(),
		Store:     s,
		Tokens:    tokens,
		Guard:     auth.NewGuard(tokens, s),
		Users:     &UserHandler{Store: s, Tokens: tokens, Events: pub},
		Products:  &ProductHandler{Store: s, Events: pub},
		Advertise: &AdvertiseHandler{Store: s},
		Wishlist:  &WishlistHandler{Store: s},
		Orders:    &OrderHandler{Store: s},
		Payments:  &PaymentHandler{Intents: intents, Checkout: checkout.NewOrchestrator(s), Events: pub},
		Intents:   intents,
		Published: pub,
	}
}

func (env *testEnv) seedUser(email string, role models.Role) models.User {
	u := models.User{Email: email, Role: role}
	id, err := env.Store.Users().InsertOne(context.Background(), u)
	require.NoError(env.T, err)
	u.ID = id
	return u
}

func (env *testEnv) bearer(email string) string {
	raw, err := env.Tokens.Issue(email)
	require.NoError(env.T, err)
	return "Bearer " + raw
}

// doJSONRequest builds an echo context the way the handlers will see it;
// the token email, when given, is attached the same way RequireToken does.
func (env *testEnv) doJSONRequest(method, path string, body any, tokenEmail string) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tokenEmail != "" {
		req.Header.Set(echo.HeaderAuthorization, env.bearer(tokenEmail))
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if tokenEmail != "" {
		c.Set(auth.CtxEmail, tokenEmail)
	}
	return rec, c
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
