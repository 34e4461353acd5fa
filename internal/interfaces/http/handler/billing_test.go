package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appbilling "github.com/subhub/backend/internal/application/billing"
	"github.com/subhub/backend/internal/domain/billing"
	"github.com/subhub/backend/internal/domain/shared"
	"github.com/subhub/backend/internal/infrastructure/persistence/memstore"
	"github.com/subhub/backend/internal/interfaces/http/middleware"
	"github.com/subhub/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const testOwner = billing.AccountID("owner")

type testEnv struct {
	engine *gin.Engine
	store  *memstore.Store
	clock  *shared.FixedClock
}

// asAccount injects the authenticated account id the way the JWT middleware
// would, without minting tokens in every test.
func asAccount(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("X-Test-Account"); header != "" {
			c.Set(middleware.JWTAccountIDKey, header)
		} else {
			c.Set(middleware.JWTAccountIDKey, id)
		}
		c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	store := memstore.New()
	clock := &shared.FixedClock{T: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	logger := zap.NewNop()

	planSvc := appbilling.NewPlanService(store, clock, testOwner, nil, logger)
	subSvc := appbilling.NewSubscriptionService(store, clock, logger)
	adminSvc := appbilling.NewAdminService(store, clock, testOwner, logger)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(asAccount("subscriber-1"))

	r := router.NewRouter(engine)
	r.Register(NewPlanHandler(planSvc))
	r.Register(NewSubscriptionHandler(subSvc))
	r.Register(NewAdminHandler(adminSvc))
	r.Register(NewSystemHandler(nil))
	r.Setup()

	return &testEnv{engine: engine, store: store, clock: clock}
}

func (e *testEnv) do(t *testing.T, method, path, account string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if account != "" {
		req.Header.Set("X-Test-Account", account)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	code, _ := errObj["code"].(float64)
	return int(code)
}

func (e *testEnv) createPlan(t *testing.T, price int64) int64 {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/billing/plans", "owner", gin.H{
		"name":            "premium",
		"price_per_month": price,
		"max_users":       5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]any)
	return int64(data["plan_id"].(float64))
}

func TestPlanEndpoints(t *testing.T) {
	t.Run("owner creates plan, ids are sequential", func(t *testing.T) {
		env := newTestEnv(t)
		assert.Equal(t, int64(1), env.createPlan(t, 1500))
		assert.Equal(t, int64(2), env.createPlan(t, 2500))
	})

	t.Run("non-owner rejected with 403 and code 100", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/v1/billing/plans", "intruder", gin.H{
			"name":            "premium",
			"price_per_month": 1500,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, billing.CodeNotAuthorized, errorCode(t, w))
	})

	t.Run("get plan round trip", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.createPlan(t, 1500)

		w := env.do(t, http.MethodGet, "/api/v1/billing/plans/1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, float64(id), data["id"])
		assert.Equal(t, "premium", data["name"])
		assert.Equal(t, float64(1500), data["price_per_month"])
		assert.Equal(t, true, data["active"])
	})

	t.Run("missing plan is 404 with code 105", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodGet, "/api/v1/billing/plans/42", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, billing.CodePlanNotFound, errorCode(t, w))
	})

	t.Run("zero price is 400 with code 107", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/api/v1/billing/plans", "owner", gin.H{
			"name":            "free",
			"price_per_month": 0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, billing.CodeInvalidAmount, errorCode(t, w))
	})
}

func TestSubscriptionEndpoints(t *testing.T) {
	t.Run("subscribe returns end date and amount", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", gin.H{
			"plan_id":         1,
			"duration_months": 1,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, true, data["created"])
		assert.Equal(t, float64(1000), data["amount_paid"])

		endDate, err := time.Parse(time.RFC3339, data["end_date"].(string))
		require.NoError(t, err)
		assert.Equal(t, env.clock.T.Add(billing.MonthDuration), endDate.UTC())
	})

	t.Run("second subscribe is 409 with code 106", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		body := gin.H{"plan_id": 1, "duration_months": 1}
		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", body)
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", body)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, billing.CodeAlreadySubscribed, errorCode(t, w))
	})

	t.Run("below minimum amount is 402 with code 104", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 500)

		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", gin.H{
			"plan_id":         1,
			"duration_months": 1,
		})
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Equal(t, billing.CodeInsufficientPayment, errorCode(t, w))
	})

	t.Run("zero duration is 402 with code 104", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", gin.H{
			"plan_id":         1,
			"duration_months": 0,
		})
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Equal(t, billing.CodeInsufficientPayment, errorCode(t, w))
	})

	t.Run("plan id zero is 404 with code 105", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", gin.H{
			"plan_id":         0,
			"duration_months": 1,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, billing.CodePlanNotFound, errorCode(t, w))
	})

	t.Run("renew extends from previous end date", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)
		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", gin.H{
			"plan_id":         1,
			"duration_months": 1,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodPost, "/api/v1/billing/subscriptions/renew", "subscriber-1", gin.H{
			"duration_months": 2,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeBody(t, w)["data"].(map[string]any)
		newEnd, err := time.Parse(time.RFC3339, data["new_end_date"].(string))
		require.NoError(t, err)
		assert.Equal(t, env.clock.T.Add(3*billing.MonthDuration), newEnd.UTC())
	})

	t.Run("renew with zero duration is 402 with code 104", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)
		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", gin.H{
			"plan_id":         1,
			"duration_months": 1,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodPost, "/api/v1/billing/subscriptions/renew", "subscriber-1", gin.H{
			"duration_months": 0,
		})
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Equal(t, billing.CodeInsufficientPayment, errorCode(t, w))
	})

	t.Run("renew without subscription is 404 with code 102", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions/renew", "subscriber-1", gin.H{
			"duration_months": 1,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, billing.CodeSubscriptionNotFound, errorCode(t, w))
	})

	t.Run("access check for bundled and unknown services", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)
		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", gin.H{
			"plan_id":         1,
			"duration_months": 1,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodGet, "/api/v1/billing/access/streaming", "subscriber-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, true, data["has_access"])

		w = env.do(t, http.MethodGet, "/api/v1/billing/access/nonexistent-service", "subscriber-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data = decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, false, data["has_access"])
	})

	t.Run("access check without subscription is 404", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodGet, "/api/v1/billing/access/streaming", "nobody", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, billing.CodeSubscriptionNotFound, errorCode(t, w))
	})

	t.Run("payment lookup", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)
		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", gin.H{
			"plan_id":         1,
			"duration_months": 2,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodGet, "/api/v1/billing/payments/1", "subscriber-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, "subscriber-1", data["subscriber"])
		assert.Equal(t, float64(2000), data["amount"])
		assert.Equal(t, "initial", data["type"])

		w = env.do(t, http.MethodGet, "/api/v1/billing/payments/99", "subscriber-1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminEndpoints(t *testing.T) {
	t.Run("bulk dispatch requires owner", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		w := env.do(t, http.MethodPost, "/api/v1/admin/bulk", "intruder", gin.H{
			"operation":       "bulk-subscribe",
			"subscribers":     []string{"a"},
			"plan_id":         1,
			"duration_months": 1,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, billing.CodeNotAuthorized, errorCode(t, w))
	})

	t.Run("bulk subscribe reports aggregates", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		w := env.do(t, http.MethodPost, "/api/v1/admin/bulk", "owner", gin.H{
			"operation":       "bulk-subscribe",
			"subscribers":     []string{"a", "b", "c"},
			"plan_id":         1,
			"duration_months": 1,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, "bulk-subscribe", data["operation"])
		assert.Equal(t, float64(3), data["processed_count"])
		assert.Equal(t, float64(3000), data["total_revenue_added"])
		assert.Equal(t, float64(3000), data["total_revenue"])
		assert.Equal(t, float64(3), data["total_subscribers"])
	})

	t.Run("unknown operation becomes analytics report", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		w := env.do(t, http.MethodPost, "/api/v1/admin/bulk", "owner", gin.H{
			"operation":       "bulk-destroy",
			"subscribers":     []string{"a"},
			"plan_id":         1,
			"duration_months": 1,
		})
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, "analytics-report", data["operation"])
		assert.Equal(t, float64(0), data["total_revenue"])
	})

	t.Run("grant access with zero duration succeeds", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		w := env.do(t, http.MethodPost, "/api/v1/admin/bulk", "owner", gin.H{
			"operation":       "bulk-grant-access",
			"subscribers":     []string{"a"},
			"plan_id":         1,
			"duration_months": 0,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, float64(1), data["access_grants_processed"])
	})

	t.Run("empty subscriber list is 400 with code 107", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1000)

		w := env.do(t, http.MethodPost, "/api/v1/admin/bulk", "owner", gin.H{
			"operation":       "bulk-subscribe",
			"subscribers":     []string{},
			"plan_id":         1,
			"duration_months": 1,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, billing.CodeInvalidAmount, errorCode(t, w))
	})

	t.Run("stats include major unit revenue", func(t *testing.T) {
		env := newTestEnv(t)
		env.createPlan(t, 1234)
		w := env.do(t, http.MethodPost, "/api/v1/billing/subscriptions", "subscriber-1", gin.H{
			"plan_id":         1,
			"duration_months": 1,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodGet, "/api/v1/admin/stats", "owner", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, float64(1234), data["total_revenue"])
		assert.Equal(t, "12.34", data["total_revenue_major"])
		assert.Equal(t, float64(1), data["active_subscribers"])
	})
}

func TestSystemEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/system/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])

	w = env.do(t, http.MethodGet, "/api/v1/system/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "pong", data["message"])
}
