package access_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/shared"
)

type stubResolver struct {
	principals map[string]access.Principal
}

func (r *stubResolver) Resolve(ctx context.Context, rawCredential string) (access.Principal, error) {
	p, ok := r.principals[rawCredential]
	if !ok {
		return access.Principal{}, shared.ErrUnauthenticated
	}
	return p, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	denials []access.Denial
}

func (a *recordingAudit) RecordDenial(ctx context.Context, d access.Denial) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.denials = append(a.denials, d)
}

func (a *recordingAudit) last() (access.Denial, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.denials) == 0 {
		return access.Denial{}, false
	}
	return a.denials[len(a.denials)-1], true
}

type pipelineFixture struct {
	router  *chi.Mux
	store   *stubTenantStore
	counter *stubCounter
	audit   *recordingAudit
}

func newPipeline(t *testing.T, principals map[string]access.Principal) *pipelineFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &stubTenantStore{records: map[string]access.TenantRecord{
		"tenant-a": {ID: "tenant-a", Name: "Iglesia A", IsActive: true, Plan: access.PlanFree},
		"tenant-b": {ID: "tenant-b", Name: "Iglesia B", IsActive: true, Plan: access.PlanFree},
	}}
	counter := &stubCounter{}
	audit := &recordingAudit{}

	guard := access.NewGuard(store, access.NewRedisStore(client), 5*time.Minute, time.Second, slog.Default())
	mw := access.Middleware{
		Resolver: &stubResolver{principals: principals},
		Guard:    guard,
		Engine:   access.NewEngine(access.DefaultMatrix(), access.DefaultHierarchy(), slog.Default(), false),
		Quota: access.NewEnforcer(access.DefaultLimits(), map[access.Resource]access.Counter{
			access.ResourcePersons: counter,
		}, time.Second),
		Audit:  audit,
		Logger: slog.Default(),
	}

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Use(mw.Authenticate)
		r.Use(mw.ResolveTenant)
		r.With(mw.Require(access.ResourcePersons, access.ActionCreate), mw.EnforceQuota(access.ResourcePersons)).
			Post("/persons", func(w http.ResponseWriter, r *http.Request) {
				var payload struct {
					TenantID string `json:"tenant_id"`
				}
				_ = json.NewDecoder(r.Body).Decode(&payload)
				tenantID, _ := access.TenantFromContext(r.Context())
				// The payload tenant is always overwritten with the
				// guard-resolved value before any downstream use.
				payload.TenantID = tenantID
				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(payload)
			})
		r.With(mw.RequireAtLeast(access.RolePastor)).
			Post("/tenant/deactivate", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
	})
	return &pipelineFixture{router: router, store: store, counter: counter, audit: audit}
}

func doJSON(t *testing.T, router http.Handler, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func problemCode(t *testing.T, res *httptest.ResponseRecorder) string {
	t.Helper()
	var problem struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &problem))
	return problem.Code
}

func TestPipelineRejectsMissingCredential(t *testing.T) {
	fx := newPipeline(t, nil)
	res := doJSON(t, fx.router, "", http.MethodPost, "/api/persons", "{}")
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Equal(t, shared.CodeUnauthenticated, problemCode(t, res))
}

func TestPipelineOverwritesSmuggledTenant(t *testing.T) {
	fx := newPipeline(t, map[string]access.Principal{
		"tok-admin": {ID: "u1", TenantID: "tenant-a", Role: access.RoleAdmin},
	})

	// The payload claims tenant-b; the effective tenant must be the one
	// the guard resolved from the verified principal.
	res := doJSON(t, fx.router, "tok-admin", http.MethodPost, "/api/persons", `{"tenant_id":"tenant-b"}`)
	require.Equal(t, http.StatusCreated, res.Code)

	var created struct {
		TenantID string `json:"tenant_id"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	require.Equal(t, "tenant-a", created.TenantID)
}

func TestPipelineDisabledTenantShortCircuits(t *testing.T) {
	fx := newPipeline(t, map[string]access.Principal{
		"tok-admin": {ID: "u1", TenantID: "tenant-a", Role: access.RoleAdmin},
	})
	fx.store.set(access.TenantRecord{ID: "tenant-a", Name: "Iglesia A", IsActive: false})

	res := doJSON(t, fx.router, "tok-admin", http.MethodPost, "/api/persons", "{}")
	require.Equal(t, http.StatusForbidden, res.Code)
	require.Equal(t, shared.CodeTenantDisabled, problemCode(t, res))

	// Quota never ran: a later stage must not run after an earlier
	// stage failed.
	require.Zero(t, fx.counter.calls)
}

func TestPipelineForbiddenBeforeQuota(t *testing.T) {
	fx := newPipeline(t, map[string]access.Principal{
		"tok-viewer": {ID: "u2", TenantID: "tenant-a", Role: access.RoleViewer},
	})

	res := doJSON(t, fx.router, "tok-viewer", http.MethodPost, "/api/persons", "{}")
	require.Equal(t, http.StatusForbidden, res.Code)
	require.Equal(t, shared.CodeForbidden, problemCode(t, res))
	require.Zero(t, fx.counter.calls)

	denial, ok := fx.audit.last()
	require.True(t, ok)
	require.Equal(t, shared.CodeForbidden, denial.Code)
	require.Equal(t, string(access.ResourcePersons), denial.Resource)
	require.Equal(t, string(access.ActionCreate), denial.Action)
}

func TestPipelineQuotaExceeded(t *testing.T) {
	fx := newPipeline(t, map[string]access.Principal{
		"tok-admin": {ID: "u1", TenantID: "tenant-a", Role: access.RoleAdmin},
	})
	fx.counter.count = 30

	res := doJSON(t, fx.router, "tok-admin", http.MethodPost, "/api/persons", "{}")
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	require.Equal(t, shared.CodeQuotaExceeded, problemCode(t, res))
}

func TestPipelineRequireAtLeast(t *testing.T) {
	fx := newPipeline(t, map[string]access.Principal{
		"tok-admin":  {ID: "u1", TenantID: "tenant-a", Role: access.RoleAdmin},
		"tok-pastor": {ID: "u3", TenantID: "tenant-a", Role: access.RolePastor},
	})

	res := doJSON(t, fx.router, "tok-admin", http.MethodPost, "/api/tenant/deactivate", "")
	require.Equal(t, http.StatusForbidden, res.Code)

	res = doJSON(t, fx.router, "tok-pastor", http.MethodPost, "/api/tenant/deactivate", "")
	require.Equal(t, http.StatusNoContent, res.Code)
}
