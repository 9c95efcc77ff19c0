package usecase_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/adapter/repository"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/infrastructure/provider/clubready"
	"github.com/harryfittheorem/CKOWebsite/internal/usecase"
	"github.com/harryfittheorem/CKOWebsite/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testAPIKey    = "test-api-key-8f3a91"
	testCard      = "4242424242424242"
	testPackageID = "pkg-monthly"
)

// fakeReply is what the fake ClubReady server answers on one route
type fakeReply struct {
	status int
	body   string
}

// fakeClubReady records every request it receives
type fakeClubReady struct {
	mu      sync.Mutex
	hits    map[string]int
	forms   map[string][]map[string]string
	replies map[string]fakeReply
	server  *httptest.Server
}

const (
	routeSearch  = "search"
	routeCreate  = "create"
	routePayment = "payment"
)

func newFakeClubReady(t *testing.T) *fakeClubReady {
	t.Helper()
	f := &fakeClubReady{
		hits:  make(map[string]int),
		forms: make(map[string][]map[string]string),
		replies: map[string]fakeReply{
			routeSearch:  {status: http.StatusOK, body: `{"data": []}`},
			routeCreate:  {status: http.StatusOK, body: `{"Id": 555}`},
			routePayment: {status: http.StatusOK, body: `{"Success": true, "PaymentId": "pay_123"}`},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/prospects/search", f.handle(routeSearch))
	mux.HandleFunc("POST /users/prospects", f.handle(routeCreate))
	mux.HandleFunc("POST /sales/member/{userId}/payment/makepayment", f.handle(routePayment))

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeClubReady) handle(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form := make(map[string]string, len(r.Form))
		for k := range r.Form {
			form[k] = r.Form.Get(k)
		}
		if userID := r.PathValue("userId"); userID != "" {
			form["userId"] = userID
		}

		f.mu.Lock()
		f.hits[route]++
		f.forms[route] = append(f.forms[route], form)
		reply := f.replies[route]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-Id", "req-"+route)
		w.WriteHeader(reply.status)
		_, _ = w.Write([]byte(reply.body))
	}
}

func (f *fakeClubReady) reply(route string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[route] = fakeReply{status: status, body: body}
}

func (f *fakeClubReady) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[route]
}

func (f *fakeClubReady) lastForm(route string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	forms := f.forms[route]
	if len(forms) == 0 {
		return nil
	}
	return forms[len(forms)-1]
}

func (f *fakeClubReady) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.hits {
		n += c
	}
	return n
}

// harness wires the real repositories, client and usecases together
type harness struct {
	db       *gorm.DB
	crm      *fakeClubReady
	checkout usecase.CheckoutUsecase
	admin    usecase.AdminUsecase
	logs     *observer.ObservedLogs
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLogger(zap.NewNop(), gormlogger.Silent, 200*time.Millisecond, true),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	crm := newFakeClubReady(t)
	core, observed := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	prospects := repository.NewProspectRepository(db, log)
	packages := repository.NewPackageRepository(db, log)
	transactions := repository.NewTransactionRepository(db, log)
	paymentLogs := repository.NewPaymentLogRepository(db)
	configs := repository.NewClubReadyConfigRepository(db)

	client := clubready.NewClient(5*time.Second, log)
	audit := usecase.NewAuditLogger(paymentLogs, log)
	resolver := usecase.NewIdentityResolver(client, prospects, audit, log)
	ledger := usecase.NewTransactionLedger(transactions, packages, prospects, log)

	return &harness{
		db:   db,
		crm:  crm,
		logs: observed,
		checkout: usecase.NewCheckoutUsecase(
			usecase.NewDatabaseConfigProvider(configs, log),
			resolver,
			ledger,
			client,
			prospects,
			audit,
			usecase.NewInputValidator(),
			log,
		),
		admin: usecase.NewAdminUsecase(transactions, paymentLogs, log),
	}
}

// logMentions returns every process log line with a field containing s
func (h *harness) logMentions(s string) []string {
	var hits []string
	for _, entry := range h.logs.All() {
		for key, value := range entry.ContextMap() {
			if strings.Contains(fmt.Sprint(value), s) {
				hits = append(hits, entry.Message+": "+key)
			}
		}
	}
	return hits
}

func (h *harness) seedConfig(t *testing.T) {
	t.Helper()
	require.NoError(t, h.db.Create(&model.ClubReadyConfig{
		ID:      1,
		APIKey:  testAPIKey,
		StoreID: "store-1",
		ChainID: "chain-1",
		APIURL:  h.crm.server.URL,
	}).Error)
}

func (h *harness) seedPackage(t *testing.T, price string) *model.Package {
	t.Helper()
	pkg := &model.Package{
		ClubReadyPackageID: testPackageID,
		Name:               "Monthly Unlimited",
		Price:              decimal.RequireFromString(price),
		DurationMonths:     1,
		IsActive:           true,
	}
	require.NoError(t, h.db.Create(pkg).Error)
	return pkg
}

func (h *harness) seedProspect(t *testing.T, clubReadyUserID string) *model.Prospect {
	t.Helper()
	p := &model.Prospect{
		ClubReadyUserID: clubReadyUserID,
		Email:           "jane@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		LastSyncedAt:    time.Now(),
	}
	require.NoError(t, h.db.Create(p).Error)
	return p
}

func (h *harness) paymentLogs(t *testing.T) []model.PaymentLog {
	t.Helper()
	var logs []model.PaymentLog
	require.NoError(t, h.db.Order("id ASC").Find(&logs).Error)
	return logs
}

func (h *harness) transactions(t *testing.T) []model.Transaction {
	t.Helper()
	var txs []model.Transaction
	require.NoError(t, h.db.Order("created_at ASC").Find(&txs).Error)
	return txs
}

func (h *harness) prospectCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(&model.Prospect{}).Count(&n).Error)
	return n
}

func validChargeInput() *usecase.ChargeInput {
	return &usecase.ChargeInput{
		OfferingID:     testPackageID,
		CardNumber:     "4242 4242 4242 4242",
		CardExpMonth:   "12",
		CardExpYear:    strconv.Itoa(time.Now().Year() + 2),
		CardCVV:        "123",
		CardholderName: "Jane Doe",
		BillingZip:     "94107",
		ContactInput: usecase.ContactInput{
			Email:       "jane@example.com",
			Phone:       "5551234567",
			FirstName:   "Jane",
			LastName:    "Doe",
			DateOfBirth: "1990-04-01",
		},
	}
}

func steps(logs []model.PaymentLog) []string {
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Step)
	}
	return out
}
