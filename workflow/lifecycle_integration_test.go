package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/leadsonline"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
	"bitbucket.org/mmdatafocus/pawnshop_backend/shopify"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
	"bitbucket.org/mmdatafocus/pawnshop_backend/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestIntakeHoldReleaseLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "pawnshop_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	db := config.GetDB()
	if db == nil {
		t.Fatalf("db is nil after ConnectDatabaseWithRetry")
	}

	// Workflow entry points provision the profile row from the session identity.
	ctx = utils.SetProfileIdInContext(ctx, uuid.NewString())
	ctx = utils.SetUsernameInContext(ctx, "clerk@test.local")
	ctx = utils.SetFullNameInContext(ctx, "Test Clerk")
	ctx = utils.SetRoleInContext(ctx, string(models.StaffRoleClerk))

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{
		FirstName: "Jane",
		LastName:  "Doe",
		IdType:    models.IdTypeDriverLicense,
		IdNumber:  "D1234567",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	intake, err := models.CreateIntake(ctx, customer.ID)
	if err != nil {
		t.Fatalf("CreateIntake: %v", err)
	}
	if intake.Status != models.IntakeStatusDraft {
		t.Fatalf("expected draft intake; got %s", intake.Status)
	}

	item, err := models.AddItem(ctx, intake.ID, &models.NewItem{
		Category:      "Electronics",
		Brand:         "Acme",
		Model:         "X100",
		SerialNumber:  "SN-42",
		PurchasePrice: decimal.NewFromInt(250),
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Status != models.ItemStatusIntakeStarted {
		t.Fatalf("expected intake_started item; got %s", item.Status)
	}

	expiry, err := workflow.HoldExpiry(models.HoldChoiceStandard, nil, time.Now())
	if err != nil {
		t.Fatalf("HoldExpiry: %v", err)
	}
	completed, err := workflow.CompleteIntake(ctx, intake.ID, expiry)
	if err != nil {
		t.Fatalf("CompleteIntake: %v", err)
	}
	if completed.Status != models.IntakeStatusCompleted {
		t.Fatalf("expected completed intake; got %s", completed.Status)
	}
	if len(completed.Items) != 1 || completed.Items[0].Status != models.ItemStatusOnHold {
		t.Fatalf("expected one on_hold item; got %+v", completed.Items)
	}

	// Completed intakes reject further item mutation.
	if _, err := models.AddItem(ctx, intake.ID, &models.NewItem{
		Category:      "Electronics",
		Brand:         "Acme",
		Model:         "X200",
		PurchasePrice: decimal.NewFromInt(100),
	}); !errors.Is(err, models.ErrIntakeNotDraft) {
		t.Fatalf("expected ErrIntakeNotDraft; got %v", err)
	}

	// Reporting refuses to go over the wire while compliance fields are
	// missing; the envelope never leaves the process.
	var leadsHits int32
	leadsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&leadsHits, 1)
		fmt.Fprint(w, `<Envelope><Body><errorCode>0</errorCode></Body></Envelope>`)
	}))
	t.Cleanup(leadsServer.Close)
	t.Setenv("LEADSONLINE_URL", leadsServer.URL)
	t.Setenv("LEADSONLINE_STORE_ID", "1234")
	t.Setenv("LEADSONLINE_USERNAME", "reporter")
	t.Setenv("LEADSONLINE_PASSWORD", "reporterpw")
	if _, err := leadsonline.Submit(ctx, intake.ID); !errors.Is(err, leadsonline.ErrMissingComplianceFields) {
		t.Fatalf("expected ErrMissingComplianceFields; got %v", err)
	}
	if atomic.LoadInt32(&leadsHits) != 0 {
		t.Fatalf("submission went over the wire despite missing compliance fields")
	}

	// An on_hold item cannot be listed.
	if _, err := shopify.PublishItem(ctx, item.ID, nil); !errors.Is(err, models.ErrItemNotCleared) {
		t.Fatalf("expected ErrItemNotCleared; got %v", err)
	}

	// Hold has not expired yet.
	if _, err := workflow.ReleaseItem(ctx, item.ID); !errors.Is(err, models.ErrHoldNotExpired) {
		t.Fatalf("expected ErrHoldNotExpired; got %v", err)
	}

	// Backdate the expiry to simulate the hold period elapsing.
	past := time.Now().Add(-time.Hour)
	if err := db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", item.ID).
		Update("hold_expires_at", past).Error; err != nil {
		t.Fatalf("backdate hold: %v", err)
	}

	released, err := workflow.ReleaseItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("ReleaseItem: %v", err)
	}
	if released.Status != models.ItemStatusClearedForResale {
		t.Fatalf("expected cleared_for_resale; got %s", released.Status)
	}

	// Release is single-shot; a second call sees the new status.
	if _, err := workflow.ReleaseItem(ctx, item.ID); !errors.Is(err, models.ErrItemNotOnHold) {
		t.Fatalf("expected ErrItemNotOnHold; got %v", err)
	}

	// A cleared item publishes to the storefront and records the listing id.
	shopServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"product":{"id":7042,"handle":"acme-x100"}}`)
	}))
	t.Cleanup(shopServer.Close)
	t.Setenv("SHOPIFY_STORE_DOMAIN", "example.myshopify.com")
	t.Setenv("SHOPIFY_ADMIN_TOKEN", "shpat_test")
	t.Setenv("SHOPIFY_API_BASE_URL", shopServer.URL)

	published, err := shopify.PublishItem(ctx, item.ID, nil)
	if err != nil {
		t.Fatalf("PublishItem: %v", err)
	}
	if published.ProductId == 0 {
		t.Fatalf("expected a nonempty product id")
	}
	listed, err := models.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem after publish: %v", err)
	}
	if listed.Status != models.ItemStatusPublished {
		t.Fatalf("expected published; got %s", listed.Status)
	}
	if listed.ShopifyProductId != published.ProductId {
		t.Fatalf("stored product id %d does not match %d", listed.ShopifyProductId, published.ProductId)
	}

	// A published item cannot be listed twice.
	if _, err := shopify.PublishItem(ctx, item.ID, nil); !errors.Is(err, models.ErrItemNotCleared) {
		t.Fatalf("expected ErrItemNotCleared on re-publish; got %v", err)
	}

	// The released item left the hold queue.
	queue, err := models.GetHoldQueue(ctx)
	if err != nil {
		t.Fatalf("GetHoldQueue: %v", err)
	}
	for _, queued := range queue {
		if queued.ID == item.ID {
			t.Fatalf("released item %d still in hold queue", item.ID)
		}
	}

	// Garbage in the queue cache is logged and bypassed, not surfaced.
	redisClient := config.GetRedisDB()
	if err := redisClient.Set(config.GetRedisContext(), "ItemList:HoldQueue", "not-json", 0).Err(); err != nil {
		t.Fatalf("seed corrupt cache entry: %v", err)
	}
	if _, err := models.GetHoldQueue(ctx); err != nil {
		t.Fatalf("GetHoldQueue with corrupt cache: %v", err)
	}

	// A compliant customer reports successfully and the ticket is recorded.
	compliant, err := models.CreateCustomer(ctx, &models.NewCustomer{
		FirstName:    "John",
		LastName:     "Roe",
		IdType:       models.IdTypeDriverLicense,
		IdNumber:     "D7654321",
		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62701",
		Dob:          timePtr(time.Date(1988, 7, 14, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	intake2, err := models.CreateIntake(ctx, compliant.ID)
	if err != nil {
		t.Fatalf("CreateIntake: %v", err)
	}
	if _, err := models.AddItem(ctx, intake2.ID, &models.NewItem{
		Category:      "Tools",
		Brand:         "Acme",
		Model:         "Drill",
		PurchasePrice: decimal.NewFromInt(40),
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	expiry2, err := workflow.HoldExpiry(models.HoldChoiceImmediate, nil, time.Now())
	if err != nil {
		t.Fatalf("HoldExpiry: %v", err)
	}
	if _, err := workflow.CompleteIntake(ctx, intake2.ID, expiry2); err != nil {
		t.Fatalf("CompleteIntake: %v", err)
	}
	submitted, err := leadsonline.Submit(ctx, intake2.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.TicketNumber == "" {
		t.Fatalf("expected a ticket number")
	}
	if atomic.LoadInt32(&leadsHits) != 1 {
		t.Fatalf("expected exactly one submission; got %d", atomic.LoadInt32(&leadsHits))
	}
	reported, err := models.GetIntake(ctx, intake2.ID)
	if err != nil {
		t.Fatalf("GetIntake: %v", err)
	}
	if reported.ReportTicketNumber != submitted.TicketNumber || reported.ReportedAt == nil {
		t.Fatalf("reporting confirmation not recorded: %+v", reported)
	}

	// Profiles provisioned from a session carry no password; login must
	// reject every candidate, not just a mismatching one.
	if _, err := models.Login(ctx, "clerk@test.local", "any-password"); err == nil {
		t.Fatalf("expected login to fail for a passwordless profile")
	}

	// A seeded admin authenticates only with the right password.
	if _, err := models.SeedAdminProfile(ctx, "admin@test.local", "Store Admin", "s3cret"); err != nil {
		t.Fatalf("SeedAdminProfile: %v", err)
	}
	if _, err := models.Login(ctx, "admin@test.local", "wrong"); err == nil {
		t.Fatalf("expected wrong password to fail")
	}
	session, err := models.Login(ctx, "admin@test.local", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a session token")
	}
}

func timePtr(v time.Time) *time.Time {
	return &v
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("pawnshop-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("pawnshop-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=pawnshop_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
