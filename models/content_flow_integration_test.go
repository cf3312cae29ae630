package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/models"
	"github.com/contentlens/insight_backend/utils"
	"github.com/contentlens/insight_backend/workflow"
)

// NOTE: Requires docker (MySQL + Redis containers). Gated behind
// INTEGRATION_TESTS so the default test run stays DB-free.

func TestContentFlowEndToEnd(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "insight_test")
	t.Setenv("TOKEN_HOUR_LIFESPAN", "1")
	t.Setenv("STORAGE_PROVIDER", "none")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	user, err := models.CreateUser(ctx, &models.NewUser{
		Email:    "owner@flow.test",
		Password: "pass12345",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Duplicate signups are rejected.
	if _, err := models.CreateUser(ctx, &models.NewUser{Email: "owner@flow.test", Password: "pass12345"}); err == nil {
		t.Fatal("duplicate email signup should fail")
	}

	// Ingest direct text; the company is created on the fly.
	pipeline := workflow.NewPipeline(workflow.NewHeuristicProcessor())
	item, err := pipeline.Ingest(ctx, user.ID, &workflow.UploadInput{
		Title:       "Funding call recap",
		CompanyName: "Flowtest GmbH",
		Text:        "We plan to grow revenue and expand into new markets",
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if item.Status != models.ContentStatusCompleted {
		t.Fatalf("item status = %s, want COMPLETED", item.Status)
	}
	if len(item.Transcriptions) != 1 || len(item.BusinessInsights) != 1 {
		t.Fatalf("expected 1 transcription and 1 insight, got %d/%d",
			len(item.Transcriptions), len(item.BusinessInsights))
	}
	if item.CompanyId == nil {
		t.Fatal("item is not attached to a company")
	}

	company, err := models.GetCompany(ctx, *item.CompanyId)
	if err != nil {
		t.Fatalf("GetCompany: %v", err)
	}
	if company.Type != models.CompanyTypeTarget {
		t.Errorf("upload-created company type = %s, want TARGET", company.Type)
	}
	if company.Description == nil || !strings.Contains(*company.Description, "Funding call recap") {
		t.Errorf("upload-created company description = %v", company.Description)
	}

	// Re-submitting the (incomplete) company merges instead of failing.
	merged, wasMerge, err := models.CreateOrMergeCompany(ctx, &models.NewCompany{
		Name:     "Flowtest GmbH",
		Industry: strPtrT("software"),
	})
	if err != nil {
		t.Fatalf("CreateOrMergeCompany merge: %v", err)
	}
	if !wasMerge {
		t.Fatal("expected a merge, got a create")
	}
	if merged.Industry == nil || *merged.Industry != "software" {
		t.Error("merge did not apply the incoming industry")
	}

	// Second item so the consistency pass has a pair to work with.
	if _, err := workflow.CreateDirectTextContent(ctx, user.ID,
		"Cost review", "budget will decrease and the team will shrink"); err != nil {
		t.Fatalf("CreateDirectTextContent: %v", err)
	}

	completed, err := models.GetCompletedContentItems(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetCompletedContentItems: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("completed items = %d, want 2", len(completed))
	}

	findings := workflow.AnalyzeConsistency(completed)
	report, err := models.CreateConsistencyReport(ctx, user.ID, findings)
	if err != nil {
		t.Fatalf("CreateConsistencyReport: %v", err)
	}
	if report.TotalFindings != len(findings) || report.TotalFindings == 0 {
		t.Fatalf("report findings = %d", report.TotalFindings)
	}

	gaps := workflow.AnalyzeGaps(completed)
	gapReport, err := models.CreateGapAnalysisReport(ctx, user.ID, gaps, workflow.OverallRecommendations(gaps))
	if err != nil {
		t.Fatalf("CreateGapAnalysisReport: %v", err)
	}
	if gapReport.TotalGaps != len(gaps) {
		t.Fatalf("gap report total = %d, want %d", gapReport.TotalGaps, len(gaps))
	}
	if gapReport.PriorityGaps == 0 {
		t.Error("expected HIGH priority gaps with only BUSINESS_MODEL covered")
	}

	// Per-user scoping: a second user sees none of this.
	other, err := models.CreateUser(ctx, &models.NewUser{Email: "other@flow.test", Password: "pass12345"})
	if err != nil {
		t.Fatalf("CreateUser other: %v", err)
	}
	otherItems, err := models.GetContentItems(ctx, other.ID)
	if err != nil {
		t.Fatalf("GetContentItems other: %v", err)
	}
	if len(otherItems) != 0 {
		t.Fatalf("second user sees %d items, want 0", len(otherItems))
	}

	// Grouped view carries the owner's items under the shared company.
	grouped, err := models.GetCompaniesGroupedWithContent(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetCompaniesGroupedWithContent: %v", err)
	}
	if len(grouped) != 1 {
		t.Fatalf("grouped companies = %d, want 1", len(grouped))
	}
	if len(grouped[0].ContentItems) != 1 {
		t.Fatalf("grouped content items = %d, want 1", len(grouped[0].ContentItems))
	}

	// Login issues a revocable session.
	info, err := models.Login(ctx, "owner@flow.test", "pass12345")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	token, err := utils.JwtValidate(info.Token)
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if _, err := models.Login(ctx, "owner@flow.test", "wrongpass"); err == nil {
		t.Fatal("wrong password should fail")
	}
}

// brokenProcessor stands in for an analysis backend outage.
type brokenProcessor struct{}

func (brokenProcessor) Analyze(ctx context.Context, text string) (*models.Transcription, []*models.BusinessInsight, error) {
	return nil, nil, errors.New("analysis backend unavailable")
}

func TestInlineProcessingFailureFinalizesJob(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "insight_test")
	t.Setenv("PROCESSING_MODE", "inline")

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	user, err := models.CreateUser(ctx, &models.NewUser{
		Email:    "fail@flow.test",
		Password: "pass12345",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	pipeline := workflow.NewPipeline(brokenProcessor{})
	_, err = pipeline.Ingest(ctx, user.ID, &workflow.UploadInput{
		Title:       "Doomed upload",
		CompanyName: "Failcase AG",
		Text:        "text that will never be analyzed",
	})
	if err == nil {
		t.Fatal("expected the inline processing failure to surface")
	}

	// No dispatcher runs in inline mode: the job must not sit PENDING waiting
	// for one, and a later switch to queue mode must not re-run it.
	var job models.ProcessingJob
	if err := config.GetDB().WithContext(ctx).Where("user_id = ?", user.ID).First(&job).Error; err != nil {
		t.Fatalf("load job row: %v", err)
	}
	if job.Status != models.ProcessingJobStatusFailed {
		t.Errorf("job status = %s, want FAILED", job.Status)
	}
	if job.LastError == nil || !strings.Contains(*job.LastError, "analysis backend unavailable") {
		t.Errorf("job last_error = %v", job.LastError)
	}

	var item models.ContentItem
	if err := config.GetDB().WithContext(ctx).Where("user_id = ?", user.ID).First(&item).Error; err != nil {
		t.Fatalf("load content item: %v", err)
	}
	if item.Status != models.ContentStatusFailed {
		t.Errorf("content item status = %s, want FAILED", item.Status)
	}
}

func TestCreateOrMergeCompanyRejectsCompleteRows(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "insight_test")

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	input := &models.NewCompany{
		Name:          "Complete Corp",
		Description:   strPtrT("desc"),
		Industry:      strPtrT("software"),
		Website:       strPtrT("https://complete.example"),
		Country:       strPtrT("DE"),
		Size:          strPtrT("51-200"),
		FoundedYear:   intPtrT(1999),
		Headquarters:  strPtrT("Berlin"),
		Revenue:       strPtrT("10M"),
		EmployeeCount: strPtrT("120"),
		LegalStatus:   strPtrT("GmbH"),
		Ceo:           strPtrT("A. Chief"),
		Linkedin:      strPtrT("https://linkedin.com/company/complete"),
		Phone:         strPtrT("+49 30 1234"),
		Email:         strPtrT("info@complete.example"),
		BusinessModel: strPtrT("SaaS"),
		TargetMarket:  strPtrT("SMB"),

		MarketCap:    strPtrT("100M"),
		StockSymbol:  strPtrT("CMP"),
		Founders:     strPtrT("F. Ounder"),
		BoardMembers: strPtrT("B. Member"),
		Twitter:      strPtrT("https://twitter.com/complete"),
		Facebook:     strPtrT("https://facebook.com/complete"),
		Instagram:    strPtrT("https://instagram.com/complete"),
		Youtube:      strPtrT("https://youtube.com/complete"),
		Address:      strPtrT("Somestr. 1"),
	}

	if _, _, err := models.CreateOrMergeCompany(ctx, input); err != nil {
		t.Fatalf("initial create: %v", err)
	}

	_, _, err := models.CreateOrMergeCompany(ctx, &models.NewCompany{
		Name:        "Complete Corp",
		Description: strPtrT("should not land"),
	})
	if !errors.Is(err, utils.ErrorCompanyComplete) {
		t.Fatalf("expected ErrorCompanyComplete, got %v", err)
	}

	// The rejected submission must not have mutated the row.
	again, _, err := models.CreateOrMergeCompany(ctx, &models.NewCompany{Name: "Complete Corp 2"})
	if err != nil {
		t.Fatalf("unrelated create: %v", err)
	}
	_ = again

	existing, err := models.SearchCompanies(ctx, "complete corp", nil)
	if err != nil {
		t.Fatalf("SearchCompanies: %v", err)
	}
	for _, c := range existing {
		if c.Name == "Complete Corp" && (c.Description == nil || *c.Description != "desc") {
			t.Fatal("rejected submission mutated the existing row")
		}
	}
}

func strPtrT(s string) *string { return &s }

func intPtrT(n int) *int { return &n }

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("insight-test-redis-%d", time.Now().UnixNano())
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
	name := fmt.Sprintf("insight-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=insight_test",
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
