//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"idx_pro/internal/domain"
	mysqlrepo "idx_pro/internal/storage/mysql"
)

// startMySQL runs an isolated MySQL container and returns a ready *sql.DB
// with the leads schema applied.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=idx",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/idx?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(mysqlrepo.SchemaSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func TestLeadRepo_MySQL(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	lead := domain.Lead{
		ID:         "e2e-lead-1",
		Name:       "Jordan Example",
		Email:      "jordan@example.com",
		Phone:      "555-0100",
		Message:    "Please call me back.",
		PropertyID: "sample-1",
		Type:       "inquiry",
	}
	if err := repo.SaveLead(ctx, lead); err != nil {
		t.Fatalf("SaveLead: %v", err)
	}

	// a retried forward with the same id is a no-op, not a duplicate
	dup := lead
	dup.Message = "retry"
	if err := repo.SaveLead(ctx, dup); err != nil {
		t.Fatalf("SaveLead retry: %v", err)
	}

	got, err := repo.GetLead(ctx, lead.ID)
	if err != nil {
		t.Fatalf("GetLead: %v", err)
	}
	if got != lead {
		t.Fatalf("round trip: got %+v want %+v", got, lead)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM leads").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row after retry, got %d", n)
	}
}

func TestLeadRepo_OptionalFieldsNull(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	lead := domain.Lead{
		ID:      "e2e-lead-2",
		Name:    "Sam Example",
		Email:   "sam@example.com",
		Phone:   "555-0101",
		Message: "General question.",
	}
	if err := repo.SaveLead(ctx, lead); err != nil {
		t.Fatalf("SaveLead: %v", err)
	}

	var propertyID, leadType sql.NullString
	row := db.QueryRow("SELECT property_id, lead_type FROM leads WHERE id = ?", lead.ID)
	if err := row.Scan(&propertyID, &leadType); err != nil {
		t.Fatal(err)
	}
	if propertyID.Valid || leadType.Valid {
		t.Fatalf("empty optionals must store NULL: %+v %+v", propertyID, leadType)
	}

	got, err := repo.GetLead(ctx, lead.ID)
	if err != nil {
		t.Fatalf("GetLead: %v", err)
	}
	if got.PropertyID != "" || got.Type != "" {
		t.Fatalf("NULLs must read back as empty strings: %+v", got)
	}
}
