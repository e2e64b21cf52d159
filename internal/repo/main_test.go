package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/hanglog/testutil"
)

// TestMain migrates the test database once per binary when TEST_DATABASE_URL
// is set. Without it, the postgres subtests skip and only the in-memory store
// is exercised.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(dsn)
	if err := testutil.Migrate(context.Background(), db); err != nil {
		log.Fatalf("TestMain: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
