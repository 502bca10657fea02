package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/sandbox"
)

func TestConnect_UnreachableServer(t *testing.T) {
	start := time.Now()
	_, _, err := Connect(context.Background(), Config{
		URI:      "mongodb://127.0.0.1:1",
		Database: "test",
		Timeout:  300 * time.Millisecond,
	})
	if err == nil {
		t.Fatalf("expected connection error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("connect did not honour the timeout: %v", elapsed)
	}
}

func TestAccountDocumentMapping(t *testing.T) {
	acc := &sandbox.Account{
		ID:           "a-1",
		Email:        "vendor1@techcorp.com",
		PasswordHash: "$2a$hash",
		UserType:     domain.RoleVendor,
		FirstName:    "Victor",
		CompanyName:  "TechCorp Solutions",
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	got := fromMongo(toMongo(acc))
	if *got != *acc {
		t.Fatalf("mapping lost data:\n got %+v\nwant %+v", got, acc)
	}
}
