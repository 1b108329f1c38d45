package repository_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/vibast-solutions/ms-go-contacts/app/repository"

	"github.com/go-sql-driver/mysql"
)

func TestIsUnavailable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not connected", repository.ErrNotConnected, true},
		{"wrapped not connected", fmt.Errorf("list: %w", repository.ErrNotConnected), true},
		{"deadline", context.DeadlineExceeded, true},
		{"bad conn", driver.ErrBadConn, true},
		{"invalid conn", mysql.ErrInvalidConn, true},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"duplicate key", repository.ErrDuplicateKey, false},
		{"syntax", &mysql.MySQLError{Number: 1064, Message: "syntax error"}, false},
	}

	for _, tc := range cases {
		if got := repository.IsUnavailable(tc.err); got != tc.want {
			t.Fatalf("%s: IsUnavailable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDisconnectedStore(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	store := repository.NewDisconnectedStore(cause)

	if _, err := store.FindByNormalized(context.Background(), "a@example.com", ""); !errors.Is(err, repository.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	err := store.Ping(context.Background())
	if !errors.Is(err, repository.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Fatalf("expected ping error to report the startup failure, got %v", err)
	}
	if _, err := (repository.DisconnectedAttemptStore{}).Count(context.Background()); !errors.Is(err, repository.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}
