package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"user_manager/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewUserRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

var userCols = []string{"id", "username", "email", "password"}

func TestUserRepository_Count(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(countUsersSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3, got %d", n)
	}
}

func TestUserRepository_Count_Error(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(countUsersSQL)).WillReturnError(errors.New("down"))

	if _, err := repo.Count(context.Background()); err == nil || !strings.Contains(err.Error(), "count users") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUsersSQL)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("id-1", "alice", "a@x.com", "p1").
			AddRow("id-2", "bob", "b@x.com", "p2"))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Username != "alice" || got[1].Email != "b@x.com" {
		t.Fatalf("unexpected users: %+v", got)
	}
}

func TestUserRepository_List_ScanError(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	// three columns for a four-field scan
	mock.ExpectQuery(regexp.QuoteMeta(selectUsersSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow("x", "y", "z"))

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatalf("expected scan error")
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		mockExpect     func(sqlmock.Sqlmock)
		wantUser       *models.User
		wantErr        bool
		errContainsStr string
	}{
		{
			name: "found",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByIDSQL)).
					WithArgs("id-1").
					WillReturnRows(sqlmock.NewRows(userCols).AddRow("id-1", "alice", "a@x.com", "p1"))
			},
			wantUser: &models.User{ID: "id-1", Username: "alice", Email: "a@x.com", Password: "p1"},
		},
		{
			name: "not found (ErrNoRows)",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByIDSQL)).
					WithArgs("id-1").
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "query error",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectUserByIDSQL)).
					WithArgs("id-1").
					WillReturnError(errors.New("db query failed"))
			},
			wantErr:        true,
			errContainsStr: "select user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			u, err := repo.GetByID(context.Background(), "id-1")

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContainsStr) {
					t.Fatalf("expected error to contain %q, got %q", tt.errContainsStr, err.Error())
				}
				if u != nil {
					t.Fatalf("expected user=nil on error, got %+v", u)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantUser == nil {
				if u != nil {
					t.Fatalf("expected nil user, got %+v", u)
				}
				return
			}
			if u == nil || *u != *tt.wantUser {
				t.Fatalf("unexpected user: want %+v, got %+v", tt.wantUser, u)
			}
		})
	}
}

func TestUserRepository_GetSummaryByID_SkipsPassword(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserSummarySQL)).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username"}).AddRow("id-1", "a@x.com", "alice"))

	u, err := repo.GetSummaryByID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "alice" || u.Email != "a@x.com" || u.Password != "" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if strings.Contains(selectUserSummarySQL, "password") {
		t.Fatalf("summary query must not select the password column")
	}
}

func TestUserRepository_GetSummaryByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserSummarySQL)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetSummaryByID(context.Background(), "missing")
	if err != nil || u != nil {
		t.Fatalf("want (nil, nil), got (%+v, %v)", u, err)
	}
}

func TestUserRepository_FindByEmailOrUsername(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserConflictsSQL)).
		WithArgs("a@x.com", "bob").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("id-1", "alice", "a@x.com", "p1"))

	got, err := repo.FindByEmailOrUsername(context.Background(), "a@x.com", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Email != "a@x.com" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr bool
	}{
		{name: "success"},
		{name: "exec error", execErr: errors.New("db exec failed"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockRepo(t)
			defer cleanup()

			exp := mock.ExpectExec(regexp.QuoteMeta(insertUserSQL)).
				WithArgs("id-1", "alice", "a@x.com", "p1")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Create(context.Background(), models.User{ID: "id-1", Username: "alice", Email: "a@x.com", Password: "p1"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if tt.wantErr && !strings.Contains(err.Error(), "insert user") {
				t.Fatalf("expected wrapped error, got %q", err.Error())
			}
		})
	}
}

func TestUserRepository_CreateMany_BatchesInOneTransaction(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	users := make([]models.User, insertBatchSize+2)
	for i := range users {
		users[i] = models.User{ID: fmt.Sprintf("id-%d", i), Username: fmt.Sprintf("u%d", i), Email: fmt.Sprintf("u%d@x.com", i), Password: "p"}
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertUsersPrefixSQL)).
		WillReturnResult(sqlmock.NewResult(0, insertBatchSize))
	mock.ExpectExec(regexp.QuoteMeta(insertUsersPrefixSQL + "(?, ?, ?, ?), (?, ?, ?, ?)")).
		WithArgs("id-500", "u500", "u500@x.com", "p", "id-501", "u501", "u501@x.com", "p").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := repo.CreateMany(context.Background(), users)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(users) {
		t.Fatalf("want %d rows, got %d", len(users), n)
	}
}

func TestUserRepository_CreateMany_RollsBackOnError(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertUsersPrefixSQL)).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.CreateMany(context.Background(), []models.User{{ID: "1", Username: "a", Email: "a@x", Password: "p"}})
	if err == nil || !strings.Contains(err.Error(), "bulk insert users") {
		t.Fatalf("expected bulk insert error, got %v", err)
	}
}

func TestUserRepository_CreateMany_Empty(t *testing.T) {
	repo, _, cleanup := newMockRepo(t)
	defer cleanup()

	n, err := repo.CreateMany(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("want (0, nil), got (%d, %v)", n, err)
	}
}

func TestUserRepository_UpdateUsername(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(updateUsernameSQL)).
		WithArgs("carol", "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateUsername(context.Background(), "id-1", "carol"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteUserSQL)).
		WithArgs("id-1").
		WillReturnError(errors.New("locked"))

	err := repo.Delete(context.Background(), "id-1")
	if err == nil || !strings.Contains(err.Error(), "delete user") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
