package room

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMockSvc(t *testing.T) (IRoomService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRoomService(db), mock
}

func TestCreateRoom(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM rooms WHERE name = $1)")).
		WithArgs("general").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO rooms").
		WillReturnResult(sqlmock.NewResult(0, 1))

	dto, err := svc.CreateRoom(context.Background(), "general", "u1")
	require.NoError(t, err)
	require.NotEmpty(t, dto.ID)
	require.Equal(t, "general", dto.Name)
	require.Equal(t, "u1", dto.CreatedBy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoomNameTaken(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM rooms WHERE name = $1)")).
		WithArgs("general").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.CreateRoom(context.Background(), "general", "u1")
	require.ErrorIs(t, err, ErrRoomNameTaken)
}

func TestListRooms(t *testing.T) {
	svc, mock := newMockSvc(t)

	now := time.Now()
	mock.ExpectQuery("SELECT id, name, created_by, created_at").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by", "created_at"}).
			AddRow("r1", "general", "u1", now).
			AddRow("r2", "random", "u2", now))

	list, err := svc.ListRooms(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "general", list[0].Name)
}
