package catalog_store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/silsin/VPN-Backend/internal/domain"
	"github.com/silsin/VPN-Backend/internal/dto"
	"github.com/silsin/VPN-Backend/internal/repository/catalog_store"
	"github.com/stretchr/testify/assert"
)

var serverCols = []string{
	"id", "name", "hostname", "ip_address", "port", "location", "status", "protocol",
	"current_connections", "max_connections", "config", "created_at", "updated_at",
}

func serverRow(rows *sqlmock.Rows, id, name string, current int) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, name, name+".vpn.example.com", "10.0.0.1", 51820, "nl", domain.ServerOnline,
		"wireguard", current, 100, "", now, now,
	)
}

func TestCreateServer_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow("server-1", now, now)

	mock.ExpectQuery("INSERT INTO vpn_servers").
		WithArgs("nl-1", "nl-1.vpn.example.com", "10.0.0.1", 51820, "nl", domain.ServerOnline, "wireguard", 100, "").
		WillReturnRows(rows)

	s := catalog_store.NewPostgresCatalogStore(db)
	server := &domain.VpnServer{
		Name:           "nl-1",
		Hostname:       "nl-1.vpn.example.com",
		IPAddress:      "10.0.0.1",
		Port:           51820,
		Location:       "nl",
		Status:         domain.ServerOnline,
		Protocol:       "wireguard",
		MaxConnections: 100,
	}

	err = s.Create(context.Background(), server)
	assert.NoError(t, err)
	assert.Equal(t, "server-1", server.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateServer_DuplicateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO vpn_servers").
		WillReturnError(&pq.Error{Code: "23505"})

	s := catalog_store.NewPostgresCatalogStore(db)
	err = s.Create(context.Background(), &domain.VpnServer{Name: "nl-1"})

	assert.Error(t, err)
	assert.ErrorIs(t, err, catalog_store.ErrServerExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAvailable_OrdersByLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(serverCols)
	rows = serverRow(rows, "server-1", "nl-1", 3)
	rows = serverRow(rows, "server-2", "de-1", 10)

	mock.ExpectQuery("SELECT (.+) FROM vpn_servers").
		WillReturnRows(rows)

	s := catalog_store.NewPostgresCatalogStore(db)
	servers, err := s.FindAvailable(context.Background())

	assert.NoError(t, err)
	assert.Len(t, servers, 2)
	assert.Equal(t, "nl-1", servers[0].Name)
	assert.Equal(t, 3, servers[0].CurrentConnections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateServer_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("UPDATE vpn_servers").
		WillReturnRows(sqlmock.NewRows(serverCols))

	s := catalog_store.NewPostgresCatalogStore(db)
	status := domain.ServerOffline
	_, err = s.Update(context.Background(), "missing", dto.UpdateServerReq{Status: &status})

	assert.Error(t, err)
	assert.ErrorIs(t, err, catalog_store.ErrServerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteServer_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM vpn_servers WHERE id = \\$1").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := catalog_store.NewPostgresCatalogStore(db)
	err = s.Delete(context.Background(), "missing")

	assert.Error(t, err)
	assert.ErrorIs(t, err, catalog_store.ErrServerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
