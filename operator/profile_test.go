package operator

import (
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quochoa304/codex-AI/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, EnsureSchema(conn))
	return conn
}

func TestLoadProfileEmptyDB(t *testing.T) {
	conn := newTestDB(t)
	p, err := LoadProfile(conn)
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)
}

func TestLoadProfileRoundTrip(t *testing.T) {
	conn := newTestDB(t)
	_, err := conn.Exec(`INSERT INTO operator_profile (id, is_bakery, hcm_admin, store_id) VALUES (1, 1, 0, 5)`)
	require.NoError(t, err)

	p, err := LoadProfile(conn)
	require.NoError(t, err)
	assert.True(t, p.IsBakery)
	assert.False(t, p.HCMAdmin)
	assert.Equal(t, 5, p.StoreID)
}

func TestFilterStores(t *testing.T) {
	stores := []model.Store{
		{IDCH: 1, TenCuaHang: "Cửa hàng A", LoaiCH: json.Number("1")},
		{IDCH: 2, TenCuaHang: "Cửa hàng B", LoaiCH: json.Number("3")},
		{IDCH: 3, TenCuaHang: "Cửa hàng C", LoaiCH: json.Number("3")},
	}

	tests := []struct {
		name    string
		profile Profile
		wantIDs []int
	}{
		{name: "mặc định thấy tất cả", profile: Profile{}, wantIDs: []int{1, 2, 3}},
		{name: "bakery chỉ thấy cửa hàng của mình", profile: Profile{IsBakery: true, StoreID: 2}, wantIDs: []int{2}},
		{name: "bakery chưa gán cửa hàng thấy tất cả", profile: Profile{IsBakery: true}, wantIDs: []int{1, 2, 3}},
		{name: "admin HCM chỉ thấy nhóm HCM", profile: Profile{HCMAdmin: true}, wantIDs: []int{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FilterStores(stores, tt.profile)
			ids := make([]int, 0, len(out))
			for _, s := range out {
				ids = append(ids, s.IDCH)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
