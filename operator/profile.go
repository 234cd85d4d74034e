// Package operator đọc hồ sơ người vận hành đã lưu trên máy (cờ bakery,
// cờ admin HCM, cửa hàng của chính họ) và lọc danh mục cửa hàng theo đó.
// Các cờ này chỉ dùng để thu hẹp danh mục, không đổi logic đối soát hay xuất.
package operator

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/quochoa304/codex-AI/model"
)

// Profile là các cờ client đã persist của người vận hành.
type Profile struct {
	IsBakery bool `db:"is_bakery"`
	HCMAdmin bool `db:"hcm_admin"`
	StoreID  int  `db:"store_id"`
}

const schema = `
CREATE TABLE IF NOT EXISTS operator_profile (
    id        INTEGER PRIMARY KEY CHECK (id = 1),
    is_bakery INTEGER NOT NULL DEFAULT 0,
    hcm_admin INTEGER NOT NULL DEFAULT 0,
    store_id  INTEGER NOT NULL DEFAULT 0
);`

func EnsureSchema(conn *sqlx.DB) error {
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("create operator_profile table: %w", err)
	}
	return nil
}

// LoadProfile đọc hồ sơ duy nhất; chưa có dòng nào thì trả hồ sơ rỗng
// (xem được toàn bộ danh mục).
func LoadProfile(conn *sqlx.DB) (Profile, error) {
	var p Profile
	err := conn.Get(&p, `SELECT is_bakery, hcm_admin, store_id FROM operator_profile WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load operator profile: %w", err)
	}
	return p, nil
}

// hcmStoreType là LoaiCH của nhóm cửa hàng HCM.
const hcmStoreType = "3"

// FilterStores là hàm thuần lọc danh mục theo vai trò:
// bakery chỉ thấy cửa hàng của mình, admin HCM chỉ thấy LoaiCH=3,
// còn lại thấy tất cả.
func FilterStores(stores []model.Store, p Profile) []model.Store {
	switch {
	case p.IsBakery && p.StoreID != 0:
		out := make([]model.Store, 0, 1)
		for _, s := range stores {
			if s.IDCH == p.StoreID {
				out = append(out, s)
			}
		}
		return out
	case p.HCMAdmin:
		out := make([]model.Store, 0, len(stores))
		for _, s := range stores {
			if s.LoaiCH.String() == hcmStoreType {
				out = append(out, s)
			}
		}
		return out
	default:
		return stores
	}
}
