package db

import "gorm.io/gorm"

// OwnedBy 返回 “id + owner_id 复合过滤” 的 gorm scope。
//
// 所有按归属读写的查询都必须走这一个 scope，而不是各自拼 Where：
// 授权即 “两个字段同时命中”，记录不存在与记录属于他人对上层不可区分。
func OwnedBy(id, ownerID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id = ? AND owner_id = ?", id, ownerID)
	}
}
