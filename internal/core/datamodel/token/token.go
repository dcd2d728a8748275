package token

import "time"

type Token struct {
	TokenID      string    `gorm:"column:token_id;primaryKey"`
	DeviceCode   string    `gorm:"column:device_code;not null;index:idx_tokens_device_code"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	ValidUntil   time.Time `gorm:"column:valid_until;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Token) TableName() string {
	return "tokens"
}
