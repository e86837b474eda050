package model

import "time"

// Chat is a conversation between a house owner and an interested party
// about one house. One active chat per (house, interested) pair.
type Chat struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OwnerID      uint      `json:"owner_id" gorm:"index;not null"`
	Owner        User      `json:"-" gorm:"foreignKey:OwnerID"`
	InterestedID uint      `json:"interested_id" gorm:"index;not null"`
	Interested   User      `json:"-" gorm:"foreignKey:InterestedID"`
	HouseID      uint      `json:"house_id" gorm:"index;not null"`
	House        House     `json:"-" gorm:"foreignKey:HouseID"`
	StartedAt    time.Time `json:"started_at"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
}

// Message is one entry in a chat, optionally carrying an image attachment.
type Message struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	ChatID   uint      `json:"chat_id" gorm:"index;not null"`
	Chat     Chat      `json:"-" gorm:"foreignKey:ChatID"`
	SenderID uint      `json:"sender_id" gorm:"index;not null"`
	Sender   User      `json:"-" gorm:"foreignKey:SenderID"`
	Content  string    `json:"content" gorm:"type:text"`
	ImageURL string    `json:"image_url,omitempty" gorm:"type:varchar(255)"`
	SentAt   time.Time `json:"sent_at"`
	IsRead   bool      `json:"is_read" gorm:"default:false"`
	IsActive bool      `json:"is_active" gorm:"default:true"`
}
