package model

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Slug          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description   string    `gorm:"type:text"`
	Price         float64   `gorm:"type:decimal(10,2);not null"`
	TaxRate       float64   `gorm:"type:decimal(5,4);default:0"`
	BillingCycle  string    `gorm:"type:varchar(20);not null"`
	IsMostPopular bool      `gorm:"default:false"`
	IsActive      bool      `gorm:"default:true"`
	SortOrder     int       `gorm:"default:0"`

	Colleges []*College `gorm:"many2many:plan_colleges;joinForeignKey:plan_id;joinReferences:college_id"`
}

func (Plan) TableName() string {
	return "plans"
}

type Subscription struct {
	Id                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanId                uuid.UUID `gorm:"type:uuid;not null;index"`
	Plan                  *Plan     `gorm:"foreignKey:PlanId"`
	Status                string    `gorm:"type:varchar(50);not null"`
	PaymentStatus         string    `gorm:"type:varchar(50);not null"`
	StartedAt             time.Time `gorm:"not null"`
	EndsAt                time.Time `gorm:"not null;index"`
	MidtransTransactionId *string   `gorm:"type:varchar(255)"`
	CreatedAt             time.Time `gorm:"autoCreateTime"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
