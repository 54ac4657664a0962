package model

type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
}
