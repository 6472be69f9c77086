package model

type Person struct {
	PersonID string `gorm:"column:person_id;type:text;primaryKey"`
	Name     string `gorm:"column:person_name;type:text;not null"`
}

func (Person) TableName() string {
	return "people"
}
