package entities

// MainMenu is a navigation entry shown on every page.
type MainMenu struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Item string `gorm:"uniqueIndex;size:300;not null" json:"item"`
	Link string `gorm:"uniqueIndex;size:300;not null" json:"link"`
}

func (MainMenu) TableName() string {
	return "main_menus"
}

func (m MainMenu) String() string {
	return m.Item
}
