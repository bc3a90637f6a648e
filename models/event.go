package models

// ActiveEvent tracks a live event message as an instance of a template.
type ActiveEvent struct {
	MessageID    string `gorm:"primaryKey"`
	ChannelID    string `gorm:"not null"`
	GuildID      string `gorm:"not null"`
	TemplateName string `gorm:"not null;index"`
}
