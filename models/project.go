package models

import "time"

// Project repräsentiert eine Ressource im Komponentenbaum (Projekt, Modul, Verzeichnis, Datei).
type Project struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Kee       string `json:"key" gorm:"column:kee;index;size:400"`
	Name      string `json:"name"`
	LongName  string `json:"long_name,omitempty"`
	Scope     string `json:"scope" gorm:"size:3"`
	Qualifier string `json:"qualifier" gorm:"size:10;index"`
	RootID    *uint  `json:"root_id,omitempty" gorm:"index"`
	Enabled   bool   `json:"enabled" gorm:"default:true"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Project) TableName() string {
	return "projects"
}
