package models

// MinSearchSize ist die Mindestlänge eines Suchbegriffs für den Ressourcen-Index.
const MinSearchSize = 3

// ResourceIndex ist ein durchsuchbares Suffix eines Ressourcen-Schlüssels oder -Namens.
type ResourceIndex struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Kee      string `json:"kee" gorm:"column:kee;index;size:400;not null"`
	Position int    `json:"position"`
	NameSize int    `json:"name_size"`

	ResourceID    uint    `json:"resource_id" gorm:"index"`
	Resource      Project `json:"resource" gorm:"foreignKey:ResourceID"`
	RootProjectID uint    `json:"root_project_id" gorm:"index"`
	RootProject   Project `json:"root_project" gorm:"foreignKey:RootProjectID"`

	Qualifier string `json:"qualifier" gorm:"size:10"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ResourceIndex) TableName() string {
	return "resource_index"
}

// ResourceIDForAuthorization gibt die ID zurück, gegen die Berechtigungen geprüft werden.
// Der Zugriff auf jede indizierte Komponente läuft über ihr Wurzelprojekt.
func (r ResourceIndex) ResourceIDForAuthorization() uint {
	return r.RootProjectID
}
