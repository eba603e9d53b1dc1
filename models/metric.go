package models

// Werttypen, die eine Metrik annehmen kann.
const (
	ValueTypeInt      = "INT"
	ValueTypeFloat    = "FLOAT"
	ValueTypePercent  = "PERCENT"
	ValueTypeBool     = "BOOL"
	ValueTypeString   = "STRING"
	ValueTypeMillisec = "MILLISEC"
	ValueTypeData     = "DATA"
	ValueTypeLevel    = "LEVEL"
	ValueTypeDistrib  = "DISTRIB"
	ValueTypeRating   = "RATING"
)

// Metric ist eine benannte, typisierte Messgröße (z.B. Codezeilen).
type Metric struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Key         string `json:"key" gorm:"column:name;uniqueIndex;not null"`
	ShortName   string `json:"short_name"`
	Description string `json:"description,omitempty"`
	Domain      string `json:"domain,omitempty" gorm:"index"`
	ValType     string `json:"val_type" gorm:"column:val_type;size:8"`
	Enabled     bool   `json:"enabled" gorm:"default:true"`
	Hidden      bool   `json:"hidden" gorm:"default:false"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Metric) TableName() string {
	return "metrics"
}

// IsNumeric gibt an, ob die Messwerte dieser Metrik Zahlen sind.
func (m Metric) IsNumeric() bool {
	switch m.ValType {
	case ValueTypeInt, ValueTypeFloat, ValueTypePercent, ValueTypeMillisec, ValueTypeRating:
		return true
	}
	return false
}

// IsLevel gibt an, ob die Metrik eine qualitative Stufe (OK/WARN/ERROR) enthält.
func (m Metric) IsLevel() bool {
	return m.ValType == ValueTypeLevel
}
