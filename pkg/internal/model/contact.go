package model

// DayHours 单日营业时间.
type DayHours struct {
	Open   string `json:"open"   rule:"hhmm"`
	Close  string `json:"close"  rule:"hhmm"`
	IsOpen bool   `json:"isOpen"`
}

// WorkingHours 一周营业时间.
type WorkingHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

// ContactInfo 联系信息，每个部署只使用第一行.
type ContactInfo struct {
	Base

	CompanyName  string       `gorm:"size:255;not null"          json:"companyName"`
	Address      string       `gorm:"type:text;not null"         json:"address"`
	Phone        string       `gorm:"size:64;not null"           json:"phone"`
	Email        string       `gorm:"size:255;not null"          json:"email"`
	Latitude     float64      `gorm:"not null"                   json:"latitude"`
	Longitude    float64      `gorm:"not null"                   json:"longitude"`
	WorkingHours WorkingHours `gorm:"type:text;serializer:json"  json:"workingHours"`
}
