package types

import "github.com/greenparkpeyzaj/greenpark/pkg/internal/model"

// ContactUpdateInput 更新联系信息，全部字段必填.
type ContactUpdateInput struct {
	CompanyName  string             `json:"companyName"  rule:"required"`
	Address      string             `json:"address"      rule:"required"`
	Phone        string             `json:"phone"        rule:"required"`
	Email        string             `json:"email"        rule:"required,email" msg:"field_email_invalid"`
	Latitude     float64            `json:"latitude"     rule:"gte=-90,lte=90"`
	Longitude    float64            `json:"longitude"    rule:"gte=-180,lte=180"`
	WorkingHours model.WorkingHours `json:"workingHours"`
}
