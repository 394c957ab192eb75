package model

// 员工状态
const (
	EmployeeStatusActive     = "active"
	EmployeeStatusInactive   = "inactive"
	EmployeeStatusTerminated = "terminated"
)

// Employee 员工档案 — 对应 employees
type Employee struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeCode string  `gorm:"type:varchar(30);not null;uniqueIndex"          json:"employee_code"`
	FirstName    string  `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName     string  `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Phone        *string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Department   string  `gorm:"type:varchar(100)"                              json:"department"`
	Position     string  `gorm:"type:varchar(100)"                              json:"position"`
	Status       string  `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	UserID       *string `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	HireDate     *string `gorm:"type:varchar(10)"                                      json:"hire_date,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
