package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	EmployeeCode string  `json:"employee_code" binding:"required,max=30"`
	FirstName    string  `json:"first_name"    binding:"required,max=100"`
	LastName     string  `json:"last_name"     binding:"required,max=100"`
	Email        string  `json:"email"         binding:"required,email,max=255"`
	Phone        *string `json:"phone"         binding:"omitempty,max=30"`
	Department   string  `json:"department"    binding:"omitempty,max=100"`
	Position     string  `json:"position"      binding:"omitempty,max=100"`
	UserID       *string `json:"user_id"       binding:"omitempty,uuid"`
	HireDate     *string `json:"hire_date"     binding:"omitempty,datetime=2006-01-02"`
}

// UpdateEmployeeRequest 更新员工请求
type UpdateEmployeeRequest struct {
	FirstName  *string `json:"first_name"  binding:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name"   binding:"omitempty,min=1,max=100"`
	Email      *string `json:"email"       binding:"omitempty,email,max=255"`
	Phone      *string `json:"phone"       binding:"omitempty,max=30"`
	Department *string `json:"department"  binding:"omitempty,max=100"`
	Position   *string `json:"position"    binding:"omitempty,max=100"`
	Status     *string `json:"status"      binding:"omitempty,oneof=active inactive terminated"`
	UserID     *string `json:"user_id"     binding:"omitempty,uuid"`
	HireDate   *string `json:"hire_date"   binding:"omitempty,datetime=2006-01-02"`
}

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	PaginationRequest
	Department string `form:"department"`
	Status     string `form:"status"  binding:"omitempty,oneof=active inactive terminated"`
	Keyword    string `form:"keyword" binding:"omitempty,max=100"`
}
