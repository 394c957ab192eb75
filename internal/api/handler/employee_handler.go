package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// EmployeeHandler 员工模块 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// List 员工列表（分页）
// GET /api/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.employeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 员工详情
// GET /api/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.employeeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.OK(c, emp)
}

// Create 新建员工
// POST /api/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	emp, err := h.employeeSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.Created(c, emp)
}

// Update 更新员工
// PUT /api/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	emp, err := h.employeeSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.OK(c, emp)
}

// Delete 删除员工
// DELETE /api/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employeeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleEmployeeError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEmployeeError 员工相关错误，考勤 / 请假 / 资产领用共用
func handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 20101, "Employee not found")
	case errors.Is(err, service.ErrEmployeeCodeTaken):
		response.Error(c, http.StatusConflict, 20102, "Employee code already exists")
	case errors.Is(err, service.ErrEmployeeEmailTaken):
		response.Error(c, http.StatusConflict, 20103, "Employee email already exists")
	case errors.Is(err, service.ErrEmployeeInactive):
		response.BadRequest(c, 20104, "Employee is not active")
	case errors.Is(err, service.ErrUserNotFound):
		response.BadRequest(c, 20105, "Linked user does not exist")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 12102, "from must not be after to")
	default:
		if handleTypedError(c, err) {
			return
		}
		response.InternalError(c, err)
	}
}
