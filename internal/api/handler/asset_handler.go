package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// AssetHandler 资产模块 HTTP 处理器
type AssetHandler struct {
	assetSvc service.AssetService
}

// NewAssetHandler 创建 AssetHandler
func NewAssetHandler(assetSvc service.AssetService) *AssetHandler {
	return &AssetHandler{assetSvc: assetSvc}
}

// List GET /api/assets
func (h *AssetHandler) List(c *gin.Context) {
	var req dto.AssetListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.assetSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get GET /api/assets/:id
func (h *AssetHandler) Get(c *gin.Context) {
	a, err := h.assetSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssetError(c, err)
		return
	}
	response.OK(c, a)
}

// Create POST /api/assets
func (h *AssetHandler) Create(c *gin.Context) {
	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	a, err := h.assetSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}
	response.Created(c, a)
}

// Update PUT /api/assets/:id
func (h *AssetHandler) Update(c *gin.Context) {
	var req dto.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	a, err := h.assetSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}
	response.OK(c, a)
}

// Delete DELETE /api/assets/:id
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.assetSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleAssetError(c, err)
		return
	}
	response.OK(c, nil)
}

// Assign 领用
// POST /api/assets/:id/assign
func (h *AssetHandler) Assign(c *gin.Context) {
	var req dto.AssignAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	a, err := h.assetSvc.Assign(c.Request.Context(), c.Param("id"), req.EmployeeID, callerID)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}
	response.OK(c, a)
}

// Return 归还
// POST /api/assets/:id/return
func (h *AssetHandler) Return(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	a, err := h.assetSvc.Return(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}
	response.OK(c, a)
}

func (h *AssetHandler) handleAssetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssetNotFound):
		response.NotFound(c, 24101, "Asset not found")
	case errors.Is(err, service.ErrAssetTagTaken):
		response.Error(c, http.StatusConflict, 24102, "Asset tag already exists")
	case errors.Is(err, service.ErrAssetNotAvailable):
		response.BadRequest(c, 24103, "Asset is not available")
	case errors.Is(err, service.ErrAssetNotAssigned):
		response.BadRequest(c, 24104, "Asset is not assigned")
	case errors.Is(err, service.ErrAssetAssigned):
		response.Error(c, http.StatusConflict, 24105, "Asset is assigned, return it first")
	case errors.Is(err, service.ErrRoomNotFound):
		response.BadRequest(c, 24106, "Room does not exist")
	default:
		handleEmployeeError(c, err)
	}
}
