package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
)

// ── 资产模块业务错误 ──

var (
	ErrAssetNotFound     = errors.New("资产不存在")
	ErrAssetTagTaken     = errors.New("资产标签已存在")
	ErrAssetNotAvailable = errors.New("资产当前不可领用")
	ErrAssetNotAssigned  = errors.New("资产未被领用")
	ErrAssetAssigned     = errors.New("资产已被领用，请先归还")
)

// AssetService 资产业务接口
type AssetService interface {
	Create(ctx context.Context, req *dto.CreateAssetRequest, callerID string) (*model.Asset, error)
	Get(ctx context.Context, id string) (*model.Asset, error)
	List(ctx context.Context, req *dto.AssetListRequest) ([]model.Asset, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateAssetRequest, callerID string) (*model.Asset, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id string, employeeID string, callerID string) (*model.Asset, error)
	Return(ctx context.Context, id string, callerID string) (*model.Asset, error)
}

type assetService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAssetService 创建 AssetService 实例
func NewAssetService(repo *repository.Repository, logger *zap.Logger) AssetService {
	return &assetService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *assetService) Create(ctx context.Context, req *dto.CreateAssetRequest, callerID string) (*model.Asset, error) {
	roomID := trimOptional(req.RoomID)
	if err := s.checkRoom(ctx, roomID); err != nil {
		return nil, err
	}

	now := s.now()
	asset := &model.Asset{
		AssetTag:     strings.TrimSpace(req.AssetTag),
		Name:         strings.TrimSpace(req.Name),
		Category:     strings.TrimSpace(req.Category),
		Status:       model.AssetStatusAvailable,
		RoomID:       roomID,
		PurchaseDate: req.PurchaseDate,
	}
	asset.CreatedAt = now
	asset.CreatedBy = &callerID
	asset.Touch(callerID, now)

	if err := s.repo.Asset.Create(ctx, asset); err != nil {
		if isDuplicate(err) {
			return nil, ErrAssetTagTaken
		}
		s.logger.Error("创建资产失败", zap.Error(err))
		return nil, err
	}
	return asset, nil
}

func (s *assetService) checkRoom(ctx context.Context, roomID *string) error {
	if roomID == nil {
		return nil
	}
	if _, err := s.repo.Room.GetByID(ctx, *roomID); err != nil {
		if isNotFound(err) {
			return ErrRoomNotFound
		}
		return err
	}
	return nil
}

// ────────────────────── Get / List ──────────────────────

func (s *assetService) Get(ctx context.Context, id string) (*model.Asset, error) {
	asset, err := s.repo.Asset.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error("查询资产失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return asset, nil
}

func (s *assetService) List(ctx context.Context, req *dto.AssetListRequest) ([]model.Asset, int64, error) {
	list, total, err := s.repo.Asset.List(ctx, repository.AssetFilter{
		Status:     req.Status,
		Category:   req.Category,
		AssignedTo: req.AssignedTo,
		Offset:     req.GetOffset(),
		Limit:      req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出资产失败", zap.Error(err))
		return nil, 0, err
	}
	if list == nil {
		list = []model.Asset{}
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *assetService) Update(ctx context.Context, id string, req *dto.UpdateAssetRequest, callerID string) (*model.Asset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		asset.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		asset.Category = strings.TrimSpace(*req.Category)
	}
	if req.Status != nil {
		// 领用状态只能通过 Assign / Return 变更
		if asset.Status == model.AssetStatusAssigned {
			return nil, ErrAssetAssigned
		}
		asset.Status = *req.Status
	}
	if req.RoomID != nil {
		roomID := trimOptional(req.RoomID)
		if err := s.checkRoom(ctx, roomID); err != nil {
			return nil, err
		}
		asset.RoomID = roomID
	}
	if req.PurchaseDate != nil {
		asset.PurchaseDate = req.PurchaseDate
	}

	return s.save(ctx, asset, callerID)
}

// ────────────────────── Assign / Return ──────────────────────

func (s *assetService) Assign(ctx context.Context, id string, employeeID string, callerID string) (*model.Asset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.Status != model.AssetStatusAvailable {
		return nil, ErrAssetNotAvailable
	}
	emp, err := activeEmployee(ctx, s.repo, employeeID)
	if err != nil {
		return nil, err
	}

	asset.Status = model.AssetStatusAssigned
	asset.AssignedTo = &emp.ID
	return s.save(ctx, asset, callerID)
}

func (s *assetService) Return(ctx context.Context, id string, callerID string) (*model.Asset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.Status != model.AssetStatusAssigned {
		return nil, ErrAssetNotAssigned
	}

	asset.Status = model.AssetStatusAvailable
	asset.AssignedTo = nil
	return s.save(ctx, asset, callerID)
}

func (s *assetService) save(ctx context.Context, asset *model.Asset, callerID string) (*model.Asset, error) {
	asset.Touch(callerID, s.now())
	if err := s.repo.Asset.Update(ctx, asset); err != nil {
		if isNotFound(err) {
			return nil, ErrAssetNotFound
		}
		s.logger.Error("更新资产失败", zap.String("id", asset.ID), zap.Error(err))
		return nil, err
	}
	return asset, nil
}

// ────────────────────── Delete ──────────────────────

func (s *assetService) Delete(ctx context.Context, id string) error {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if asset.Status == model.AssetStatusAssigned {
		return ErrAssetAssigned
	}
	if err := s.repo.Asset.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrAssetNotFound
		}
		s.logger.Error("删除资产失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
