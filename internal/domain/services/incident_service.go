package services

import (
	"errors"
	"fmt"
	"time"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/internal/infrastructure/database"
	"gasguard-http-service/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceIncidentService 事件服务接口
type InterfaceIncidentService interface {
	ReportReading(sensorID uint, value float64) (*ReadingResult, error)

	// 企业用户视角
	GetBusinessIncidents(businessID uint) ([]models.Incident, error)
	GetOwnedIncidentByID(businessID, incidentID uint) (*models.Incident, error)
	Acknowledge(businessID, incidentID uint) (*models.Incident, bool, error)

	// 应急服务视角
	GetActiveIncidents(serviceID uint) ([]models.Incident, error)
	GetAcceptedIncidents(serviceID uint) ([]models.Incident, error)
	GetIncidentHistory(serviceID uint) ([]models.Incident, error)
	Accept(serviceID, incidentID uint) (*models.Incident, error)
	Resolve(serviceID, incidentID uint) (*models.Incident, error)
	GetIncidentLocation(serviceID, incidentID uint) (*IncidentLocation, error)

	// 管理员视角
	GetAllIncidents(query models.PaginationQuery) ([]models.Incident, models.PaginationResult, error)
	GetIncidentDetail(id uint) (*IncidentDetail, error)
	GetStatistics() (*IncidentStatistics, error)
}

// ReadingResult 上报读数的处理结果
type ReadingResult struct {
	SensorID        uint    `json:"sensor_id"`
	Value           float64 `json:"value"`
	Classification  string  `json:"classification"` // normal / warning / critical
	IncidentCreated bool    `json:"incident_created"`
	IncidentID      *uint   `json:"incident_id,omitempty"`
	ValveClosed     bool    `json:"valve_closed"`
}

// IncidentLocation 事件所在建筑的坐标
type IncidentLocation struct {
	IncidentID uint    `json:"incident_id"`
	BuildingID uint    `json:"building_id"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// IncidentDetail 管理员事件详情，带建筑与企业展示字段
type IncidentDetail struct {
	models.Incident
	BuildingName    string `json:"building_name"`
	BuildingAddress string `json:"building_address"`
	BusinessName    string `json:"business_name"`
}

// IncidentStatistics 按状态和严重程度的事件计数
type IncidentStatistics struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	BySeverity map[string]int64 `json:"by_severity"`
}

// IncidentService 提供事件生命周期相关的服务
type IncidentService struct {
	DB     *gorm.DB
	Pool   *database.ConnectionPool
	Config *config.Config
	Redis  InterfaceRedisService // 可为 nil，缓存失败不影响主流程
}

// NewIncidentService 创建一个新的事件服务
func NewIncidentService(pool *database.ConnectionPool, cfg *config.Config, redisService InterfaceRedisService) InterfaceIncidentService {
	return &IncidentService{
		DB:     pool.GetDB(),
		Pool:   pool,
		Config: cfg,
		Redis:  redisService,
	}
}

// classify 按阈值对读数分级，比较都是闭区间下界
func classify(value, warning, critical float64) string {
	switch {
	case value >= critical:
		return string(models.SeverityCritical)
	case value >= warning:
		return string(models.SeverityWarning)
	default:
		return "normal"
	}
}

// 1  ReportReading 处理一次传感器读数上报
// 读数总是落库；越限时创建事件；critical 且设备带阀时自动切断
func (s *IncidentService) ReportReading(sensorID uint, value float64) (*ReadingResult, error) {
	var sensor models.Sensor
	if err := s.DB.Preload("Device").First(&sensor, sensorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSensorNotFound
		}
		return nil, err
	}

	result := &ReadingResult{
		SensorID:       sensor.ID,
		Value:          value,
		Classification: classify(value, sensor.ThresholdWarning, sensor.ThresholdCritical),
	}

	metric := models.SensorMetric{
		SensorID:   sensor.ID,
		Value:      value,
		RecordedAt: time.Now(),
	}

	err := s.Pool.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Create(&metric).Error; err != nil {
			return err
		}

		if result.Classification == "normal" {
			return nil
		}

		sid := sensor.ID
		incident := models.Incident{
			BuildingID:  sensor.Device.BuildingID,
			SensorID:    &sid,
			DetectedAt:  metric.RecordedAt,
			Severity:    models.IncidentSeverity(result.Classification),
			Status:      models.IncidentStatusOpen,
			Description: fmt.Sprintf("%s reading %g %s exceeded %s threshold", sensor.SensorType, value, sensor.Unit, result.Classification),
		}
		if err := tx.Create(&incident).Error; err != nil {
			return err
		}
		result.IncidentCreated = true
		result.IncidentID = &incident.ID

		// critical 读数关闭设备的切断阀
		if result.Classification == string(models.SeverityCritical) && sensor.Device != nil && sensor.Device.SupportsValve {
			now := time.Now()
			closed := tx.Model(&models.Valve{}).
				Where("device_id = ? AND active = ?", sensor.Device.ID, true).
				Updates(map[string]interface{}{"active": false, "last_closed_at": now})
			if closed.Error != nil {
				return closed.Error
			}
			result.ValveClosed = closed.RowsAffected > 0
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := s.Redis.CacheLatestReading(&metric); err != nil {
			logger.Warning("缓存最新读数失败: %v", err)
		}
		if result.IncidentCreated {
			if err := s.Redis.InvalidateIncidentStats(); err != nil {
				logger.Warning("失效事件统计缓存失败: %v", err)
			}
		}
	}

	if result.IncidentCreated {
		logger.Warning("传感器 %d 读数 %g 触发 %s 事件 %d", sensor.ID, value, result.Classification, *result.IncidentID)
	}

	return result, nil
}

// 2  GetBusinessIncidents 获取企业名下所有建筑的事件，按检测时间倒序
func (s *IncidentService) GetBusinessIncidents(businessID uint) ([]models.Incident, error) {
	var incidents []models.Incident
	err := s.DB.
		Joins("JOIN buildings ON buildings.id = incidents.building_id").
		Where("buildings.business_user_id = ?", businessID).
		Order("incidents.detected_at DESC").
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

// 3  GetOwnedIncidentByID 获取企业名下的单个事件
func (s *IncidentService) GetOwnedIncidentByID(businessID, incidentID uint) (*models.Incident, error) {
	var incident models.Incident
	err := s.DB.
		Joins("JOIN buildings ON buildings.id = incidents.building_id").
		Where("incidents.id = ? AND buildings.business_user_id = ?", incidentID, businessID).
		First(&incident).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}
	return &incident, nil
}

// 4  Acknowledge 企业确认事件
// 已确认的事件重复确认是幂等的成功，返回第二个值表示是否为重复确认
func (s *IncidentService) Acknowledge(businessID, incidentID uint) (*models.Incident, bool, error) {
	incident, err := s.GetOwnedIncidentByID(businessID, incidentID)
	if err != nil {
		return nil, false, err
	}

	if incident.Status == models.IncidentStatusAcknowledged {
		return incident, true, nil
	}
	if incident.Status == models.IncidentStatusResolved {
		return nil, false, &InvalidTransitionError{Op: "确认", Current: string(incident.Status)}
	}

	if err := s.DB.Model(incident).Update("status", models.IncidentStatusAcknowledged).Error; err != nil {
		return nil, false, err
	}
	incident.Status = models.IncidentStatusAcknowledged
	s.invalidateStats()
	return incident, false, nil
}

// visibleToService 应急服务可见的事件：建筑已指派给自己，或尚未指派
func (s *IncidentService) visibleToService(serviceID uint) *gorm.DB {
	return s.DB.
		Joins("JOIN buildings ON buildings.id = incidents.building_id").
		Where("buildings.emergency_service_id = ? OR buildings.emergency_service_id IS NULL", serviceID)
}

// 5  GetActiveIncidents 待处理事件（open/acknowledged），按检测时间倒序
func (s *IncidentService) GetActiveIncidents(serviceID uint) ([]models.Incident, error) {
	var incidents []models.Incident
	err := s.visibleToService(serviceID).
		Where("incidents.status IN ?", []models.IncidentStatus{models.IncidentStatusOpen, models.IncidentStatusAcknowledged}).
		Order("incidents.detected_at DESC").
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

// 6  GetAcceptedIncidents 本机构正在处理的事件
func (s *IncidentService) GetAcceptedIncidents(serviceID uint) ([]models.Incident, error) {
	var incidents []models.Incident
	err := s.DB.
		Where("status = ? AND handled_by_service_id = ?", models.IncidentStatusInProgress, serviceID).
		Order("detected_at DESC").
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

// 7  GetIncidentHistory 本机构已解决的事件
func (s *IncidentService) GetIncidentHistory(serviceID uint) ([]models.Incident, error) {
	var incidents []models.Incident
	err := s.DB.
		Where("status = ? AND handled_by_service_id = ?", models.IncidentStatusResolved, serviceID).
		Order("detected_at DESC").
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

// 8  Accept 应急服务接单
// 只允许 open 状态；并发接单用带状态条件的 UPDATE 判定胜负。
// 接单建筑尚未指派应急服务时，顺带把建筑指派给接单方（首接即认领）
func (s *IncidentService) Accept(serviceID, incidentID uint) (*models.Incident, error) {
	var incident models.Incident
	err := s.visibleToService(serviceID).
		Where("incidents.id = ?", incidentID).
		First(&incident).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}

	err = s.Pool.WithTransaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Incident{}).
			Where("id = ? AND status = ?", incidentID, models.IncidentStatusOpen).
			Updates(map[string]interface{}{
				"status":                models.IncidentStatusInProgress,
				"handled_by_service_id": serviceID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 状态已被并发修改或本就不可接单，读回当前状态用于报错
			var current models.Incident
			if err := tx.First(&current, incidentID).Error; err != nil {
				return err
			}
			return &InvalidTransitionError{Op: "接单", Current: string(current.Status)}
		}

		// 首接即认领未指派的建筑
		return tx.Model(&models.Building{}).
			Where("id = ? AND emergency_service_id IS NULL", incident.BuildingID).
			Update("emergency_service_id", serviceID).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats()
	logger.Info("应急服务 %d 接单事件 %d", serviceID, incidentID)

	if err := s.DB.First(&incident, incidentID).Error; err != nil {
		return nil, err
	}
	return &incident, nil
}

// 9  Resolve 应急服务结单
// 结单权跟着建筑的当前指派走，建筑改派后由新机构闭环，原接单方失去结单权
func (s *IncidentService) Resolve(serviceID, incidentID uint) (*models.Incident, error) {
	var incident models.Incident
	err := s.DB.
		Joins("JOIN buildings ON buildings.id = incidents.building_id").
		Where("incidents.id = ? AND buildings.emergency_service_id = ?", incidentID, serviceID).
		First(&incident).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}

	res := s.DB.Model(&models.Incident{}).
		Where("id = ? AND status = ?", incidentID, models.IncidentStatusInProgress).
		Updates(map[string]interface{}{
			"status":                models.IncidentStatusResolved,
			"handled_by_service_id": serviceID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &InvalidTransitionError{Op: "结单", Current: string(incident.Status)}
	}

	sid := serviceID
	incident.Status = models.IncidentStatusResolved
	incident.HandledByServiceID = &sid
	s.invalidateStats()
	logger.Info("应急服务 %d 结单事件 %d", serviceID, incidentID)
	return &incident, nil
}

// 10  GetIncidentLocation 获取事件建筑的坐标，供出警导航
func (s *IncidentService) GetIncidentLocation(serviceID, incidentID uint) (*IncidentLocation, error) {
	var loc IncidentLocation
	err := s.DB.Model(&models.Incident{}).
		Select("incidents.id AS incident_id, buildings.id AS building_id, buildings.address, buildings.latitude, buildings.longitude").
		Joins("JOIN buildings ON buildings.id = incidents.building_id").
		Where("incidents.id = ? AND (buildings.emergency_service_id = ? OR incidents.handled_by_service_id = ?)",
			incidentID, serviceID, serviceID).
		First(&loc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// 11  GetAllIncidents 分页获取所有事件（管理员），按检测时间排序
func (s *IncidentService) GetAllIncidents(query models.PaginationQuery) ([]models.Incident, models.PaginationResult, error) {
	if query.PageNum <= 0 {
		query.PageNum = 1
	}
	if query.PageSize <= 0 || query.PageSize > 100 {
		query.PageSize = 20
	}

	var total int64
	if err := s.DB.Model(&models.Incident{}).Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	order := "detected_at ASC"
	if query.Desc {
		order = "detected_at DESC"
	}

	var incidents []models.Incident
	err := s.DB.Order(order).
		Limit(query.PageSize).
		Offset((query.PageNum - 1) * query.PageSize).
		Find(&incidents).Error
	if err != nil {
		return nil, models.PaginationResult{}, err
	}

	return incidents, models.NewPaginationResult(int(total), query.PageNum, query.PageSize), nil
}

// 12  GetIncidentDetail 事件详情，带建筑与企业展示字段（管理员）
func (s *IncidentService) GetIncidentDetail(id uint) (*IncidentDetail, error) {
	var detail IncidentDetail
	err := s.DB.Model(&models.Incident{}).
		Select("incidents.*, buildings.name AS building_name, buildings.address AS building_address, business_users.business_name AS business_name").
		Joins("JOIN buildings ON buildings.id = incidents.building_id").
		Joins("JOIN business_users ON business_users.id = buildings.business_user_id").
		Where("incidents.id = ?", id).
		First(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}
	return &detail, nil
}

// 13  GetStatistics 按状态和严重程度统计事件数量，短期缓存
func (s *IncidentService) GetStatistics() (*IncidentStatistics, error) {
	if s.Redis != nil {
		var cached IncidentStatistics
		if err := s.Redis.GetIncidentStats(&cached); err == nil {
			return &cached, nil
		}
	}

	stats := &IncidentStatistics{
		ByStatus:   make(map[string]int64),
		BySeverity: make(map[string]int64),
	}

	if err := s.DB.Model(&models.Incident{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	if err := s.DB.Model(&models.Incident{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
	}

	var bySeverity []bucket
	if err := s.DB.Model(&models.Incident{}).
		Select("severity AS key, COUNT(*) AS count").
		Group("severity").
		Scan(&bySeverity).Error; err != nil {
		return nil, err
	}
	for _, b := range bySeverity {
		stats.BySeverity[b.Key] = b.Count
	}

	if s.Redis != nil {
		if err := s.Redis.CacheIncidentStats(stats); err != nil {
			logger.Warning("缓存事件统计失败: %v", err)
		}
	}

	return stats, nil
}

func (s *IncidentService) invalidateStats() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.InvalidateIncidentStats(); err != nil {
		logger.Warning("失效事件统计缓存失败: %v", err)
	}
}
