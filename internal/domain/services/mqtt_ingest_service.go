package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gasguard-http-service/internal/infrastructure/config"
	"gasguard-http-service/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// 设备读数上报主题，+ 为传感器ID
const TopicSensorData = "gasguard/sensors/+/data"

// InterfaceMQTTIngestService 定义MQTT读数接入服务接口
type InterfaceMQTTIngestService interface {
	Connect() error
	Disconnect()
	Subscribe() error
}

// sensorDataMessage 设备经MQTT上报的读数，和HTTP接入共用同一个载荷格式
type sensorDataMessage struct {
	Value float64 `json:"value"`
}

// MQTTIngestService 把MQTT上报桥接到读数接入路径
type MQTTIngestService struct {
	Config          *config.Config
	IncidentService InterfaceIncidentService
	Client          mqtt.Client
}

// NewMQTTIngestService 创建一个新的MQTT读数接入服务
func NewMQTTIngestService(cfg *config.Config, incidentService InterfaceIncidentService) InterfaceMQTTIngestService {
	service := &MQTTIngestService{
		Config:          cfg,
		IncidentService: incidentService,
	}
	service.setupMQTTClient()
	return service
}

// setupMQTTClient 设置MQTT客户端
func (s *MQTTIngestService) setupMQTTClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBroker)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("gasguard-ingest-%s", uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}

	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("[MQTT] 已连接到 %s", s.Config.MQTTBroker)
		if err := s.Subscribe(); err != nil {
			logger.Error("[MQTT] 订阅失败: %v", err)
		}
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warning("[MQTT] 连接断开: %v", err)
	}

	s.Client = mqtt.NewClient(opts)
}

// Connect 连接MQTT代理
func (s *MQTTIngestService) Connect() error {
	token := s.Client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return errors.New("MQTT连接超时")
	}
	return token.Error()
}

// Disconnect 断开MQTT连接
func (s *MQTTIngestService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}

// Subscribe 订阅读数上报主题，QoS 1 保证至少一次送达
func (s *MQTTIngestService) Subscribe() error {
	token := s.Client.Subscribe(TopicSensorData, 1, s.handleSensorData)
	token.Wait()
	return token.Error()
}

// handleSensorData 处理一条设备上报，桥接到和HTTP相同的接入路径
func (s *MQTTIngestService) handleSensorData(client mqtt.Client, msg mqtt.Message) {
	sensorID, err := sensorIDFromTopic(msg.Topic())
	if err != nil {
		logger.Warning("[MQTT] 忽略非法主题 %s: %v", msg.Topic(), err)
		return
	}

	var payload sensorDataMessage
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		logger.Warning("[MQTT] 忽略非法载荷 topic=%s: %v", msg.Topic(), err)
		return
	}

	result, err := s.IncidentService.ReportReading(sensorID, payload.Value)
	if err != nil {
		logger.Warning("[MQTT] 读数处理失败 sensor=%d: %v", sensorID, err)
		return
	}
	logger.Info("[MQTT] 传感器 %d 读数 %g 分级 %s", sensorID, payload.Value, result.Classification)
}

// sensorIDFromTopic 从 gasguard/sensors/<id>/data 提取传感器ID
func sensorIDFromTopic(topic string) (uint, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "gasguard" || parts[1] != "sensors" || parts[3] != "data" {
		return 0, errors.New("unexpected topic shape")
	}
	id, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return 0, errors.New("sensor id is not numeric")
	}
	return uint(id), nil
}
