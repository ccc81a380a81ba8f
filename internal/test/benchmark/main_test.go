package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
)

// 压测运行中的实例，默认不执行
// 用法: GASGUARD_BENCH_URL=http://localhost:8080 go test -v ./internal/test/benchmark/

type benchConfig struct {
	BaseURL     string
	AdminEmail  string
	AdminPass   string
	Concurrency int
	Requests    int
}

var (
	cfg       benchConfig
	authToken string
)

func TestMain(m *testing.M) {
	cfg = benchConfig{
		BaseURL:     os.Getenv("GASGUARD_BENCH_URL"),
		AdminEmail:  envOr("GASGUARD_BENCH_EMAIL", "admin@gasguard.local"),
		AdminPass:   envOr("GASGUARD_BENCH_PASSWORD", "admin123"),
		Concurrency: 10,
		Requests:    200,
	}

	if cfg.BaseURL == "" {
		fmt.Println("未设置 GASGUARD_BENCH_URL，跳过压测")
		os.Exit(0)
	}

	if err := fetchAuthToken(); err != nil {
		fmt.Printf("获取认证令牌失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// fetchAuthToken 用管理员账号登录换取令牌
func fetchAuthToken() error {
	payload, err := json.Marshal(map[string]string{
		"email":    cfg.AdminEmail,
		"password": cfg.AdminPass,
	})
	if err != nil {
		return err
	}

	resp, err := http.Post(cfg.BaseURL+"/api/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("登录返回 %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	authToken = result.Data.Token
	return nil
}

func TestBenchmarkPing(t *testing.T) {
	b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests, "")
	result := b.RunGET("/api/ping")
	result.PrintResult()
}

func TestBenchmarkAdminIncidents(t *testing.T) {
	b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests, authToken)
	result := b.RunGET("/api/admin/incidents")
	result.PrintResult()
}

func TestBenchmarkIncidentStatistics(t *testing.T) {
	b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests, authToken)
	result := b.RunGET("/api/admin/incidents/statistics")
	result.PrintResult()
}

// 读数上报是设备侧最热的写路径
func TestBenchmarkSensorIngest(t *testing.T) {
	sensorID := envOr("GASGUARD_BENCH_SENSOR_ID", "")
	if sensorID == "" {
		t.Skip("未设置 GASGUARD_BENCH_SENSOR_ID，跳过上报压测")
	}

	b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests, "")
	result := b.RunPOST("/api/iot/sensors/"+sensorID+"/data", map[string]float64{"value": 42})
	result.PrintResult()
}
