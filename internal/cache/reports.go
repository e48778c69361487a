// internal/cache/reports.go
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"attrition-insights/internal/common/logger"
	"attrition-insights/internal/models"
)

const (
	reportKey = "attrition:report:latest"
	alertsKey = "attrition:alerts:latest"
)

// ReportCache keeps the latest assembled report and alert list in Redis so
// the HTTP surface can serve them without re-running the pipeline. Cache
// failures are soft: a miss or a write error just means recomputation.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewReportCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ReportCache {
	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "report-cache"}),
	}
}

// GetReport returns the cached report, or false on miss or decode failure.
func (c *ReportCache) GetReport(ctx context.Context) (*models.Report, bool) {
	val, err := c.client.Get(ctx, reportKey).Result()
	if err != nil {
		return nil, false
	}
	var report models.Report
	if err := json.Unmarshal([]byte(val), &report); err != nil {
		c.logger.Warn("cached report is unreadable, dropping it", map[string]interface{}{"error": err})
		c.client.Del(ctx, reportKey)
		return nil, false
	}
	return &report, true
}

// SetReport stores the report under the configured TTL.
func (c *ReportCache) SetReport(ctx context.Context, report *models.Report) {
	data, err := json.Marshal(report)
	if err != nil {
		c.logger.Error("marshal report for cache", map[string]interface{}{"error": err})
		return
	}
	if err := c.client.Set(ctx, reportKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache report write failed", map[string]interface{}{"error": err})
	}
}

// GetAlerts returns the cached alert list, or false on miss.
func (c *ReportCache) GetAlerts(ctx context.Context) ([]models.Alert, bool) {
	val, err := c.client.Get(ctx, alertsKey).Result()
	if err != nil {
		return nil, false
	}
	var alerts []models.Alert
	if err := json.Unmarshal([]byte(val), &alerts); err != nil {
		c.client.Del(ctx, alertsKey)
		return nil, false
	}
	return alerts, true
}

// SetAlerts stores the alert list under the configured TTL.
func (c *ReportCache) SetAlerts(ctx context.Context, alerts []models.Alert) {
	data, err := json.Marshal(alerts)
	if err != nil {
		c.logger.Error("marshal alerts for cache", map[string]interface{}{"error": err})
		return
	}
	if err := c.client.Set(ctx, alertsKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache alerts write failed", map[string]interface{}{"error": err})
	}
}
