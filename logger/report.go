package logger

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type endpointStat struct {
	requests int64
	pages    int64
}

var (
	errorCount   int64
	warnCount    int64
	requestsSent int64
	endpoints    sync.Map // map[string]*endpointStat
)

func recordWarn(component string) {
	_ = component
	atomic.AddInt64(&warnCount, 1)
}

func recordError(component string) {
	_ = component
	atomic.AddInt64(&errorCount, 1)
}

// RecordRequest counts one REST request against the named endpoint.
func RecordRequest(endpoint string) {
	atomic.AddInt64(&requestsSent, 1)
	v, _ := endpoints.LoadOrStore(endpoint, &endpointStat{})
	es := v.(*endpointStat)
	atomic.AddInt64(&es.requests, 1)
}

// RecordPage counts one page consumed from a paginated endpoint.
func RecordPage(endpoint string) {
	v, _ := endpoints.LoadOrStore(endpoint, &endpointStat{})
	es := v.(*endpointStat)
	atomic.AddInt64(&es.pages, 1)
}

func startReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

// StartReport begins periodic logging of runtime and request statistics.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	startReport(ctx, log, interval)
}

func logReport(ctx context.Context, log *Log) {
	cpuPercent, _ := cpu.Percent(0, false)
	memStats, _ := mem.VirtualMemory()
	netStats, _ := gnet.IOCounters(false)

	endpointData := map[string]map[string]int64{}
	endpoints.Range(func(k, v any) bool {
		name := k.(string)
		es := v.(*endpointStat)
		endpointData[name] = map[string]int64{
			"requests": atomic.LoadInt64(&es.requests),
			"pages":    atomic.LoadInt64(&es.pages),
		}
		return true
	})

	cpuPct := 0.0
	if len(cpuPercent) > 0 {
		cpuPct = cpuPercent[0]
	}

	bytesSent := uint64(0)
	bytesRecv := uint64(0)
	if len(netStats) > 0 {
		bytesSent = netStats[0].BytesSent
		bytesRecv = netStats[0].BytesRecv
	}

	memUsed := int64(0)
	if memStats != nil {
		memUsed = int64(memStats.Used)
	}

	fields := Fields{
		"errors":         atomic.LoadInt64(&errorCount),
		"warns":          atomic.LoadInt64(&warnCount),
		"requests_sent":  atomic.LoadInt64(&requestsSent),
		"goroutines":     runtime.NumGoroutine(),
		"cpu_percent":    cpuPct,
		"memory_mb":      memUsed / 1024 / 1024,
		"endpoints":      endpointData,
		"net_bytes_sent": int64(bytesSent),
		"net_bytes_recv": int64(bytesRecv),
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")

	var data []cwtypes.MetricDatum
	data = append(data,
		cwtypes.MetricDatum{MetricName: aws.String("CPUPercent"), Unit: cwtypes.StandardUnitPercent, Value: aws.Float64(cpuPct)},
		cwtypes.MetricDatum{MetricName: aws.String("MemoryMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(memUsed) / 1024 / 1024)},
		cwtypes.MetricDatum{MetricName: aws.String("RequestsSent"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&requestsSent)))},
		cwtypes.MetricDatum{MetricName: aws.String("RequestErrors"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&errorCount)))},
		cwtypes.MetricDatum{MetricName: aws.String("RequestWarns"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&warnCount)))},
		cwtypes.MetricDatum{MetricName: aws.String("NetBytesSent"), Unit: cwtypes.StandardUnitBytes, Value: aws.Float64(float64(bytesSent))},
		cwtypes.MetricDatum{MetricName: aws.String("NetBytesRecv"), Unit: cwtypes.StandardUnitBytes, Value: aws.Float64(float64(bytesRecv))},
	)

	publishMetrics(ctx, data)

	for name, stats := range endpointData {
		log.LogMetric("report", "EndpointRequests", stats["requests"], "counter", Fields{"endpoint": name})
		log.LogMetric("report", "PagesFetched", stats["pages"], "counter", Fields{"endpoint": name})
	}
}
