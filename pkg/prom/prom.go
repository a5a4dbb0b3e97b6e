package prom

import (
	"sync"
	"time"

	xhttp "github.com/nimasrn/trade-ledger/pkg/http"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemLedger = "ledger"
)

const (
	MetricMutationsTotal  = "mutations_total"
	MetricRejectionsTotal = "rejections_total"
	MetricDriftOwners     = "balance_drift_owners"
	MetricMutationSeconds = "mutation_duration_seconds"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var registerer prometheus.Registerer = prometheus.DefaultRegisterer

var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionGaugeVec = make(map[string]*prometheus.GaugeVec)
var MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

func Create(host string, env string, nameSpace string) error {
	return CreateWithRegisterer(prometheus.DefaultRegisterer, host, env, nameSpace)
}

// CreateWithRegisterer registers the ledger metrics on reg instead of the
// process-wide default registry.
func CreateWithRegisterer(reg prometheus.Registerer, host string, env string, nameSpace string) error {
	registerer = reg
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(SystemLedger, MetricMutationsTotal, []string{"record", "op"}))
	hasError(createCounterVec(SystemLedger, MetricRejectionsTotal, []string{"record", "op", "reason"}))
	hasError(createGaugeVec(SystemLedger, MetricDriftOwners, []string{"owner"}))
	hasError(createHistogramVec(SystemLedger, MetricMutationSeconds, []string{"record", "op"}))

	return err
}

func ListenAndServer(port string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "url", url)
	if err := s.ListenAndServe(port); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounterVec[subsystem+name] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	}, labels)
	return registerer.Register(MetricCollectionCounterVec[subsystem+name])
}

func createHistogramVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionHistogramVec[subsystem+name] = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, labels)
	return registerer.Register(MetricCollectionHistogramVec[subsystem+name])
}

func createGaugeVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()

	MetricCollectionGaugeVec[subsystem+name] = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	}, labels)
	return registerer.Register(MetricCollectionGaugeVec[subsystem+name])
}

func SetGaugeVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionGaugeVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Set(num)
		return
	}
	logger.Warn("[metrics-server] gauge not found", "subsystem", subsystem, "name", name)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
}

// RecordMutation counts a committed create/update/delete of a ledger record.
func RecordMutation(record, op string) {
	IncCounterVec(SystemLedger, MetricMutationsTotal, record, op)
}

// ObserveMutation records how long a committed or rejected mutation took.
func ObserveMutation(record, op string, d time.Duration) {
	AddHistogramVec(SystemLedger, MetricMutationSeconds, d.Seconds(), record, op)
}

// RecordRejection counts an operation that was refused and left no side effect.
func RecordRejection(record, op, reason string) {
	IncCounterVec(SystemLedger, MetricRejectionsTotal, record, op, reason)
}

// SetDriftOwners publishes how many owners had a cached balance that did not
// match their records on the last reconciliation.
func SetDriftOwners(owner string, count int) {
	SetGaugeVec(SystemLedger, MetricDriftOwners, float64(count), owner)
}
