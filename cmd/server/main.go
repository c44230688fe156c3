package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/baditaflorin/l"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/baditaflorin/go_institution_matcher/internal/adapters/metrics"
	"github.com/baditaflorin/go_institution_matcher/internal/adapters/records"
	"github.com/baditaflorin/go_institution_matcher/pkg/matcher"
)

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB
	DefaultConcurrency    = 0                // 0 means use GOMAXPROCS
	DefaultBatchTimeout   = 60 * time.Second
)

var (
	instMatcher *matcher.Matcher
	reference   []matcher.Record
	recorder    *metrics.Recorder
	metricsPage fasthttp.RequestHandler
	batchTTL    time.Duration

	// Logger instance
	logger l.Logger
)

// MatchRequest resolves one query. Records, when present, replace the
// reference collection loaded at startup for this request only.
type MatchRequest struct {
	Query   string           `json:"query"`
	Records []matcher.Record `json:"records,omitempty"`
}

// BatchRequest resolves many queries. Each entry is a string or a record.
type BatchRequest struct {
	Queries []interface{}    `json:"queries"`
	Records []matcher.Record `json:"records,omitempty"`
}

// BatchResponse carries per-query results and their summary.
type BatchResponse struct {
	Items          []matcher.BatchItem `json:"items"`
	Summary        matcher.Summary     `json:"summary"`
	ProcessingTime string              `json:"processing_time"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("INSTMATCH_PORT", DefaultPort), "HTTP server port")
	readTimeout := flag.Duration("read-timeout", envDuration("INSTMATCH_READ_TIMEOUT", DefaultReadTimeout), "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", envDuration("INSTMATCH_WRITE_TIMEOUT", DefaultWriteTimeout), "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", envInt("INSTMATCH_MAX_REQUEST_SIZE", DefaultMaxRequestSize), "Maximum request size in bytes")
	concurrency := flag.Int("concurrency", envInt("INSTMATCH_CONCURRENCY", DefaultConcurrency), "Maximum number of concurrent requests (0 = GOMAXPROCS)")
	workers := flag.Int("workers", envInt("INSTMATCH_WORKERS", 0), "Batch workers per request (0 = GOMAXPROCS)")
	batchTimeout := flag.Duration("batch-timeout", envDuration("INSTMATCH_BATCH_TIMEOUT", DefaultBatchTimeout), "Upper bound for one batch request")
	recordsFile := flag.String("records", os.Getenv("INSTMATCH_RECORDS"), "JSON reference collection loaded at startup")
	configFile := flag.String("config", os.Getenv("INSTMATCH_CONFIG"), "TOML thresholds and tables")
	warmUp := flag.Bool("warm-up", envBool("INSTMATCH_WARM_UP", true), "Perform system warm-up on startup")
	logFile := flag.String("log-file", os.Getenv("INSTMATCH_LOG_FILE"), "Log file path (empty = stdout)")
	flag.Parse()

	var (
		err     error
		logSink *os.File
	)
	logger, logSink, err = createLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLogger(logger, logSink)

	logger.Info("Starting institution matcher HTTP server",
		"port", *port,
		"read_timeout", *readTimeout,
		"write_timeout", *writeTimeout,
		"max_request_size", *maxRequestSize,
		"concurrency", *concurrency,
		"records", *recordsFile,
		"config", *configFile,
	)

	batchTTL = *batchTimeout
	initMatcher(*configFile, *recordsFile, *workers, *warmUp)
	initMetrics()

	server := &fasthttp.Server{
		Handler:               requestHandler,
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		MaxRequestBodySize:    *maxRequestSize,
		Concurrency:           *concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
		Logger:                nil, // we'll handle logging ourselves
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("Server listening", "address", fmt.Sprintf(":%d", *port))
	if err := server.ListenAndServe(fmt.Sprintf(":%d", *port)); err != nil {
		logger.Error("Server error", "error", err)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

func initMatcher(configFile, recordsFile string, workers int, warmUp bool) {
	opts := []matcher.Option{
		matcher.WithLogger(logger),
		matcher.WithWorkers(workers),
		matcher.WithMemoization(true),
	}
	if configFile != "" {
		opts = append(opts, matcher.WithConfigFile(configFile))
	}
	if warmUp {
		opts = append(opts, matcher.WithWarmUp(true))
	}

	var err error
	instMatcher, err = matcher.New(opts...)
	if err != nil {
		logger.Error("Failed to initialize matcher", "error", err)
		os.Exit(1)
	}

	if recordsFile != "" {
		reference, err = records.LoadFile(recordsFile)
		if err != nil {
			logger.Error("Failed to load reference collection", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Matcher initialized successfully",
		"warm_up", warmUp,
		"records", len(reference),
		"cpus", runtime.NumCPU(),
	)
}

func initMetrics() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	var err error
	recorder, err = metrics.NewRecorder(reg)
	if err != nil {
		logger.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}
	metricsPage = fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

// requestHandler is the main fasthttp request handler
func requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Server", "InstitutionMatcher")

	switch string(ctx.Path()) {
	case "/health":
		ctx.Response.Header.Set("Content-Type", "application/json")
		handleHealthCheck(ctx)
	case "/match":
		ctx.Response.Header.Set("Content-Type", "application/json")
		handleMatch(ctx)
	case "/batch":
		ctx.Response.Header.Set("Content-Type", "application/json")
		handleBatch(ctx)
	case "/metrics":
		metricsPage(ctx)
	default:
		ctx.Response.Header.Set("Content-Type", "application/json")
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found")
	}

	logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

func handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, map[string]interface{}{
		"status":  "ok",
		"records": len(reference),
		"time":    time.Now().Format(time.RFC3339),
	})
}

func handleMatch(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req MatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	recs := req.Records
	if recs == nil {
		recs = reference
	}

	start := time.Now()
	res := instMatcher.Match(req.Query, recs)
	recorder.Observe(res, time.Since(start))

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, res)
}

func handleBatch(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req BatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	recs := req.Records
	if recs == nil {
		recs = reference
	}
	queries := make([]string, len(req.Queries))
	for i, q := range req.Queries {
		queries[i] = instMatcher.QueryText(q)
	}

	c, cancel := context.WithTimeout(context.Background(), batchTTL)
	defer cancel()

	start := time.Now()
	items, err := instMatcher.ParallelBatchMatch(c, queries, recs, nil)
	took := time.Since(start)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		writeJSONError(ctx, "Batch interrupted: "+err.Error())
		return
	}
	recorder.ObserveBatch(items, took)

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, BatchResponse{
		Items:          items,
		Summary:        matcher.Summarize(items),
		ProcessingTime: took.String(),
	})
}

// writeJSONResponse writes a JSON response to the context
func writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON response", "error", err)
		writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}

// createLogger creates and configures a logger. The returned file is nil
// when logging to stdout; otherwise the caller owns it.
func createLogger(logFile string) (l.Logger, *os.File, error) {
	factory := l.NewStandardFactory()

	var (
		output io.Writer = os.Stdout
		file   *os.File
	)
	if logFile != "" {
		var err error
		file, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  true,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, file, nil
}

// closeLogger flushes the logger before closing the file it writes to. The
// logger may already have closed it.
func closeLogger(logger l.Logger, file *os.File) {
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing logger: %v\n", err)
	}
	if file == nil {
		return
	}
	if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
	}
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
