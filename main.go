package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/quochoa304/codex-AI/config"
	"github.com/quochoa304/codex-AI/operator"
	"github.com/quochoa304/codex-AI/posapi"
	"github.com/quochoa304/codex-AI/report"
	"github.com/quochoa304/codex-AI/session"
)

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zcfg.OutputPaths = []string{"stdout"}
	if cfg.LogFile != "" {
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.LogFile)
	}
	return zcfg.Build()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config error: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("init logger error: %v", err)
	}
	defer logger.Sync()

	dbConn, err := sqlx.Open("sqlite3", cfg.OperatorDBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		logger.Fatal("db open error", zap.Error(err))
	}
	defer dbConn.Close()

	if err := operator.EnsureSchema(dbConn); err != nil {
		logger.Fatal("db init error", zap.Error(err))
	}
	profile, err := operator.LoadProfile(dbConn)
	if err != nil {
		logger.Fatal("load operator profile error", zap.Error(err))
	}

	api := posapi.NewClient(cfg.POSBaseURL, time.Duration(cfg.RequestTimeoutSec)*time.Second, logger)
	sess := session.New(api, logger)

	stores, err := api.Stores(context.Background())
	if err != nil {
		logger.Warn("không tải được danh mục cửa hàng lúc khởi động", zap.Error(err))
	}
	sess.SetStores(operator.FilterStores(stores, profile))

	exporter := report.NewExporter(sess, api.StocktakeDetails, cfg.ExportFolderPath, logger)

	mux := http.NewServeMux()
	SetupRoutes(mux, sess, exporter, logger)

	logger.Info("server đang chạy", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		logger.Fatal("server start error", zap.Error(err))
	}
}
