package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-redis/redis/v8"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"

	"github.com/silsin/VPN-Backend/config"
	"github.com/silsin/VPN-Backend/internal/handler/admin_handler"
	"github.com/silsin/VPN-Backend/internal/handler/handshake_handler"
	"github.com/silsin/VPN-Backend/internal/handler/mobile_handler"
	"github.com/silsin/VPN-Backend/internal/repository/ad_store"
	"github.com/silsin/VPN-Backend/internal/repository/catalog_store"
	"github.com/silsin/VPN-Backend/internal/repository/conn_counter"
	"github.com/silsin/VPN-Backend/internal/repository/connection_store"
	"github.com/silsin/VPN-Backend/internal/repository/dialog_store"
	"github.com/silsin/VPN-Backend/internal/repository/session_store"
	"github.com/silsin/VPN-Backend/internal/routes"
	"github.com/silsin/VPN-Backend/internal/service/handshake_service"
)

func init() {
	binding.EnableDecoderDisallowUnknownFields = true // отвергает лишние поля у запроса
}

func main() {
	// загрузка конфига
	cfg := config.MustLoad()

	// статические ключи Layer-1; без них процесс не поднимается
	staticKeys, err := handshake_service.LoadStaticKeys(cfg.HSKeys)
	if err != nil {
		panic(err)
	}

	// postgres
	db, err := sql.Open("postgres", cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("postgres open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}

	if err := runMigrations(db, cfg.Postgres.MigrationsDir); err != nil {
		log.Fatalf("migrations error: %v", err)
	}

	// redis для живых счётчиков подключений
	rClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.ServerAddr,
	})
	if err := rClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis connection error: %v", err)
	}

	// репозитории
	sessions := session_store.NewPostgresSessionStore(db)
	catalog := catalog_store.NewPostgresCatalogStore(db)
	connections := connection_store.NewPostgresConnectionStore(db)
	dialogs := dialog_store.NewPostgresDialogStore(db)
	ads := ad_store.NewPostgresAdStore(db)
	counter := conn_counter.NewRedisConnCounter(rClient, cfg.Redis.ConnCounterTTL)

	// сервисный слой
	crypto := handshake_service.NewCrypto(staticKeys)
	hsService := handshake_service.NewService(crypto, sessions)

	// хендлеры
	hsHandler := handshake_handler.NewHSHandler(hsService)
	mobileHandler := mobile_handler.NewMobileHandler(catalog, connections, counter, dialogs, ads)
	adminHandler := admin_handler.NewAdminHandler(catalog, dialogs, ads)

	// маршрутизация
	r := gin.Default()
	r.Use(cors.Default())
	routes.RegisterRoutes(r, cfg, hsHandler, mobileHandler, adminHandler, hsService)

	// запуск
	logrus.Infof("Starting server on %s", cfg.HTTPServ.ServerAddr)
	if err := r.Run(cfg.HTTPServ.ServerAddr); err != nil {
		panic(err)
	}
}

// runMigrations накатывает goose-миграции из каталога migrations
func runMigrations(db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, dir)
}
