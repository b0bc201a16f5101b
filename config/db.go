package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-core/models"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func EnvOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := EnvOrDefault("DB_USER", "root")
	pass := EnvOrDefault("DB_PASS", "")
	host := EnvOrDefault("DB_HOST", "127.0.0.1")
	port := EnvOrDefault("DB_PORT", "3306")
	dbName := EnvOrDefault("DB_NAME", "hotel_core")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase puts a minimal baseline in place on an empty database:
// the standard room type catalogue. Rooms, rates and promo codes are
// staff-created.
func SeedDatabase() {
	var count int64
	DB.Model(&models.RoomType{}).Count(&count)
	if count > 0 {
		return
	}

	amenities := func(names ...string) datatypes.JSON {
		raw, _ := json.Marshal(names)
		return datatypes.JSON(raw)
	}

	roomTypes := []models.RoomType{
		{Name: "Standard", Description: "Standard Room", BasePrice: 1500, Capacity: 2, Amenities: amenities("WiFi", "AC")},
		{Name: "Double", Description: "Double Room", BasePrice: 2000, Capacity: 2, Amenities: amenities("WiFi", "AC", "TV")},
		{Name: "Deluxe", Description: "Deluxe Room", BasePrice: 2800, Capacity: 4, Amenities: amenities("WiFi", "AC", "TV", "Minibar")},
		{Name: "Suite", Description: "Suite", BasePrice: 3500, Capacity: 6, Amenities: amenities("WiFi", "AC", "TV", "Minibar", "Pool")},
	}
	if err := DB.Create(&roomTypes).Error; err != nil {
		log.Printf("warning: failed to seed room types: %v", err)
		return
	}
	log.Println("RoomTypes seeded")
}

// ConnectDatabase opens the MySQL connection, migrates the schema and
// seeds baseline data. It sets config.DB on success.
func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}
	DB = db

	// Parent tables first so FK creation succeeds.
	if err := DB.AutoMigrate(
		&models.RoomType{},
		&models.Room{},
		&models.RoomRate{},
		&models.PromoCode{},
		&models.Booking{},
		&models.Payment{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
