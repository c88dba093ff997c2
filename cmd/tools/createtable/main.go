package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"lojinha.com.br/app/internal/modules/orders"
	"lojinha.com.br/app/internal/modules/payments"
)

// Creates/updates the schema for the payment core. Run once per environment.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&orders.Order{},
		&orders.OrderItem{},
		&payments.Payment{},
		&payments.PaymentEvent{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	log.Println("schema up to date")
}
