package geocode

import (
	"log"

	"github.com/JBLarson/dayAndNight/internal/db"
	"gorm.io/gorm"
)

func Init(conn *gorm.DB) {
	if err := db.EnsureSchema(conn, "geo"); err != nil {
		log.Fatal("Failed to ensure schema geo: ", err)
	}

	if err := conn.AutoMigrate(&Location{}, &SearchLog{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
