package models

import (
	"log"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Profile{},
		&Customer{},
		&Intake{},
		&Item{},
		&ItemImage{},
		&AuditLog{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
