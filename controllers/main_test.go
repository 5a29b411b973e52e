package controllers

import (
	"os"
	"testing"

	"unifiedweb_go/config"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		MaxFileSize:       10 << 20,
		AllowedExtensions: "xlsx,xls,csv",
		GradeSystemID:     "12-point",
		JWTSecret:         "test-secret-0123456789",
	}
	os.Exit(m.Run())
}
