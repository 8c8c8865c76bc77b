//go:build (dev_test || staging_test) && integration

package integration

import (
	"log"
	"os"
	"testing"

	_ "time/tzdata"

	"github.com/propnest/rental-backend/internal/app"
	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/utils"
)

var (
	cfg    *config.Config
	testDB *app.App
)

// TestMain connects once to the database named by the loaded config. The
// schema must already be migrated.
func TestMain(m *testing.M) {
	utils.InitLogger(config.AppName)
	cfg = config.LoadConfig()

	var err error
	testDB, err = app.NewApp(cfg)
	if err != nil {
		log.Fatalf("integration DB connect failed: %v", err)
	}
	log.Printf("rental-service integration tests: DB connected, env=%s", os.Getenv("ENV"))

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}
