package store

import (
	"os"
	"testing"

	"github.com/Luismorlan/newsreader/utils"
	"github.com/Luismorlan/newsreader/utils/dotenv"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func TestPostgresStore(t *testing.T) {
	if !utils.IsPostgresConfigured() {
		t.Skip("DB_HOST not set, skipping postgres store test")
	}
	runStoreSuite(t, func(t *testing.T) Store {
		db, _ := utils.CreateTempDB(t)
		return NewPostgresStore(db)
	})
}
