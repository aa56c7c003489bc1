package db

import (
	"fmt"

	"github.com/pseudovision/pseudovision/common"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

/*
GetSqliteDialector define Sqlite GORM dialector

	@param dbFile string - Sqlite DB file
	@return GORM sqlite dialector
*/
func GetSqliteDialector(dbFile string) gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("%s?_foreign_keys=on", dbFile))
}

/*
GetInMemSqliteDialector define a in-memory Sqlite GORM dialector

	@param dbName string - in-memory Sqlite DB name
	@return GORM sqlite dialector
*/
func GetInMemSqliteDialector(dbName string) gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", dbName))
}

/*
GetPostgresDialector define Postgres GORM dialector

	@param cfg common.PostgresConfig - Postgres connection parameters
	@param password string - connecting user's password
	@return GORM postgres dialector
*/
func GetPostgresDialector(cfg common.PostgresConfig, password string) gorm.Dialector {
	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, password,
	)
	if cfg.SSL.Enabled {
		dsn += " sslmode=require"
		if cfg.SSL.CAFile != nil {
			dsn += fmt.Sprintf(" sslrootcert=%s", *cfg.SSL.CAFile)
		}
	} else {
		dsn += " sslmode=disable"
	}
	return postgres.Open(dsn)
}
