package repomanager

import (
	"context"
	"database/sql"

	"github.com/starfox1230/memorize/internal/dbx"
	"github.com/starfox1230/memorize/internal/server/repositories/audios"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Audios(db dbx.DBTX) audios.Repository
}
