package repomanager

import (
	"context"
	"database/sql"

	"github.com/dbelyaev/recapd/internal/dbx"
	"github.com/dbelyaev/recapd/internal/server/repositories/conversations"
	"github.com/dbelyaev/recapd/internal/server/repositories/refreshtokens"
	"github.com/dbelyaev/recapd/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Conversations(db dbx.DBTX) conversations.Repository
}
