package telegram

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ebarrios/tgsearch/internal/config"
)

// NewSessionClient creates an authorized telegram client from an existing
// session. When TG_SESSION_STRING is set it is used in-memory. Otherwise the
// session lives in a sqlite file under SESSION_DIR/SESSION_NAMESPACE, so
// several deployments on one host keep isolated sessions; SESSION_STORAGE can
// move it into the main postgres database instead, which survives container
// rebuilds without a volume.
func NewSessionClient(cfg *config.Config) (*gotgproto.Client, error) {
	opts := &gotgproto.ClientOpts{
		DisableCopyright: true,
	}

	if cfg.TGSessionStr != "" {
		opts.Session = sessionMaker.StringSession(cfg.TGSessionStr)
		opts.InMemory = true
	} else {
		var dialector gorm.Dialector
		if cfg.SessionStorage == "postgres" {
			dialector = postgres.Open(cfg.DatabaseURL)
		} else {
			dir := filepath.Join(cfg.SessionDir, cfg.SessionNamespace)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create session dir: %w", err)
			}
			dialector = sqlite.Open(filepath.Join(dir, "session.db"))
		}
		opts.Session = sessionMaker.SqlSession(dialector)
	}

	client, err := gotgproto.NewClient(
		cfg.TGApiID,
		cfg.TGApiHash,
		gotgproto.ClientTypePhone(""), // empty = use the stored session
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	return client, nil
}
