package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weibolens/weibolens/internal/config"
	"github.com/weibolens/weibolens/internal/domain/model"
	pkg "github.com/weibolens/weibolens/pkg/logger"
)

// Database archives accepted posts to Postgres as a secondary sink next
// to the CSV store. The CSV file is the durable contract; this archive is
// best-effort and the caller only logs its failures.
type Database struct {
	Pool *pgxpool.Pool
	Log  pkg.Logger
}

func NewPostgresPool(log pkg.Logger, cfg config.DatabaseConfig) (*Database, error) {
	pool, err := pgxpool.New(context.Background(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &Database{
		Pool: pool,
		Log:  log,
	}, nil
}

func (d *Database) SaveBatch(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		d.Log.Info("No posts to archive")
		return nil
	}

	rows := make([][]interface{}, 0, len(posts))
	for _, p := range posts {
		var createdAt interface{}
		if p.TimeValid {
			createdAt = p.CreatedAt
		}
		rows = append(rows, []interface{}{
			p.ID,
			p.AuthorID,
			p.ScreenName,
			p.Text,
			createdAt,
			p.Source,
			p.AttitudesCount,
			p.CommentsCount,
			p.RepostsCount,
		})
	}

	_, err := d.Pool.CopyFrom(
		ctx,
		pgx.Identifier{"weibo_posts"},
		[]string{"id", "author_id", "screen_name", "text", "created_at", "source", "attitudes_count", "comments_count", "reposts_count"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		d.Log.Error("CopyFrom failed", "err", err)
		return err
	}

	d.Log.Info("Archived posts to database", "count", len(posts))
	return nil
}
